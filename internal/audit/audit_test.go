package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu     sync.Mutex
	events []*Event
	done   chan struct{}
	err    error
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{done: make(chan struct{}, 8)}
}

func (w *recordingWriter) WriteEvent(_ context.Context, event *Event) error {
	w.mu.Lock()
	w.events = append(w.events, event)
	w.mu.Unlock()
	w.done <- struct{}{}
	return w.err
}

func (w *recordingWriter) wait(t *testing.T) *Event {
	t.Helper()
	select {
	case <-w.done:
	case <-time.After(time.Second):
		t.Fatal("audit event was not written")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.events[len(w.events)-1]
}

func TestLogger_LogFillsDefaults(t *testing.T) {
	w := newRecordingWriter()
	l := NewLogger(w)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	require.NoError(t, l.Log(context.Background(), &Event{
		ResourceType: ResourceTypeShare,
		Action:       ActionDelete,
		Status:       StatusSuccess,
		Metadata:     map[string]any{"share_code": "12345", "token": "abc"},
	}))

	ev := w.wait(t)
	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, fixed, ev.CreatedAt)
	assert.Equal(t, "delete_share", ev.EventType)
	assert.Equal(t, "12345", ev.Metadata["share_code"])
	assert.Equal(t, "[REDACTED]", ev.Metadata["token"])
}

func newContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/file/12345/download", nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
	req.Header.Set("User-Agent", "curl/8")
	rec := httptest.NewRecorder()
	rec.Header().Set(echo.HeaderXRequestID, "req-1")
	return e.NewContext(req, rec)
}

func TestLogger_LogFromContext(t *testing.T) {
	w := newRecordingWriter()
	l := NewLogger(w)
	id := uuid.New()

	require.NoError(t, l.LogFromContext(newContext(), ResourceTypeShare, &id, ActionDownload, StatusSuccess, nil))

	ev := w.wait(t)
	assert.Equal(t, &id, ev.ResourceID)
	assert.Equal(t, "203.0.113.9", ev.IPAddress)
	assert.Equal(t, "curl/8", ev.UserAgent)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, StatusSuccess, ev.Status)
}

func TestLogger_LogError(t *testing.T) {
	w := newRecordingWriter()
	w.err = errors.New("disk full")
	l := NewLogger(w)

	require.NoError(t, l.LogError(newContext(), ResourceTypeAdmin, nil, ActionLogin, errors.New("invalid admin password")))

	ev := w.wait(t)
	assert.Equal(t, StatusFailure, ev.Status)
	assert.Equal(t, "invalid admin password", ev.ErrorMessage)
	assert.Equal(t, "login_admin", ev.EventType)
}

type blockingWriter struct {
	release chan struct{}
	written chan *Event
}

func (w *blockingWriter) WriteEvent(_ context.Context, event *Event) error {
	<-w.release
	w.written <- event
	return nil
}

func TestLogger_WaitDrainsPendingWrites(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{}), written: make(chan *Event, 1)}
	l := NewLogger(w)

	require.NoError(t, l.LogFromContext(newContext(), ResourceTypeShare, nil, ActionRead, StatusSuccess, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)

	close(w.release)
	require.NoError(t, l.Wait(context.Background()))

	select {
	case ev := <-w.written:
		assert.Equal(t, ActionRead, ev.Action)
	default:
		t.Fatal("Wait returned before the write finished")
	}
}

func TestLogger_WaitWithNothingPending(t *testing.T) {
	l := NewLogger(newRecordingWriter())
	assert.NoError(t, l.Wait(context.Background()))
}
