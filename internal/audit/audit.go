package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"share-portal/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	writeTimeout = 2 * time.Second

	metadataKeyError = "error"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeShare ResourceType = "share"
	ResourceTypeAdmin ResourceType = "admin"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionDownload Action = "download"
	ActionDelete   Action = "delete"
	ActionList     Action = "list"
	ActionLogin    Action = "login"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID
	EventType    string
	ResourceType ResourceType
	ResourceID   *uuid.UUID
	Action       Action
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// EventWriter persists audit events; each database backend provides one.
type EventWriter interface {
	WriteEvent(ctx context.Context, event *Event) error
}

// Logger handles audit logging
type Logger struct {
	writer  EventWriter
	now     func() time.Time
	pending sync.WaitGroup
}

// NewLogger creates a new audit logger
func NewLogger(writer EventWriter) *Logger {
	return &Logger{writer: writer, now: time.Now}
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = l.now()
	}
	if event.EventType == "" {
		event.EventType = string(event.Action) + "_" + string(event.ResourceType)
	}
	if event.Metadata != nil {
		event.Metadata = logger.SanitizeMap(event.Metadata)
	}

	return l.writer.WriteEvent(ctx, event)
}

// LogFromContext creates and logs an audit event from an Echo context asynchronously
func (l *Logger) LogFromContext(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, status Status, metadata map[string]any) error {
	l.logAsync(c, eventFromContext(c, resourceType, resourceID, action, status, metadata))
	return nil
}

// LogError logs a failed action with error details asynchronously
func (l *Logger) LogError(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, err error) error {
	event := eventFromContext(c, resourceType, resourceID, action, StatusFailure, map[string]any{
		metadataKeyError: err.Error(),
	})
	event.ErrorMessage = err.Error()

	l.logAsync(c, event)
	return nil
}

func eventFromContext(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, status Status, metadata map[string]any) *Event {
	return &Event{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Status:       status,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
		Metadata:     metadata,
	}
}

// Wait blocks until every asynchronous write has finished or ctx is done.
// Call it after the HTTP server stops and before the database closes.
func (l *Logger) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Logger) logAsync(c echo.Context, event *Event) {
	out := c.Logger().Output()

	// Log asynchronously with timeout context
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			// Log to stderr but don't block the request
			fmt.Fprintf(out, "audit log failed: %v\n", err)
		}
	}()
}
