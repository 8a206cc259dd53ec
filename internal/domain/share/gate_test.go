package share

import (
	"testing"
	"time"

	apperrors "share-portal/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func gateRecord(count, limit int, expiresAt time.Time) *Record {
	url := "https://blob.example.com/a.txt"
	return &Record{
		FileName:      "a.txt",
		ShareCode:     "12345",
		Kind:          KindBlob,
		BlobURL:       &url,
		DownloadLimit: limit,
		DownloadCount: count,
		ExpiresAt:     expiresAt,
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  *Record
		want Decision
	}{
		{"nil record", nil, NotFound},
		{"fresh record", gateRecord(0, 10, now.Add(time.Hour)), Allowed},
		{"one below limit", gateRecord(9, 10, now.Add(time.Hour)), Allowed},
		{"at limit", gateRecord(10, 10, now.Add(time.Hour)), LimitReached},
		{"over limit", gateRecord(11, 10, now.Add(time.Hour)), LimitReached},
		{"expired", gateRecord(0, 10, now.Add(-time.Second)), Expired},
		{"expires exactly now", gateRecord(0, 10, now), Allowed},
		{"expired and exhausted", gateRecord(10, 10, now.Add(-time.Second)), Expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.rec, now))
		})
	}
}

func TestEvaluate_DoesNotMutate(t *testing.T) {
	now := time.Now()
	rec := gateRecord(3, 5, now.Add(time.Hour))
	before := *rec

	first := Evaluate(rec, now)
	second := Evaluate(rec, now)

	assert.Equal(t, first, second)
	assert.Equal(t, before, *rec)
}

func TestEvaluate_BoundaryAfterOneDownload(t *testing.T) {
	now := time.Now()
	rec := gateRecord(4, 5, now.Add(time.Hour))

	assert.Equal(t, Allowed, Evaluate(rec, now))
	rec.DownloadCount++
	assert.Equal(t, LimitReached, Evaluate(rec, now))
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, Allowed.Err())
	assert.ErrorIs(t, Expired.Err(), apperrors.ErrExpired)
	assert.ErrorIs(t, LimitReached.Err(), apperrors.ErrLimitReached)
	assert.ErrorIs(t, NotFound.Err(), apperrors.ErrNotFound)
}
