package share

import (
	"encoding/json"
	"testing"
	"time"

	apperrors "share-portal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validBlobRecord() *Record {
	now := time.Now().UTC()
	return &Record{
		ID:            uuid.New(),
		FileName:      "report.pdf",
		ShareCode:     "54321",
		Kind:          KindBlob,
		BlobURL:       strPtr("https://blob.example.com/report.pdf"),
		DownloadLimit: DefaultDownloadLimit,
		ExpiresAt:     now.Add(DefaultTTL),
		UploadTime:    now,
	}
}

func TestRecord_Validate(t *testing.T) {
	assert.NoError(t, validBlobRecord().Validate())

	link := validBlobRecord()
	link.Kind = KindExternalLink
	link.BlobURL = nil
	link.ExternalURL = strPtr("https://example.com/file.zip")
	assert.NoError(t, link.Validate())

	tests := []struct {
		name   string
		mutate func(r *Record)
	}{
		{"empty name", func(r *Record) { r.FileName = "" }},
		{"bad code", func(r *Record) { r.ShareCode = "abc" }},
		{"zero limit", func(r *Record) { r.DownloadLimit = 0 }},
		{"negative count", func(r *Record) { r.DownloadCount = -1 }},
		{"missing blob url", func(r *Record) { r.BlobURL = nil }},
		{"both locators", func(r *Record) { r.ExternalURL = strPtr("https://example.com") }},
		{"unknown kind", func(r *Record) { r.Kind = "ftp" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validBlobRecord()
			tt.mutate(rec)
			assert.ErrorIs(t, rec.Validate(), apperrors.ErrInvalidInput)
		})
	}
}

func TestRecord_Locator(t *testing.T) {
	rec := validBlobRecord()
	loc, err := rec.Locator()
	require.NoError(t, err)
	assert.Equal(t, "https://blob.example.com/report.pdf", loc)

	rec.Kind = KindExternalLink
	_, err = rec.Locator()
	assert.ErrorIs(t, err, apperrors.ErrLocatorMissing)

	rec.ExternalURL = strPtr("https://example.com/x")
	loc, err = rec.Locator()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", loc)
}

func TestRecord_PublicOmitsLocators(t *testing.T) {
	rec := validBlobRecord()

	body, err := json.Marshal(rec.Public())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.NotContains(t, fields, "blobUrl")
	assert.NotContains(t, fields, "externalUrl")
	assert.Equal(t, "54321", fields["shareCode"])
	assert.Equal(t, "blob", fields["type"])
}

func TestUpdate_Empty(t *testing.T) {
	assert.True(t, Update{}.Empty())
	n := 1
	assert.False(t, Update{DownloadCount: &n}.Empty())
}
