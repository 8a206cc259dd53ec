package share

import (
	"fmt"
	"time"

	apperrors "share-portal/pkg/errors"

	"github.com/google/uuid"
)

const (
	DefaultDownloadLimit = 10
	MinDownloadLimit     = 1
	MaxDownloadLimit     = 1000
	DefaultTTL           = 7 * 24 * time.Hour

	errFileNameRequired        = "file name is required"
	errShareCodeFormat         = "share code must be 5 digits"
	errDownloadLimitPositive   = "download limit must be positive"
	errDownloadCountNegative   = "download count cannot be negative"
	errUnknownKindFmt          = "unknown record kind %q"
	errBlobLocatorMismatch     = "blob record must carry a blob URL and no external URL"
	errExternalLocatorMismatch = "external link record must carry an external URL and no blob URL"
)

// Kind selects which locator field of a Record is meaningful.
type Kind string

const (
	KindBlob         Kind = "blob"
	KindExternalLink Kind = "externalLink"
)

func (k Kind) Valid() bool {
	return k == KindBlob || k == KindExternalLink
}

type Record struct {
	ID            uuid.UUID
	FileName      string
	ShareCode     string
	Kind          Kind
	BlobURL       *string
	ExternalURL   *string
	DownloadLimit int
	DownloadCount int
	ExpiresAt     time.Time
	UploadTime    time.Time
}

// PublicRecord is the record as shown to recipients and admins: locators are
// never part of it.
type PublicRecord struct {
	ID            uuid.UUID `json:"id"`
	FileName      string    `json:"fileName"`
	ShareCode     string    `json:"shareCode"`
	Kind          Kind      `json:"type"`
	DownloadLimit int       `json:"downloadLimit"`
	DownloadCount int       `json:"downloadCount"`
	ExpiresAt     time.Time `json:"expiresAt"`
	UploadTime    time.Time `json:"uploadTime"`
}

// Update lists the fields that may change after creation. Nil fields are left
// untouched; an Update with no fields set is a no-op.
type Update struct {
	DownloadCount *int
}

func (u Update) Empty() bool {
	return u.DownloadCount == nil
}

func (r *Record) Public() PublicRecord {
	return PublicRecord{
		ID:            r.ID,
		FileName:      r.FileName,
		ShareCode:     r.ShareCode,
		Kind:          r.Kind,
		DownloadLimit: r.DownloadLimit,
		DownloadCount: r.DownloadCount,
		ExpiresAt:     r.ExpiresAt,
		UploadTime:    r.UploadTime,
	}
}

// Locator resolves the URL a download should be sent to.
func (r *Record) Locator() (string, error) {
	var loc *string
	switch r.Kind {
	case KindBlob:
		loc = r.BlobURL
	case KindExternalLink:
		loc = r.ExternalURL
	}
	if loc == nil || *loc == "" {
		return "", apperrors.ErrLocatorMissing
	}
	return *loc, nil
}

func (r *Record) Validate() error {
	if r.FileName == "" {
		return apperrors.InvalidInput(errFileNameRequired)
	}
	if !IsValidCode(r.ShareCode) {
		return apperrors.InvalidInput(errShareCodeFormat)
	}
	if r.DownloadLimit < MinDownloadLimit {
		return apperrors.InvalidInput(errDownloadLimitPositive)
	}
	if r.DownloadCount < 0 {
		return apperrors.InvalidInput(errDownloadCountNegative)
	}

	switch r.Kind {
	case KindBlob:
		if isBlank(r.BlobURL) || !isBlank(r.ExternalURL) {
			return apperrors.InvalidInput(errBlobLocatorMismatch)
		}
	case KindExternalLink:
		if isBlank(r.ExternalURL) || !isBlank(r.BlobURL) {
			return apperrors.InvalidInput(errExternalLocatorMismatch)
		}
	default:
		return apperrors.InvalidInput(fmt.Sprintf(errUnknownKindFmt, r.Kind))
	}

	return nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}
