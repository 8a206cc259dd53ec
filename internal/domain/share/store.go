package share

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the durable home of share records. Lookups return (nil, nil) when
// nothing matches; every driver failure wraps apperrors.ErrStorage.
type Store interface {
	CodeChecker

	Create(ctx context.Context, rec *Record) error
	GetByCode(ctx context.Context, code string) (*Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
	Update(ctx context.Context, id uuid.UUID, upd Update) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// ConsumeDownload increments the download counter only while the record
	// is unexpired at now and below its limit, and reports whether it did.
	ConsumeDownload(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}
