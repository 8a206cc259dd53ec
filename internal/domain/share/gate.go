package share

import (
	"time"

	apperrors "share-portal/pkg/errors"
)

const (
	msgShareNotFound = "file not found"
	msgShareExpired  = "file has expired"
	msgLimitReached  = "download limit reached"
)

// Decision is the outcome of evaluating a record against the current time.
type Decision int

const (
	Allowed Decision = iota
	Expired
	LimitReached
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Expired:
		return "expired"
	case LimitReached:
		return "limit_reached"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Err returns the typed error for a refusal, or nil for Allowed.
func (d Decision) Err() error {
	switch d {
	case Allowed:
		return nil
	case Expired:
		return apperrors.Expired(msgShareExpired)
	case LimitReached:
		return apperrors.LimitReached(msgLimitReached)
	default:
		return apperrors.NotFound(msgShareNotFound)
	}
}

// Evaluate decides whether rec may be downloaded at now. Expiry is checked
// before the download limit. It never modifies rec.
func Evaluate(rec *Record, now time.Time) Decision {
	if rec == nil {
		return NotFound
	}
	if now.After(rec.ExpiresAt) {
		return Expired
	}
	if rec.DownloadCount >= rec.DownloadLimit {
		return LimitReached
	}
	return Allowed
}
