package validator

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	maxFileNameLen    = 255
	maxURLLen         = 2048
	maxExpiryHorizon  = 10 * 365 * 24 * time.Hour
	asciiControlStart = 32
	asciiDelete       = 127
	schemeHTTP        = "http"
	schemeHTTPS       = "https"

	errFileNameEmptyFmt        = "file name cannot be empty"
	errFileNameMaxLengthFmt    = "file name must not exceed %d characters"
	errFileNameControlCharsFmt = "file name cannot contain control characters"
	errURLEmptyFmt             = "external URL cannot be empty"
	errURLMaxLengthFmt         = "external URL must not exceed %d characters"
	errURLInvalidFmt           = "external URL must be an absolute http or https URL"
	errDownloadLimitRangeFmt   = "download limit must be between %d and %d"
	errExpiryTooFarFmt         = "expiry must be within %d days"
)

func FileName(name string) error {
	if name == "" {
		return fmt.Errorf(errFileNameEmptyFmt)
	}

	if len(name) > maxFileNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxFileNameLen)
	}

	if hasControlChars(name) {
		return fmt.Errorf(errFileNameControlCharsFmt)
	}

	return nil
}

// ExternalURL parses raw and requires an absolute http(s) URL with a host.
func ExternalURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf(errURLEmptyFmt)
	}

	if len(raw) > maxURLLen {
		return nil, fmt.Errorf(errURLMaxLengthFmt, maxURLLen)
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf(errURLInvalidFmt)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != schemeHTTP && scheme != schemeHTTPS {
		return nil, fmt.Errorf(errURLInvalidFmt)
	}

	return u, nil
}

func DownloadLimit(limit, lo, hi int) error {
	if limit < lo || limit > hi {
		return fmt.Errorf(errDownloadLimitRangeFmt, lo, hi)
	}
	return nil
}

// Expiry rejects timestamps so far out that they are almost certainly a unit
// mistake. Past timestamps are allowed and simply produce an expired share.
func Expiry(expiresAt, now time.Time) error {
	if expiresAt.After(now.Add(maxExpiryHorizon)) {
		return fmt.Errorf(errExpiryTooFarFmt, int(maxExpiryHorizon/(24*time.Hour)))
	}
	return nil
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if r < asciiControlStart || r == asciiDelete {
			return true
		}
	}
	return false
}
