package share

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	apperrors "share-portal/pkg/errors"
)

const (
	CodeLength = 5
	codeMin    = 10000
	codeMax    = 99999

	// DefaultCodeAttempts bounds GenerateUniqueCode when no limit is configured.
	DefaultCodeAttempts = 20

	errFailedDrawCodeFmt     = "failed to draw share code: %w"
	errCodeSpaceExhaustedFmt = "no free share code after %d attempts: %w"
)

var codeSpan = big.NewInt(codeMax - codeMin + 1)

// NewCode draws a code uniformly from [10000, 99999] using entropy from src.
// A nil src means crypto/rand.
func NewCode(src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}

	n, err := rand.Int(src, codeSpan)
	if err != nil {
		return "", fmt.Errorf(errFailedDrawCodeFmt, err)
	}

	return fmt.Sprintf("%d", codeMin+n.Int64()), nil
}

func IsValidCode(code string) bool {
	if len(code) != CodeLength || code[0] == '0' {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// CodeChecker reports whether a share code is already taken.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// GenerateUniqueCode draws codes until one is free in store, giving up with
// ErrExhaustedCodeSpace after maxAttempts draws.
func GenerateUniqueCode(ctx context.Context, store CodeChecker, src io.Reader, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultCodeAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := NewCode(src)
		if err != nil {
			return "", err
		}

		taken, err := store.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf(errCodeSpaceExhaustedFmt, maxAttempts, apperrors.ErrExhaustedCodeSpace)
}
