package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "share-portal/pkg/errors"
	"share-portal/pkg/password"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAdmin(t *testing.T) (*Admin, *JWTService) {
	t.Helper()
	hash, err := password.HashWithCost("letmein", password.MinCost)
	require.NoError(t, err)

	tokens := NewJWTService(testSecret, time.Hour)
	return NewAdmin(hash, tokens), tokens
}

func TestAdmin_Login(t *testing.T) {
	admin, tokens := newTestAdmin(t)

	token, err := admin.Login("letmein")
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestAdmin_LoginRejected(t *testing.T) {
	admin, _ := newTestAdmin(t)

	for _, pw := range []string{"", "wrong", "letmein "} {
		_, err := admin.Login(pw)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, pw)
	}
}

func TestJWTService_Expired(t *testing.T) {
	tokens := NewJWTService(testSecret, time.Minute)
	issued := time.Now().Add(-time.Hour)
	tokens.now = func() time.Time { return issued }

	token, err := tokens.Generate()
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(token)
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService(testSecret, time.Hour).Generate()
	require.NoError(t, err)

	_, err = NewJWTService("ffffffffffffffffffffffffffffffff", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsOtherSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	tokens := NewJWTService(testSecret, time.Hour)
	valid, err := tokens.Generate()
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
	}

	e := echo.New()
	mw := NewMiddleware(tokens).RequireAdmin()
	next := func(c echo.Context) error {
		claims, err := GetAdminClaims(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, claims.Subject)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/files", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			require.NoError(t, mw(next)(e.NewContext(req, rec)))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetAdminClaims_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := GetAdminClaims(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
