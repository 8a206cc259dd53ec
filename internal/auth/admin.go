package auth

import (
	apperrors "share-portal/pkg/errors"
	"share-portal/pkg/password"
)

// Admin checks the single admin password and issues session tokens.
type Admin struct {
	passwordHash string
	tokens       *JWTService
}

func NewAdmin(passwordHash string, tokens *JWTService) *Admin {
	return &Admin{
		passwordHash: passwordHash,
		tokens:       tokens,
	}
}

// Login returns a signed admin token when plaintext matches the configured
// bcrypt hash.
func (a *Admin) Login(plaintext string) (string, error) {
	if plaintext == "" || !password.Verify(plaintext, a.passwordHash) {
		return "", apperrors.InvalidCredentials()
	}

	token, err := a.tokens.Generate()
	if err != nil {
		return "", apperrors.InternalServer(msgGenerateTokenFail, err)
	}
	return token, nil
}
