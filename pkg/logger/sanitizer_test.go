package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLogMessage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"login failed password=hunter2", "login failed password=[REDACTED]"},
		{"bad bearer abc.def.ghi", "bad bearer=[REDACTED]"},
		{"secret: s3cr3t", "secret=[REDACTED]"},
		{"dial postgres://app:pw@db:5432/shares failed", "dial postgres://app:[REDACTED]@db:5432/shares failed"},
		{"file not found", "file not found"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeLogMessage(tt.in))
	}
}

func TestSanitizeMap(t *testing.T) {
	out := SanitizeMap(map[string]any{
		"share_code":    "12345",
		"admin_token":   "abc",
		"password_hash": "$2a$",
	})

	assert.Equal(t, "12345", out["share_code"])
	assert.Equal(t, "[REDACTED]", out["admin_token"])
	assert.Equal(t, "[REDACTED]", out["password_hash"])
}
