package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdefghijklmnopqrstuvwxyz"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envDBPassword, "secret")
	t.Setenv(envS3Bucket, "shares")
	t.Setenv(envAdminPasswordHash, "$2a$10$abcdefghijklmnopqrstuu")
	t.Setenv(envAdminJWTSecret, testJWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultServerPort, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Share.DefaultDownloadLimit)
	assert.Equal(t, 7*24*time.Hour, cfg.Share.DefaultTTL)
	assert.Equal(t, 20, cfg.Share.CodeMaxAttempts)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(envDBDriver, DriverSQLite)
	t.Setenv(envSQLitePath, "/tmp/shares.db")
	t.Setenv(envShareDefaultTTL, "48h")
	t.Setenv(envAdminTokenTTL, "15")
	t.Setenv(envShareCodeMaxAttempts, "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/shares.db", cfg.Database.SQLitePath)
	assert.Equal(t, 48*time.Hour, cfg.Share.DefaultTTL)
	assert.Equal(t, 15*time.Minute, cfg.Admin.TokenTTL)
	assert.Equal(t, defaultCodeMaxAttempts, cfg.Share.CodeMaxAttempts)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", envDBDriver, "mysql"},
		{"limit too high", envShareDefaultLimit, "1001"},
		{"limit zero", envShareDefaultLimit, "0"},
		{"short jwt secret", envAdminJWTSecret, "short"},
		{"negative ttl", envShareDefaultTTL, "-1h"},
		{"zero rate limit", envRateLimitRPS, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingBucket(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(envS3Bucket, "")

	_, err := Load()
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=require", db.DSN())

	db.URL = "postgres://u:p@db/d"
	assert.Equal(t, "postgres://u:p@db/d", db.DSN())
}
