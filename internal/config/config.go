package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBDriver              = "DB_DRIVER"
	envDatabaseURL           = "DATABASE_URL"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envSQLitePath            = "SQLITE_PATH"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envS3Bucket              = "S3_BUCKET"
	envS3Endpoint            = "S3_ENDPOINT"
	envS3PublicBaseURL       = "S3_PUBLIC_BASE_URL"
	envShareDefaultLimit     = "SHARE_DEFAULT_DOWNLOAD_LIMIT"
	envShareDefaultTTL       = "SHARE_DEFAULT_TTL"
	envShareCodeMaxAttempts  = "SHARE_CODE_MAX_ATTEMPTS"
	envAdminPasswordHash     = "ADMIN_PASSWORD_HASH"
	envAdminJWTSecret        = "ADMIN_JWT_SECRET"
	envAdminTokenTTL         = "ADMIN_TOKEN_TTL"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultServerPort          = "8080"
	defaultServerReadTimeout   = 30 * time.Second
	defaultServerWriteTimeout  = 30 * time.Second
	defaultServerShutdown      = 10 * time.Second
	defaultDBDriver            = DriverPostgres
	defaultDBHost              = "localhost"
	defaultDBPort              = 5432
	defaultDBName              = "shareportal"
	defaultDBUser              = "shareportal_app"
	defaultDBSSLMode           = "disable"
	defaultDBMaxConns          = 25
	defaultDBMinConns          = 2
	defaultSQLitePath          = "data/shareportal.db"
	defaultAWSRegion           = "us-east-1"
	defaultShareLimit          = 10
	defaultShareTTL            = 7 * 24 * time.Hour
	defaultCodeMaxAttempts     = 20
	defaultAdminTokenTTL       = 60 * time.Minute
	defaultRateLimitRPS        = 20
	defaultRateLimitBurst      = 40
	defaultMaxUploadSize       = int64(100 * 1024 * 1024)
	minJWTSecretLength         = 32
	minShareLimit              = 1
	maxShareLimit              = 1000
	errPortRequiredFmt         = "PORT must be set"
	errUnknownDBDriverFmt      = "DB_DRIVER must be %q or %q, got %q"
	errDBPasswordRequiredFmt   = "DB_PASSWORD or DATABASE_URL must be set for the postgres driver"
	errSQLitePathRequiredFmt   = "SQLITE_PATH must be set for the sqlite driver"
	errS3BucketRequiredFmt     = "S3_BUCKET must be set"
	errShareLimitRangeFmt      = "SHARE_DEFAULT_DOWNLOAD_LIMIT must be between %d and %d"
	errShareTTLPositiveFmt     = "SHARE_DEFAULT_TTL must be positive"
	errCodeAttemptsFmt         = "SHARE_CODE_MAX_ATTEMPTS must be positive"
	errAdminHashRequiredFmt    = "ADMIN_PASSWORD_HASH must be set"
	errJWTSecretMinLengthFmt   = "ADMIN_JWT_SECRET must be at least %d characters"
	errMaxUploadSizeFmt        = "MAX_UPLOAD_SIZE must be positive"
	errRateLimitFmt            = "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Share    ShareConfig
	Admin    AdminConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver     string
	URL        string
	Host       string
	Port       int
	Database   string
	User       string
	Password   string
	SSLMode    string
	MaxConns   int
	MinConns   int
	SQLitePath string
}

type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	PublicBaseURL   string
}

type ShareConfig struct {
	DefaultDownloadLimit int
	DefaultTTL           time.Duration
	CodeMaxAttempts      int
}

type AdminConfig struct {
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

type AppConfig struct {
	RateLimitRPS   int
	RateLimitBurst int
	MaxUploadSize  int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Driver:     getEnv(envDBDriver, defaultDBDriver),
			URL:        os.Getenv(envDatabaseURL),
			Host:       getEnv(envDBHost, defaultDBHost),
			Port:       getIntEnv(envDBPort, defaultDBPort),
			Database:   getEnv(envDBName, defaultDBName),
			User:       getEnv(envDBUser, defaultDBUser),
			Password:   os.Getenv(envDBPassword),
			SSLMode:    getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns:   getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns:   getIntEnv(envDBMinConns, defaultDBMinConns),
			SQLitePath: getEnv(envSQLitePath, defaultSQLitePath),
		},
		Storage: StorageConfig{
			Region:          getEnv(envAWSRegion, defaultAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Bucket:          os.Getenv(envS3Bucket),
			Endpoint:        os.Getenv(envS3Endpoint),
			PublicBaseURL:   os.Getenv(envS3PublicBaseURL),
		},
		Share: ShareConfig{
			DefaultDownloadLimit: getIntEnv(envShareDefaultLimit, defaultShareLimit),
			DefaultTTL:           getDurationEnv(envShareDefaultTTL, defaultShareTTL),
			CodeMaxAttempts:      getIntEnv(envShareCodeMaxAttempts, defaultCodeMaxAttempts),
		},
		Admin: AdminConfig{
			PasswordHash: os.Getenv(envAdminPasswordHash),
			JWTSecret:    os.Getenv(envAdminJWTSecret),
			TokenTTL:     getDurationEnv(envAdminTokenTTL, defaultAdminTokenTTL),
		},
		App: AppConfig{
			RateLimitRPS:   getIntEnv(envRateLimitRPS, defaultRateLimitRPS),
			RateLimitBurst: getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
			MaxUploadSize:  getInt64Env(envMaxUploadSize, defaultMaxUploadSize),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" && c.Database.Password == "" {
			return fmt.Errorf(errDBPasswordRequiredFmt)
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf(errSQLitePathRequiredFmt)
		}
	default:
		return fmt.Errorf(errUnknownDBDriverFmt, DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf(errS3BucketRequiredFmt)
	}

	if c.Share.DefaultDownloadLimit < minShareLimit || c.Share.DefaultDownloadLimit > maxShareLimit {
		return fmt.Errorf(errShareLimitRangeFmt, minShareLimit, maxShareLimit)
	}

	if c.Share.DefaultTTL <= 0 {
		return fmt.Errorf(errShareTTLPositiveFmt)
	}

	if c.Share.CodeMaxAttempts <= 0 {
		return fmt.Errorf(errCodeAttemptsFmt)
	}

	if c.Admin.PasswordHash == "" {
		return fmt.Errorf(errAdminHashRequiredFmt)
	}

	if len(c.Admin.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf(errMaxUploadSizeFmt)
	}

	if c.App.RateLimitRPS <= 0 || c.App.RateLimitBurst <= 0 {
		return fmt.Errorf(errRateLimitFmt)
	}

	return nil
}

// DSN prefers DATABASE_URL, the variable the hosted deployments provide.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
