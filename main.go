package main

import (
	"context"
	"errors"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"share-portal/internal/audit"
	"share-portal/internal/auth"
	"share-portal/internal/config"
	"share-portal/internal/http"
	"share-portal/internal/repository"
	"share-portal/internal/sharing"
	"share-portal/internal/storage/s3"
	"share-portal/pkg/password"

	"github.com/joho/godotenv"
)

const (
	envFilePath        = ".env"
	serverAddrPrefix   = ":"
	signalBufferSize   = 1
	logOutputFlags     = log.LstdFlags | log.Lshortfile
	startupTimeout     = 15 * time.Second
	bucketCheckTimeout = 5 * time.Second
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	if weak, err := password.NeedsRehash(cfg.Admin.PasswordHash, password.DefaultCost); err != nil {
		log.Fatalf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %v", err)
	} else if weak {
		log.Printf("Warning: ADMIN_PASSWORD_HASH uses a bcrypt cost below %d", password.DefaultCost)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	backend, err := repository.Open(startCtx, &cfg.Database)
	cancelStart()
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", cfg.Database.Driver, err)
	}
	defer backend.Close()

	log.Printf("Database connection established (%s)", cfg.Database.Driver)

	s3Client, err := s3.NewClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	bucketCtx, cancelBucket := context.WithTimeout(context.Background(), bucketCheckTimeout)
	if err := s3Client.CheckBucket(bucketCtx); err != nil {
		log.Printf("Warning: bucket %q is not reachable, uploads will fail: %v", cfg.Storage.Bucket, err)
	} else {
		log.Println("S3 client initialized")
	}
	cancelBucket()

	shares := sharing.NewService(backend.Shares, s3Client, sharing.Options{
		DefaultDownloadLimit: cfg.Share.DefaultDownloadLimit,
		DefaultTTL:           cfg.Share.DefaultTTL,
		CodeMaxAttempts:      cfg.Share.CodeMaxAttempts,
	})

	jwtService := auth.NewJWTService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	auditLogger := audit.NewLogger(backend.Audit)

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Shares:         shares,
		Admin:          auth.NewAdmin(cfg.Admin.PasswordHash, jwtService),
		AuthMiddleware: auth.NewMiddleware(jwtService),
		AuditLogger:    auditLogger,
	})

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := auditLogger.Wait(ctx); err != nil {
		log.Printf("Audit events still pending at shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
