package handler

import (
	"context"

	"share-portal/internal/domain/share"
	"share-portal/internal/sharing"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers

type ShareCreator interface {
	Create(ctx context.Context, in sharing.CreateInput) (*share.Record, error)
}

type ShareReader interface {
	Metadata(ctx context.Context, code string) (share.PublicRecord, error)
	Download(ctx context.Context, code string) (*sharing.Download, error)
}

type ShareService interface {
	ShareCreator
	ShareReader
}

// AdminHandler interfaces
type ShareAdministrator interface {
	List(ctx context.Context) ([]share.PublicRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AdminAuthenticator interface {
	Login(plaintext string) (string, error)
}
