package sharing

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"share-portal/internal/domain/share"
	apperrors "share-portal/pkg/errors"
	"share-portal/pkg/validator"

	"github.com/google/uuid"
)

const (
	externalFileFallbackName = "external-file"

	msgFileOrURLRequired = "select a file or provide an external link"
	msgShareNotFound     = "file not found"
	msgUploadFailed      = "upload failed, please try again later"

	orphanCleanupTimeout = 10 * time.Second
)

// ObjectStore receives uploaded content and returns its public locator.
// Delete takes a locator returned by Put.
type ObjectStore interface {
	Put(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, locator string) error
}

type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// CreateInput describes a new share. File wins when both File and
// ExternalURL are supplied. Zero DownloadLimit and nil ExpiresAt take the
// configured defaults.
type CreateInput struct {
	File          *Upload
	ExternalURL   string
	DownloadLimit int
	ExpiresAt     *time.Time
}

type Options struct {
	DefaultDownloadLimit int
	DefaultTTL           time.Duration
	CodeMaxAttempts      int
}

func (o Options) withDefaults() Options {
	if o.DefaultDownloadLimit <= 0 {
		o.DefaultDownloadLimit = share.DefaultDownloadLimit
	}
	if o.DefaultTTL <= 0 {
		o.DefaultTTL = share.DefaultTTL
	}
	if o.CodeMaxAttempts <= 0 {
		o.CodeMaxAttempts = share.DefaultCodeAttempts
	}
	return o
}

// Download is the outcome of a successful download attempt.
type Download struct {
	URL    string
	Record *share.Record
}

type Service struct {
	store   share.Store
	objects ObjectStore
	opts    Options
	now     func() time.Time
	entropy io.Reader
	newID   func() uuid.UUID
}

func NewService(store share.Store, objects ObjectStore, opts Options) *Service {
	return &Service{
		store:   store,
		objects: objects,
		opts:    opts.withDefaults(),
		now:     time.Now,
		newID:   uuid.New,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*share.Record, error) {
	if in.File == nil && in.ExternalURL == "" {
		return nil, apperrors.InvalidInput(msgFileOrURLRequired)
	}

	now := s.now().UTC()

	limit := in.DownloadLimit
	if limit == 0 {
		limit = s.opts.DefaultDownloadLimit
	}
	if err := validator.DownloadLimit(limit, share.MinDownloadLimit, share.MaxDownloadLimit); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	expiresAt := now.Add(s.opts.DefaultTTL)
	if in.ExpiresAt != nil {
		expiresAt = in.ExpiresAt.UTC()
	}
	if err := validator.Expiry(expiresAt, now); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	rec := &share.Record{
		ID:            s.newID(),
		DownloadLimit: limit,
		ExpiresAt:     expiresAt,
		UploadTime:    now,
	}

	if in.File != nil {
		if err := validator.FileName(in.File.Name); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		rec.Kind = share.KindBlob
		rec.FileName = in.File.Name
	} else {
		u, err := validator.ExternalURL(in.ExternalURL)
		if err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		externalURL := u.String()
		rec.Kind = share.KindExternalLink
		rec.FileName = externalFileName(u.Path)
		rec.ExternalURL = &externalURL
	}

	code, err := share.GenerateUniqueCode(ctx, s.store, s.entropy, s.opts.CodeMaxAttempts)
	if err != nil {
		return nil, err
	}
	rec.ShareCode = code

	if in.File != nil {
		blobURL, err := s.objects.Put(ctx, in.File.Name, in.File.Body, in.File.ContentType)
		if err != nil {
			return nil, apperrors.InternalServer(msgUploadFailed, err)
		}
		rec.BlobURL = &blobURL
	}

	if err := rec.Validate(); err != nil {
		s.discardBlob(ctx, rec)
		return nil, err
	}

	if err := s.store.Create(ctx, rec); err != nil {
		s.discardBlob(ctx, rec)
		return nil, err
	}

	return rec, nil
}

// discardBlob removes an uploaded object whose record was never stored.
// Failure only leaves an unreferenced object behind, so it is logged.
func (s *Service) discardBlob(ctx context.Context, rec *share.Record) {
	if rec.BlobURL == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), orphanCleanupTimeout)
	defer cancel()

	if err := s.objects.Delete(ctx, *rec.BlobURL); err != nil {
		log.Printf("failed to remove orphaned upload for share %s: %v", rec.ID, err)
	}
}

// Metadata returns the public view of the share behind code when the access
// gate allows it. It never changes the record.
func (s *Service) Metadata(ctx context.Context, code string) (share.PublicRecord, error) {
	rec, err := s.lookup(ctx, code)
	if err != nil {
		return share.PublicRecord{}, err
	}

	if err := share.Evaluate(rec, s.now()).Err(); err != nil {
		return share.PublicRecord{}, err
	}

	return rec.Public(), nil
}

// Download consumes one download of the share behind code and returns where
// the recipient should be sent. The counter only moves when the store
// confirms the record is still unexpired and below its limit.
func (s *Service) Download(ctx context.Context, code string) (*Download, error) {
	rec, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := share.Evaluate(rec, now).Err(); err != nil {
		return nil, err
	}

	locator, err := rec.Locator()
	if err != nil {
		return nil, err
	}

	consumed, err := s.store.ConsumeDownload(ctx, rec.ID, now)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, s.refusal(ctx, rec.ID, now)
	}

	rec.DownloadCount++
	return &Download{URL: locator, Record: rec}, nil
}

// refusal explains why a conditional increment did not apply.
func (s *Service) refusal(ctx context.Context, id uuid.UUID, now time.Time) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	decision := share.Evaluate(current, now)
	if decision == share.Allowed {
		decision = share.LimitReached
	}
	return decision.Err()
}

func (s *Service) List(ctx context.Context) ([]share.PublicRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]share.PublicRecord, 0, len(records))
	for _, rec := range records {
		public = append(public, rec.Public())
	}
	return public, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound(msgShareNotFound)
	}
	return nil
}

func (s *Service) lookup(ctx context.Context, code string) (*share.Record, error) {
	if !share.IsValidCode(code) {
		return nil, apperrors.NotFound(msgShareNotFound)
	}

	rec, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NotFound(msgShareNotFound)
	}
	return rec, nil
}

func externalFileName(urlPath string) string {
	name := urlPath[strings.LastIndex(urlPath, "/")+1:]
	if name == "" {
		return externalFileFallbackName
	}
	if err := validator.FileName(name); err != nil {
		return externalFileFallbackName
	}
	return name
}
