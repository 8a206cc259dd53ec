package postgres

import (
	"context"
	"errors"
	"time"

	"share-portal/internal/domain/share"
	apperrors "share-portal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const shareRecordColumns = `id, file_name, share_code, type, blob_url, external_url,
		download_limit, download_count, expires_at, upload_time`

type ShareRecordRepository struct {
	db *DB
}

func NewShareRecordRepository(db *DB) *ShareRecordRepository {
	return &ShareRecordRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShareRecord(row rowScanner) (*share.Record, error) {
	rec := &share.Record{}
	var kind string
	err := row.Scan(
		&rec.ID,
		&rec.FileName,
		&rec.ShareCode,
		&kind,
		&rec.BlobURL,
		&rec.ExternalURL,
		&rec.DownloadLimit,
		&rec.DownloadCount,
		&rec.ExpiresAt,
		&rec.UploadTime,
	)
	if err != nil {
		return nil, err
	}
	rec.Kind = share.Kind(kind)
	return rec, nil
}

func (r *ShareRecordRepository) Create(ctx context.Context, rec *share.Record) error {
	query := `
		INSERT INTO file_info (` + shareRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		rec.ID,
		rec.FileName,
		rec.ShareCode,
		string(rec.Kind),
		rec.BlobURL,
		rec.ExternalURL,
		rec.DownloadLimit,
		rec.DownloadCount,
		rec.ExpiresAt,
		rec.UploadTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict(errShareCodeTaken)
		}
		return errFailedCreateShareRecord(err)
	}

	return nil
}

func (r *ShareRecordRepository) GetByCode(ctx context.Context, code string) (*share.Record, error) {
	query := `SELECT ` + shareRecordColumns + ` FROM file_info WHERE share_code = $1`
	return r.getOne(ctx, query, code)
}

func (r *ShareRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*share.Record, error) {
	query := `SELECT ` + shareRecordColumns + ` FROM file_info WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *ShareRecordRepository) getOne(ctx context.Context, query string, arg any) (*share.Record, error) {
	rec, err := scanShareRecord(r.db.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errFailedGetShareRecord(err)
	}
	return rec, nil
}

func (r *ShareRecordRepository) List(ctx context.Context) ([]*share.Record, error) {
	query := `SELECT ` + shareRecordColumns + ` FROM file_info ORDER BY upload_time DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListShareRecords(err)
	}
	defer rows.Close()

	records := make([]*share.Record, 0)
	for rows.Next() {
		rec, err := scanShareRecord(rows)
		if err != nil {
			return nil, errFailedScanShareRecord(err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListShareRecords(err)
	}

	return records, nil
}

func (r *ShareRecordRepository) Update(ctx context.Context, id uuid.UUID, upd share.Update) (bool, error) {
	if upd.Empty() {
		return false, nil
	}

	query := "UPDATE file_info SET download_count = $1 WHERE id = $2"
	result, err := r.db.Pool.Exec(ctx, query, *upd.DownloadCount, id)
	if err != nil {
		return false, errFailedUpdateShareRecord(err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *ShareRecordRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := "DELETE FROM file_info WHERE id = $1"
	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return false, errFailedDeleteShareRecord(err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *ShareRecordRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM file_info WHERE share_code = $1)"

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, errFailedCheckShareCode(err)
	}

	return exists, nil
}

func (r *ShareRecordRepository) ConsumeDownload(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `
		UPDATE file_info SET download_count = download_count + 1
		WHERE id = $1 AND download_count < download_limit AND expires_at >= $2
	`

	result, err := r.db.Pool.Exec(ctx, query, id, now)
	if err != nil {
		return false, errFailedConsumeDownload(err)
	}

	return result.RowsAffected() == 1, nil
}

var _ share.Store = (*ShareRecordRepository)(nil)
