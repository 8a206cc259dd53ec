package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"share-portal/internal/domain/share"
	apperrors "share-portal/pkg/errors"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const (
	shareRecordColumns = `id, file_name, share_code, type, blob_url, external_url,
		download_limit, download_count, expires_at, upload_time`

	errShareCodeTaken = "share code already exists"

	opCreateShareRecord = "failed to create share record"
	opGetShareRecord    = "failed to get share record"
	opListShareRecords  = "failed to list share records"
	opScanShareRecord   = "failed to scan share record"
	opUpdateShareRecord = "failed to update share record"
	opDeleteShareRecord = "failed to delete share record"
	opCheckShareCode    = "failed to check share code"
	opConsumeDownload   = "failed to consume download"
)

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
	var (
		id          string
		kind        string
		blobURL     sql.NullString
		externalURL sql.NullString
		expiresAt   int64
		uploadTime  int64
	)

	err := row.Scan(
		&id,
		&rec.FileName,
		&rec.ShareCode,
		&kind,
		&blobURL,
		&externalURL,
		&rec.DownloadLimit,
		&rec.DownloadCount,
		&expiresAt,
		&uploadTime,
	)
	if err != nil {
		return nil, err
	}

	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	rec.Kind = share.Kind(kind)
	if blobURL.Valid {
		rec.BlobURL = &blobURL.String
	}
	if externalURL.Valid {
		rec.ExternalURL = &externalURL.String
	}
	rec.ExpiresAt = fromUnixMicro(expiresAt)
	rec.UploadTime = fromUnixMicro(uploadTime)

	return rec, nil
}

func toUnixMicro(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromUnixMicro(n int64) time.Time {
	return time.UnixMicro(n).UTC()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (r *ShareRecordRepository) Create(ctx context.Context, rec *share.Record) error {
	query := `
		INSERT INTO file_info (` + shareRecordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID.String(),
		rec.FileName,
		rec.ShareCode,
		string(rec.Kind),
		nullString(rec.BlobURL),
		nullString(rec.ExternalURL),
		rec.DownloadLimit,
		rec.DownloadCount,
		toUnixMicro(rec.ExpiresAt),
		toUnixMicro(rec.UploadTime),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict(errShareCodeTaken)
		}
		return apperrors.Storage(opCreateShareRecord, err)
	}

	return nil
}

func (r *ShareRecordRepository) GetByCode(ctx context.Context, code string) (*share.Record, error) {
	query := `SELECT ` + shareRecordColumns + ` FROM file_info WHERE share_code = ?`
	return r.getOne(ctx, query, code)
}

func (r *ShareRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*share.Record, error) {
	query := `SELECT ` + shareRecordColumns + ` FROM file_info WHERE id = ?`
	return r.getOne(ctx, query, id.String())
}

func (r *ShareRecordRepository) getOne(ctx context.Context, query string, arg any) (*share.Record, error) {
	rec, err := scanShareRecord(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Storage(opGetShareRecord, err)
	}
	return rec, nil
}

func (r *ShareRecordRepository) List(ctx context.Context) ([]*share.Record, error) {
	query := `SELECT ` + shareRecordColumns + ` FROM file_info ORDER BY upload_time DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Storage(opListShareRecords, err)
	}
	defer rows.Close()

	records := make([]*share.Record, 0)
	for rows.Next() {
		rec, err := scanShareRecord(rows)
		if err != nil {
			return nil, apperrors.Storage(opScanShareRecord, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(opListShareRecords, err)
	}

	return records, nil
}

func (r *ShareRecordRepository) Update(ctx context.Context, id uuid.UUID, upd share.Update) (bool, error) {
	if upd.Empty() {
		return false, nil
	}

	query := "UPDATE file_info SET download_count = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, *upd.DownloadCount, id.String())
	if err != nil {
		return false, apperrors.Storage(opUpdateShareRecord, err)
	}

	return rowsAffected(result, opUpdateShareRecord)
}

func (r *ShareRecordRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := "DELETE FROM file_info WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return false, apperrors.Storage(opDeleteShareRecord, err)
	}

	return rowsAffected(result, opDeleteShareRecord)
}

func (r *ShareRecordRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM file_info WHERE share_code = ?)"

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, apperrors.Storage(opCheckShareCode, err)
	}

	return exists, nil
}

func (r *ShareRecordRepository) ConsumeDownload(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `
		UPDATE file_info SET download_count = download_count + 1
		WHERE id = ? AND download_count < download_limit AND expires_at >= ?
	`

	result, err := r.db.ExecContext(ctx, query, id.String(), toUnixMicro(now))
	if err != nil {
		return false, apperrors.Storage(opConsumeDownload, err)
	}

	return rowsAffected(result, opConsumeDownload)
}

func rowsAffected(result sql.Result, op string) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Storage(op, err)
	}
	return n > 0, nil
}

var _ share.Store = (*ShareRecordRepository)(nil)
