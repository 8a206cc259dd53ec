package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"share-portal/internal/audit"
	apperrors "share-portal/pkg/errors"
)

const opWriteAuditEvent = "failed to write audit event"

type AuditEventWriter struct {
	db *DB
}

func NewAuditEventWriter(db *DB) *AuditEventWriter {
	return &AuditEventWriter{db: db}
}

func (w *AuditEventWriter) WriteEvent(ctx context.Context, event *audit.Event) error {
	var metadata sql.NullString
	if event.Metadata != nil {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	var resourceID sql.NullString
	if event.ResourceID != nil {
		resourceID = sql.NullString{String: event.ResourceID.String(), Valid: true}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, resource_type, resource_id, action, status,
			ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := w.db.ExecContext(ctx, query,
		event.ID.String(),
		event.EventType,
		string(event.ResourceType),
		resourceID,
		string(event.Action),
		string(event.Status),
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadata,
		event.ErrorMessage,
		toUnixMicro(event.CreatedAt),
	)
	if err != nil {
		return apperrors.Storage(opWriteAuditEvent, err)
	}

	return nil
}

var _ audit.EventWriter = (*AuditEventWriter)(nil)
