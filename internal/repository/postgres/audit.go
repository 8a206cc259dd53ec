package postgres

import (
	"context"
	"encoding/json"

	"share-portal/internal/audit"
)

type AuditEventWriter struct {
	db *DB
}

func NewAuditEventWriter(db *DB) *AuditEventWriter {
	return &AuditEventWriter{db: db}
}

func (w *AuditEventWriter) WriteEvent(ctx context.Context, event *audit.Event) error {
	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		if metadataJSON, err = json.Marshal(event.Metadata); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, resource_type, resource_id, action, status,
			ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := w.db.Pool.Exec(ctx, query,
		event.ID,
		event.EventType,
		string(event.ResourceType),
		event.ResourceID,
		string(event.Action),
		string(event.Status),
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadataJSON,
		event.ErrorMessage,
		event.CreatedAt,
	)
	if err != nil {
		return errFailedWriteAuditEvent(err)
	}

	return nil
}

var _ audit.EventWriter = (*AuditEventWriter)(nil)
