package postgres

import (
	"fmt"
	"time"

	apperrors "share-portal/pkg/errors"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	runtimeParamApplicationName = "application_name"
	applicationName             = "share-portal"

	errShareCodeTaken = "share code already exists"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedEnsureSchemaFmt         = "failed to ensure schema: %w"

	opCreateShareRecord = "failed to create share record"
	opGetShareRecord    = "failed to get share record"
	opListShareRecords  = "failed to list share records"
	opScanShareRecord   = "failed to scan share record"
	opUpdateShareRecord = "failed to update share record"
	opDeleteShareRecord = "failed to delete share record"
	opCheckShareCode    = "failed to check share code"
	opConsumeDownload   = "failed to consume download"
	opWriteAuditEvent   = "failed to write audit event"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedEnsureSchema         = func(err error) error { return fmt.Errorf(errFailedEnsureSchemaFmt, err) }

	errFailedCreateShareRecord = func(err error) error { return apperrors.Storage(opCreateShareRecord, err) }
	errFailedGetShareRecord    = func(err error) error { return apperrors.Storage(opGetShareRecord, err) }
	errFailedListShareRecords  = func(err error) error { return apperrors.Storage(opListShareRecords, err) }
	errFailedScanShareRecord   = func(err error) error { return apperrors.Storage(opScanShareRecord, err) }
	errFailedUpdateShareRecord = func(err error) error { return apperrors.Storage(opUpdateShareRecord, err) }
	errFailedDeleteShareRecord = func(err error) error { return apperrors.Storage(opDeleteShareRecord, err) }
	errFailedCheckShareCode    = func(err error) error { return apperrors.Storage(opCheckShareCode, err) }
	errFailedConsumeDownload   = func(err error) error { return apperrors.Storage(opConsumeDownload, err) }
	errFailedWriteAuditEvent   = func(err error) error { return apperrors.Storage(opWriteAuditEvent, err) }
)
