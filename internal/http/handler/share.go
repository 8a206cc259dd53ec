package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"share-portal/internal/audit"
	"share-portal/internal/sharing"
	"share-portal/internal/types"
	apperrors "share-portal/pkg/errors"

	"github.com/labstack/echo/v4"
)

type ShareHandler struct {
	shares      ShareService
	auditLogger types.AuditLogger
	maxFileSize int64
}

// NewShareHandler builds the public share endpoints. A maxFileSize of zero
// leaves file size to the server's body limit.
func NewShareHandler(shares ShareService, auditLogger types.AuditLogger, maxFileSize int64) *ShareHandler {
	return &ShareHandler{
		shares:      shares,
		auditLogger: auditLogger,
		maxFileSize: maxFileSize,
	}
}

// Upload accepts a multipart form carrying either a file or an externalUrl,
// plus optional downloadLimit and expiresAt fields.
func (h *ShareHandler) Upload(c echo.Context) error {
	in, cleanup, err := h.parseCreateInput(c)
	defer cleanup()
	if err != nil {
		return err
	}

	rec, err := h.shares.Create(c.Request().Context(), in)
	if err != nil {
		if h.auditLogger != nil {
			_ = h.auditLogger.LogError(c, audit.ResourceTypeShare, nil, audit.ActionCreate, err)
		}
		return err
	}

	if h.auditLogger != nil {
		_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeShare, &rec.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
			auditKeyShareCode: rec.ShareCode,
			auditKeyFileName:  rec.FileName,
			auditKeyKind:      string(rec.Kind),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		jsonKeyShareCode: rec.ShareCode,
		jsonKeyMessage:   msgUploadSucceeded,
	})
}

func (h *ShareHandler) Metadata(c echo.Context) error {
	code := c.Param(paramCode)

	rec, err := h.shares.Metadata(c.Request().Context(), code)
	if err != nil {
		h.auditRefusal(c, audit.ActionRead, code, err)
		return err
	}

	if h.auditLogger != nil {
		_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeShare, &rec.ID, audit.ActionRead, audit.StatusSuccess, map[string]any{
			auditKeyShareCode: code,
		})
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *ShareHandler) Download(c echo.Context) error {
	code := c.Param(paramCode)

	dl, err := h.shares.Download(c.Request().Context(), code)
	if err != nil {
		h.auditRefusal(c, audit.ActionDownload, code, err)
		return err
	}

	if h.auditLogger != nil {
		_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeShare, &dl.Record.ID, audit.ActionDownload, audit.StatusSuccess, map[string]any{
			auditKeyShareCode: code,
			auditKeyCount:     dl.Record.DownloadCount,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		jsonKeyDownloadURL: dl.URL,
		jsonKeyMessage:     msgDownloadReady,
	})
}

// auditRefusal records a failed lookup of code. Unknown codes are not
// recorded so code scans cannot flood the audit table; gate refusals are
// recorded as denied.
func (h *ShareHandler) auditRefusal(c echo.Context, action audit.Action, code string, err error) {
	if h.auditLogger == nil || errors.Is(err, apperrors.ErrNotFound) {
		return
	}

	if errors.Is(err, apperrors.ErrExpired) || errors.Is(err, apperrors.ErrLimitReached) {
		_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeShare, nil, action, audit.StatusDenied, map[string]any{
			auditKeyShareCode: code,
			auditKeyReason:    err.Error(),
		})
		return
	}

	_ = h.auditLogger.LogError(c, audit.ResourceTypeShare, nil, action, err)
}

func (h *ShareHandler) parseCreateInput(c echo.Context) (sharing.CreateInput, func(), error) {
	var in sharing.CreateInput
	cleanup := func() {}

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return in, cleanup, apperrors.BadRequest(msgInvalidMultipart)
	}
	if form != nil {
		cleanup = func() { _ = form.RemoveAll() }
	}

	// Anything that is not an integer takes the default limit, the same as
	// leaving the field out. Integers outside the allowed range are rejected
	// by the service.
	if raw := strings.TrimSpace(c.FormValue(formFieldDownloadLimit)); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			in.DownloadLimit = limit
		}
	}

	if raw := strings.TrimSpace(c.FormValue(formFieldExpiresAt)); raw != "" {
		expiresAt, err := parseExpiresAt(raw)
		if err != nil {
			return in, cleanup, apperrors.InvalidInput(msgInvalidExpiresAt)
		}
		in.ExpiresAt = &expiresAt
	}

	in.ExternalURL = strings.TrimSpace(c.FormValue(formFieldExternalURL))

	fh, err := c.FormFile(formFieldFile)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, cleanup, nil
	case err != nil:
		return in, cleanup, apperrors.BadRequest(msgInvalidMultipart)
	}

	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		return in, cleanup, echo.NewHTTPError(http.StatusRequestEntityTooLarge, msgFileTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return in, cleanup, apperrors.InternalServer(msgOpenUploadFail, err)
	}
	formCleanup := cleanup
	cleanup = func() {
		_ = f.Close()
		formCleanup()
	}

	in.File = &sharing.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(headerContentType),
		Body:        f,
	}
	return in, cleanup, nil
}

func parseExpiresAt(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation(layoutDateTimeLocal, raw, time.UTC)
}
