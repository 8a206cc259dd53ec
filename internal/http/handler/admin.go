package handler

import (
	"net/http"

	"share-portal/internal/audit"
	"share-portal/internal/auth"
	"share-portal/internal/types"
	apperrors "share-portal/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	shares      ShareAdministrator
	auth        AdminAuthenticator
	auditLogger types.AuditLogger
}

func NewAdminHandler(shares ShareAdministrator, auth AdminAuthenticator, auditLogger types.AuditLogger) *AdminHandler {
	return &AdminHandler{
		shares:      shares,
		auth:        auth,
		auditLogger: auditLogger,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		if h.auditLogger != nil {
			_ = h.auditLogger.LogError(c, audit.ResourceTypeAdmin, nil, audit.ActionLogin, err)
		}
		return err
	}

	if h.auditLogger != nil {
		_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeAdmin, nil, audit.ActionLogin, audit.StatusSuccess, nil)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (h *AdminHandler) ListShares(c echo.Context) error {
	records, err := h.shares.List(c.Request().Context())
	if err != nil {
		return err
	}

	if h.auditLogger != nil {
		_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeShare, nil, audit.ActionList, audit.StatusSuccess, withSession(c, map[string]any{
			auditKeyCount: len(records),
		}))
	}

	return c.JSON(http.StatusOK, records)
}

func (h *AdminHandler) DeleteShare(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return apperrors.BadRequest(msgInvalidShareID)
	}

	if err := h.shares.Delete(c.Request().Context(), id); err != nil {
		if h.auditLogger != nil {
			_ = h.auditLogger.LogError(c, audit.ResourceTypeShare, &id, audit.ActionDelete, err)
		}
		return err
	}

	if h.auditLogger != nil {
		_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeShare, &id, audit.ActionDelete, audit.StatusSuccess, withSession(c, nil))
	}

	return c.NoContent(http.StatusNoContent)
}

// withSession adds the admin token ID to audit metadata so every action can
// be traced back to the login that issued the token.
func withSession(c echo.Context, metadata map[string]any) map[string]any {
	claims, err := auth.GetAdminClaims(c)
	if err != nil {
		return metadata
	}
	if metadata == nil {
		metadata = make(map[string]any, 1)
	}
	metadata[auditKeySession] = claims.ID
	return metadata
}
