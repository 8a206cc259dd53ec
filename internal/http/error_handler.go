package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "share-portal/pkg/errors"
	"share-portal/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	msgInternalServerError = "Internal server error"
	unknownRequestID       = "unknown"
)

// statusFor maps sentinel errors to HTTP status codes and fallback messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrExpired):
		return http.StatusGone, "Resource expired"
	case errors.Is(err, apperrors.ErrLimitReached):
		return http.StatusTooManyRequests, "Download limit reached"
	default:
		return http.StatusInternalServerError, msgInternalServerError
	}
}

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to appropriate HTTP status codes, hides internal
// errors from clients, and logs with request context.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    int
		message string
	)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		code, message = statusFor(err)

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && code < http.StatusInternalServerError {
			message = appErr.Message
		}
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = unknownRequestID
	}

	logged := logger.SanitizeLogMessage(err.Error())
	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("internal_server_error request_id=%s status=%d error=%s", requestID, code, logged)
		message = msgInternalServerError
	} else {
		c.Logger().Warnf("client_error request_id=%s status=%d error=%s", requestID, code, logged)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]any{
			"error":      message,
			"request_id": requestID,
		})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
