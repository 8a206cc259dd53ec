package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	apperrors "share-portal/pkg/errors"

	"github.com/labstack/echo/v4"
)

// The only JSON body this API accepts is the admin login.
const maxJSONBodyBytes int64 = 4 << 10

// decodeJSONBody reads exactly one JSON object into dst. Unknown fields,
// trailing values and bodies over maxJSONBodyBytes are refused.
func decodeJSONBody(c echo.Context, dst any) error {
	mediaType, _, err := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
	if err != nil || mediaType != echo.MIMEApplicationJSON {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	decoder := json.NewDecoder(http.MaxBytesReader(c.Response(), c.Request().Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, msgRequestBodyTooLarge)
		}
		return apperrors.BadRequest(msgInvalidRequestBody)
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return apperrors.BadRequest(msgInvalidRequestBody)
	}

	return nil
}
