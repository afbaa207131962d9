package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shelfwise/lending/common/lending"
)

// Envelope is the uniform response shape of the gateway: exactly one of
// Data or Error is set. Error kinds pass through verbatim; the HTTP status
// only mirrors the kind, it never redefines it.
type Envelope struct {
	Data  any            `json:"data,omitempty"`
	Error *lending.Error `json:"error,omitempty"`
}

// respondData writes a success envelope
func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Data: data})
}

// respondError writes an error envelope with the status for its kind
func respondError(c echo.Context, err error) error {
	var le *lending.Error
	if !errors.As(err, &le) {
		le = &lending.Error{Kind: lending.KindTransport, Message: "internal error"}
	}
	return c.JSON(statusForKind(le.Kind), Envelope{Error: le})
}

func statusForKind(kind lending.ErrorKind) int {
	switch kind {
	case lending.KindValidation:
		return http.StatusBadRequest
	case lending.KindNotFound:
		return http.StatusNotFound
	case lending.KindConflict:
		return http.StatusConflict
	case lending.KindBusy:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
