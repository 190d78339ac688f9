package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict, service.KindInactive:
		return http.StatusConflict
	case service.KindExpired:
		return http.StatusGone
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindExternalUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error to a status and a stable error code.
// Anything unclassified is logged and hidden behind server_error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	status := statusFor(kind)

	var se *service.Error
	if errors.As(err, &se) {
		httpx.WriteJSON(w, status, keygatesdk.ErrorResponse{
			Error:            se.Code,
			ErrorDescription: se.Message,
		})
		return
	}

	if status == http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteJSON(w, status, keygatesdk.ErrorResponse{
			Error:            keygatesdk.ErrorCodeServerError,
			ErrorDescription: "An internal error occurred",
		})
		return
	}

	httpx.WriteJSON(w, status, keygatesdk.ErrorResponse{
		Error:            kind.String(),
		ErrorDescription: http.StatusText(status),
	})
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusBadRequest, keygatesdk.ErrorResponse{
		Error:            keygatesdk.ErrorCodeInvalidRequest,
		ErrorDescription: desc,
	})
}
