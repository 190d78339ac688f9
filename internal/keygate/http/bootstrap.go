package http

import (
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first admin identity.
//
//	@Summary		Bootstrap the entitlement service
//	@Description	Creates the first admin identity. Only available while no identity exists and a bootstrap token is configured.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token"
//	@Param			request				body		keygatesdk.BootstrapRequest	true	"Admin credentials"
//	@Success		201					{object}	keygatesdk.IdentityResponse
//	@Failure		400					{object}	keygatesdk.ErrorResponse	"Invalid request body"
//	@Failure		403					{object}	keygatesdk.ErrorResponse	"Invalid bootstrap token"
//	@Failure		404					{object}	keygatesdk.ErrorResponse	"Bootstrap not enabled"
//	@Failure		409					{object}	keygatesdk.ErrorResponse	"Already bootstrapped"
//	@Router			/v1/bootstrap [post]
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, keygatesdk.ErrorResponse{
			Error:            "not_found",
			ErrorDescription: "Bootstrap endpoint is not enabled",
		})
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get(keygatesdk.BootstrapTokenHeader)
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, keygatesdk.ErrorResponse{
			Error:            keygatesdk.ErrorCodeUnauthorized,
			ErrorDescription: "Bootstrap token is required in " + keygatesdk.BootstrapTokenHeader + " header",
		})
		return
	}

	// 3. Parse request body
	var req keygatesdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	// 4. Create admin
	admin, err := h.BootstrapService.Bootstrap(r.Context(), token, req.Handle, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	l.Info("bootstrap completed", "admin_id", admin.ID)
	httpx.WriteJSON(w, http.StatusCreated, toIdentityResponse(admin))
}
