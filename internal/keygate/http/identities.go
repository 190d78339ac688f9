package http

import (
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
)

type IdentityHandler struct {
	IdentityService *service.IdentityService
}

// HandleMe returns the caller's profile.
//
//	@Summary		Current identity
//	@Tags			Identities
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Identity-ID	header		string	true	"Identity"
//	@Success		200				{object}	keygatesdk.IdentityResponse
//	@Failure		404				{object}	keygatesdk.ErrorResponse
//	@Router			/v1/me [get]
func (h *IdentityHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ident, err := h.IdentityService.Get(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}

// HandleLinkCode issues a short-lived code for linking a chat account.
//
//	@Summary		Create a chat link code
//	@Tags			Identities
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Identity-ID	header		string	true	"Identity"
//	@Success		201				{object}	keygatesdk.LinkCodeResponse
//	@Router			/v1/link-codes [post]
func (h *IdentityHandler) HandleLinkCode(w http.ResponseWriter, r *http.Request) {
	res, err := h.IdentityService.GenerateLinkCode(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, keygatesdk.LinkCodeResponse{
		Code:      res.Code,
		ExpiresAt: res.ExpiresAt,
	})
}
