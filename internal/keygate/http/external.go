package http

import (
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
)

// ExternalHandler serves the chat bot. Requests carry the API secret but no
// identity; the chat account id stands in for it.
type ExternalHandler struct {
	IdentityService    *service.IdentityService
	EntitlementService *service.EntitlementService
	Clock              clock.TimeSource
}

// HandleLink binds a chat account using a link code.
//
//	@Summary		Link a chat account
//	@Tags			External
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		keygatesdk.ExternalLinkRequest	true	"Link code and chat account"
//	@Success		200		{object}	keygatesdk.IdentityResponse
//	@Failure		404		{object}	keygatesdk.ErrorResponse	"Link code invalid or expired"
//	@Failure		409		{object}	keygatesdk.ErrorResponse	"Chat account linked elsewhere"
//	@Router			/v1/external/link [post]
func (h *ExternalHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.ExternalLinkRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ident, err := h.IdentityService.LinkExternal(r.Context(), req.Code, req.ExternalID, req.ExternalHandle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}

// HandleRedeem redeems a key for the identity linked to a chat account.
//
//	@Summary		Redeem a key by chat account
//	@Tags			External
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		keygatesdk.ExternalRedeemRequest	true	"Chat account and token"
//	@Success		200		{object}	keygatesdk.RedeemKeyResponse
//	@Failure		404		{object}	keygatesdk.ErrorResponse	"Not linked or unknown token"
//	@Router			/v1/external/redeem [post]
func (h *ExternalHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.ExternalRedeemRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	res, err := h.EntitlementService.RedeemKeyByExternal(r.Context(), req.ExternalID, req.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRedeemResponse(res))
}

// HandleStatus reports the subscription state of a linked chat account.
//
//	@Summary		Subscription status by chat account
//	@Tags			External
//	@Produce		json
//	@Security		BearerAuth
//	@Param			external_id	query		string	true	"Chat account id"
//	@Success		200			{object}	keygatesdk.ExternalStatusResponse
//	@Failure		404			{object}	keygatesdk.ErrorResponse	"Not linked"
//	@Router			/v1/external/status [get]
func (h *ExternalHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.EntitlementService.StatusByExternal(r.Context(), r.URL.Query().Get("external_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExternalStatusResponse(st, clock.Or(h.Clock).Now()))
}
