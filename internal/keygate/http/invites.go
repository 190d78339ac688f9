package http

import (
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
)

type InvitesHandler struct {
	EntitlementService *service.EntitlementService
}

// HandleCreate issues an invite against the caller's monthly quota.
//
//	@Summary		Create an invite
//	@Tags			Invites
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Identity-ID	header		string	true	"Identity"
//	@Success		201				{object}	keygatesdk.InviteResponse
//	@Failure		403				{object}	keygatesdk.ErrorResponse	"Role may not invite, banned, or quota exceeded"
//	@Router			/v1/invites [post]
func (h *InvitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	inv, err := h.EntitlementService.GenerateInvite(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toInviteResponse(inv))
}

// HandleList returns the caller's invites; admins see all of them.
//
//	@Summary		List invites
//	@Tags			Invites
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Identity-ID	header	string	true	"Identity"
//	@Success		200				{array}	keygatesdk.InviteResponse
//	@Router			/v1/invites [get]
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	invites, err := h.EntitlementService.ListInvites(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInviteResponses(invites))
}

// HandleQuota reports the caller's position in the current month.
//
//	@Summary		Get invite quota
//	@Tags			Invites
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Identity-ID	header		string	true	"Identity"
//	@Success		200				{object}	keygatesdk.QuotaResponse
//	@Router			/v1/invites/quota [get]
func (h *InvitesHandler) HandleQuota(w http.ResponseWriter, r *http.Request) {
	v, err := h.EntitlementService.GetQuota(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toQuotaResponse(v))
}
