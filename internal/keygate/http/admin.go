package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
)

// AdminHandler serves the /v1/admin routes. Permission checks live in the
// services; every route here still requires the caller's identity.
type AdminHandler struct {
	EntitlementService *service.EntitlementService
	IdentityService    *service.IdentityService
	Clock              clock.TimeSource
}

func (h *AdminHandler) now() time.Time { return clock.Or(h.Clock).Now() }

// HandleListKeys godoc
//
//	@Summary	List all license keys
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header	string	true	"Identity"
//	@Success	200				{array}	keygatesdk.KeyResponse
//	@Failure	403				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/keys [get]
func (h *AdminHandler) HandleListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.EntitlementService.ListAllKeys(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toKeyResponses(keys, h.now()))
}

// HandleRevokeKey godoc
//
//	@Summary	Revoke a license key
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header	string	true	"Identity"
//	@Param		id				path	string	true	"Key ID"
//	@Success	204
//	@Failure	404	{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/keys/{id}/revoke [post]
func (h *AdminHandler) HandleRevokeKey(w http.ResponseWriter, r *http.Request) {
	if err := h.EntitlementService.RevokeKey(r.Context(), httpx.IdentityID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRestoreKey godoc
//
//	@Summary	Restore a revoked license key
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header	string	true	"Identity"
//	@Param		id				path	string	true	"Key ID"
//	@Success	204
//	@Failure	404	{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/keys/{id}/restore [post]
func (h *AdminHandler) HandleRestoreKey(w http.ResponseWriter, r *http.Request) {
	if err := h.EntitlementService.RestoreKey(r.Context(), httpx.IdentityID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBulkKeys godoc
//
//	@Summary	Revoke, restore or delete many keys
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string					true	"Identity"
//	@Param		request			body		keygatesdk.BulkKeyRequest	true	"IDs and action"
//	@Success	200				{object}	keygatesdk.CountResponse
//	@Failure	400				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/keys/bulk [post]
func (h *AdminHandler) HandleBulkKeys(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.BulkKeyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	n, err := h.EntitlementService.BulkKeyAction(r.Context(), httpx.IdentityID(r.Context()), req.IDs, domain.KeyAction(req.Action))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, keygatesdk.CountResponse{Affected: n})
}

// HandleCleanupKeys godoc
//
//	@Summary	Delete old expired or revoked keys
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string						true	"Identity"
//	@Param		request			body		keygatesdk.CleanupKeysRequest	true	"Filter"
//	@Success	200				{object}	keygatesdk.CountResponse
//	@Failure	400				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/keys/cleanup [post]
func (h *AdminHandler) HandleCleanupKeys(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.CleanupKeysRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.OlderThanDays < 0 {
		writeBadRequest(w, "older_than_days must not be negative")
		return
	}

	n, err := h.EntitlementService.CleanupKeys(r.Context(), httpx.IdentityID(r.Context()), domain.CleanupFilter{
		Cutoff:         h.now().AddDate(0, 0, -req.OlderThanDays),
		IncludeExpired: req.IncludeExpired,
		IncludeRevoked: req.IncludeRevoked,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, keygatesdk.CountResponse{Affected: n})
}

// HandleKeyStats godoc
//
//	@Summary	Key cleanup statistics
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string	true	"Identity"
//	@Success	200				{object}	keygatesdk.KeyStatsResponse
//	@Router		/v1/admin/keys/stats [get]
func (h *AdminHandler) HandleKeyStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.EntitlementService.KeyStats(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toKeyStatsResponse(s))
}

// HandleDeleteInvite godoc
//
//	@Summary	Delete an invite
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header	string	true	"Identity"
//	@Param		id				path	string	true	"Invite ID"
//	@Success	204
//	@Router		/v1/admin/invites/{id} [delete]
func (h *AdminHandler) HandleDeleteInvite(w http.ResponseWriter, r *http.Request) {
	if err := h.EntitlementService.DeleteInvite(r.Context(), httpx.IdentityID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBulkDeleteInvites godoc
//
//	@Summary	Delete many invites
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string								true	"Identity"
//	@Param		request			body		keygatesdk.BulkDeleteInvitesRequest	true	"IDs"
//	@Success	200				{object}	keygatesdk.CountResponse
//	@Router		/v1/admin/invites/bulk-delete [post]
func (h *AdminHandler) HandleBulkDeleteInvites(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.BulkDeleteInvitesRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	n, err := h.EntitlementService.BulkDeleteInvites(r.Context(), httpx.IdentityID(r.Context()), req.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, keygatesdk.CountResponse{Affected: n})
}

// HandleGetRoleLimits godoc
//
//	@Summary	Get monthly invite limits
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string	true	"Identity"
//	@Success	200				{object}	keygatesdk.RoleLimits
//	@Router		/v1/admin/role-limits [get]
func (h *AdminHandler) HandleGetRoleLimits(w http.ResponseWriter, r *http.Request) {
	l, err := h.EntitlementService.GetRoleLimits(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleLimits(l))
}

// HandleSetRoleLimits godoc
//
//	@Summary	Replace monthly invite limits
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string				true	"Identity"
//	@Param		request			body		keygatesdk.RoleLimits	true	"Limits"
//	@Success	200				{object}	keygatesdk.RoleLimits
//	@Failure	400				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/role-limits [put]
func (h *AdminHandler) HandleSetRoleLimits(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.RoleLimits
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	l, err := h.EntitlementService.SetRoleLimits(r.Context(), httpx.IdentityID(r.Context()), domain.RoleLimits{
		Admin:   req.Admin,
		Support: req.Support,
		User:    req.User,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleLimits(l))
}

// HandleBan godoc
//
//	@Summary	Ban an identity
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string	true	"Identity"
//	@Param		id				path		string	true	"Target identity"
//	@Success	200				{object}	keygatesdk.IdentityResponse
//	@Failure	403				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/identities/{id}/ban [post]
func (h *AdminHandler) HandleBan(w http.ResponseWriter, r *http.Request) {
	ident, err := h.IdentityService.Ban(r.Context(), httpx.IdentityID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}

// HandleListIdentities godoc
//
//	@Summary	List identities
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header	string	true	"Identity"
//	@Success	200				{array}	keygatesdk.IdentityResponse
//	@Failure	403				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/identities [get]
func (h *AdminHandler) HandleListIdentities(w http.ResponseWriter, r *http.Request) {
	idents, err := h.IdentityService.List(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIdentityResponses(idents))
}

// HandleInspectIdentity godoc
//
//	@Summary	Show an identity and its keys
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string	true	"Identity"
//	@Param		id				path		string	true	"Identity ID or handle"
//	@Success	200				{object}	keygatesdk.IdentityDetailResponse
//	@Failure	403				{object}	keygatesdk.ErrorResponse
//	@Failure	404				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/identities/{id} [get]
func (h *AdminHandler) HandleInspectIdentity(w http.ResponseWriter, r *http.Request) {
	d, err := h.IdentityService.Inspect(r.Context(), httpx.IdentityID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIdentityDetailResponse(d, h.now()))
}

// HandleUnban godoc
//
//	@Summary	Unban an identity
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string	true	"Identity"
//	@Param		id				path		string	true	"Target identity"
//	@Success	200				{object}	keygatesdk.IdentityResponse
//	@Failure	403				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/identities/{id}/unban [post]
func (h *AdminHandler) HandleUnban(w http.ResponseWriter, r *http.Request) {
	ident, err := h.IdentityService.Unban(r.Context(), httpx.IdentityID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}

// HandleSetRole godoc
//
//	@Summary	Change an identity's role
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Identity-ID	header		string					true	"Identity"
//	@Param		id				path		string					true	"Target identity"
//	@Param		request			body		keygatesdk.SetRoleRequest	true	"Role"
//	@Success	200				{object}	keygatesdk.IdentityResponse
//	@Failure	400				{object}	keygatesdk.ErrorResponse
//	@Router		/v1/admin/identities/{id}/role [put]
func (h *AdminHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.SetRoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ident, err := h.IdentityService.SetRole(r.Context(), httpx.IdentityID(r.Context()), r.PathValue("id"), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIdentityResponse(ident))
}
