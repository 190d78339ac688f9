package http

import (
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
)

type KeysHandler struct {
	EntitlementService *service.EntitlementService
	Clock              clock.TimeSource
}

// HandleVerify reports whether a token is currently valid.
//
//	@Summary		Verify a license key
//	@Description	Public. Every failure, including unknown tokens and malformed bodies, yields valid=false.
//	@Tags			Keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		keygatesdk.VerifyKeyRequest	true	"Token"
//	@Success		200		{object}	keygatesdk.VerifyKeyResponse
//	@Failure		429		{object}	keygatesdk.ErrorResponse
//	@Router			/v1/keys/verify [post]
func (h *KeysHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.VerifyKeyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteJSON(w, http.StatusOK, keygatesdk.VerifyKeyResponse{})
		return
	}

	v := h.EntitlementService.VerifyKey(r.Context(), req.Token)
	httpx.WriteJSON(w, http.StatusOK, keygatesdk.VerifyKeyResponse{
		Valid:           v.Valid,
		TimeLeftSeconds: seconds(v.TimeLeft),
		OwnerHandle:     v.OwnerHandle,
	})
}

// HandleRedeem claims a key for the calling identity.
//
//	@Summary		Redeem a license key
//	@Tags			Keys
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Identity-ID	header		string						true	"Identity"
//	@Param			request			body		keygatesdk.RedeemKeyRequest	true	"Token"
//	@Success		200				{object}	keygatesdk.RedeemKeyResponse
//	@Failure		403				{object}	keygatesdk.ErrorResponse	"Banned"
//	@Failure		404				{object}	keygatesdk.ErrorResponse	"Unknown token"
//	@Failure		409				{object}	keygatesdk.ErrorResponse	"Claimed by another identity or revoked"
//	@Failure		410				{object}	keygatesdk.ErrorResponse	"Expired"
//	@Router			/v1/keys/redeem [post]
func (h *KeysHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.RedeemKeyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	res, err := h.EntitlementService.RedeemKey(r.Context(), httpx.IdentityID(r.Context()), req.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRedeemResponse(res))
}

// HandleGenerate issues a new key. Staff only.
//
//	@Summary		Generate a license key
//	@Description	With owner_id the key is bound and activated at once; otherwise it stays free until redeemed.
//	@Tags			Keys
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Identity-ID	header		string							true	"Identity"
//	@Param			request			body		keygatesdk.GenerateKeyRequest	true	"Key parameters"
//	@Success		201				{object}	keygatesdk.KeyResponse
//	@Failure		400				{object}	keygatesdk.ErrorResponse
//	@Failure		403				{object}	keygatesdk.ErrorResponse
//	@Failure		409				{object}	keygatesdk.ErrorResponse	"Duplicate custom token"
//	@Router			/v1/keys [post]
func (h *KeysHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.GenerateKeyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	k, err := h.EntitlementService.GenerateKey(r.Context(), httpx.IdentityID(r.Context()), service.IssueKeyParams{
		OwnerID:     req.OwnerID,
		Duration:    hours(req.DurationHours),
		CustomToken: req.CustomToken,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toKeyResponse(k, clock.Or(h.Clock).Now()))
}

// HandleList returns the caller's own keys.
//
//	@Summary		List own license keys
//	@Tags			Keys
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Identity-ID	header	string	true	"Identity"
//	@Success		200				{array}	keygatesdk.KeyResponse
//	@Router			/v1/keys [get]
func (h *KeysHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	keys, err := h.EntitlementService.ListKeys(r.Context(), httpx.IdentityID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toKeyResponses(keys, clock.Or(h.Clock).Now()))
}
