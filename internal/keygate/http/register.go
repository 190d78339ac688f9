package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
)

type RegisterHandler struct {
	IdentityService *service.IdentityService
	Clock           clock.TimeSource
}

// ServeHTTP consumes an invite and creates a user identity.
//
//	@Summary		Register with an invite code
//	@Description	Consumes a single-use invite and creates a user identity. A trial key is issued when enabled.
//	@Tags			Identities
//	@Accept			json
//	@Produce		json
//	@Param			request	body		keygatesdk.RegisterRequest	true	"Invite code and credentials"
//	@Success		201		{object}	keygatesdk.RegisterResponse
//	@Failure		400		{object}	keygatesdk.ErrorResponse	"Invalid handle or password"
//	@Failure		404		{object}	keygatesdk.ErrorResponse	"Unknown invite code"
//	@Failure		409		{object}	keygatesdk.ErrorResponse	"Invite already used or handle taken"
//	@Failure		410		{object}	keygatesdk.ErrorResponse	"Invite expired"
//	@Router			/v1/register [post]
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req keygatesdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	res, err := h.IdentityService.Register(r.Context(), service.RegisterParams{
		InviteCode: req.InviteCode,
		Handle:     req.Handle,
		Password:   req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := keygatesdk.RegisterResponse{Identity: toIdentityResponse(res.Identity)}
	if res.TrialKey != nil {
		k := toKeyResponse(*res.TrialKey, clock.Or(h.Clock).Now())
		out.TrialKey = &k
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

func hours(n int) time.Duration { return time.Duration(n) * time.Hour }
