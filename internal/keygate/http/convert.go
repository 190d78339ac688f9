package http

import (
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
)

func seconds(d time.Duration) int64 { return int64(d / time.Second) }

func toIdentityResponse(i domain.Identity) keygatesdk.IdentityResponse {
	return keygatesdk.IdentityResponse{
		ID:             i.ID,
		Handle:         i.Handle,
		Role:           i.Role.String(),
		Banned:         i.Banned,
		ExternalID:     i.ExternalID,
		ExternalHandle: i.ExternalHandle,
		InvitedBy:      i.InvitedBy,
		CreatedAt:      i.CreatedAt,
	}
}

func toKeyResponse(k domain.Key, now time.Time) keygatesdk.KeyResponse {
	return keygatesdk.KeyResponse{
		ID:              k.ID,
		Token:           k.Token,
		OwnerID:         k.OwnerID,
		OwnerHandle:     k.OwnerHandle,
		DurationSeconds: seconds(k.Duration),
		Active:          k.Active,
		CreatedAt:       k.CreatedAt,
		ActivatedAt:     k.ActivatedAt,
		ExpiresAt:       k.ExpiresAt,
		TimeLeftSeconds: seconds(k.TimeLeft(now)),
	}
}

func toKeyResponses(keys []domain.Key, now time.Time) []keygatesdk.KeyResponse {
	out := make([]keygatesdk.KeyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, toKeyResponse(k, now))
	}
	return out
}

func toIdentityResponses(idents []domain.Identity) []keygatesdk.IdentityResponse {
	out := make([]keygatesdk.IdentityResponse, 0, len(idents))
	for _, i := range idents {
		out = append(out, toIdentityResponse(i))
	}
	return out
}

func toIdentityDetailResponse(d service.IdentityDetail, now time.Time) keygatesdk.IdentityDetailResponse {
	return keygatesdk.IdentityDetailResponse{
		Identity: toIdentityResponse(d.Identity),
		Keys:     toKeyResponses(d.Keys, now),
	}
}

func toExternalStatusResponse(st service.ExternalStatus, now time.Time) keygatesdk.ExternalStatusResponse {
	return keygatesdk.ExternalStatusResponse{
		Identity:  toIdentityResponse(st.Identity),
		Entitled:  st.Entitled,
		ValidKeys: toKeyResponses(st.ValidKeys, now),
	}
}

func toRedeemResponse(res service.RedeemResult) keygatesdk.RedeemKeyResponse {
	out := keygatesdk.RedeemKeyResponse{
		Token:           res.Key.Token,
		TimeLeftSeconds: seconds(res.TimeLeft),
	}
	if res.Key.ExpiresAt != nil {
		out.ExpiresAt = *res.Key.ExpiresAt
	}
	return out
}

func toInviteResponse(i domain.Invite) keygatesdk.InviteResponse {
	return keygatesdk.InviteResponse{
		ID:        i.ID,
		Code:      i.Code,
		CreatedBy: i.CreatedBy,
		CreatedAt: i.CreatedAt,
		ExpiresAt: i.ExpiresAt,
		Used:      i.Used,
		UsedBy:    i.UsedBy,
	}
}

func toInviteResponses(invites []domain.Invite) []keygatesdk.InviteResponse {
	out := make([]keygatesdk.InviteResponse, 0, len(invites))
	for _, i := range invites {
		out = append(out, toInviteResponse(i))
	}
	return out
}

func toRoleLimits(l domain.RoleLimits) keygatesdk.RoleLimits {
	out := keygatesdk.RoleLimits{Admin: l.Admin, Support: l.Support, User: l.User}
	if !l.UpdatedAt.IsZero() {
		at := l.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

func toQuotaResponse(v service.QuotaView) keygatesdk.QuotaResponse {
	return keygatesdk.QuotaResponse{
		Role:         v.Quota.Role.String(),
		MonthlyLimit: v.Quota.MonthlyLimit,
		Used:         v.Quota.Used,
		Remaining:    v.Quota.Remaining,
		ResetsAt:     v.Quota.ResetsAt,
		Limits:       toRoleLimits(v.Limits),
	}
}

func toKeyStatsResponse(s domain.KeyStats) keygatesdk.KeyStatsResponse {
	return keygatesdk.KeyStatsResponse{
		Total:         s.Total,
		Expired:       s.Expired,
		Revoked:       s.Revoked,
		OlderThan30d:  s.OlderThan30d,
		OlderThan90d:  s.OlderThan90d,
		OlderThan180d: s.OlderThan180d,
		GeneratedAt:   s.GeneratedAt,
	}
}
