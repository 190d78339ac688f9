package keygatesdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateInvite spends one unit of the caller's monthly quota.
func (s *Session) CreateInvite(ctx context.Context) (*InviteResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/invites", nil)
	return call[InviteResponse](resp, err, http.StatusCreated)
}

// ListInvites returns the caller's invites, or every invite for admins.
func (s *Session) ListInvites(ctx context.Context) ([]InviteResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/invites", nil)
	out, err := call[[]InviteResponse](resp, err, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (s *Session) Quota(ctx context.Context) (*QuotaResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/invites/quota", nil)
	return call[QuotaResponse](resp, err, http.StatusOK)
}

func (s *Session) DeleteInvite(ctx context.Context, inviteID string) error {
	resp, err := s.doRequest(ctx, http.MethodDelete, "/v1/admin/invites/"+url.PathEscape(inviteID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) BulkDeleteInvites(ctx context.Context, ids []string) (*CountResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/admin/invites/bulk-delete", BulkDeleteInvitesRequest{IDs: ids})
	return call[CountResponse](resp, err, http.StatusOK)
}

func (s *Session) RoleLimits(ctx context.Context) (*RoleLimits, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/admin/role-limits", nil)
	return call[RoleLimits](resp, err, http.StatusOK)
}

func (s *Session) SetRoleLimits(ctx context.Context, l RoleLimits) (*RoleLimits, error) {
	resp, err := s.doRequest(ctx, http.MethodPut, "/v1/admin/role-limits", l)
	return call[RoleLimits](resp, err, http.StatusOK)
}
