package keygatesdk

import (
	"context"
	"net/http"
	"net/url"
)

func (s *Session) Ban(ctx context.Context, identityID string) (*IdentityResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/admin/identities/"+url.PathEscape(identityID)+"/ban", nil)
	return call[IdentityResponse](resp, err, http.StatusOK)
}

func (s *Session) Unban(ctx context.Context, identityID string) (*IdentityResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/admin/identities/"+url.PathEscape(identityID)+"/unban", nil)
	return call[IdentityResponse](resp, err, http.StatusOK)
}

func (s *Session) SetRole(ctx context.Context, identityID, role string) (*IdentityResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPut, "/v1/admin/identities/"+url.PathEscape(identityID)+"/role",
		SetRoleRequest{Role: role})
	return call[IdentityResponse](resp, err, http.StatusOK)
}

// ListIdentities returns every identity. Admin or support only.
func (s *Session) ListIdentities(ctx context.Context) ([]IdentityResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/admin/identities", nil)
	out, err := call[[]IdentityResponse](resp, err, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// InspectIdentity looks an identity up by id or handle and returns it with
// its keys. Admin or support only.
func (s *Session) InspectIdentity(ctx context.Context, idOrHandle string) (*IdentityDetailResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/admin/identities/"+url.PathEscape(idOrHandle), nil)
	return call[IdentityDetailResponse](resp, err, http.StatusOK)
}
