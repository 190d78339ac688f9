package keygatesdk

import (
	"context"
	"net/http"
	"net/url"
)

func (s *Session) Me(ctx context.Context) (*IdentityResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/me", nil)
	return call[IdentityResponse](resp, err, http.StatusOK)
}

func (s *Session) ListKeys(ctx context.Context) ([]KeyResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/keys", nil)
	out, err := call[[]KeyResponse](resp, err, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (s *Session) RedeemKey(ctx context.Context, token string) (*RedeemKeyResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/keys/redeem", RedeemKeyRequest{Token: token})
	return call[RedeemKeyResponse](resp, err, http.StatusOK)
}

// GenerateKey requires the support or admin role.
func (s *Session) GenerateKey(ctx context.Context, req GenerateKeyRequest) (*KeyResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/keys", req)
	return call[KeyResponse](resp, err, http.StatusCreated)
}

func (s *Session) CreateLinkCode(ctx context.Context) (*LinkCodeResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/link-codes", nil)
	return call[LinkCodeResponse](resp, err, http.StatusCreated)
}

// Admin

func (s *Session) ListAllKeys(ctx context.Context) ([]KeyResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/admin/keys", nil)
	out, err := call[[]KeyResponse](resp, err, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (s *Session) RevokeKey(ctx context.Context, keyID string) error {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/admin/keys/"+url.PathEscape(keyID)+"/revoke", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) RestoreKey(ctx context.Context, keyID string) error {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/admin/keys/"+url.PathEscape(keyID)+"/restore", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) BulkKeyAction(ctx context.Context, req BulkKeyRequest) (*CountResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/admin/keys/bulk", req)
	return call[CountResponse](resp, err, http.StatusOK)
}

func (s *Session) CleanupKeys(ctx context.Context, req CleanupKeysRequest) (*CountResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodPost, "/v1/admin/keys/cleanup", req)
	return call[CountResponse](resp, err, http.StatusOK)
}

func (s *Session) KeyStats(ctx context.Context) (*KeyStatsResponse, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/v1/admin/keys/stats", nil)
	return call[KeyStatsResponse](resp, err, http.StatusOK)
}
