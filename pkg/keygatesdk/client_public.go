package keygatesdk

import (
	"context"
	"net/http"
	"net/url"
)

// Bootstrap creates the first admin. token is the server's configured
// bootstrap token.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*IdentityResponse, error) {
	resp, err := c.doPublicRequest(ctx, http.MethodPost, "/v1/bootstrap", req, map[string]string{
		BootstrapTokenHeader: token,
	})
	return call[IdentityResponse](resp, err, http.StatusCreated)
}

// Register consumes an invite and creates a user identity. No secret is
// sent.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doPublicRequest(ctx, http.MethodPost, "/v1/register", req, nil)
	return call[RegisterResponse](resp, err, http.StatusCreated)
}

// VerifyKey never returns an APIError for an invalid key; check Valid. No
// secret is sent, so desktop clients can call it with NewClient(url, "").
func (c *Client) VerifyKey(ctx context.Context, token string) (*VerifyKeyResponse, error) {
	resp, err := c.doPublicRequest(ctx, http.MethodPost, "/v1/keys/verify", VerifyKeyRequest{Token: token}, nil)
	return call[VerifyKeyResponse](resp, err, http.StatusOK)
}

// LinkExternal binds a chat account using a link code. Called by the bot.
func (c *Client) LinkExternal(ctx context.Context, req ExternalLinkRequest) (*IdentityResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/external/link", "", req, nil)
	return call[IdentityResponse](resp, err, http.StatusOK)
}

// RedeemKeyByExternal redeems on behalf of a linked chat account.
func (c *Client) RedeemKeyByExternal(ctx context.Context, externalID, token string) (*RedeemKeyResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/external/redeem", "",
		ExternalRedeemRequest{ExternalID: externalID, Token: token}, nil)
	return call[RedeemKeyResponse](resp, err, http.StatusOK)
}

// ExternalStatus reports the subscription state of a linked chat account.
func (c *Client) ExternalStatus(ctx context.Context, externalID string) (*ExternalStatusResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet,
		"/v1/external/status?external_id="+url.QueryEscape(externalID), "", nil, nil)
	return call[ExternalStatusResponse](resp, err, http.StatusOK)
}
