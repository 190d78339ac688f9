package keygatesdk

import (
	"net/http"
	"strings"
	"time"
)

// BootstrapTokenHeader carries the one-time bootstrap token.
const BootstrapTokenHeader = "X-Bootstrap-Token"

// IdentityHeader carries the identity asserted by the gateway.
const IdentityHeader = "X-Identity-ID"

// Client talks to a keygate server using the shared API secret.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Secret     string
}

func NewClient(baseURL, secret string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Secret: secret,
	}
}

// Session returns a view of the client acting as identityID.
func (c *Client) Session(identityID string) *Session {
	return &Session{client: c, identityID: identityID}
}

// Session issues identity-scoped requests.
type Session struct {
	client     *Client
	identityID string
}

func (s *Session) IdentityID() string { return s.identityID }
