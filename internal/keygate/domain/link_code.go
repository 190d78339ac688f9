package domain

import "time"

// DefaultLinkCodeTTL bounds how long a chat account link code is valid.
const DefaultLinkCodeTTL = 15 * time.Minute

// LinkCode is a short-lived code an identity hands to the chat bot to bind its
// external account.
type LinkCode struct {
	Code       string
	IdentityID string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Used       bool
}

func (c LinkCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
