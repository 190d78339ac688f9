package domain

import "time"

// Identity is a registered principal. ExternalID is the chat platform account
// bound through a link code, unique across identities.
type Identity struct {
	ID             string
	Handle         string
	PasswordHash   string // argon2 encoded
	Role           Role
	Banned         bool
	ExternalID     string // empty until linked
	ExternalHandle string
	InvitedBy      string // creator of the consumed invite, empty for bootstrap admins
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (i Identity) Linked() bool { return i.ExternalID != "" }
