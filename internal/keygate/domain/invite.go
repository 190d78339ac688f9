package domain

import "time"

// DefaultInviteTTL is how long an invite stays redeemable.
const DefaultInviteTTL = 30 * 24 * time.Hour

// Invite is a single-use referral code. Used and UsedBy change together,
// exactly once.
type Invite struct {
	ID        string
	Code      string
	CreatedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
	UsedBy    string
}

func (i Invite) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Quota is a creator's position inside the current monthly window.
type Quota struct {
	Role         Role
	MonthlyLimit int
	Used         int
	Remaining    int
	WindowStart  time.Time
	ResetsAt     time.Time
}
