package domain

import "time"

// Key is a license token. Expiry is derived: a key starts counting down only
// once activated, so a free key that has never been redeemed never expires.
// ExpiresAt is persisted alongside ActivatedAt so stores can filter on it.
type Key struct {
	ID          string
	Token       string
	OwnerID     string // empty until claimed; immutable afterwards
	OwnerHandle string // populated on admin listings only
	Duration    time.Duration
	Active      bool
	CreatedAt   time.Time
	ActivatedAt *time.Time
	ExpiresAt   *time.Time
	UpdatedAt   time.Time
}

func (k Key) Claimed() bool   { return k.OwnerID != "" }
func (k Key) Activated() bool { return k.ActivatedAt != nil }

// Activate binds the key to owner at the given instant and fixes its expiry.
func (k *Key) Activate(ownerID string, at time.Time) {
	at = at.UTC()
	exp := at.Add(k.Duration)
	k.OwnerID = ownerID
	k.ActivatedAt = &at
	k.ExpiresAt = &exp
	k.UpdatedAt = at
}

// Expiry returns activatedAt+duration, or false for unactivated keys.
func (k Key) Expiry() (time.Time, bool) {
	if k.ActivatedAt == nil {
		return time.Time{}, false
	}
	return k.ActivatedAt.Add(k.Duration), true
}

func (k Key) IsExpired(now time.Time) bool {
	exp, ok := k.Expiry()
	return ok && !now.Before(exp)
}

// TimeLeft is the remaining entitlement, clamped at zero. An unactivated key
// reports its full duration.
func (k Key) TimeLeft(now time.Time) time.Duration {
	exp, ok := k.Expiry()
	if !ok {
		return k.Duration
	}
	return max(exp.Sub(now), 0)
}

// IsValid holds iff the key is active, unexpired and owned.
func (k Key) IsValid(now time.Time) bool {
	return k.Active && k.Claimed() && !k.IsExpired(now)
}

// KeyAction is a bulk operation over key ids.
type KeyAction string

const (
	KeyActionRevoke  KeyAction = "revoke"
	KeyActionRestore KeyAction = "restore"
	KeyActionDelete  KeyAction = "delete"
)

func (a KeyAction) Valid() bool {
	switch a {
	case KeyActionRevoke, KeyActionRestore, KeyActionDelete:
		return true
	}
	return false
}

// CleanupFilter selects keys created before Cutoff that match at least one of
// the enabled predicates.
type CleanupFilter struct {
	Cutoff         time.Time
	IncludeExpired bool
	IncludeRevoked bool
}

type KeyStats struct {
	Total         int
	Expired       int
	Revoked       int
	OlderThan30d  int
	OlderThan90d  int
	OlderThan180d int
	GeneratedAt   time.Time
}
