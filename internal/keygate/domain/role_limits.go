package domain

import (
	"errors"
	"time"
)

// RoleLimits is the singleton monthly invite quota table.
type RoleLimits struct {
	Admin     int
	Support   int
	User      int
	UpdatedAt time.Time
}

// DefaultRoleLimits seeds the singleton the first time the store is opened.
func DefaultRoleLimits() RoleLimits {
	return RoleLimits{Admin: 999, Support: 10, User: 0}
}

// For returns the monthly quota for r. Unknown roles get zero.
func (l RoleLimits) For(r Role) int {
	switch r {
	case RoleAdmin:
		return l.Admin
	case RoleSupport:
		return l.Support
	case RoleUser:
		return l.User
	default:
		return 0
	}
}

func (l RoleLimits) Validate() error {
	if l.Admin < 0 || l.Support < 0 || l.User < 0 {
		return errors.New("role limits must be non-negative")
	}
	return nil
}
