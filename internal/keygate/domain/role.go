package domain

import "fmt"

type Role string

const (
	RoleUser    Role = "user"
	RoleSupport Role = "support"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleSupport, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// CanCreateInvite is true for staff roles only. Users never create invites
// even if their configured quota is raised above zero.
func (r Role) CanCreateInvite() bool {
	return r == RoleAdmin || r == RoleSupport
}

// CanIssueKeys reports whether the role may mint license keys.
func (r Role) CanIssueKeys() bool {
	return r == RoleAdmin || r == RoleSupport
}

// CanModerate reports whether r may ban or unban an identity holding target.
// Admins moderate anyone; support moderates users only.
func (r Role) CanModerate(target Role) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleSupport:
		return target == RoleUser
	default:
		return false
	}
}

// IsStaff reports whether the role may look up other identities.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSupport
}
