// Package rolesink defines the chat platform collaborator that mirrors
// entitlement as a role grant.
package rolesink

//go:generate mockgen -source=rolesink.go -destination=mock/mock_rolesink.go -package=mock

import (
	"context"
	"errors"
)

// ErrAccountNotFound means the platform has no member for the external id.
// Callers treat it as a skip, not a failure.
var ErrAccountNotFound = errors.New("rolesink: external account not found")

// RoleSink grants or revokes the subscriber role for an external account.
// Both calls are idempotent, and an empty externalID is a no-op.
type RoleSink interface {
	GrantRole(ctx context.Context, externalID string) error
	RevokeRole(ctx context.Context, externalID string) error
}

// Noop accepts every call. It is wired when no platform is configured.
type Noop struct{}

func (Noop) GrantRole(context.Context, string) error  { return nil }
func (Noop) RevokeRole(context.Context, string) error { return nil }
