package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
)

// DefaultSinkTimeout bounds a single grant or revoke call.
const DefaultSinkTimeout = 10 * time.Second

type roleSync struct {
	sink    rolesink.RoleSink
	timeout time.Duration
}

func newRoleSync(sink rolesink.RoleSink, timeout time.Duration) roleSync {
	if sink == nil {
		sink = rolesink.Noop{}
	}
	if timeout <= 0 {
		timeout = DefaultSinkTimeout
	}
	return roleSync{sink: sink, timeout: timeout}
}

func (r roleSync) grant(ctx context.Context, externalID string) error {
	if externalID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return sinkErr(r.sink.GrantRole(ctx, externalID))
}

func (r roleSync) revoke(ctx context.Context, externalID string) error {
	if externalID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return sinkErr(r.sink.RevokeRole(ctx, externalID))
}

// sinkErr keeps ErrAccountNotFound distinguishable and folds every other
// platform failure into ErrExternalUnavailable.
func sinkErr(err error) error {
	if err == nil || errors.Is(err, rolesink.ErrAccountNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrExternalUnavailable, err)
}
