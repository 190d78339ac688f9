package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// RoleLimitPolicy maps roles to monthly invite quotas. It is the only place
// quota numbers are read.
type RoleLimitPolicy struct {
	Store    store.Store
	Defaults domain.RoleLimits
	Clock    clock.TimeSource
}

func (p *RoleLimitPolicy) defaults() domain.RoleLimits {
	if p.Defaults == (domain.RoleLimits{}) {
		return domain.DefaultRoleLimits()
	}
	return p.Defaults
}

// Ensure seeds the singleton if it is absent.
func (p *RoleLimitPolicy) Ensure(ctx context.Context) error {
	return withConflictRetry(ctx, func() error {
		return p.Store.RoleLimits().EnsureRoleLimits(ctx, p.defaults())
	})
}

func (p *RoleLimitPolicy) Limits(ctx context.Context) (domain.RoleLimits, error) {
	return p.limitsIn(ctx, p.Store)
}

func (p *RoleLimitPolicy) limitsIn(ctx context.Context, st store.Store) (domain.RoleLimits, error) {
	l, err := st.RoleLimits().GetRoleLimits(ctx)
	if errors.Is(err, store.ErrNotFound) {
		if err := st.RoleLimits().EnsureRoleLimits(ctx, p.defaults()); err != nil {
			return domain.RoleLimits{}, err
		}
		l, err = st.RoleLimits().GetRoleLimits(ctx)
	}
	return l, err
}

// quotaIn computes the creator's position in the current calendar month.
// Only staff roles can create invites, so a user's quota is reported as zero
// whatever the table says.
func (p *RoleLimitPolicy) quotaIn(ctx context.Context, st store.Store, who domain.Identity) (domain.Quota, domain.RoleLimits, error) {
	limits, err := p.limitsIn(ctx, st)
	if err != nil {
		return domain.Quota{}, domain.RoleLimits{}, err
	}

	now := clock.Or(p.Clock).Now()
	start := clock.MonthStart(now)
	used, err := st.Invites().CountInvitesCreatedSince(ctx, who.ID, start)
	if err != nil {
		return domain.Quota{}, domain.RoleLimits{}, err
	}

	limit := limits.For(who.Role)
	if !who.Role.CanCreateInvite() {
		limit = 0
	}
	return domain.Quota{
		Role:         who.Role,
		MonthlyLimit: limit,
		Used:         used,
		Remaining:    max(limit-used, 0),
		WindowStart:  start,
		ResetsAt:     start.AddDate(0, 1, 0),
	}, limits, nil
}

// Set replaces the table. Concurrent writers resolve last-writer-wins.
func (p *RoleLimitPolicy) Set(ctx context.Context, l domain.RoleLimits) (domain.RoleLimits, error) {
	if err := l.Validate(); err != nil {
		return domain.RoleLimits{}, validationError(err.Error())
	}
	l.UpdatedAt = clock.Or(p.Clock).Now()

	err := withConflictRetry(ctx, func() error {
		return p.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.RoleLimits().EnsureRoleLimits(ctx, p.defaults()); err != nil {
				return err
			}
			return tx.RoleLimits().UpdateRoleLimits(ctx, l)
		})
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to update role limits", slog.Any("error", err))
		return domain.RoleLimits{}, err
	}

	slogx.FromContext(ctx).Info("role limits updated",
		slog.Int("admin", l.Admin),
		slog.Int("support", l.Support),
		slog.Int("user", l.User),
	)
	return l, nil
}
