package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvite_RolePermissions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	admin := e.seed(t, "admin", domain.RoleAdmin)
	user := e.seed(t, "user", domain.RoleUser)

	inv, err := e.ent.GenerateInvite(ctx, admin.ID)
	require.NoError(t, err)
	require.True(t, cryptox.ValidCode(cryptox.InviteCodeFormat, inv.Code))
	require.Equal(t, t0.Add(domain.DefaultInviteTTL), inv.ExpiresAt)

	_, err = e.ent.GenerateInvite(ctx, user.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	// Raising the user quota does not let users invite.
	_, err = e.ent.SetRoleLimits(ctx, admin.ID, domain.RoleLimits{Admin: 999, Support: 10, User: 5})
	require.NoError(t, err)
	_, err = e.ent.GenerateInvite(ctx, user.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	q, err := e.ent.GetQuota(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, q.Quota.MonthlyLimit)
	require.Equal(t, 5, q.Limits.User)
}

func TestGenerateInvite_MonthlyQuotaRollsOver(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	support := e.seed(t, "support", domain.RoleSupport)

	for i := range 10 {
		_, err := e.ent.GenerateInvite(ctx, support.ID)
		require.NoError(t, err, "invite %d", i+1)
		e.clock.Advance(time.Hour)
	}

	_, err := e.ent.GenerateInvite(ctx, support.ID)
	require.ErrorIs(t, err, service.ErrQuotaExceeded)

	q, err := e.ent.GetQuota(ctx, support.ID)
	require.NoError(t, err)
	require.Equal(t, 10, q.Quota.MonthlyLimit)
	require.Equal(t, 10, q.Quota.Used)
	require.Zero(t, q.Quota.Remaining)
	require.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), q.Quota.ResetsAt)

	// Last second of March is still the same window.
	e.clock.Set(time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC))
	_, err = e.ent.GenerateInvite(ctx, support.ID)
	require.ErrorIs(t, err, service.ErrQuotaExceeded)

	e.clock.Set(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	_, err = e.ent.GenerateInvite(ctx, support.ID)
	require.NoError(t, err)

	q, err = e.ent.GetQuota(ctx, support.ID)
	require.NoError(t, err)
	require.Equal(t, 1, q.Quota.Used)
	require.Equal(t, 9, q.Quota.Remaining)
}

func TestGenerateInvite_QuotaFollowsLimitChanges(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	admin := e.seed(t, "admin", domain.RoleAdmin)
	support := e.seed(t, "support", domain.RoleSupport)

	_, err := e.ent.SetRoleLimits(ctx, admin.ID, domain.RoleLimits{Admin: 999, Support: 1})
	require.NoError(t, err)

	_, err = e.ent.GenerateInvite(ctx, support.ID)
	require.NoError(t, err)
	_, err = e.ent.GenerateInvite(ctx, support.ID)
	require.ErrorIs(t, err, service.ErrQuotaExceeded)

	_, err = e.ent.SetRoleLimits(ctx, admin.ID, domain.RoleLimits{Admin: 999, Support: -1})
	require.ErrorIs(t, err, service.ErrValidation)
	_, err = e.ent.SetRoleLimits(ctx, support.ID, domain.RoleLimits{Support: 50})
	require.ErrorIs(t, err, service.ErrForbidden)

	limits, err := e.ent.GetRoleLimits(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, limits.Support)
}

func TestConsumeInvite(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	admin := e.seed(t, "admin", domain.RoleAdmin)
	alice := e.seed(t, "alice", domain.RoleUser)
	bob := e.seed(t, "bob", domain.RoleUser)

	inv, err := e.ent.GenerateInvite(ctx, admin.ID)
	require.NoError(t, err)

	got, err := e.ent.ConsumeInvite(ctx, inv.Code, alice.ID)
	require.NoError(t, err)
	require.True(t, got.Used)
	require.Equal(t, alice.ID, got.UsedBy)

	_, err = e.ent.ConsumeInvite(ctx, inv.Code, bob.ID)
	require.ErrorIs(t, err, service.ErrInviteAlreadyUsed)

	_, err = e.ent.ConsumeInvite(ctx, "NOPE-NOPE-NOPE-NOPE", bob.ID)
	require.ErrorIs(t, err, service.ErrInviteNotFound)

	stale, err := e.ent.GenerateInvite(ctx, admin.ID)
	require.NoError(t, err)
	e.clock.Advance(domain.DefaultInviteTTL)
	_, err = e.ent.ConsumeInvite(ctx, stale.Code, bob.ID)
	require.ErrorIs(t, err, service.ErrInviteExpired)
}

func TestListAndDeleteInvites(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	admin := e.seed(t, "admin", domain.RoleAdmin)
	support := e.seed(t, "support", domain.RoleSupport)

	a, err := e.ent.GenerateInvite(ctx, admin.ID)
	require.NoError(t, err)
	s1, err := e.ent.GenerateInvite(ctx, support.ID)
	require.NoError(t, err)
	s2, err := e.ent.GenerateInvite(ctx, support.ID)
	require.NoError(t, err)

	all, err := e.ent.ListInvites(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)

	own, err := e.ent.ListInvites(ctx, support.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, inv := range own {
		require.Equal(t, support.ID, inv.CreatedBy)
	}

	require.NoError(t, e.ent.DeleteInvite(ctx, admin.ID, a.ID))
	require.NoError(t, e.ent.DeleteInvite(ctx, admin.ID, a.ID))
	require.ErrorIs(t, e.ent.DeleteInvite(ctx, support.ID, s1.ID), service.ErrForbidden)

	n, err := e.ent.BulkDeleteInvites(ctx, admin.ID, []string{s1.ID, s2.ID, "missing"})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	all, err = e.ent.ListInvites(ctx, admin.ID)
	require.NoError(t, err)
	require.Empty(t, all)
}
