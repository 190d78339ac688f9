package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink/mock"
	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIssueKey(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	t.Run("random token is free and unactivated", func(t *testing.T) {
		k := e.freeKey(t, 24*time.Hour)
		require.True(t, cryptox.ValidCode(cryptox.LicenseKeyFormat, k.Token))
		require.False(t, k.Claimed())
		require.Nil(t, k.ExpiresAt)
		require.True(t, k.Active)
	})

	t.Run("pre-bound key is activated at issue", func(t *testing.T) {
		owner := e.seed(t, "prebound", domain.RoleUser)
		k, err := e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: owner.ID, Duration: 48 * time.Hour})
		require.NoError(t, err)
		require.Equal(t, owner.ID, k.OwnerID)
		require.NotNil(t, k.ExpiresAt)
		require.Equal(t, t0.Add(48*time.Hour), *k.ExpiresAt)
	})

	t.Run("custom token collides", func(t *testing.T) {
		_, err := e.keys.Issue(ctx, service.IssueKeyParams{Duration: time.Hour, CustomToken: "vip-2026"})
		require.NoError(t, err)

		_, err = e.keys.Issue(ctx, service.IssueKeyParams{Duration: time.Hour, CustomToken: "VIP-2026"})
		require.ErrorIs(t, err, service.ErrDuplicateToken)
	})

	t.Run("duration bounds", func(t *testing.T) {
		for _, d := range []time.Duration{0, time.Minute, 11 * 365 * 24 * time.Hour} {
			_, err := e.keys.Issue(ctx, service.IssueKeyParams{Duration: d})
			require.ErrorIs(t, err, service.ErrValidation, "duration %s", d)
		}
	})
}

func TestGenerateKeyPermissions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	admin := e.seed(t, "admin", domain.RoleAdmin)
	support := e.seed(t, "support", domain.RoleSupport)
	user := e.seed(t, "user", domain.RoleUser)

	_, err := e.ent.GenerateKey(ctx, admin.ID, service.IssueKeyParams{Duration: time.Hour})
	require.NoError(t, err)
	_, err = e.ent.GenerateKey(ctx, support.ID, service.IssueKeyParams{Duration: time.Hour})
	require.NoError(t, err)

	_, err = e.ent.GenerateKey(ctx, user.ID, service.IssueKeyParams{Duration: time.Hour})
	require.ErrorIs(t, err, service.ErrForbidden)

	e.ban(t, support)
	_, err = e.ent.GenerateKey(ctx, support.ID, service.IssueKeyParams{Duration: time.Hour})
	require.ErrorIs(t, err, service.ErrBanned)

	_, err = e.ent.GenerateKey(ctx, admin.ID, service.IssueKeyParams{Duration: time.Hour, OwnerID: "missing"})
	require.ErrorIs(t, err, service.ErrIdentityNotFound)
}

func TestRedeemKey_ConcurrentClaimHasOneWinner(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	k := e.freeKey(t, 24*time.Hour)

	const n = 8
	idents := make([]domain.Identity, n)
	for i := range idents {
		idents[i] = e.seed(t, "racer"+string(rune('a'+i)), domain.RoleUser)
	}

	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	for i, ident := range idents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.ent.RedeemKey(ctx, ident.ID, k.Token)
		}()
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		require.ErrorIs(t, err, service.ErrKeyAlreadyClaimed)
	}
	require.Equal(t, 1, winners)
}

func TestRedeemKey_Failures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	alice := e.seed(t, "alice", domain.RoleUser)
	bob := e.seed(t, "bob", domain.RoleUser)

	t.Run("unknown token", func(t *testing.T) {
		_, err := e.ent.RedeemKey(ctx, alice.ID, "AAAA-BBBB-CCCC-DDDD")
		require.ErrorIs(t, err, service.ErrKeyNotFound)
	})

	t.Run("revoked key", func(t *testing.T) {
		k := e.freeKey(t, time.Hour)
		require.NoError(t, e.keys.Revoke(ctx, k.ID))

		_, err := e.ent.RedeemKey(ctx, alice.ID, k.Token)
		require.ErrorIs(t, err, service.ErrKeyInactive)
	})

	t.Run("claimed by someone else", func(t *testing.T) {
		k := e.freeKey(t, time.Hour)
		_, err := e.ent.RedeemKey(ctx, alice.ID, k.Token)
		require.NoError(t, err)

		_, err = e.ent.RedeemKey(ctx, bob.ID, k.Token)
		require.ErrorIs(t, err, service.ErrKeyAlreadyClaimed)
	})

	t.Run("expired", func(t *testing.T) {
		k, err := e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: alice.ID, Duration: time.Hour})
		require.NoError(t, err)
		e.clock.Advance(2 * time.Hour)

		_, err = e.ent.RedeemKey(ctx, alice.ID, k.Token)
		require.ErrorIs(t, err, service.ErrKeyExpired)
	})

	t.Run("banned identity", func(t *testing.T) {
		mallory := e.seed(t, "mallory", domain.RoleUser)
		e.ban(t, mallory)
		k := e.freeKey(t, time.Hour)

		_, err := e.ent.RedeemKey(ctx, mallory.ID, k.Token)
		require.ErrorIs(t, err, service.ErrBanned)
	})

	t.Run("unknown identity", func(t *testing.T) {
		k := e.freeKey(t, time.Hour)
		_, err := e.ent.RedeemKey(ctx, "nobody", k.Token)
		require.ErrorIs(t, err, service.ErrIdentityNotFound)
	})
}

func TestRedeemKey_SameIdentityIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	alice := e.seed(t, "alice", domain.RoleUser)
	k := e.freeKey(t, 24*time.Hour)

	first, err := e.ent.RedeemKey(ctx, alice.ID, k.Token)
	require.NoError(t, err)

	e.clock.Advance(time.Hour)
	second, err := e.ent.RedeemKey(ctx, alice.ID, k.Token)
	require.NoError(t, err)

	require.Equal(t, first.Key.ID, second.Key.ID)
	require.True(t, first.Key.ExpiresAt.Equal(*second.Key.ExpiresAt))
	require.Equal(t, 23*time.Hour, second.TimeLeft)
}

// A 24h key left unredeemed for 48h is invalid only because it is unowned.
// Once redeemed its countdown starts from the redemption instant.
func TestKeyLifecycle_ActivationGatedExpiry(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	alice := e.seed(t, "alice", domain.RoleUser)
	k := e.freeKey(t, 24*time.Hour)

	e.clock.Advance(48 * time.Hour)
	require.Equal(t, service.KeyVerification{}, e.ent.VerifyKey(ctx, k.Token))

	stored, err := e.keys.Verify(ctx, k.Token)
	require.NoError(t, err)
	require.False(t, stored.IsExpired(e.clock.Now()))
	require.False(t, stored.Claimed())

	res, err := e.ent.RedeemKey(ctx, alice.ID, k.Token)
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, res.TimeLeft)

	var last time.Duration = res.TimeLeft
	for range 3 {
		e.clock.Advance(6 * time.Hour)
		v := e.ent.VerifyKey(ctx, k.Token)
		require.True(t, v.Valid)
		require.Equal(t, "alice", v.OwnerHandle)
		require.Less(t, v.TimeLeft, last)
		last = v.TimeLeft
	}
	require.Equal(t, 6*time.Hour, last)

	e.clock.Advance(6 * time.Hour)
	require.False(t, e.ent.VerifyKey(ctx, k.Token).Valid)

	stored, err = e.keys.Verify(ctx, k.Token)
	require.NoError(t, err)
	require.Zero(t, stored.TimeLeft(e.clock.Now()))
}

func TestVerifyKey_FlattensFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	alice := e.seed(t, "alice", domain.RoleUser)
	expired, err := e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: alice.ID, Duration: time.Hour})
	require.NoError(t, err)

	revoked, err := e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: alice.ID, Duration: 48 * time.Hour})
	require.NoError(t, err)
	require.NoError(t, e.keys.Revoke(ctx, revoked.ID))

	unowned := e.freeKey(t, time.Hour)
	e.clock.Advance(2 * time.Hour)

	for name, token := range map[string]string{
		"missing": "ZZZZ-ZZZZ-ZZZZ-ZZZZ",
		"expired": expired.Token,
		"revoked": revoked.Token,
		"unowned": unowned.Token,
		"empty":   "",
	} {
		require.Equal(t, service.KeyVerification{}, e.ent.VerifyKey(ctx, token), name)
	}

	t.Run("banned owner", func(t *testing.T) {
		bob := e.seed(t, "bob", domain.RoleUser)
		k, err := e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: bob.ID, Duration: 48 * time.Hour})
		require.NoError(t, err)
		require.True(t, e.ent.VerifyKey(ctx, k.Token).Valid)

		e.ban(t, bob)
		require.Equal(t, service.KeyVerification{}, e.ent.VerifyKey(ctx, k.Token))
	})
}

func TestRevokeRestore_Idempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	admin := e.seed(t, "admin", domain.RoleAdmin)
	user := e.seed(t, "user", domain.RoleUser)
	k := e.freeKey(t, time.Hour)

	require.NoError(t, e.ent.RevokeKey(ctx, admin.ID, k.ID))
	require.NoError(t, e.ent.RevokeKey(ctx, admin.ID, k.ID))
	require.NoError(t, e.ent.RestoreKey(ctx, admin.ID, k.ID))
	require.NoError(t, e.ent.RestoreKey(ctx, admin.ID, k.ID))

	got, err := e.keys.Verify(ctx, k.Token)
	require.NoError(t, err)
	require.True(t, got.Active)

	require.ErrorIs(t, e.ent.RevokeKey(ctx, admin.ID, "missing"), service.ErrKeyNotFound)
	require.ErrorIs(t, e.ent.RevokeKey(ctx, user.ID, k.ID), service.ErrForbidden)
}

func TestBulkKeyAction(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	admin := e.seed(t, "admin", domain.RoleAdmin)
	a := e.freeKey(t, time.Hour)
	b := e.freeKey(t, time.Hour)

	n, err := e.ent.BulkKeyAction(ctx, admin.ID, []string{a.ID, b.ID, a.ID, "unknown"}, domain.KeyActionRevoke)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = e.ent.BulkKeyAction(ctx, admin.ID, []string{a.ID, "unknown"}, domain.KeyActionDelete)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = e.keys.Verify(ctx, a.Token)
	require.ErrorIs(t, err, service.ErrKeyNotFound)

	_, err = e.ent.BulkKeyAction(ctx, admin.ID, []string{b.ID}, domain.KeyAction("explode"))
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestCleanupKeys(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	admin := e.seed(t, "admin", domain.RoleAdmin)
	alice := e.seed(t, "alice", domain.RoleUser)

	expired, err := e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: alice.ID, Duration: time.Hour})
	require.NoError(t, err)
	revoked := e.freeKey(t, time.Hour)
	require.NoError(t, e.keys.Revoke(ctx, revoked.ID))
	keep := e.freeKey(t, time.Hour)

	e.clock.Advance(40 * 24 * time.Hour)

	_, err = e.ent.CleanupKeys(ctx, admin.ID, domain.CleanupFilter{Cutoff: e.clock.Now()})
	require.ErrorIs(t, err, service.ErrValidation)

	stats, err := e.ent.KeyStats(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 1, stats.Expired)
	require.Equal(t, 1, stats.Revoked)
	require.Equal(t, 3, stats.OlderThan30d)

	n, err := e.ent.CleanupKeys(ctx, admin.ID, domain.CleanupFilter{
		Cutoff:         e.clock.Now().Add(-30 * 24 * time.Hour),
		IncludeExpired: true,
		IncludeRevoked: true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = e.keys.Verify(ctx, expired.Token)
	require.ErrorIs(t, err, service.ErrKeyNotFound)
	_, err = e.keys.Verify(ctx, keep.Token)
	require.NoError(t, err)
}

func TestStatusByExternal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	alice := e.link(t, e.seed(t, "alice", domain.RoleUser), "ext-alice")
	bob := e.link(t, e.seed(t, "bob", domain.RoleUser), "ext-bob")
	e.link(t, e.seed(t, "carol", domain.RoleUser), "ext-carol")

	_, err := e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: alice.ID, Duration: time.Hour})
	require.NoError(t, err)
	_, err = e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: alice.ID, Duration: 48 * time.Hour})
	require.NoError(t, err)
	_, err = e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: bob.ID, Duration: 48 * time.Hour})
	require.NoError(t, err)
	e.ban(t, bob)

	e.clock.Advance(2 * time.Hour)

	st, err := e.ent.StatusByExternal(ctx, "ext-alice")
	require.NoError(t, err)
	require.True(t, st.Entitled)
	require.Len(t, st.ValidKeys, 1)
	require.Equal(t, alice.ID, st.Identity.ID)

	st, err = e.ent.StatusByExternal(ctx, "ext-bob")
	require.NoError(t, err)
	require.False(t, st.Entitled)
	require.Empty(t, st.ValidKeys)

	st, err = e.ent.StatusByExternal(ctx, "ext-carol")
	require.NoError(t, err)
	require.False(t, st.Entitled)

	_, err = e.ent.StatusByExternal(ctx, "ext-unknown")
	require.ErrorIs(t, err, service.ErrExternalNotLinked)
	_, err = e.ent.StatusByExternal(ctx, "")
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestIssueKeyAsSystem_GrantsLinkedOwner(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	sink := mock.NewMockRoleSink(ctrl)
	e := newEnv(t, sink)

	alice := e.link(t, e.seed(t, "alice", domain.RoleUser), "ext-alice")
	bob := e.link(t, e.seed(t, "bob", domain.RoleUser), "ext-bob")
	e.ban(t, bob)

	sink.EXPECT().GrantRole(gomock.Any(), "ext-alice").Return(nil)
	k, err := e.ent.IssueKeyAsSystem(ctx, service.IssueKeyParams{OwnerID: alice.ID, Duration: time.Hour})
	require.NoError(t, err)
	require.Equal(t, alice.ID, k.OwnerID)
	require.NotNil(t, k.ExpiresAt)

	// Banned owners and free keys never reach the sink.
	_, err = e.ent.IssueKeyAsSystem(ctx, service.IssueKeyParams{OwnerID: bob.ID, Duration: time.Hour})
	require.NoError(t, err)
	_, err = e.ent.IssueKeyAsSystem(ctx, service.IssueKeyParams{Duration: time.Hour})
	require.NoError(t, err)

	_, err = e.ent.IssueKeyAsSystem(ctx, service.IssueKeyParams{OwnerID: "missing", Duration: time.Hour})
	require.ErrorIs(t, err, service.ErrIdentityNotFound)
}

func TestCleanupKeysAsSystem_UsesServiceClock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	alice := e.seed(t, "alice", domain.RoleUser)
	_, err := e.keys.Issue(ctx, service.IssueKeyParams{OwnerID: alice.ID, Duration: time.Hour})
	require.NoError(t, err)
	revoked := e.freeKey(t, time.Hour)
	require.NoError(t, e.keys.Revoke(ctx, revoked.ID))
	e.freeKey(t, time.Hour)

	// Ten days on the service clock is inside the window even though the
	// wall clock is months later.
	e.clock.Advance(10 * 24 * time.Hour)
	n, err := e.ent.CleanupKeysAsSystem(ctx, 30, true, true)
	require.NoError(t, err)
	require.Zero(t, n)

	e.clock.Advance(30 * 24 * time.Hour)
	n, err = e.ent.CleanupKeysAsSystem(ctx, 30, true, true)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	stats, err := e.ent.KeyStatsAsSystem(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Total)

	_, err = e.ent.CleanupKeysAsSystem(ctx, -1, true, true)
	require.ErrorIs(t, err, service.ErrValidation)
	_, err = e.ent.CleanupKeysAsSystem(ctx, 30, false, false)
	require.ErrorIs(t, err, service.ErrValidation)
}
