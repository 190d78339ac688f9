package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/aussiebroadwan/keygate/internal/keygate/store/drivers/sqlite"
	"github.com/aussiebroadwan/keygate/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedIdentity(t *testing.T, st store.Store, handle string, role domain.Role) domain.Identity {
	t.Helper()

	id := domain.Identity{
		ID:           idx.New().String(),
		Handle:       handle,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	require.NoError(t, st.Identities().CreateIdentity(context.Background(), id))
	return id
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestIdentities(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	empty, err := st.Identities().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	alice := seedIdentity(t, st, "alice", domain.RoleUser)

	t.Run("handle is unique ignoring case", func(t *testing.T) {
		err := st.Identities().CreateIdentity(ctx, domain.Identity{
			ID: idx.New().String(), Handle: "ALICE", PasswordHash: "x", Role: domain.RoleUser,
			CreatedAt: t0, UpdatedAt: t0,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("lookup by handle and id", func(t *testing.T) {
		got, err := st.Identities().GetIdentityByHandle(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
		require.Equal(t, t0, got.CreatedAt)

		_, err = st.Identities().GetIdentityByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("link external is unique", func(t *testing.T) {
		bob := seedIdentity(t, st, "bob", domain.RoleUser)

		require.NoError(t, st.Identities().LinkExternal(ctx, alice.ID, "discord-1", "alice#1", t0))
		err := st.Identities().LinkExternal(ctx, bob.ID, "discord-1", "bob#1", t0)
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		got, err := st.Identities().GetIdentityByExternalID(ctx, "discord-1")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
		require.True(t, got.Linked())

		_, err = st.Identities().GetIdentityByExternalID(ctx, "")
		require.ErrorIs(t, err, store.ErrNotFound)

		linked, err := st.Identities().ListLinked(ctx)
		require.NoError(t, err)
		require.Len(t, linked, 1)

		all, err := st.Identities().List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.ElementsMatch(t, []string{alice.ID, bob.ID}, []string{all[0].ID, all[1].ID})
	})

	t.Run("ban and role updates", func(t *testing.T) {
		require.NoError(t, st.Identities().SetBanned(ctx, alice.ID, true, t0))
		require.NoError(t, st.Identities().UpdateRole(ctx, alice.ID, domain.RoleSupport, t0))

		got, err := st.Identities().GetIdentityByID(ctx, alice.ID)
		require.NoError(t, err)
		require.True(t, got.Banned)
		require.Equal(t, domain.RoleSupport, got.Role)

		require.ErrorIs(t, st.Identities().SetBanned(ctx, "missing", true, t0), store.ErrNotFound)
	})
}

func newKey(token string, d time.Duration) domain.Key {
	return domain.Key{
		ID:        idx.New().String(),
		Token:     token,
		Duration:  d,
		Active:    true,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func TestKeys_ClaimIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedIdentity(t, st, "alice", domain.RoleUser)
	bob := seedIdentity(t, st, "bob", domain.RoleUser)

	k := newKey("AAAA-BBBB-CCCC-DDDD", 24*time.Hour)
	require.NoError(t, st.Keys().CreateKey(ctx, k))
	require.ErrorIs(t, st.Keys().CreateKey(ctx, newKey(k.Token, time.Hour)), store.ErrAlreadyExists)

	at := t0.Add(48 * time.Hour)
	ok, err := st.Keys().ClaimKey(ctx, k.ID, alice.ID, at, at.Add(k.Duration))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.Keys().ClaimKey(ctx, k.ID, bob.ID, at, at.Add(k.Duration))
	require.NoError(t, err)
	require.False(t, ok)

	got, err := st.Keys().GetKeyByToken(ctx, k.Token)
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.OwnerID)
	require.Equal(t, at, *got.ActivatedAt)
	require.Equal(t, at.Add(24*time.Hour), *got.ExpiresAt)
	require.Equal(t, 24*time.Hour, got.Duration)

	valid, err := st.Keys().HasValidKey(ctx, alice.ID, at.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, valid)

	valid, err = st.Keys().HasValidKey(ctx, alice.ID, at.Add(24*time.Hour))
	require.NoError(t, err)
	require.False(t, valid)
}

func TestKeys_ActiveToggleAndDelete(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	k := newKey("KEY1-KEY1-KEY1-KEY1", time.Hour)
	require.NoError(t, st.Keys().CreateKey(ctx, k))

	for range 2 {
		n, err := st.Keys().SetKeyActive(ctx, k.ID, false, t0)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	}
	n, err := st.Keys().SetKeyActive(ctx, "missing", false, t0)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = st.Keys().DeleteKey(ctx, k.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = st.Keys().GetKeyByID(ctx, k.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestKeys_CleanupAndStats(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner := seedIdentity(t, st, "owner", domain.RoleUser)
	now := t0.Add(100 * 24 * time.Hour)

	// old, claimed and expired
	expired := newKey("EXP0-EXP0-EXP0-EXP0", time.Hour)
	expired.Activate(owner.ID, t0)
	// old and revoked, never claimed
	revoked := newKey("REV0-REV0-REV0-REV0", time.Hour)
	revoked.Active = false
	// old, free and unactivated: never expires
	free := newKey("FREE-FREE-FREE-FREE", time.Hour)
	// recent and expired
	recent := newKey("NEW0-NEW0-NEW0-NEW0", time.Hour)
	recent.CreatedAt = now.Add(-48 * time.Hour)
	recent.Activate(owner.ID, now.Add(-47*time.Hour))

	for _, k := range []domain.Key{expired, revoked, free, recent} {
		require.NoError(t, st.Keys().CreateKey(ctx, k))
	}

	stats, err := st.Keys().KeyStats(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 2, stats.Expired)
	require.Equal(t, 1, stats.Revoked)
	require.Equal(t, 3, stats.OlderThan30d)
	require.Equal(t, 3, stats.OlderThan90d)
	require.Equal(t, 0, stats.OlderThan180d)

	filter := domain.CleanupFilter{Cutoff: now.Add(-30 * 24 * time.Hour), IncludeExpired: true}
	n, err := st.Keys().DeleteKeysForCleanup(ctx, filter, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	filter.IncludeExpired, filter.IncludeRevoked = false, true
	n, err = st.Keys().DeleteKeysForCleanup(ctx, filter, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	all, err := st.Keys().ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, k := range all {
		if k.OwnerID != "" {
			require.Equal(t, "owner", k.OwnerHandle)
		}
	}
}

func TestInvites(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	admin := seedIdentity(t, st, "admin", domain.RoleAdmin)
	newbie := seedIdentity(t, st, "newbie", domain.RoleUser)
	other := seedIdentity(t, st, "other", domain.RoleUser)

	inv := domain.Invite{
		ID:        idx.New().String(),
		Code:      "INV1-INV1-INV1-INV1",
		CreatedBy: admin.ID,
		CreatedAt: t0,
		ExpiresAt: t0.Add(domain.DefaultInviteTTL),
	}
	require.NoError(t, st.Invites().CreateInvite(ctx, inv))

	count, err := st.Invites().CountInvitesCreatedSince(ctx, admin.ID, t0)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	count, err = st.Invites().CountInvitesCreatedSince(ctx, admin.ID, t0.Add(time.Second))
	require.NoError(t, err)
	require.Zero(t, count)

	t.Run("consume after expiry fails", func(t *testing.T) {
		ok, err := st.Invites().ConsumeInvite(ctx, inv.ID, newbie.ID, inv.ExpiresAt)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("consume once", func(t *testing.T) {
		ok, err := st.Invites().ConsumeInvite(ctx, inv.ID, newbie.ID, t0.Add(time.Hour))
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = st.Invites().ConsumeInvite(ctx, inv.ID, other.ID, t0.Add(time.Hour))
		require.NoError(t, err)
		require.False(t, ok)

		got, err := st.Invites().GetInviteByCode(ctx, inv.Code)
		require.NoError(t, err)
		require.True(t, got.Used)
		require.Equal(t, newbie.ID, got.UsedBy)
	})

	t.Run("list and delete", func(t *testing.T) {
		mine, err := st.Invites().ListInvitesByCreator(ctx, admin.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		none, err := st.Invites().ListInvitesByCreator(ctx, newbie.ID)
		require.NoError(t, err)
		require.Empty(t, none)

		n, err := st.Invites().DeleteInvite(ctx, inv.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
		n, err = st.Invites().DeleteInvite(ctx, inv.ID)
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

func TestRoleLimits(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	_, err := st.RoleLimits().GetRoleLimits(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, st.RoleLimits().UpdateRoleLimits(ctx, domain.RoleLimits{UpdatedAt: t0}), store.ErrNotFound)

	require.NoError(t, st.RoleLimits().EnsureRoleLimits(ctx, domain.DefaultRoleLimits()))
	require.NoError(t, st.RoleLimits().UpdateRoleLimits(ctx, domain.RoleLimits{Admin: 5, Support: 3, User: 1, UpdatedAt: t0}))
	// a second ensure must not clobber the update
	require.NoError(t, st.RoleLimits().EnsureRoleLimits(ctx, domain.DefaultRoleLimits()))

	got, err := st.RoleLimits().GetRoleLimits(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, got.Admin)
	require.Equal(t, 3, got.Support)
	require.Equal(t, 1, got.User)
}

func TestLinkCodes(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedIdentity(t, st, "alice", domain.RoleUser)

	c := domain.LinkCode{Code: "ABC123", IdentityID: alice.ID, CreatedAt: t0, ExpiresAt: t0.Add(domain.DefaultLinkCodeTTL)}
	require.NoError(t, st.LinkCodes().CreateLinkCode(ctx, c))
	require.ErrorIs(t, st.LinkCodes().CreateLinkCode(ctx, c), store.ErrAlreadyExists)

	ok, err := st.LinkCodes().MarkLinkCodeUsed(ctx, c.Code, c.ExpiresAt)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = st.LinkCodes().MarkLinkCodeUsed(ctx, c.Code, t0.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	n, err := st.LinkCodes().DeleteStaleLinkCodes(ctx, t0)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	boom := errors.New("boom")

	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Keys().CreateKey(ctx, newKey("ROLL-BACK-ROLL-BACK", time.Hour)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Keys().GetKeyByToken(ctx, "ROLL-BACK-ROLL-BACK")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.WithTx(ctx, func(tx store.Tx) error {
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.Error(t, err)
}
