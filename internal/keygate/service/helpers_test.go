package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/internal/keygate/store/drivers/sqlite"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/aussiebroadwan/keygate/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type env struct {
	store      *sqlite.Store
	clock      *clock.Fake
	hasher     *cryptox.Hasher
	keys       *service.KeyService
	invites    *service.InviteService
	policy     *service.RoleLimitPolicy
	ent        *service.EntitlementService
	identities *service.IdentityService
}

func newEnv(t *testing.T, sink rolesink.RoleSink) *env {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	if sink == nil {
		sink = rolesink.Noop{}
	}

	clk := clock.NewFake(t0)
	hasher := cryptox.NewHasher("test-pepper")
	keys := &service.KeyService{Store: st, Clock: clk}
	invites := &service.InviteService{Store: st, Clock: clk}
	policy := &service.RoleLimitPolicy{Store: st, Defaults: domain.DefaultRoleLimits(), Clock: clk}
	require.NoError(t, policy.Ensure(context.Background()))

	return &env{
		store:   st,
		clock:   clk,
		hasher:  hasher,
		keys:    keys,
		invites: invites,
		policy:  policy,
		ent: &service.EntitlementService{
			Store:       st,
			Keys:        keys,
			Invites:     invites,
			Policy:      policy,
			Sink:        sink,
			SinkTimeout: time.Second,
			Clock:       clk,
		},
		identities: &service.IdentityService{
			Store:            st,
			Keys:             keys,
			Invites:          invites,
			Hasher:           hasher,
			Sink:             sink,
			SinkTimeout:      time.Second,
			Clock:            clk,
			TrialKeyDuration: 24 * time.Hour,
		},
	}
}

func (e *env) seed(t *testing.T, handle string, role domain.Role) domain.Identity {
	t.Helper()

	now := e.clock.Now()
	ident := domain.Identity{
		ID:           idx.NewAt(now).String(),
		Handle:       handle,
		PasswordHash: "unused",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.Identities().CreateIdentity(context.Background(), ident))
	return ident
}

func (e *env) link(t *testing.T, ident domain.Identity, externalID string) domain.Identity {
	t.Helper()

	require.NoError(t, e.store.Identities().LinkExternal(context.Background(), ident.ID, externalID, ident.Handle, e.clock.Now()))
	ident.ExternalID = externalID
	ident.ExternalHandle = ident.Handle
	return ident
}

func (e *env) ban(t *testing.T, ident domain.Identity) {
	t.Helper()
	require.NoError(t, e.store.Identities().SetBanned(context.Background(), ident.ID, true, e.clock.Now()))
}

func (e *env) freeKey(t *testing.T, d time.Duration) domain.Key {
	t.Helper()
	k, err := e.keys.Issue(context.Background(), service.IssueKeyParams{Duration: d})
	require.NoError(t, err)
	return k
}
