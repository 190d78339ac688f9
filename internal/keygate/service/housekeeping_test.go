package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup_RemovesExpiredLinkCodes(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	alice := e.seed(t, "alice", domain.RoleUser)

	_, err := e.identities.GenerateLinkCode(ctx, alice.ID)
	require.NoError(t, err)

	hk := service.NewHousekeepingService(e.store, slog.New(slog.DiscardHandler), time.Hour)
	hk.Clock = e.clock

	require.EqualValues(t, 0, hk.Cleanup(ctx), "fresh code survives")

	e.clock.Advance(domain.DefaultLinkCodeTTL + time.Minute)
	require.EqualValues(t, 1, hk.Cleanup(ctx))
	require.EqualValues(t, 0, hk.Cleanup(ctx))
}
