package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/app"
	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink/mock"
	"github.com/aussiebroadwan/keygate/internal/keygate/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func freshDatabase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("KEYGATE_CONFIG_FILE", "")
	t.Setenv("KEYGATE_DATABASE_FILE", dir+"/keygate.db")
	t.Setenv("KEYGATE_PEPPER_FILE", dir+"/pepper")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_GUILD_ID", "")
	t.Setenv("DISCORD_ROLE_ID", "")
	return dir + "/keygate.db"
}

func TestRunUsage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"help"}, &out))
	for _, c := range commands {
		require.Contains(t, out.String(), c.name)
	}
}

func TestRunRejectsUnknownOrMissingSubcommand(t *testing.T) {
	var out bytes.Buffer
	require.ErrorContains(t, run(nil, &out), "subcommand required")
	require.ErrorContains(t, run([]string{"frobnicate"}, &out), "unknown subcommand")
}

func TestSubcommandsAgainstFreshDatabase(t *testing.T) {
	freshDatabase(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"create-admin", "--handle", "root", "--password", "password123"}, &out))
	require.Contains(t, out.String(), "created admin root")

	out.Reset()
	require.NoError(t, run([]string{"issue-key", "--duration", "48h", "--count", "2"}, &out))
	require.Equal(t, 2, bytes.Count(out.Bytes(), []byte("\n")))

	out.Reset()
	require.NoError(t, run([]string{"issue-invite", "--as", "root"}, &out))
	require.Contains(t, out.String(), "expires=")

	out.Reset()
	require.NoError(t, run([]string{"set-limits", "--support", "3"}, &out))
	require.Equal(t, "admin=999 support=3 user=0\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"reconcile"}, &out))
	require.Equal(t, "checked=0 entitled=0 revoked=0 skipped=0 failed=0\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"stats"}, &out))
	require.Contains(t, out.String(), "total:      2\n")

	out.Reset()
	require.NoError(t, run([]string{"cleanup-keys", "--older-than-days", "0", "--expired", "--revoked"}, &out))
	require.Equal(t, "deleted 0 keys\n", out.String())

	require.Error(t, run([]string{"issue-invite", "--as", "nobody"}, &out))
	require.Error(t, run([]string{"cleanup-keys"}, &out), "a predicate is required")
	require.Error(t, run([]string{"cleanup-keys", "--older-than-days", "-1", "--expired"}, &out))
}

func TestIssueKeyForLinkedOwnerGrantsRole(t *testing.T) {
	path := freshDatabase(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"create-admin", "--handle", "root", "--password", "password123"}, &out))

	st, err := sqlite.NewStore(sqlite.DSN(path))
	require.NoError(t, err)
	root, err := st.Identities().GetIdentityByHandle(context.Background(), "root")
	require.NoError(t, err)
	require.NoError(t, st.Identities().LinkExternal(context.Background(), root.ID, "ext-root", "root#1", time.Now().UTC()))
	require.NoError(t, st.Close())

	sink := mock.NewMockRoleSink(gomock.NewController(t))
	sink.EXPECT().GrantRole(gomock.Any(), "ext-root").Return(nil)

	prev := newSink
	newSink = func(app.Config, *slog.Logger) (rolesink.RoleSink, error) { return sink, nil }
	t.Cleanup(func() { newSink = prev })

	out.Reset()
	require.NoError(t, run([]string{"issue-key", "--owner", "root", "--duration", "24h"}, &out))
	require.NotContains(t, out.String(), "expires=-", "pre-bound keys activate at issue")

	// Free keys grant nothing.
	require.NoError(t, run([]string{"issue-key", "--duration", "24h"}, &out))
}
