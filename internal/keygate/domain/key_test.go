package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/stretchr/testify/require"
)

func TestKeyExpiry_ActivationGated(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	k := domain.Key{Token: "T", Duration: 24 * time.Hour, Active: true, CreatedAt: created}

	// Unredeemed for 48h: not expired, but not valid either.
	later := created.Add(48 * time.Hour)
	require.False(t, k.IsExpired(later))
	require.False(t, k.IsValid(later))
	require.Equal(t, 24*time.Hour, k.TimeLeft(later))

	k.Activate("owner", later)
	require.True(t, k.IsValid(later))
	require.Equal(t, 24*time.Hour, k.TimeLeft(later))
	require.Equal(t, 12*time.Hour, k.TimeLeft(later.Add(12*time.Hour)))

	end := later.Add(24 * time.Hour)
	require.True(t, k.IsExpired(end))
	require.False(t, k.IsValid(end))
	require.Zero(t, k.TimeLeft(end))
	require.Zero(t, k.TimeLeft(end.Add(time.Hour)))

	exp, ok := k.Expiry()
	require.True(t, ok)
	require.Equal(t, end, exp)
	require.Equal(t, end, *k.ExpiresAt)
}

func TestKeyIsValid_ImpliesInvariants(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	active := now.Add(-time.Hour)

	cases := []domain.Key{
		{Duration: time.Hour * 2},
		{Duration: time.Hour * 2, Active: true},
		{Duration: time.Hour * 2, OwnerID: "x", ActivatedAt: &active},
		{Duration: time.Hour * 2, OwnerID: "x", Active: true, ActivatedAt: &active},
		{Duration: time.Minute, OwnerID: "x", Active: true, ActivatedAt: &active},
	}
	for _, k := range cases {
		if k.IsValid(now) {
			require.True(t, k.Active)
			require.True(t, k.Claimed())
			require.False(t, k.IsExpired(now))
		}
	}
	require.True(t, cases[3].IsValid(now))
	require.False(t, cases[4].IsValid(now))
}

func TestRoleLimits(t *testing.T) {
	t.Parallel()

	l := domain.DefaultRoleLimits()
	require.Equal(t, 999, l.For(domain.RoleAdmin))
	require.Equal(t, 10, l.For(domain.RoleSupport))
	require.Equal(t, 0, l.For(domain.RoleUser))
	require.Equal(t, 0, l.For(domain.Role("ghost")))
	require.NoError(t, l.Validate())

	l.Support = -1
	require.Error(t, l.Validate())
}

func TestRolePermissions(t *testing.T) {
	t.Parallel()

	require.True(t, domain.RoleAdmin.CanCreateInvite())
	require.True(t, domain.RoleSupport.CanCreateInvite())
	require.False(t, domain.RoleUser.CanCreateInvite())

	require.True(t, domain.RoleAdmin.CanModerate(domain.RoleAdmin))
	require.True(t, domain.RoleSupport.CanModerate(domain.RoleUser))
	require.False(t, domain.RoleSupport.CanModerate(domain.RoleSupport))
	require.False(t, domain.RoleUser.CanModerate(domain.RoleUser))

	_, err := domain.ParseRole("owner")
	require.Error(t, err)
	r, err := domain.ParseRole("support")
	require.NoError(t, err)
	require.Equal(t, domain.RoleSupport, r)
}
