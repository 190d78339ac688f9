package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	errs  []error
	calls int
	added []string
}

func (f *fakeAPI) next() error {
	f.calls++
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeAPI) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	f.added = append(f.added, guildID+"/"+userID+"/"+roleID)
	return f.next()
}

func (f *fakeAPI) GuildMemberRoleRemove(_, _, _ string, _ ...discordgo.RequestOption) error {
	return f.next()
}

func restErr(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: http.StatusText(status)},
	}
}

func TestGrantRole_AddressesConfiguredRole(t *testing.T) {
	api := &fakeAPI{}
	s := NewWithAPI(api, Config{GuildID: "g", RoleID: "r"})

	require.NoError(t, s.GrantRole(context.Background(), "u1"))
	require.Equal(t, []string{"g/u1/r"}, api.added)
}

func TestEmptyExternalIDIsNoop(t *testing.T) {
	api := &fakeAPI{}
	s := NewWithAPI(api, Config{GuildID: "g", RoleID: "r"})

	require.NoError(t, s.GrantRole(context.Background(), ""))
	require.NoError(t, s.RevokeRole(context.Background(), ""))
	require.Zero(t, api.calls)
}

func TestUnknownMemberMapsToAccountNotFound(t *testing.T) {
	api := &fakeAPI{errs: []error{restErr(http.StatusNotFound, discordgo.ErrCodeUnknownMember)}}
	s := NewWithAPI(api, Config{GuildID: "g", RoleID: "r"})

	err := s.RevokeRole(context.Background(), "u1")
	require.ErrorIs(t, err, rolesink.ErrAccountNotFound)
	require.Equal(t, 1, api.calls)
}

func TestServerErrorsAreRetried(t *testing.T) {
	api := &fakeAPI{errs: []error{
		restErr(http.StatusBadGateway, 0),
		restErr(http.StatusServiceUnavailable, 0),
	}}
	s := NewWithAPI(api, Config{GuildID: "g", RoleID: "r", Attempts: 3})

	require.NoError(t, s.GrantRole(context.Background(), "u1"))
	require.Equal(t, 3, api.calls)
}

func TestForbiddenIsNotRetried(t *testing.T) {
	api := &fakeAPI{errs: []error{restErr(http.StatusForbidden, discordgo.ErrCodeMissingPermissions)}}
	s := NewWithAPI(api, Config{GuildID: "g", RoleID: "r"})

	err := s.GrantRole(context.Background(), "u1")
	require.Error(t, err)
	require.False(t, errors.Is(err, rolesink.ErrAccountNotFound))
	require.Equal(t, 1, api.calls)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(Config{Token: "x"})
	require.Error(t, err)
}
