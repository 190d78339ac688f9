// Package discord implements rolesink.RoleSink against a Discord guild role.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/avast/retry-go/v4"
	"github.com/bwmarrin/discordgo"
)

// MemberRoles is the slice of discordgo.Session the sink drives.
type MemberRoles interface {
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

type Config struct {
	Token   string
	GuildID string
	RoleID  string

	// Attempts bounds retries on 5xx responses (default 3).
	Attempts uint
}

type Sink struct {
	api      MemberRoles
	guildID  string
	roleID   string
	attempts uint
}

var _ rolesink.RoleSink = (*Sink)(nil)

// New opens a REST-only bot session. No gateway connection is made.
func New(cfg Config) (*Sink, error) {
	if cfg.Token == "" || cfg.GuildID == "" || cfg.RoleID == "" {
		return nil, errors.New("discord: token, guild id and role id are required")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	session.Client = &http.Client{Timeout: 15 * time.Second}

	return NewWithAPI(session, cfg), nil
}

// NewWithAPI wires an existing session (or a fake in tests).
func NewWithAPI(api MemberRoles, cfg Config) *Sink {
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 3
	}
	return &Sink{api: api, guildID: cfg.GuildID, roleID: cfg.RoleID, attempts: attempts}
}

func (s *Sink) GrantRole(ctx context.Context, externalID string) error {
	if externalID == "" {
		return nil
	}
	return s.do(ctx, func() error {
		return s.api.GuildMemberRoleAdd(s.guildID, externalID, s.roleID, discordgo.WithContext(ctx))
	})
}

// RevokeRole removes the role. Discord answers 204 when the member never had
// it, which keeps the call idempotent.
func (s *Sink) RevokeRole(ctx context.Context, externalID string) error {
	if externalID == "" {
		return nil
	}
	return s.do(ctx, func() error {
		return s.api.GuildMemberRoleRemove(s.guildID, externalID, s.roleID, discordgo.WithContext(ctx))
	})
}

func (s *Sink) do(ctx context.Context, call func() error) error {
	err := retry.Do(
		func() error { return classify(call()) },
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
	return err
}

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

// classify maps discord REST failures onto the sink vocabulary.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return transientError{err: err}
	}

	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
			return fmt.Errorf("%w: %s", rolesink.ErrAccountNotFound, rest.Message.Message)
		}
	}
	if rest.Response != nil {
		switch code := rest.Response.StatusCode; {
		case code == http.StatusNotFound:
			return rolesink.ErrAccountNotFound
		case code >= http.StatusInternalServerError:
			return transientError{err: err}
		}
	}
	return err
}
