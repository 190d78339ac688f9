package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink/discord"
	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
)

// Services is the wired service graph shared by the server and keygatectl.
type Services struct {
	Sink         rolesink.RoleSink
	Hasher       *cryptox.Hasher
	Keys         *service.KeyService
	Invites      *service.InviteService
	Policy       *service.RoleLimitPolicy
	Entitlements *service.EntitlementService
	Identities   *service.IdentityService
	Bootstrap    *service.BootstrapService
	Reconcile    *service.ReconcileService
	Housekeeping *service.HousekeepingService
}

// NewSink returns the Discord sink when configured, otherwise a no-op.
func NewSink(cfg Config, logger *slog.Logger) (rolesink.RoleSink, error) {
	if !cfg.Discord.Enabled() {
		logger.Warn("discord not configured, role changes will not be applied")
		return rolesink.Noop{}, nil
	}
	sink, err := discord.New(discord.Config{
		Token:   cfg.Discord.Token,
		GuildID: cfg.Discord.GuildID,
		RoleID:  cfg.Discord.RoleID,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("discord role sink enabled", "guild_id", cfg.Discord.GuildID, "role_id", cfg.Discord.RoleID)
	return sink, nil
}

// NewServices wires every service over db and seeds the role limits row.
func NewServices(ctx context.Context, cfg Config, db store.Store, sink rolesink.RoleSink, logger *slog.Logger) (*Services, error) {
	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	s := &Services{
		Sink:   sink,
		Hasher: cryptox.NewHasher(pepper),
	}
	s.Keys = &service.KeyService{Store: db}
	s.Invites = &service.InviteService{Store: db, TTL: cfg.InviteTTL}
	s.Policy = &service.RoleLimitPolicy{Store: db, Defaults: cfg.DefaultRoleLimits}
	if err := s.Policy.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed role limits: %w", err)
	}

	s.Entitlements = &service.EntitlementService{
		Store:       db,
		Keys:        s.Keys,
		Invites:     s.Invites,
		Policy:      s.Policy,
		Sink:        sink,
		SinkTimeout: cfg.RoleSinkTimeout,
	}
	s.Identities = &service.IdentityService{
		Store:            db,
		Keys:             s.Keys,
		Invites:          s.Invites,
		Hasher:           s.Hasher,
		Sink:             sink,
		SinkTimeout:      cfg.RoleSinkTimeout,
		TrialKeyDuration: cfg.TrialKeyDuration,
		LinkCodeTTL:      cfg.LinkCodeTTL,
	}
	s.Bootstrap = &service.BootstrapService{
		Store:  db,
		Token:  cfg.BootstrapToken,
		Hasher: s.Hasher,
		Policy: s.Policy,
	}

	s.Reconcile = service.NewReconcileService(
		s.Entitlements,
		sink,
		logger,
		cfg.ReconcileInterval,
		cfg.RoleSinkTimeout,
		cfg.ReconcileWorkers,
	)
	s.Housekeeping = service.NewHousekeepingService(db, logger, cfg.HousekeepingInterval)

	return s, nil
}
