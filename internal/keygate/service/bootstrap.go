package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/aussiebroadwan/keygate/pkg/idx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// BootstrapService creates the first admin on an empty database.
type BootstrapService struct {
	Store  store.Store
	Token  string // Pre-configured bootstrap token; empty disables bootstrap
	Hasher *cryptox.Hasher
	Policy *RoleLimitPolicy
	Clock  clock.TimeSource
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Identities().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token, handle, password string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate provided token
	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Identity{}, ErrBootstrapUnauthorized
	}

	handle = strings.TrimSpace(handle)
	if err := validateCredentials(handle, password); err != nil {
		return domain.Identity{}, err
	}

	// 2. Hash password
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return domain.Identity{}, err
	}

	return s.CreateAdmin(ctx, handle, hash)
}

// CreateAdmin inserts an admin identity with a precomputed hash, provided no
// identity exists yet. It also seeds the role limits singleton.
func (s *BootstrapService) CreateAdmin(ctx context.Context, handle, passwordHash string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)
	now := clock.Or(s.Clock).Now()
	admin := domain.Identity{
		ID:           idx.NewAt(now).String(),
		Handle:       handle,
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			empty, err := tx.Identities().IsEmpty(ctx)
			if err != nil {
				return err
			}
			if !empty {
				return ErrBootstrapAlready
			}
			if err := tx.Identities().CreateIdentity(ctx, admin); err != nil {
				return err
			}
			if s.Policy != nil {
				return tx.RoleLimits().EnsureRoleLimits(ctx, s.Policy.defaults())
			}
			return nil
		})
	})
	if err != nil {
		l.Warn("bootstrap failed", slog.Any("error", err))
		return domain.Identity{}, err
	}

	l.Info("bootstrap admin created",
		slog.String("identity_id", admin.ID),
		slog.String("handle", admin.Handle),
	)
	return admin, nil
}
