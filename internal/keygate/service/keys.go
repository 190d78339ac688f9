package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/aussiebroadwan/keygate/pkg/idx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// Bounds on a single key's entitlement window.
const (
	MinKeyDuration = time.Hour
	MaxKeyDuration = 10 * 365 * 24 * time.Hour
)

type IssueKeyParams struct {
	// OwnerID pre-binds the key. A pre-bound key is activated at issue.
	OwnerID     string
	Duration    time.Duration
	CustomToken string
}

// KeyService owns license key rows.
type KeyService struct {
	Store store.Store
	Clock clock.TimeSource
}

func (s *KeyService) now() time.Time { return clock.Or(s.Clock).Now() }

// Issue creates a key outside any caller transaction.
func (s *KeyService) Issue(ctx context.Context, p IssueKeyParams) (domain.Key, error) {
	var out domain.Key
	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			k, err := s.issueIn(ctx, tx, p, s.now())
			out = k
			return err
		})
	})
	return out, err
}

func (s *KeyService) issueIn(ctx context.Context, st store.Store, p IssueKeyParams, now time.Time) (domain.Key, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate duration
	if p.Duration < MinKeyDuration || p.Duration > MaxKeyDuration {
		return domain.Key{}, validationError("duration must be between 1 hour and 10 years")
	}

	k := domain.Key{
		ID:        idx.NewAt(now).String(),
		Duration:  p.Duration.Truncate(time.Second),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.OwnerID != "" {
		k.Activate(p.OwnerID, now)
	}

	// 2. Custom tokens are taken as given; collisions are the caller's problem.
	if p.CustomToken != "" {
		token := cryptox.NormalizeCode(p.CustomToken)
		if len(token) < 4 || len(token) > 64 {
			return domain.Key{}, validationError("custom token must be 4 to 64 characters")
		}
		k.Token = token
		if err := st.Keys().CreateKey(ctx, k); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				log.Warn("custom key token already exists")
				return domain.Key{}, ErrDuplicateToken
			}
			log.Error("failed to create key", slog.Any("error", err))
			return domain.Key{}, err
		}
		return k, nil
	}

	// 3. Random tokens regenerate on collision.
	_, err := withFreshCode(ctx,
		func() (string, error) { return cryptox.GenerateCode(cryptox.LicenseKeyFormat) },
		func(code string) error {
			k.Token = code
			return st.Keys().CreateKey(ctx, k)
		},
	)
	if err != nil {
		log.Error("failed to create key", slog.Any("error", err))
		return domain.Key{}, err
	}

	log.Info("license key issued",
		slog.String("key_id", k.ID),
		slog.String("owner_id", k.OwnerID),
		slog.Duration("duration", k.Duration),
	)
	return k, nil
}

// redeemIn binds token to identityID. Re-redeeming one's own key returns it
// unchanged.
func (s *KeyService) redeemIn(ctx context.Context, st store.Store, token, identityID string, now time.Time) (domain.Key, error) {
	log := slogx.FromContext(ctx)

	k, err := st.Keys().GetKeyByToken(ctx, cryptox.NormalizeCode(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Key{}, ErrKeyNotFound
		}
		return domain.Key{}, err
	}

	for range 2 {
		switch {
		case k.IsExpired(now):
			return domain.Key{}, ErrKeyExpired
		case !k.Active:
			return domain.Key{}, ErrKeyInactive
		case k.Claimed() && k.OwnerID != identityID:
			log.Warn("key redemption on a key claimed by another identity",
				slog.String("key_id", k.ID),
				slog.String("identity_id", identityID),
			)
			return domain.Key{}, ErrKeyAlreadyClaimed
		case k.Claimed():
			return k, nil
		}

		claimed := k
		claimed.Activate(identityID, now)
		ok, err := st.Keys().ClaimKey(ctx, k.ID, identityID, *claimed.ActivatedAt, *claimed.ExpiresAt)
		if err != nil {
			return domain.Key{}, err
		}
		if ok {
			log.Info("license key redeemed",
				slog.String("key_id", k.ID),
				slog.String("identity_id", identityID),
				slog.Time("expires_at", *claimed.ExpiresAt),
			)
			return claimed, nil
		}

		// Lost the compare-and-set. Re-read and classify against the winner.
		if k, err = st.Keys().GetKeyByID(ctx, k.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Key{}, ErrKeyNotFound
			}
			return domain.Key{}, err
		}
	}
	return domain.Key{}, store.ErrConflict
}

// Verify looks a token up without any side effects.
func (s *KeyService) Verify(ctx context.Context, token string) (domain.Key, error) {
	k, err := s.Store.Keys().GetKeyByToken(ctx, cryptox.NormalizeCode(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Key{}, ErrKeyNotFound
	}
	return k, err
}

// Revoke clears is_active. Revoking a revoked key is a no-op.
func (s *KeyService) Revoke(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Restore sets is_active. Restoring an active key is a no-op.
func (s *KeyService) Restore(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *KeyService) setActive(ctx context.Context, id string, active bool) error {
	return withConflictRetry(ctx, func() error {
		n, err := s.Store.Keys().SetKeyActive(ctx, id, active, s.now())
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrKeyNotFound
		}
		slogx.FromContext(ctx).Info("license key toggled",
			slog.String("key_id", id),
			slog.Bool("active", active),
		)
		return nil
	})
}

// BulkAction applies action to every id as one transaction and returns the
// number of rows touched. Unknown ids are skipped.
func (s *KeyService) BulkAction(ctx context.Context, ids []string, action domain.KeyAction) (int, error) {
	if !action.Valid() {
		return 0, validationError("action must be revoke, restore or delete")
	}
	if len(ids) == 0 {
		return 0, validationError("no key ids given")
	}

	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var affected int64
	err := withConflictRetry(ctx, func() error {
		affected = 0
		now := s.now()
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			for _, id := range ids {
				var (
					n   int64
					err error
				)
				switch action {
				case domain.KeyActionRevoke:
					n, err = tx.Keys().SetKeyActive(ctx, id, false, now)
				case domain.KeyActionRestore:
					n, err = tx.Keys().SetKeyActive(ctx, id, true, now)
				case domain.KeyActionDelete:
					n, err = tx.Keys().DeleteKey(ctx, id)
				}
				if err != nil {
					return err
				}
				affected += n
			}
			return nil
		})
	})
	if err != nil {
		slogx.FromContext(ctx).Error("bulk key action failed",
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
		return 0, err
	}

	slogx.FromContext(ctx).Info("bulk key action applied",
		slog.String("action", string(action)),
		slog.Int("requested", len(ids)),
		slog.Int64("affected", affected),
	)
	return int(affected), nil
}

// Cleanup deletes keys created before the cutoff that are expired or revoked,
// depending on the filter. Either every matching row goes or none does.
func (s *KeyService) Cleanup(ctx context.Context, f domain.CleanupFilter) (int, error) {
	if !f.IncludeExpired && !f.IncludeRevoked {
		return 0, validationError("select expired, revoked or both")
	}
	if f.Cutoff.IsZero() {
		return 0, validationError("cutoff is required")
	}

	var n int64
	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			n, err = tx.Keys().DeleteKeysForCleanup(ctx, f, s.now())
			return err
		})
	})
	if err != nil {
		slogx.FromContext(ctx).Error("key cleanup failed", slog.Any("error", err))
		return 0, err
	}

	slogx.FromContext(ctx).Info("key cleanup completed",
		slog.Time("cutoff", f.Cutoff),
		slog.Bool("expired", f.IncludeExpired),
		slog.Bool("revoked", f.IncludeRevoked),
		slog.Int64("deleted", n),
	)
	return int(n), nil
}

func (s *KeyService) Stats(ctx context.Context) (domain.KeyStats, error) {
	return s.Store.Keys().KeyStats(ctx, s.now())
}

func (s *KeyService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Key, error) {
	return s.Store.Keys().ListKeysByOwner(ctx, ownerID)
}

func (s *KeyService) ListAll(ctx context.Context) ([]domain.Key, error) {
	return s.Store.Keys().ListKeys(ctx)
}
