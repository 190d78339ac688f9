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

// InviteService owns invite rows. Quota is enforced by the caller.
type InviteService struct {
	Store store.Store
	Clock clock.TimeSource
	TTL   time.Duration
}

func (s *InviteService) now() time.Time { return clock.Or(s.Clock).Now() }

func (s *InviteService) ttl() time.Duration {
	if s.TTL <= 0 {
		return domain.DefaultInviteTTL
	}
	return s.TTL
}

func (s *InviteService) issueIn(ctx context.Context, st store.Store, creatorID string, now time.Time) (domain.Invite, error) {
	inv := domain.Invite{
		ID:        idx.NewAt(now).String(),
		CreatedBy: creatorID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}

	_, err := withFreshCode(ctx,
		func() (string, error) { return cryptox.GenerateCode(cryptox.InviteCodeFormat) },
		func(code string) error {
			inv.Code = code
			return st.Invites().CreateInvite(ctx, inv)
		},
	)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to create invite", slog.Any("error", err))
		return domain.Invite{}, err
	}

	slogx.FromContext(ctx).Info("invite issued",
		slog.String("invite_id", inv.ID),
		slog.String("created_by", creatorID),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return inv, nil
}

// consumeIn marks the invite used by consumerID. At most one caller wins.
func (s *InviteService) consumeIn(ctx context.Context, st store.Store, code, consumerID string, now time.Time) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	inv, err := st.Invites().GetInviteByCode(ctx, cryptox.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		return domain.Invite{}, err
	}

	for range 2 {
		switch {
		case inv.Used:
			log.Warn("invite redemption with used code", slog.String("invite_id", inv.ID))
			return domain.Invite{}, ErrInviteAlreadyUsed
		case inv.IsExpired(now):
			return domain.Invite{}, ErrInviteExpired
		}

		ok, err := st.Invites().ConsumeInvite(ctx, inv.ID, consumerID, now)
		if err != nil {
			return domain.Invite{}, err
		}
		if ok {
			inv.Used = true
			inv.UsedBy = consumerID
			log.Info("invite consumed",
				slog.String("invite_id", inv.ID),
				slog.String("used_by", consumerID),
			)
			return inv, nil
		}

		if inv, err = st.Invites().GetInviteByID(ctx, inv.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Invite{}, ErrInviteNotFound
			}
			return domain.Invite{}, err
		}
	}
	return domain.Invite{}, store.ErrConflict
}

// ListFor returns every invite for admins and only self-created ones
// otherwise.
func (s *InviteService) ListFor(ctx context.Context, identityID string, isAdmin bool) ([]domain.Invite, error) {
	if isAdmin {
		return s.Store.Invites().ListInvites(ctx)
	}
	return s.Store.Invites().ListInvitesByCreator(ctx, identityID)
}

// Delete removes an invite. A missing id is not an error.
func (s *InviteService) Delete(ctx context.Context, id string) error {
	return withConflictRetry(ctx, func() error {
		n, err := s.Store.Invites().DeleteInvite(ctx, id)
		if err != nil {
			return err
		}
		slogx.FromContext(ctx).Info("invite deleted",
			slog.String("invite_id", id),
			slog.Bool("existed", n > 0),
		)
		return nil
	})
}

// DeleteMany removes every listed invite in one transaction and returns how
// many existed.
func (s *InviteService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, validationError("no invite ids given")
	}
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var deleted int64
	err := withConflictRetry(ctx, func() error {
		deleted = 0
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			for _, id := range ids {
				n, err := tx.Invites().DeleteInvite(ctx, id)
				if err != nil {
					return err
				}
				deleted += n
			}
			return nil
		})
	})
	if err != nil {
		slogx.FromContext(ctx).Error("bulk invite delete failed", slog.Any("error", err))
		return 0, err
	}
	slogx.FromContext(ctx).Info("invites deleted",
		slog.Int("requested", len(ids)),
		slog.Int64("deleted", deleted),
	)
	return int(deleted), nil
}
