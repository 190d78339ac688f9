package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// EntitlementService is the only writer of key and invite rows on behalf of
// identities. It checks permissions, enforces quota and drives the
// synchronous role grant on redemption.
type EntitlementService struct {
	Store       store.Store
	Keys        *KeyService
	Invites     *InviteService
	Policy      *RoleLimitPolicy
	Sink        rolesink.RoleSink
	SinkTimeout time.Duration
	Clock       clock.TimeSource
}

type RedeemResult struct {
	Key      domain.Key
	TimeLeft time.Duration
}

// KeyVerification is a deliberately flat view. Every failure looks the same.
type KeyVerification struct {
	Valid       bool
	TimeLeft    time.Duration
	OwnerHandle string
}

type QuotaView struct {
	Quota  domain.Quota
	Limits domain.RoleLimits
}

func (s *EntitlementService) now() time.Time { return clock.Or(s.Clock).Now() }

func (s *EntitlementService) roles() roleSync { return newRoleSync(s.Sink, s.SinkTimeout) }

func loadIdentity(ctx context.Context, st store.Store, id string) (domain.Identity, error) {
	if id == "" {
		return domain.Identity{}, ErrIdentityNotFound
	}
	ident, err := st.Identities().GetIdentityByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrIdentityNotFound
	}
	return ident, err
}

// loadActive loads an identity that is allowed to act at all.
func loadActive(ctx context.Context, st store.Store, id string) (domain.Identity, error) {
	ident, err := loadIdentity(ctx, st, id)
	if err != nil {
		return domain.Identity{}, err
	}
	if ident.Banned {
		return domain.Identity{}, ErrBanned
	}
	return ident, nil
}

func (s *EntitlementService) requireAdmin(ctx context.Context, actorID string) (domain.Identity, error) {
	actor, err := loadActive(ctx, s.Store, actorID)
	if err != nil {
		return domain.Identity{}, err
	}
	if actor.Role != domain.RoleAdmin {
		slogx.FromContext(ctx).Warn("admin operation rejected",
			slog.String("identity_id", actor.ID),
			slog.String("role", actor.Role.String()),
		)
		return domain.Identity{}, ErrForbidden
	}
	return actor, nil
}

// GenerateKey mints a key on behalf of a staff actor. When the key is
// pre-bound to a linked owner the role is granted straight away.
func (s *EntitlementService) GenerateKey(ctx context.Context, actorID string, p IssueKeyParams) (domain.Key, error) {
	return s.issueKey(ctx, p, func(ctx context.Context, tx store.Tx) error {
		actor, err := loadActive(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if !actor.Role.CanIssueKeys() {
			slogx.FromContext(ctx).Warn("key generation rejected",
				slog.String("identity_id", actor.ID),
				slog.String("role", actor.Role.String()),
			)
			return ErrForbidden
		}
		return nil
	})
}

// issueKey runs authorize, when set, in the issuing transaction and grants
// the role to a linked, unbanned pre-bound owner afterwards.
func (s *EntitlementService) issueKey(ctx context.Context, p IssueKeyParams, authorize func(context.Context, store.Tx) error) (domain.Key, error) {
	log := slogx.FromContext(ctx)

	var (
		key   domain.Key
		owner domain.Identity
	)
	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			// 1. Actor
			if authorize != nil {
				if err := authorize(ctx, tx); err != nil {
					return err
				}
			}

			// 2. Pre-bound owner must exist
			var err error
			if p.OwnerID != "" {
				if owner, err = loadIdentity(ctx, tx, p.OwnerID); err != nil {
					return err
				}
			}

			// 3. Issue
			key, err = s.Keys.issueIn(ctx, tx, p, s.now())
			return err
		})
	})
	if err != nil {
		return domain.Key{}, err
	}

	if owner.Linked() && !owner.Banned {
		if err := s.roles().grant(ctx, owner.ExternalID); err != nil {
			log.Warn("role grant after key issue failed",
				slog.String("identity_id", owner.ID),
				slog.Any("error", err),
			)
		}
	}
	return key, nil
}

// RedeemKey binds a free key to identityID, or returns the caller's own key
// unchanged. A linked identity gets its role granted synchronously. A failed
// grant does not fail the redemption.
func (s *EntitlementService) RedeemKey(ctx context.Context, identityID, token string) (RedeemResult, error) {
	log := slogx.FromContext(ctx)
	if token == "" {
		return RedeemResult{}, validationError("key is required")
	}

	var (
		ident domain.Identity
		key   domain.Key
		now   time.Time
	)
	err := withConflictRetry(ctx, func() error {
		now = s.now()
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			if ident, err = loadActive(ctx, tx, identityID); err != nil {
				return err
			}
			key, err = s.Keys.redeemIn(ctx, tx, token, ident.ID, now)
			return err
		})
	})
	if err != nil {
		return RedeemResult{}, err
	}

	if ident.Linked() {
		if err := s.roles().grant(ctx, ident.ExternalID); err != nil {
			log.Warn("role grant after redemption failed",
				slog.String("identity_id", ident.ID),
				slog.String("external_id", ident.ExternalID),
				slog.Any("error", err),
			)
		}
	}

	return RedeemResult{Key: key, TimeLeft: key.TimeLeft(now)}, nil
}

// RedeemKeyByExternal resolves the identity linked to externalID and redeems
// on its behalf.
func (s *EntitlementService) RedeemKeyByExternal(ctx context.Context, externalID, token string) (RedeemResult, error) {
	if externalID == "" {
		return RedeemResult{}, validationError("external id is required")
	}
	ident, err := s.Store.Identities().GetIdentityByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RedeemResult{}, ErrExternalNotLinked
		}
		return RedeemResult{}, err
	}
	return s.RedeemKey(ctx, ident.ID, token)
}

// VerifyKey never fails. Unknown, expired, revoked and unowned keys, keys of
// banned owners and store errors all come back as Valid=false.
func (s *EntitlementService) VerifyKey(ctx context.Context, token string) KeyVerification {
	if token == "" {
		return KeyVerification{}
	}
	k, err := s.Keys.Verify(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			slogx.FromContext(ctx).Error("key verification lookup failed", slog.Any("error", err))
		}
		return KeyVerification{}
	}

	now := s.now()
	if !k.IsValid(now) {
		return KeyVerification{}
	}

	owner, err := s.Store.Identities().GetIdentityByID(ctx, k.OwnerID)
	if err != nil || owner.Banned {
		return KeyVerification{}
	}

	return KeyVerification{
		Valid:       true,
		TimeLeft:    k.TimeLeft(now),
		OwnerHandle: owner.Handle,
	}
}

// ListKeys returns the identity's own keys.
func (s *EntitlementService) ListKeys(ctx context.Context, identityID string) ([]domain.Key, error) {
	ident, err := loadIdentity(ctx, s.Store, identityID)
	if err != nil {
		return nil, err
	}
	return s.Keys.ListByOwner(ctx, ident.ID)
}

// GenerateInvite issues an invite if the creator's role may create invites
// and the monthly quota is not exhausted. The count and the insert share a
// write transaction, which serializes concurrent creators on sqlite.
func (s *EntitlementService) GenerateInvite(ctx context.Context, creatorID string) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	var inv domain.Invite
	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			// 1. Creator in good standing with an inviting role
			creator, err := loadActive(ctx, tx, creatorID)
			if err != nil {
				return err
			}
			if !creator.Role.CanCreateInvite() {
				log.Warn("invite generation rejected for role",
					slog.String("identity_id", creator.ID),
					slog.String("role", creator.Role.String()),
				)
				return ErrForbidden
			}

			// 2. Quota
			q, _, err := s.Policy.quotaIn(ctx, tx, creator)
			if err != nil {
				return err
			}
			if q.Remaining <= 0 {
				log.Warn("invite quota exceeded",
					slog.String("identity_id", creator.ID),
					slog.Int("limit", q.MonthlyLimit),
					slog.Int("used", q.Used),
				)
				return ErrQuotaExceeded
			}

			// 3. Issue
			inv, err = s.Invites.issueIn(ctx, tx, creator.ID, s.now())
			return err
		})
	})
	return inv, err
}

// ConsumeInvite marks an invite used by an existing identity.
func (s *EntitlementService) ConsumeInvite(ctx context.Context, code, consumerID string) (domain.Invite, error) {
	if code == "" {
		return domain.Invite{}, validationError("invite code is required")
	}
	var inv domain.Invite
	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			if _, err := loadIdentity(ctx, tx, consumerID); err != nil {
				return err
			}
			var err error
			inv, err = s.Invites.consumeIn(ctx, tx, code, consumerID, s.now())
			return err
		})
	})
	return inv, err
}

func (s *EntitlementService) GetQuota(ctx context.Context, identityID string) (QuotaView, error) {
	ident, err := loadIdentity(ctx, s.Store, identityID)
	if err != nil {
		return QuotaView{}, err
	}
	q, limits, err := s.Policy.quotaIn(ctx, s.Store, ident)
	if err != nil {
		return QuotaView{}, err
	}
	return QuotaView{Quota: q, Limits: limits}, nil
}

func (s *EntitlementService) ListInvites(ctx context.Context, identityID string) ([]domain.Invite, error) {
	ident, err := loadIdentity(ctx, s.Store, identityID)
	if err != nil {
		return nil, err
	}
	return s.Invites.ListFor(ctx, ident.ID, ident.Role == domain.RoleAdmin)
}

// IsEntitled reports whether the identity is unbanned and holds a valid key.
func (s *EntitlementService) IsEntitled(ctx context.Context, ident domain.Identity) (bool, error) {
	if ident.Banned {
		return false, nil
	}
	return s.Store.Keys().HasValidKey(ctx, ident.ID, s.now())
}

// ExternalStatus is the subscription state of a linked chat account.
type ExternalStatus struct {
	Identity  domain.Identity
	Entitled  bool
	ValidKeys []domain.Key
}

// StatusByExternal reports whether the identity linked to externalID is
// entitled and which of its keys are currently valid. Banned identities are
// never entitled and list no keys.
func (s *EntitlementService) StatusByExternal(ctx context.Context, externalID string) (ExternalStatus, error) {
	if externalID == "" {
		return ExternalStatus{}, validationError("external id is required")
	}
	ident, err := s.Store.Identities().GetIdentityByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ExternalStatus{}, ErrExternalNotLinked
		}
		return ExternalStatus{}, err
	}

	st := ExternalStatus{Identity: ident, ValidKeys: []domain.Key{}}
	if ident.Banned {
		return st, nil
	}

	keys, err := s.Keys.ListByOwner(ctx, ident.ID)
	if err != nil {
		return ExternalStatus{}, err
	}
	now := s.now()
	for _, k := range keys {
		if k.IsValid(now) {
			st.ValidKeys = append(st.ValidKeys, k)
		}
	}
	st.Entitled = len(st.ValidKeys) > 0
	return st, nil
}

func (s *EntitlementService) LinkedIdentities(ctx context.Context) ([]domain.Identity, error) {
	return s.Store.Identities().ListLinked(ctx)
}

// Admin operations.

func (s *EntitlementService) RevokeKey(ctx context.Context, actorID, keyID string) error {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.Keys.Revoke(ctx, keyID)
}

func (s *EntitlementService) RestoreKey(ctx context.Context, actorID, keyID string) error {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.Keys.Restore(ctx, keyID)
}

func (s *EntitlementService) BulkKeyAction(ctx context.Context, actorID string, ids []string, action domain.KeyAction) (int, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return 0, err
	}
	return s.Keys.BulkAction(ctx, ids, action)
}

func (s *EntitlementService) CleanupKeys(ctx context.Context, actorID string, f domain.CleanupFilter) (int, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return 0, err
	}
	return s.Keys.Cleanup(ctx, f)
}

func (s *EntitlementService) KeyStats(ctx context.Context, actorID string) (domain.KeyStats, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return domain.KeyStats{}, err
	}
	return s.Keys.Stats(ctx)
}

func (s *EntitlementService) ListAllKeys(ctx context.Context, actorID string) ([]domain.Key, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.Keys.ListAll(ctx)
}

func (s *EntitlementService) DeleteInvite(ctx context.Context, actorID, inviteID string) error {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.Invites.Delete(ctx, inviteID)
}

func (s *EntitlementService) BulkDeleteInvites(ctx context.Context, actorID string, ids []string) (int, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return 0, err
	}
	return s.Invites.DeleteMany(ctx, ids)
}

func (s *EntitlementService) GetRoleLimits(ctx context.Context) (domain.RoleLimits, error) {
	return s.Policy.Limits(ctx)
}

func (s *EntitlementService) SetRoleLimits(ctx context.Context, actorID string, l domain.RoleLimits) (domain.RoleLimits, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return domain.RoleLimits{}, err
	}
	return s.Policy.Set(ctx, l)
}

// Operator entry points. keygatectl calls these without an acting identity;
// access to the database is the authorization.

// IssueKeyAsSystem is GenerateKey without the actor check. The pre-bound
// owner's role is granted the same way.
func (s *EntitlementService) IssueKeyAsSystem(ctx context.Context, p IssueKeyParams) (domain.Key, error) {
	return s.issueKey(ctx, p, nil)
}

// CleanupKeysAsSystem deletes matching keys created more than olderThanDays
// days before the service clock's now.
func (s *EntitlementService) CleanupKeysAsSystem(ctx context.Context, olderThanDays int, includeExpired, includeRevoked bool) (int, error) {
	if olderThanDays < 0 {
		return 0, validationError("older_than_days must not be negative")
	}
	return s.Keys.Cleanup(ctx, domain.CleanupFilter{
		Cutoff:         s.now().AddDate(0, 0, -olderThanDays),
		IncludeExpired: includeExpired,
		IncludeRevoked: includeRevoked,
	})
}

func (s *EntitlementService) KeyStatsAsSystem(ctx context.Context) (domain.KeyStats, error) {
	return s.Keys.Stats(ctx)
}
