package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/aussiebroadwan/keygate/pkg/idx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 256
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// IdentityService handles registration, moderation and external account
// linking.
type IdentityService struct {
	Store       store.Store
	Keys        *KeyService
	Invites     *InviteService
	Hasher      *cryptox.Hasher
	Sink        rolesink.RoleSink
	SinkTimeout time.Duration
	Clock       clock.TimeSource

	// TrialKeyDuration is granted to every new identity. Zero disables it.
	TrialKeyDuration time.Duration
	LinkCodeTTL      time.Duration
}

type RegisterParams struct {
	InviteCode string
	Handle     string
	Password   string
}

type RegisterResult struct {
	Identity domain.Identity
	TrialKey *domain.Key
}

type LinkCodeResult struct {
	Code      string
	ExpiresAt time.Time
}

func (s *IdentityService) now() time.Time  { return clock.Or(s.Clock).Now() }
func (s *IdentityService) roles() roleSync { return newRoleSync(s.Sink, s.SinkTimeout) }

func validateCredentials(handle, password string) error {
	if !handlePattern.MatchString(handle) {
		return validationError("handle must be 3 to 32 letters, digits, '.', '_' or '-'")
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return validationError("password must be 8 to 256 characters")
	}
	return nil
}

// Register consumes an invite and creates a user identity in one
// transaction. A trial key, when configured, is issued pre-bound in the same
// transaction.
func (s *IdentityService) Register(ctx context.Context, p RegisterParams) (RegisterResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	handle := strings.TrimSpace(p.Handle)
	if p.InviteCode == "" {
		return RegisterResult{}, validationError("invite code is required")
	}
	if err := validateCredentials(handle, p.Password); err != nil {
		return RegisterResult{}, err
	}

	// 2. Hash before taking the write lock
	hash, err := s.Hasher.Hash(p.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return RegisterResult{}, err
	}

	var out RegisterResult
	err = withConflictRetry(ctx, func() error {
		out = RegisterResult{}
		now := s.now()
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			// 3. Invite must be redeemable before the handle is claimed
			inv, err := tx.Invites().GetInviteByCode(ctx, cryptox.NormalizeCode(p.InviteCode))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrInviteNotFound
				}
				return err
			}
			if inv.Used {
				return ErrInviteAlreadyUsed
			}
			if inv.IsExpired(now) {
				return ErrInviteExpired
			}

			// 4. Create the identity
			ident := domain.Identity{
				ID:           idx.NewAt(now).String(),
				Handle:       handle,
				PasswordHash: hash,
				Role:         domain.RoleUser,
				InvitedBy:    inv.CreatedBy,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Identities().CreateIdentity(ctx, ident); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return ErrHandleTaken
				}
				return err
			}

			// 5. Consume the invite
			if _, err := s.Invites.consumeIn(ctx, tx, inv.Code, ident.ID, now); err != nil {
				return err
			}

			// 6. Trial key
			if s.TrialKeyDuration > 0 {
				k, err := s.Keys.issueIn(ctx, tx, IssueKeyParams{OwnerID: ident.ID, Duration: s.TrialKeyDuration}, now)
				if err != nil {
					return err
				}
				out.TrialKey = &k
			}

			out.Identity = ident
			return nil
		})
	})
	if err != nil {
		log.Warn("registration failed", slog.String("handle", handle), slog.Any("error", err))
		return RegisterResult{}, err
	}

	log.Info("identity registered",
		slog.String("identity_id", out.Identity.ID),
		slog.String("handle", out.Identity.Handle),
		slog.String("invited_by", out.Identity.InvitedBy),
		slog.Bool("trial_key", out.TrialKey != nil),
	)
	return out, nil
}

// Authenticate checks a handle and password. It issues no session.
func (s *IdentityService) Authenticate(ctx context.Context, handle, password string) (domain.Identity, error) {
	ident, err := s.Store.Identities().GetIdentityByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, err
	}
	if err := s.Hasher.Verify(password, ident.PasswordHash); err != nil {
		slogx.FromContext(ctx).Warn("authentication failed", slog.String("identity_id", ident.ID))
		return domain.Identity{}, ErrInvalidCredentials
	}
	if ident.Banned {
		return domain.Identity{}, ErrBanned
	}
	return ident, nil
}

func (s *IdentityService) Get(ctx context.Context, identityID string) (domain.Identity, error) {
	return loadIdentity(ctx, s.Store, identityID)
}

// IdentityDetail is the staff view of one identity.
type IdentityDetail struct {
	Identity domain.Identity
	Keys     []domain.Key
}

func (s *IdentityService) requireStaff(ctx context.Context, actorID string) (domain.Identity, error) {
	actor, err := loadActive(ctx, s.Store, actorID)
	if err != nil {
		return domain.Identity{}, err
	}
	if !actor.Role.IsStaff() {
		return domain.Identity{}, ErrForbidden
	}
	return actor, nil
}

// List returns every identity, oldest first. Admin or support only.
func (s *IdentityService) List(ctx context.Context, actorID string) ([]domain.Identity, error) {
	if _, err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	return s.Store.Identities().List(ctx)
}

// Inspect resolves ref as an identity id, then as a handle, and returns the
// identity with all of its keys. Admin or support only.
func (s *IdentityService) Inspect(ctx context.Context, actorID, ref string) (IdentityDetail, error) {
	if ref == "" {
		return IdentityDetail{}, validationError("identity id or handle is required")
	}
	if _, err := s.requireStaff(ctx, actorID); err != nil {
		return IdentityDetail{}, err
	}

	ident, err := s.Store.Identities().GetIdentityByID(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		ident, err = s.Store.Identities().GetIdentityByHandle(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return IdentityDetail{}, ErrIdentityNotFound
		}
		return IdentityDetail{}, err
	}

	keys, err := s.Keys.ListByOwner(ctx, ident.ID)
	if err != nil {
		return IdentityDetail{}, err
	}
	return IdentityDetail{Identity: ident, Keys: keys}, nil
}

// moderate loads actor and target and checks that actor may change target.
func (s *IdentityService) moderate(ctx context.Context, st store.Store, actorID, targetID string) (domain.Identity, error) {
	actor, err := loadActive(ctx, st, actorID)
	if err != nil {
		return domain.Identity{}, err
	}
	if actorID == targetID {
		return domain.Identity{}, validationError("cannot moderate yourself")
	}
	target, err := loadIdentity(ctx, st, targetID)
	if err != nil {
		return domain.Identity{}, err
	}
	if !actor.Role.CanModerate(target.Role) {
		slogx.FromContext(ctx).Warn("moderation rejected",
			slog.String("actor_id", actor.ID),
			slog.String("actor_role", actor.Role.String()),
			slog.String("target_id", target.ID),
			slog.String("target_role", target.Role.String()),
		)
		return domain.Identity{}, ErrForbidden
	}
	return target, nil
}

// Ban flags the target and revokes its external role immediately. A failed
// revoke is left for the reconciliation loop.
func (s *IdentityService) Ban(ctx context.Context, actorID, targetID string) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	var target domain.Identity
	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			if target, err = s.moderate(ctx, tx, actorID, targetID); err != nil {
				return err
			}
			target.Banned = true
			target.UpdatedAt = s.now()
			return tx.Identities().SetBanned(ctx, target.ID, true, target.UpdatedAt)
		})
	})
	if err != nil {
		return domain.Identity{}, err
	}

	log.Info("identity banned",
		slog.String("identity_id", target.ID),
		slog.String("by", actorID),
	)

	if err := s.roles().revoke(ctx, target.ExternalID); err != nil {
		if errors.Is(err, rolesink.ErrAccountNotFound) {
			log.Debug("banned identity has no external account", slog.String("identity_id", target.ID))
		} else {
			log.Warn("role revoke on ban failed",
				slog.String("identity_id", target.ID),
				slog.Any("error", err),
			)
		}
	}
	return target, nil
}

// Unban clears the flag and re-grants the role when the identity is linked
// and still entitled.
func (s *IdentityService) Unban(ctx context.Context, actorID, targetID string) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	var (
		target   domain.Identity
		entitled bool
	)
	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			if target, err = s.moderate(ctx, tx, actorID, targetID); err != nil {
				return err
			}
			target.Banned = false
			target.UpdatedAt = s.now()
			if err := tx.Identities().SetBanned(ctx, target.ID, false, target.UpdatedAt); err != nil {
				return err
			}
			entitled, err = tx.Keys().HasValidKey(ctx, target.ID, target.UpdatedAt)
			return err
		})
	})
	if err != nil {
		return domain.Identity{}, err
	}

	log.Info("identity unbanned",
		slog.String("identity_id", target.ID),
		slog.String("by", actorID),
	)

	if entitled && target.Linked() {
		if err := s.roles().grant(ctx, target.ExternalID); err != nil {
			log.Warn("role grant on unban failed",
				slog.String("identity_id", target.ID),
				slog.Any("error", err),
			)
		}
	}
	return target, nil
}

// SetRole is admin only and never applies to the caller.
func (s *IdentityService) SetRole(ctx context.Context, actorID, targetID string, role domain.Role) (domain.Identity, error) {
	if _, err := domain.ParseRole(string(role)); err != nil {
		return domain.Identity{}, validationError(err.Error())
	}

	var target domain.Identity
	err := withConflictRetry(ctx, func() error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			actor, err := loadActive(ctx, tx, actorID)
			if err != nil {
				return err
			}
			if actor.Role != domain.RoleAdmin {
				return ErrForbidden
			}
			if actor.ID == targetID {
				return validationError("cannot change your own role")
			}
			if target, err = loadIdentity(ctx, tx, targetID); err != nil {
				return err
			}
			target.Role = role
			target.UpdatedAt = s.now()
			return tx.Identities().UpdateRole(ctx, target.ID, role, target.UpdatedAt)
		})
	})
	if err != nil {
		return domain.Identity{}, err
	}

	slogx.FromContext(ctx).Info("identity role changed",
		slog.String("identity_id", target.ID),
		slog.String("role", role.String()),
		slog.String("by", actorID),
	)
	return target, nil
}

// GenerateLinkCode replaces any outstanding link codes of the identity with a
// fresh one.
func (s *IdentityService) GenerateLinkCode(ctx context.Context, identityID string) (LinkCodeResult, error) {
	ttl := s.LinkCodeTTL
	if ttl <= 0 {
		ttl = domain.DefaultLinkCodeTTL
	}

	var lc domain.LinkCode
	err := withConflictRetry(ctx, func() error {
		now := s.now()
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			ident, err := loadActive(ctx, tx, identityID)
			if err != nil {
				return err
			}
			if err := tx.LinkCodes().DeleteLinkCodesForIdentity(ctx, ident.ID); err != nil {
				return err
			}
			lc = domain.LinkCode{
				IdentityID: ident.ID,
				CreatedAt:  now,
				ExpiresAt:  now.Add(ttl),
			}
			_, err = withFreshCode(ctx,
				func() (string, error) { return cryptox.GenerateCode(cryptox.LinkCodeFormat) },
				func(code string) error {
					lc.Code = code
					return tx.LinkCodes().CreateLinkCode(ctx, lc)
				},
			)
			return err
		})
	})
	if err != nil {
		return LinkCodeResult{}, err
	}

	slogx.FromContext(ctx).Info("link code issued",
		slog.String("identity_id", identityID),
		slog.Time("expires_at", lc.ExpiresAt),
	)
	return LinkCodeResult{Code: lc.Code, ExpiresAt: lc.ExpiresAt}, nil
}

// LinkExternal binds externalID to the identity that generated code. If the
// identity already holds a valid key its role is granted right away.
func (s *IdentityService) LinkExternal(ctx context.Context, code, externalID, externalHandle string) (domain.Identity, error) {
	log := slogx.FromContext(ctx)
	if code == "" || externalID == "" {
		return domain.Identity{}, validationError("code and external id are required")
	}

	var (
		ident      domain.Identity
		previousID string
		entitled   bool
	)
	err := withConflictRetry(ctx, func() error {
		now := s.now()
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			// 1. Code must be live
			lc, err := tx.LinkCodes().GetLinkCode(ctx, cryptox.NormalizeCode(code))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrLinkCodeInvalid
				}
				return err
			}
			if lc.Used || lc.IsExpired(now) {
				return ErrLinkCodeInvalid
			}

			// 2. Identity must be in good standing
			if ident, err = loadActive(ctx, tx, lc.IdentityID); err != nil {
				return err
			}

			// 3. External account must not belong to someone else
			holder, err := tx.Identities().GetIdentityByExternalID(ctx, externalID)
			switch {
			case err == nil && holder.ID != ident.ID:
				return ErrExternalAlreadyLinked
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return err
			}

			// 4. Burn the code and link
			ok, err := tx.LinkCodes().MarkLinkCodeUsed(ctx, lc.Code, now)
			if err != nil {
				return err
			}
			if !ok {
				return ErrLinkCodeInvalid
			}
			if err := tx.Identities().LinkExternal(ctx, ident.ID, externalID, externalHandle, now); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return ErrExternalAlreadyLinked
				}
				return err
			}

			previousID = ident.ExternalID
			ident.ExternalID = externalID
			ident.ExternalHandle = externalHandle
			ident.UpdatedAt = now

			entitled, err = tx.Keys().HasValidKey(ctx, ident.ID, now)
			return err
		})
	})
	if err != nil {
		return domain.Identity{}, err
	}

	log.Info("external account linked",
		slog.String("identity_id", ident.ID),
		slog.String("external_id", externalID),
	)

	roles := s.roles()
	if previousID != "" && previousID != externalID {
		if err := roles.revoke(ctx, previousID); err != nil && !errors.Is(err, rolesink.ErrAccountNotFound) {
			log.Warn("role revoke on relink failed",
				slog.String("identity_id", ident.ID),
				slog.String("external_id", previousID),
				slog.Any("error", err),
			)
		}
	}
	if entitled {
		if err := roles.grant(ctx, externalID); err != nil {
			log.Warn("role grant on link failed",
				slog.String("identity_id", ident.ID),
				slog.Any("error", err),
			)
		}
	}
	return ident, nil
}
