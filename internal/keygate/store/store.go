package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConflict reports a lost write race or a busy database. Callers may
	// retry the whole unit of work.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Sub-repositories are reached through
// methods so a Tx-scoped Store exposes exactly the same surface and nobody
// starts a transaction inside a transaction by accident.
type Store interface {
	Identities() Identities
	Keys() Keys
	Invites() Invites
	RoleLimits() RoleLimits
	LinkCodes() LinkCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil.
	// Inside fn only the Tx may be used.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	// CreateIdentity fails with ErrAlreadyExists when the handle is taken.
	CreateIdentity(ctx context.Context, id domain.Identity) error

	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)
	GetIdentityByHandle(ctx context.Context, handle string) (domain.Identity, error)
	GetIdentityByExternalID(ctx context.Context, externalID string) (domain.Identity, error)

	UpdateRole(ctx context.Context, id string, role domain.Role, now time.Time) error
	SetBanned(ctx context.Context, id string, banned bool, now time.Time) error

	// LinkExternal binds externalID; ErrAlreadyExists if another identity holds it.
	LinkExternal(ctx context.Context, id, externalID, externalHandle string, now time.Time) error

	// List returns every identity, oldest first.
	List(ctx context.Context) ([]domain.Identity, error)
	// ListLinked returns every identity with an external account, banned or not.
	ListLinked(ctx context.Context) ([]domain.Identity, error)

	IsEmpty(ctx context.Context) (bool, error)
}

type Keys interface {
	// CreateKey fails with ErrAlreadyExists on a token collision.
	CreateKey(ctx context.Context, k domain.Key) error

	GetKeyByID(ctx context.Context, id string) (domain.Key, error)
	GetKeyByToken(ctx context.Context, token string) (domain.Key, error)

	// ClaimKey sets owner and activation only if the key is still unowned.
	// It reports false when another writer got there first.
	ClaimKey(ctx context.Context, id, ownerID string, activatedAt, expiresAt time.Time) (bool, error)

	SetKeyActive(ctx context.Context, id string, active bool, now time.Time) (int64, error)
	DeleteKey(ctx context.Context, id string) (int64, error)

	ListKeysByOwner(ctx context.Context, ownerID string) ([]domain.Key, error)
	// ListKeys returns all keys newest first, with OwnerHandle filled.
	ListKeys(ctx context.Context) ([]domain.Key, error)

	// HasValidKey reports whether ownerID holds an active key expiring after now.
	HasValidKey(ctx context.Context, ownerID string, now time.Time) (bool, error)

	DeleteKeysForCleanup(ctx context.Context, f domain.CleanupFilter, now time.Time) (int64, error)
	KeyStats(ctx context.Context, now time.Time) (domain.KeyStats, error)
}

type Invites interface {
	// CreateInvite fails with ErrAlreadyExists on a code collision.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)
	GetInviteByCode(ctx context.Context, code string) (domain.Invite, error)

	// ConsumeInvite marks the invite used by consumerID if it is unused and
	// unexpired at now. It reports false when the guard did not match.
	ConsumeInvite(ctx context.Context, id, consumerID string, now time.Time) (bool, error)

	CountInvitesCreatedSince(ctx context.Context, creatorID string, since time.Time) (int, error)

	ListInvites(ctx context.Context) ([]domain.Invite, error)
	ListInvitesByCreator(ctx context.Context, creatorID string) ([]domain.Invite, error)

	DeleteInvite(ctx context.Context, id string) (int64, error)
}

type RoleLimits interface {
	GetRoleLimits(ctx context.Context) (domain.RoleLimits, error)

	// EnsureRoleLimits inserts defaults if the singleton row is absent.
	EnsureRoleLimits(ctx context.Context, defaults domain.RoleLimits) error

	UpdateRoleLimits(ctx context.Context, l domain.RoleLimits) error
}

type LinkCodes interface {
	CreateLinkCode(ctx context.Context, c domain.LinkCode) error
	GetLinkCode(ctx context.Context, code string) (domain.LinkCode, error)

	// MarkLinkCodeUsed flips used only while the code is unused and unexpired.
	MarkLinkCodeUsed(ctx context.Context, code string, now time.Time) (bool, error)

	DeleteLinkCodesForIdentity(ctx context.Context, identityID string) error
	DeleteStaleLinkCodes(ctx context.Context, now time.Time) (int64, error)
}
