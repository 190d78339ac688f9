package service

import (
	"errors"

	"github.com/aussiebroadwan/keygate/internal/keygate/store"
)

// Kind classifies service failures. Transports map kinds onto status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindExpired
	KindInactive
	KindForbidden
	KindValidation
	KindExternalUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindExpired:
		return "expired"
	case KindInactive:
		return "inactive"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindExternalUnavailable:
		return "external_unavailable"
	default:
		return "internal"
	}
}

// Error is a typed service failure. Code is a stable machine readable
// identifier and Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches on Code so a validation error with a custom message still
// satisfies errors.Is(err, ErrValidation).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrKeyNotFound       = newError(KindNotFound, "key_not_found", "license key not found")
	ErrKeyExpired        = newError(KindExpired, "key_expired", "license key has expired")
	ErrKeyInactive       = newError(KindInactive, "key_inactive", "license key has been revoked")
	ErrKeyAlreadyClaimed = newError(KindConflict, "key_already_claimed", "license key is already claimed")
	ErrDuplicateToken    = newError(KindConflict, "duplicate_token", "license key token already exists")

	ErrInviteNotFound    = newError(KindNotFound, "invite_not_found", "invite code not found")
	ErrInviteAlreadyUsed = newError(KindConflict, "invite_already_used", "invite code has already been used")
	ErrInviteExpired     = newError(KindExpired, "invite_expired", "invite code has expired")
	ErrQuotaExceeded     = newError(KindForbidden, "quota_exceeded", "monthly invite quota exceeded")

	ErrForbidden          = newError(KindForbidden, "forbidden", "operation not permitted for this role")
	ErrBanned             = newError(KindForbidden, "banned", "identity is banned")
	ErrIdentityNotFound   = newError(KindNotFound, "identity_not_found", "identity not found")
	ErrHandleTaken        = newError(KindConflict, "handle_taken", "handle is already taken")
	ErrInvalidCredentials = newError(KindForbidden, "invalid_credentials", "invalid handle or password")

	ErrExternalAlreadyLinked = newError(KindConflict, "external_already_linked", "external account is linked to another identity")
	ErrLinkCodeInvalid       = newError(KindNotFound, "link_code_invalid", "link code is invalid or expired")
	ErrExternalNotLinked     = newError(KindNotFound, "external_not_linked", "no identity is linked to this external account")
	ErrExternalUnavailable   = newError(KindExternalUnavailable, "external_unavailable", "chat platform is unavailable")

	ErrBootstrapAlready      = newError(KindConflict, "already_bootstrapped", "system already bootstrapped")
	ErrBootstrapUnauthorized = newError(KindForbidden, "bootstrap_unauthorized", "unauthorized bootstrap attempt")

	ErrConflict   = newError(KindConflict, "conflict", "concurrent update, try again")
	ErrValidation = newError(KindValidation, "invalid_request", "invalid request")
)

func validationError(msg string) error {
	return newError(KindValidation, ErrValidation.Code, msg)
}

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.Is(err, store.ErrAlreadyExists), errors.Is(err, store.ErrConflict):
		return KindConflict
	}
	return KindInternal
}
