package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/keygate/internal/keygate/rolesink"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrKeyNotFound, KindNotFound},
		{ErrKeyExpired, KindExpired},
		{ErrKeyInactive, KindInactive},
		{ErrKeyAlreadyClaimed, KindConflict},
		{ErrQuotaExceeded, KindForbidden},
		{validationError("bad"), KindValidation},
		{fmt.Errorf("wrapped: %w", ErrInviteExpired), KindExpired},
		{store.ErrNotFound, KindNotFound},
		{store.ErrConflict, KindConflict},
		{errors.New("boom"), KindInternal},
		{nil, KindInternal},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := validationError("duration too long")
	require.ErrorIs(t, err, ErrValidation)
	require.NotErrorIs(t, err, ErrForbidden)
	require.Equal(t, "duration too long", err.Error())
}

func TestSinkErr(t *testing.T) {
	require.NoError(t, sinkErr(nil))
	require.ErrorIs(t, sinkErr(rolesink.ErrAccountNotFound), rolesink.ErrAccountNotFound)

	err := sinkErr(errors.New("gateway timeout"))
	require.ErrorIs(t, err, ErrExternalUnavailable)
	require.Equal(t, KindExternalUnavailable, KindOf(err))
}
