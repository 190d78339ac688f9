package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/avast/retry-go/v4"
)

const (
	conflictAttempts = 3
	codeAttempts     = 5
)

// withConflictRetry reruns fn while the store reports a lost race or a busy
// database. The final failure surfaces as ErrConflict.
func withConflictRetry(ctx context.Context, fn func() error) error {
	err := retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(conflictAttempts),
		retry.Delay(25*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, store.ErrConflict) }),
	)
	if errors.Is(err, store.ErrConflict) {
		return ErrConflict
	}
	return err
}

// withFreshCode draws a new random code until create succeeds without a
// unique violation.
func withFreshCode(ctx context.Context, gen func() (string, error), create func(code string) error) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			code, err := gen()
			if err != nil {
				return "", retry.Unrecoverable(err)
			}
			if err := create(code); err != nil {
				return "", err
			}
			return code, nil
		},
		retry.Context(ctx),
		retry.Attempts(codeAttempts),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, store.ErrAlreadyExists) }),
	)
}
