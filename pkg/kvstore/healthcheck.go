package kvstore

import (
	"context"
	"errors"
)

// ErrHealthcheckFailed wraps the backend error returned by a failed ping.
var ErrHealthcheckFailed = errors.New("kvstore: healthcheck failed")

// Healthcheck returns a readiness check for the store.
func Healthcheck(s Store) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := s.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
