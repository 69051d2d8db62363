package ot

import (
	"fmt"

	"github.com/taurusgroup/alsz-ot/pkg/pool"
)

// SetupBatch runs Setup once per choice bit, on pl.
//
// All choice bits are checked before any instance starts.
func SetupBatch[T any](s Scheme[T], pl *pool.Pool, sigmas []uint8) ([]*ReceiverSecret, []*SetupMessage, error) {
	for i, sigma := range sigmas {
		if err := checkChoice(sigma); err != nil {
			return nil, nil, fmt.Errorf("ot: instance %d: %w", i, err)
		}
	}
	type pair struct {
		secret *ReceiverSecret
		msg    *SetupMessage
	}
	pairs, err := pool.Map(pl, len(sigmas), func(i int) (pair, error) {
		secret, msg, err := s.Setup(sigmas[i])
		if err != nil {
			return pair{}, fmt.Errorf("ot: instance %d: %w", i, err)
		}
		return pair{secret, msg}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	secrets := make([]*ReceiverSecret, len(pairs))
	msgs := make([]*SetupMessage, len(pairs))
	for i, p := range pairs {
		secrets[i], msgs[i] = p.secret, p.msg
	}
	return secrets, msgs, nil
}

// RespondBatch runs Respond on every instance, on pl.
func RespondBatch[T any](s Scheme[T], pl *pool.Pool, msgs []*SetupMessage, x0s, x1s []T) ([]*Response[T], error) {
	if len(x0s) != len(msgs) || len(x1s) != len(msgs) {
		return nil, fmt.Errorf("ot.RespondBatch: %w: %d setups, %d and %d payloads",
			ErrArity, len(msgs), len(x0s), len(x1s))
	}
	return pool.Map(pl, len(msgs), func(i int) (*Response[T], error) {
		resp, err := s.Respond(msgs[i], x0s[i], x1s[i])
		if err != nil {
			return nil, fmt.Errorf("ot: instance %d: %w", i, err)
		}
		return resp, nil
	})
}

// RecoverBatch runs Recover on every instance, on pl.
func RecoverBatch[T any](s Scheme[T], pl *pool.Pool, sigmas []uint8, secrets []*ReceiverSecret, resps []*Response[T]) ([]T, error) {
	if len(secrets) != len(sigmas) || len(resps) != len(sigmas) {
		return nil, fmt.Errorf("ot.RecoverBatch: %w: %d choices, %d secrets, %d responses",
			ErrArity, len(sigmas), len(secrets), len(resps))
	}
	return pool.Map(pl, len(sigmas), func(i int) (T, error) {
		x, err := s.Recover(sigmas[i], secrets[i], resps[i])
		if err != nil {
			var zero T
			return zero, fmt.Errorf("ot: instance %d: %w", i, err)
		}
		return x, nil
	})
}
