// Package ot implements the semi-honest 1-out-of-2 oblivious transfer of
// Asharov, Lindell, Schneider and Zohner (protocol 5.1), based on the
// Diffie-Hellman assumption.
//
// A receiver holding a choice bit σ runs Setup, and sends the resulting
// SetupMessage to the sender. The sender, holding x₀ and x₁, runs Respond,
// and returns the Response. The receiver then runs Recover to learn x_σ, and
// nothing about x₁₋σ. The sender learns nothing about σ.
//
// Two encodings of the payloads are provided, Masked for byte strings of the
// KDF's output size, and Direct for group elements.
package ot

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
	"github.com/taurusgroup/alsz-ot/pkg/math/sample"
	"github.com/taurusgroup/alsz-ot/pkg/pool"
)

var (
	ErrInvalidChoiceBit = errors.New("choice bit must be 0 or 1")
	ErrPayloadLength    = errors.New("payload length does not match the KDF output size")
	ErrInvalidPayload   = errors.New("payload is not an element of the group")
	ErrArity            = errors.New("batch inputs have mismatched lengths")
	ErrInvalidSetup     = errors.New("invalid setup message")
	ErrInvalidResponse  = errors.New("invalid response")
	ErrInvalidSecret    = errors.New("invalid receiver secret")
)

// Scheme is one encoding of the OT, for payloads of type T.
//
// Implementations hold no per-run state, and can be shared between goroutines.
type Scheme[T any] interface {
	// Name identifies the scheme, including the KDF where there is one.
	Name() string
	// Group is the group in which the key agreement takes place.
	Group() curve.Curve
	// Setup is run by the receiver with its choice bit.
	Setup(sigma uint8) (*ReceiverSecret, *SetupMessage, error)
	// Respond is run by the sender with both of its payloads.
	Respond(msg *SetupMessage, x0, x1 T) (*Response[T], error)
	// Recover is run by the receiver to obtain the chosen payload.
	Recover(sigma uint8, secret *ReceiverSecret, resp *Response[T]) (T, error)
}

var (
	_ Scheme[[]byte]      = (*Masked)(nil)
	_ Scheme[curve.Point] = (*Direct)(nil)
)

// SetupMessage is sent from the receiver to the sender.
//
// One of the two points is gᵃ, the other is gʳ' for a discarded r'.
type SetupMessage struct {
	H0, H1 curve.Point
}

// Validate checks that both points are non identity elements of group.
func (m *SetupMessage) Validate(group curve.Curve) error {
	if m == nil || !curve.SameGroup(group, m.H0, m.H1) {
		return ErrInvalidSetup
	}
	if m.H0.IsIdentity() || m.H1.IsIdentity() {
		return ErrInvalidSetup
	}
	return nil
}

// Response is sent from the sender to the receiver.
type Response[T any] struct {
	U      curve.Point
	V0, V1 T
}

// ReceiverSecret is the exponent a kept by the receiver between Setup and Recover.
//
// It must never leave the receiver.
type ReceiverSecret struct {
	a curve.Scalar
}

// Erase overwrites the secret exponent.
func (s *ReceiverSecret) Erase() {
	if s == nil || s.a == nil {
		return
	}
	s.a.Set(s.a.Curve().NewScalar())
	s.a = nil
}

func (s *ReceiverSecret) valid(group curve.Curve) bool {
	return s != nil && s.a != nil && s.a.Curve().Name() == group.Name()
}

// Option modifies a Scheme at construction.
type Option func(*base)

// WithRand replaces crypto/rand.Reader as the source of randomness.
//
// The reader is wrapped so that batches running on a pool can share it.
func WithRand(r io.Reader) Option {
	return func(b *base) {
		if r == nil || r == rand.Reader {
			b.rand = rand.Reader
			return
		}
		b.rand = pool.NewLockedReader(r)
	}
}

// base holds what both encodings share: the group, the randomness, and the receiver setup.
type base struct {
	group curve.Curve
	rand  io.Reader
}

func newBase(group curve.Curve, opts []Option) base {
	b := base{group: group, rand: rand.Reader}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) Group() curve.Curve {
	return b.group
}

func checkChoice(sigma uint8) error {
	if sigma > 1 {
		return ErrInvalidChoiceBit
	}
	return nil
}

func (b *base) setup(sigma uint8) (*ReceiverSecret, *SetupMessage, error) {
	if err := checkChoice(sigma); err != nil {
		return nil, nil, err
	}

	a := sample.NonZeroScalar(b.rand, b.group)
	A := a.ActOnBase()

	decoy := sample.NonZeroScalar(b.rand, b.group)
	D := decoy.ActOnBase()
	decoy.Set(b.group.NewScalar())

	msg := &SetupMessage{H0: A, H1: D}
	if sigma == 1 {
		msg.H0, msg.H1 = D, A
	}
	return &ReceiverSecret{a: a}, msg, nil
}

// keys samples the sender's ephemeral r, and returns u = gʳ along with
// k₀ = r⋅h₀ and k₁ = r⋅h₁. The same r serves both branches.
func (b *base) keys(msg *SetupMessage) (U, k0, k1 curve.Point) {
	r := sample.NonZeroScalar(b.rand, b.group)
	defer r.Set(b.group.NewScalar())
	return r.ActOnBase(), r.Act(msg.H0), r.Act(msg.H1)
}

// key computes k = a⋅u on the receiver side.
func (b *base) key(secret *ReceiverSecret, U curve.Point) (curve.Point, error) {
	if !secret.valid(b.group) {
		return nil, ErrInvalidSecret
	}
	if !curve.SameGroup(b.group, U) || U.IsIdentity() {
		return nil, ErrInvalidResponse
	}
	return secret.a.Act(U), nil
}

func choose[T any](sigma uint8, v0, v1 T) T {
	if sigma == 1 {
		return v1
	}
	return v0
}
