package ot

import (
	"crypto/subtle"
	"fmt"

	"github.com/taurusgroup/alsz-ot/pkg/kdf"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
)

// Masked transfers byte strings of exactly KDF().Size() bytes.
//
// Each payload is masked as v_b = KDF(k_b) ⊕ x_b.
type Masked struct {
	base
	kdf kdf.KDF
}

// NewMasked returns the masked encoding over group, deriving pads with k.
func NewMasked(group curve.Curve, k kdf.KDF, opts ...Option) *Masked {
	return &Masked{base: newBase(group, opts), kdf: k}
}

func (m *Masked) Name() string {
	return "masked/" + m.kdf.Name()
}

// KDF returns the key derivation function used for the pads.
func (m *Masked) KDF() kdf.KDF {
	return m.kdf
}

// MessageLength is the required length of every payload.
func (m *Masked) MessageLength() int {
	return m.kdf.Size()
}

func (m *Masked) Setup(sigma uint8) (*ReceiverSecret, *SetupMessage, error) {
	secret, msg, err := m.setup(sigma)
	if err != nil {
		return nil, nil, fmt.Errorf("ot.Masked.Setup: %w", err)
	}
	return secret, msg, nil
}

func (m *Masked) Respond(msg *SetupMessage, x0, x1 []byte) (*Response[[]byte], error) {
	if err := msg.Validate(m.group); err != nil {
		return nil, fmt.Errorf("ot.Masked.Respond: %w", err)
	}
	if len(x0) != m.kdf.Size() || len(x1) != m.kdf.Size() {
		return nil, fmt.Errorf("ot.Masked.Respond: %w: got %d and %d, want %d",
			ErrPayloadLength, len(x0), len(x1), m.kdf.Size())
	}

	U, k0, k1 := m.keys(msg)
	v0, err := m.mask(k0, x0)
	if err != nil {
		return nil, fmt.Errorf("ot.Masked.Respond: %w", err)
	}
	v1, err := m.mask(k1, x1)
	if err != nil {
		return nil, fmt.Errorf("ot.Masked.Respond: %w", err)
	}
	return &Response[[]byte]{U: U, V0: v0, V1: v1}, nil
}

func (m *Masked) Recover(sigma uint8, secret *ReceiverSecret, resp *Response[[]byte]) ([]byte, error) {
	if err := checkChoice(sigma); err != nil {
		return nil, fmt.Errorf("ot.Masked.Recover: %w", err)
	}
	if resp == nil || resp.U == nil || resp.V0 == nil || resp.V1 == nil {
		return nil, fmt.Errorf("ot.Masked.Recover: %w", ErrInvalidResponse)
	}
	v := choose(sigma, resp.V0, resp.V1)
	if len(v) != m.kdf.Size() {
		return nil, fmt.Errorf("ot.Masked.Recover: %w: got %d, want %d", ErrPayloadLength, len(v), m.kdf.Size())
	}
	k, err := m.key(secret, resp.U)
	if err != nil {
		return nil, fmt.Errorf("ot.Masked.Recover: %w", err)
	}
	x, err := m.mask(k, v)
	if err != nil {
		return nil, fmt.Errorf("ot.Masked.Recover: %w", err)
	}
	return x, nil
}

// mask returns KDF(k) ⊕ x, in a fresh slice.
func (m *Masked) mask(k curve.Point, x []byte) ([]byte, error) {
	pad, err := m.kdf.Derive(k)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(x))
	subtle.XORBytes(out, pad, x)
	return out, nil
}
