package ot

import (
	"fmt"

	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
)

// Direct transfers group elements, masked additively as v_b = k_b + x_b.
type Direct struct {
	base
}

// NewDirect returns the additive encoding over group.
func NewDirect(group curve.Curve, opts ...Option) *Direct {
	return &Direct{base: newBase(group, opts)}
}

func (*Direct) Name() string {
	return "direct"
}

func (d *Direct) Setup(sigma uint8) (*ReceiverSecret, *SetupMessage, error) {
	secret, msg, err := d.setup(sigma)
	if err != nil {
		return nil, nil, fmt.Errorf("ot.Direct.Setup: %w", err)
	}
	return secret, msg, nil
}

func (d *Direct) Respond(msg *SetupMessage, x0, x1 curve.Point) (*Response[curve.Point], error) {
	if err := msg.Validate(d.group); err != nil {
		return nil, fmt.Errorf("ot.Direct.Respond: %w", err)
	}
	if !curve.SameGroup(d.group, x0, x1) {
		return nil, fmt.Errorf("ot.Direct.Respond: %w", ErrInvalidPayload)
	}

	U, k0, k1 := d.keys(msg)
	return &Response[curve.Point]{U: U, V0: k0.Add(x0), V1: k1.Add(x1)}, nil
}

func (d *Direct) Recover(sigma uint8, secret *ReceiverSecret, resp *Response[curve.Point]) (curve.Point, error) {
	if err := checkChoice(sigma); err != nil {
		return nil, fmt.Errorf("ot.Direct.Recover: %w", err)
	}
	if resp == nil || !curve.SameGroup(d.group, resp.V0, resp.V1) {
		return nil, fmt.Errorf("ot.Direct.Recover: %w", ErrInvalidResponse)
	}
	k, err := d.key(secret, resp.U)
	if err != nil {
		return nil, fmt.Errorf("ot.Direct.Recover: %w", err)
	}
	return choose(sigma, resp.V0, resp.V1).Sub(k), nil
}
