package alsz

import (
	"fmt"

	"github.com/taurusgroup/alsz-ot/internal/round"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
	"github.com/taurusgroup/alsz-ot/pkg/ot"
)

// message1R carries the receiver's setup for every instance.
type message1R struct {
	H0, H1 []*curve.MarshallablePoint
}

func (message1R) RoundNumber() round.Number { return 1 }

func newMessage1R(msgs []*ot.SetupMessage) *message1R {
	out := &message1R{
		H0: make([]*curve.MarshallablePoint, len(msgs)),
		H1: make([]*curve.MarshallablePoint, len(msgs)),
	}
	for i, msg := range msgs {
		out.H0[i] = curve.NewMarshallablePoint(msg.H0)
		out.H1[i] = curve.NewMarshallablePoint(msg.H1)
	}
	return out
}

func (m *message1R) setups() []*ot.SetupMessage {
	out := make([]*ot.SetupMessage, len(m.H0))
	for i := range out {
		out[i] = &ot.SetupMessage{H0: m.H0[i].Point, H1: m.H1[i].Point}
	}
	return out
}

// message2S carries the sender's response for every instance.
// V0 and V1 hold masked byte strings, or encoded points in the direct variant.
type message2S struct {
	U      []*curve.MarshallablePoint
	V0, V1 [][]byte
}

func (message2S) RoundNumber() round.Number { return 2 }

func newMessage2S[T any](c codec[T], resps []*ot.Response[T]) (*message2S, error) {
	out := &message2S{
		U:  make([]*curve.MarshallablePoint, len(resps)),
		V0: make([][]byte, len(resps)),
		V1: make([][]byte, len(resps)),
	}
	var err error
	for i, resp := range resps {
		out.U[i] = curve.NewMarshallablePoint(resp.U)
		if out.V0[i], err = c.encode(resp.V0); err != nil {
			return nil, err
		}
		if out.V1[i], err = c.encode(resp.V1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeResponses[T any](group curve.Curve, c codec[T], m *message2S) ([]*ot.Response[T], error) {
	out := make([]*ot.Response[T], len(m.U))
	for i := range out {
		v0, err := c.decode(group, m.V0[i])
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		v1, err := c.decode(group, m.V1[i])
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		out[i] = &ot.Response[T]{U: m.U[i].Point, V0: v0, V1: v1}
	}
	return out, nil
}
