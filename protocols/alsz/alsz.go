// Package alsz runs a batch of 1-out-of-2 oblivious transfers between two parties,
// as a two round protocol on top of pkg/ot.
//
// The Receiver leads: it sends one setup per choice bit, the Sender answers all of
// them at once and finishes, and the Receiver then recovers its chosen payloads.
package alsz

import (
	"fmt"

	"github.com/taurusgroup/alsz-ot/internal/round"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
	"github.com/taurusgroup/alsz-ot/pkg/ot"
	"github.com/taurusgroup/alsz-ot/pkg/party"
	"github.com/taurusgroup/alsz-ot/pkg/pool"
	"github.com/taurusgroup/alsz-ot/pkg/protocol"
)

func newSession(cfg Config, selfID, otherID party.ID, sessionID []byte, pl *pool.Pool) (*round.Helper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if selfID == otherID {
		return nil, fmt.Errorf("alsz: both parties have ID %q", selfID)
	}
	info := round.Info{
		ProtocolID:       cfg.ProtocolID(),
		FinalRoundNumber: 2,
		SelfID:           selfID,
		PartyIDs:         []party.ID{selfID, otherID},
		Group:            cfg.Group,
	}
	return round.NewSession(info, sessionID, pl)
}

// Receive starts the protocol for the Receiver, who obtains one payload per choice bit.
//
// The result is a *ReceiveResult. The Receiver must be the leader of a protocol.TwoPartyHandler.
//
// A pool can be passed to this function, to run the instances in parallel.
func Receive(cfg Config, selfID, senderID party.ID, choices []uint8, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		for i, choice := range choices {
			if choice > 1 {
				return nil, fmt.Errorf("alsz.Receive: instance %d: %w", i, ot.ErrInvalidChoiceBit)
			}
		}
		helper, err := newSession(cfg, selfID, senderID, sessionID, pl)
		if err != nil {
			return nil, fmt.Errorf("alsz.Receive: %w", err)
		}
		choices := append([]uint8(nil), choices...)
		if cfg.Variant == Direct {
			return &round1R[curve.Point]{Helper: helper, scheme: ot.NewDirect(cfg.Group), codec: pointCodec{}, choices: choices}, nil
		}
		return &round1R[[]byte]{Helper: helper, scheme: ot.NewMasked(cfg.Group, cfg.KDF), codec: bytesCodec{}, choices: choices}, nil
	}
}

// Send starts the protocol for the Sender, holding the pairs (x0s[i], x1s[i]).
//
// In the masked variant, every payload must be cfg.MessageLength() bytes long.
// In the direct variant, every payload must be the encoding of a point of cfg.Group.
//
// The result is a *SendResult.
func Send(cfg Config, selfID, receiverID party.ID, x0s, x1s [][]byte, pl *pool.Pool) protocol.StartFunc {
	if cfg.Variant == Direct {
		return func(sessionID []byte) (round.Session, error) {
			if cfg.Group == nil {
				return nil, fmt.Errorf("alsz.Send: %w", ErrNoGroup)
			}
			p0s, err := decodePoints(cfg.Group, x0s)
			if err != nil {
				return nil, fmt.Errorf("alsz.Send: %w", err)
			}
			p1s, err := decodePoints(cfg.Group, x1s)
			if err != nil {
				return nil, fmt.Errorf("alsz.Send: %w", err)
			}
			return SendPoints(cfg, selfID, receiverID, p0s, p1s, pl)(sessionID)
		}
	}
	return func(sessionID []byte) (round.Session, error) {
		if len(x0s) != len(x1s) {
			return nil, fmt.Errorf("alsz.Send: %w: %d and %d payloads", ot.ErrArity, len(x0s), len(x1s))
		}
		helper, err := newSession(cfg, selfID, receiverID, sessionID, pl)
		if err != nil {
			return nil, fmt.Errorf("alsz.Send: %w", err)
		}
		for i := range x0s {
			if len(x0s[i]) != cfg.KDF.Size() || len(x1s[i]) != cfg.KDF.Size() {
				return nil, fmt.Errorf("alsz.Send: instance %d: %w", i, ot.ErrPayloadLength)
			}
		}
		return &round1S[[]byte]{
			Helper: helper,
			scheme: ot.NewMasked(cfg.Group, cfg.KDF),
			codec:  bytesCodec{},
			x0s:    x0s,
			x1s:    x1s,
		}, nil
	}
}

// SendPoints starts the protocol for the Sender in the direct variant, with points as payloads.
func SendPoints(cfg Config, selfID, receiverID party.ID, x0s, x1s []curve.Point, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if cfg.Variant != Direct {
			return nil, fmt.Errorf("alsz.SendPoints: variant %q does not transfer points", cfg.Variant)
		}
		if len(x0s) != len(x1s) {
			return nil, fmt.Errorf("alsz.SendPoints: %w: %d and %d payloads", ot.ErrArity, len(x0s), len(x1s))
		}
		helper, err := newSession(cfg, selfID, receiverID, sessionID, pl)
		if err != nil {
			return nil, fmt.Errorf("alsz.SendPoints: %w", err)
		}
		if !curve.SameGroup(cfg.Group, x0s...) || !curve.SameGroup(cfg.Group, x1s...) {
			return nil, fmt.Errorf("alsz.SendPoints: %w", ot.ErrInvalidPayload)
		}
		return &round1S[curve.Point]{
			Helper: helper,
			scheme: ot.NewDirect(cfg.Group),
			codec:  pointCodec{},
			x0s:    x0s,
			x1s:    x1s,
		}, nil
	}
}

func decodePoints(group curve.Curve, data [][]byte) ([]curve.Point, error) {
	points := make([]curve.Point, len(data))
	for i, d := range data {
		p, err := pointCodec{}.decode(group, d)
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		points[i] = p
	}
	return points, nil
}
