package alsz

import (
	"fmt"

	"github.com/taurusgroup/alsz-ot/internal/round"
	"github.com/taurusgroup/alsz-ot/pkg/ot"
)

// round1S is the sender's only round: it answers every setup, and outputs.
type round1S[T any] struct {
	*round.Helper
	scheme   ot.Scheme[T]
	codec    codec[T]
	x0s, x1s []T
	setups   []*ot.SetupMessage
}

func (r *round1S[T]) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1R)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if err := checkCount(len(r.x0s), len(body.H0), len(body.H1)); err != nil {
		return err
	}
	if err := checkPoints(r.Group(), body.H0, body.H1); err != nil {
		return err
	}
	for i, setup := range body.setups() {
		if err := setup.Validate(r.Group()); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
	}
	return nil
}

func (r *round1S[T]) StoreMessage(msg round.Message) error {
	r.setups = msg.Content.(*message1R).setups()
	return nil
}

// Finalize responds to every setup, sends the responses, and finishes.
func (r *round1S[T]) Finalize(out chan<- *round.Message) (round.Session, error) {
	resps, err := ot.RespondBatch(r.scheme, r.Pool, r.setups, r.x0s, r.x1s)
	if err != nil {
		return r.AbortRound(err, r.OtherPartyIDs()...), nil
	}
	msg, err := newMessage2S(r.codec, resps)
	if err != nil {
		return r, err
	}
	if err := r.SendMessage(out, msg, r.OtherPartyIDs()[0]); err != nil {
		return r, err
	}
	return r.ResultRound(&SendResult{Count: len(resps)}), nil
}

func (r *round1S[T]) MessageContent() round.Content { return &message1R{} }

func (round1S[T]) Number() round.Number { return 1 }
