package alsz

import (
	"github.com/taurusgroup/alsz-ot/internal/round"
	"github.com/taurusgroup/alsz-ot/pkg/ot"
)

// round1R is the receiver's setup. It expects no message.
type round1R[T any] struct {
	*round.Helper
	scheme  ot.Scheme[T]
	codec   codec[T]
	choices []uint8
}

func (r *round1R[T]) VerifyMessage(round.Message) error { return nil }

func (r *round1R[T]) StoreMessage(round.Message) error { return nil }

// Finalize runs Setup for every choice and sends all setups to the sender.
func (r *round1R[T]) Finalize(out chan<- *round.Message) (round.Session, error) {
	secrets, setups, err := ot.SetupBatch(r.scheme, r.Pool, r.choices)
	if err != nil {
		return r.AbortRound(err), nil
	}
	if err := r.SendMessage(out, newMessage1R(setups), r.OtherPartyIDs()[0]); err != nil {
		return r, err
	}
	return &round2R[T]{round1R: r, secrets: secrets}, nil
}

func (round1R[T]) MessageContent() round.Content { return nil }

func (round1R[T]) Number() round.Number { return 1 }
