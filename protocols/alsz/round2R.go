package alsz

import (
	"github.com/taurusgroup/alsz-ot/internal/round"
	"github.com/taurusgroup/alsz-ot/pkg/ot"
)

// round2R recovers the chosen payloads from the sender's responses.
type round2R[T any] struct {
	*round1R[T]
	secrets []*ot.ReceiverSecret
	resps   []*ot.Response[T]
}

func (r *round2R[T]) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if err := checkCount(len(r.choices), len(body.U), len(body.V0), len(body.V1)); err != nil {
		return err
	}
	if err := checkPoints(r.Group(), body.U); err != nil {
		return err
	}
	for i := range body.V0 {
		if body.V0[i] == nil || body.V1[i] == nil {
			return round.ErrNilFields
		}
	}
	return nil
}

func (r *round2R[T]) StoreMessage(msg round.Message) error {
	resps, err := decodeResponses(r.Group(), r.codec, msg.Content.(*message2S))
	if err != nil {
		return err
	}
	r.resps = resps
	return nil
}

// Finalize recovers every chosen payload, and erases the secrets.
func (r *round2R[T]) Finalize(chan<- *round.Message) (round.Session, error) {
	defer func() {
		for _, secret := range r.secrets {
			secret.Erase()
		}
	}()
	xs, err := ot.RecoverBatch(r.scheme, r.Pool, r.choices, r.secrets, r.resps)
	if err != nil {
		return r.AbortRound(err, r.OtherPartyIDs()...), nil
	}
	result, err := newReceiveResult(r.codec, r.choices, xs)
	if err != nil {
		return r.AbortRound(err), nil
	}
	return r.ResultRound(result), nil
}

func (r *round2R[T]) MessageContent() round.Content { return &message2S{} }

func (round2R[T]) Number() round.Number { return 2 }
