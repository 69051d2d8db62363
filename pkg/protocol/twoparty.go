package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/alsz-ot/internal/round"
)

var (
	ErrNotFinished   = errors.New("protocol: not finished")
	ErrAbortedByUser = errors.New("protocol: aborted by user")
	ErrAbortedByPeer = errors.New("protocol: aborted by other party")
	// ErrSessionMismatch is returned when the other party runs a different protocol or session.
	ErrSessionMismatch = errors.New("protocol: other party is in a different session")
)

// TwoPartyHandler represents a restriction of the Handler for 2 party protocols.
//
// The leader finalizes its first round on creation, and the other party
// waits for the leader's first message.
type TwoPartyHandler struct {
	// Log carries the protocol, party and ssid of this execution.
	Log zerolog.Logger

	round    round.Session
	leader   bool
	err      error
	result   interface{}
	done     bool
	messages map[round.Number]*Message
	out      chan *Message
	mtx      sync.Mutex
}

// NewTwoPartyHandler creates a handler logging through DefaultLogger.
func NewTwoPartyHandler(create StartFunc, sessionID []byte, leader bool) (*TwoPartyHandler, error) {
	return NewTwoPartyHandlerWithLogger(create, sessionID, leader, DefaultLogger())
}

// NewTwoPartyHandlerWithLogger creates a handler logging through log.
func NewTwoPartyHandlerWithLogger(create StartFunc, sessionID []byte, leader bool, log zerolog.Logger) (*TwoPartyHandler, error) {
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	if r.N() != 2 {
		return nil, fmt.Errorf("protocol: two party handler used with %d parties", r.N())
	}
	h := &TwoPartyHandler{
		round:    r,
		leader:   leader,
		messages: map[round.Number]*Message{},
		out:      make(chan *Message, 2*int(r.FinalRoundNumber())+1),
	}
	h.Log = log.With().
		Str("protocol", r.ProtocolID()).
		Str("party", string(r.SelfID())).
		Hex("ssid", r.SSID()).
		Bool("leader", leader).
		Logger()
	h.Log.Info().Msg("start")

	h.mtx.Lock()
	defer h.mtx.Unlock()
	if leader {
		h.advance()
	}
	return h, nil
}

// Result returns the protocol result if the protocol completed successfully. Otherwise an error is returned.
func (h *TwoPartyHandler) Result() (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, ErrNotFinished
}

// Listen returns a channel with outgoing messages that must be sent to the other party.
// The channel is closed when the protocol finishes or aborts.
func (h *TwoPartyHandler) Listen() <-chan *Message {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.out
}

// Stop aborts the protocol if it has not finished, and notifies the other party.
func (h *TwoPartyHandler) Stop() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if !h.done {
		h.abort(ErrAbortedByUser)
	}
}

func (h *TwoPartyHandler) String() string {
	return fmt.Sprintf("party: %s, protocol: %s", h.round.SelfID(), h.round.ProtocolID())
}

// abort terminates the execution. A nil error means the protocol finished.
func (h *TwoPartyHandler) abort(err error) {
	if h.done {
		return
	}
	h.done = true
	if err != nil {
		h.err = err
		h.Log.Warn().Err(err).Msg("abort")
		select {
		case h.out <- &Message{
			SSID:     h.round.SSID(),
			From:     h.round.SelfID(),
			Protocol: h.round.ProtocolID(),
			Data:     []byte(h.err.Error()),
		}:
		default:
		}
	}
	close(h.out)
}

func (h *TwoPartyHandler) canAdvance() bool {
	if h.round.MessageContent() == nil {
		return true
	}
	return h.messages[h.round.Number()] != nil
}

func extractRoundMessage(r round.Session, msg *Message) (round.Message, error) {
	content := r.MessageContent()
	if err := cbor.Unmarshal(msg.Data, content); err != nil {
		return round.Message{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return round.Message{
		From:    msg.From,
		To:      msg.To,
		Content: content,
	}, nil
}

func (h *TwoPartyHandler) verifyMessage(msg *Message) error {
	if msg == nil {
		return nil
	}
	r := h.round
	roundMsg, err := extractRoundMessage(r, msg)
	if err != nil {
		return fmt.Errorf("round %d: %w", r.Number(), err)
	}

	if err = r.VerifyMessage(roundMsg); err != nil {
		return fmt.Errorf("round %d: %w", r.Number(), err)
	}

	if err = r.StoreMessage(roundMsg); err != nil {
		return fmt.Errorf("round %d: %w", r.Number(), err)
	}

	return nil
}

func (h *TwoPartyHandler) advance() {
	for !h.done && h.canAdvance() {
		number := h.round.Number()
		msg := h.messages[number]
		delete(h.messages, number)
		if err := h.verifyMessage(msg); err != nil {
			h.abort(err)
			return
		}
		out := make(chan *round.Message, h.round.N())
		newRound, err := h.round.Finalize(out)
		if err != nil {
			h.abort(fmt.Errorf("round %d: %w", number, err))
			return
		}
		if newRound == nil {
			h.abort(fmt.Errorf("round %d: no next round", number))
			return
		}
		close(out)
		for roundMsg := range out {
			data, err := cbor.Marshal(roundMsg.Content)
			if err != nil {
				h.abort(fmt.Errorf("failed to marshal round message: %w", err))
				return
			}
			h.out <- &Message{
				SSID:        newRound.SSID(),
				From:        newRound.SelfID(),
				To:          roundMsg.To,
				Protocol:    newRound.ProtocolID(),
				RoundNumber: roundMsg.Content.RoundNumber(),
				Data:        data,
			}
		}
		h.round = newRound
		h.Log.Debug().Uint16("round", uint16(number)).Msg("finalized round")

		switch R := newRound.(type) {
		// An abort happened
		case *round.Abort:
			if R.Err == nil {
				R.Err = errors.New("protocol: aborted without reason")
			}
			if len(R.Culprits) > 0 {
				culprits := make([]string, len(R.Culprits))
				for i, id := range R.Culprits {
					culprits[i] = string(id)
				}
				h.Log.Warn().Strs("culprits", culprits).Err(R.Err).Msg("misbehaving party")
			}
			h.abort(R.Err)
			return
		// We have the result
		case *round.Output:
			if R.Result == nil {
				h.abort(errors.New("protocol: nil result"))
				return
			}
			h.result = R.Result
			h.Log.Info().Msg("finished")
			h.abort(nil)
			return
		default:
		}
	}
}

// CanAccept checks the headers of msg against the current session.
func (h *TwoPartyHandler) CanAccept(msg *Message) bool {
	r := h.round
	if !h.fromPeer(msg) {
		return false
	}
	if !h.sameSession(msg) {
		return false
	}
	if msg.Data == nil {
		return false
	}
	if msg.RoundNumber > r.FinalRoundNumber() {
		return false
	}
	return true
}

// fromPeer returns true if msg was sent to us by the other party.
func (h *TwoPartyHandler) fromPeer(msg *Message) bool {
	if msg == nil || !msg.IsFor(h.round.SelfID()) {
		return false
	}
	return h.round.OtherPartyIDs().Contains(msg.From)
}

func (h *TwoPartyHandler) sameSession(msg *Message) bool {
	return msg.Protocol == h.round.ProtocolID() && bytes.Equal(msg.SSID, h.round.SSID())
}

// Accept stores msg, and advances the protocol as far as possible.
//
// Messages which cannot be accepted, or that arrive after the end of the protocol, are dropped.
func (h *TwoPartyHandler) Accept(msg *Message) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if !h.done && h.fromPeer(msg) && !h.sameSession(msg) {
		h.abort(fmt.Errorf("%w: protocol %q", ErrSessionMismatch, msg.Protocol))
		return
	}

	if h.done || !h.CanAccept(msg) {
		if msg != nil {
			h.Log.Debug().Stringer("msg", msg).Msg("dropped message")
		}
		return
	}

	if msg.RoundNumber == 0 {
		h.abort(fmt.Errorf("%w: %q", ErrAbortedByPeer, msg.Data))
		return
	}

	if h.messages[msg.RoundNumber] != nil {
		h.Log.Debug().Stringer("msg", msg).Msg("duplicate message")
		return
	}
	h.messages[msg.RoundNumber] = msg

	h.advance()
}
