package protocol_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/alsz-ot/internal/round"
	"github.com/taurusgroup/alsz-ot/internal/test"
	"github.com/taurusgroup/alsz-ot/pkg/party"
	"github.com/taurusgroup/alsz-ot/pkg/protocol"
	"golang.org/x/sync/errgroup"
)

// ping is a two round protocol: the leader sends a counter, the follower
// increments it and finishes, and the leader outputs the reply.
type pingMessage struct {
	Counter uint64
	Number  round.Number
}

func (m pingMessage) RoundNumber() round.Number { return m.Number }

type leader1 struct {
	*round.Helper
	start uint64
}

func (leader1) VerifyMessage(round.Message) error { return nil }
func (leader1) StoreMessage(round.Message) error  { return nil }
func (r *leader1) Finalize(out chan<- *round.Message) (round.Session, error) {
	if err := r.SendMessage(out, &pingMessage{Counter: r.start, Number: 1}, r.OtherPartyIDs()[0]); err != nil {
		return r, err
	}
	return &leader2{leader1: r}, nil
}
func (leader1) MessageContent() round.Content { return nil }
func (leader1) Number() round.Number          { return 1 }

type leader2 struct {
	*leader1
	reply uint64
}

func (r *leader2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*pingMessage)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.Counter != r.start+1 {
		return errors.New("wrong counter")
	}
	return nil
}
func (r *leader2) StoreMessage(msg round.Message) error {
	r.reply = msg.Content.(*pingMessage).Counter
	return nil
}
func (r *leader2) Finalize(chan<- *round.Message) (round.Session, error) {
	return r.ResultRound(r.reply), nil
}
func (leader2) MessageContent() round.Content { return &pingMessage{} }
func (leader2) Number() round.Number          { return 2 }

type follower1 struct {
	*round.Helper
	counter uint64
	fail    bool
}

func (follower1) VerifyMessage(msg round.Message) error {
	if _, ok := msg.Content.(*pingMessage); !ok {
		return round.ErrInvalidContent
	}
	return nil
}
func (r *follower1) StoreMessage(msg round.Message) error {
	r.counter = msg.Content.(*pingMessage).Counter
	return nil
}
func (r *follower1) Finalize(out chan<- *round.Message) (round.Session, error) {
	if r.fail {
		return r.AbortRound(errors.New("refusing to answer"), r.OtherPartyIDs()...), nil
	}
	if err := r.SendMessage(out, &pingMessage{Counter: r.counter + 1, Number: 2}, r.OtherPartyIDs()[0]); err != nil {
		return r, err
	}
	return r.ResultRound(r.counter), nil
}
func (follower1) MessageContent() round.Content { return &pingMessage{} }
func (follower1) Number() round.Number          { return 1 }

var ids = test.PartyIDs(2)

func start(protocolID string, self party.ID, isLeader, fail bool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		helper, err := round.NewSession(round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: 2,
			SelfID:           self,
			PartyIDs:         ids,
		}, sessionID, nil)
		if err != nil {
			return nil, err
		}
		if isLeader {
			return &leader1{Helper: helper, start: 41}, nil
		}
		return &follower1{Helper: helper, fail: fail}, nil
	}
}

func runPing(t *testing.T, leader, follower protocol.StartFunc) (*protocol.TwoPartyHandler, *protocol.TwoPartyHandler) {
	return runPingWithLogger(t, leader, follower, zerolog.Nop())
}

// runPingWithLogger runs the ping protocol, logging the follower through log.
func runPingWithLogger(t *testing.T, leader, follower protocol.StartFunc, log zerolog.Logger) (*protocol.TwoPartyHandler, *protocol.TwoPartyHandler) {
	h0, err := protocol.NewTwoPartyHandlerWithLogger(leader, []byte("session"), true, zerolog.Nop())
	require.NoError(t, err)
	h1, err := protocol.NewTwoPartyHandlerWithLogger(follower, []byte("session"), false, log)
	require.NoError(t, err)

	network := test.NewNetwork(ids)
	var g errgroup.Group
	g.Go(func() error { test.HandlerLoop(ids[0], h0, network); return nil })
	g.Go(func() error { test.HandlerLoop(ids[1], h1, network); return nil })
	require.NoError(t, g.Wait())
	return h0, h1
}

func TestTwoPartyHandler(t *testing.T) {
	h0, h1 := runPing(t, start("ping", ids[0], true, false), start("ping", ids[1], false, false))

	r0, err := h0.Result()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), r0)
	r1, err := h1.Result()
	require.NoError(t, err)
	assert.Equal(t, uint64(41), r1)
}

func TestTwoPartyHandlerAbort(t *testing.T) {
	h0, h1 := runPing(t, start("ping", ids[0], true, false), start("ping", ids[1], false, true))

	_, err := h1.Result()
	assert.ErrorContains(t, err, "refusing to answer")
	_, err = h0.Result()
	assert.ErrorIs(t, err, protocol.ErrAbortedByPeer)
	assert.ErrorContains(t, err, "refusing to answer")
}

func TestTwoPartyHandlerAbortLogsCulprits(t *testing.T) {
	var buf bytes.Buffer
	_, h1 := runPingWithLogger(t, start("ping", ids[0], true, false), start("ping", ids[1], false, true), zerolog.New(&buf))

	_, err := h1.Result()
	require.Error(t, err)
	assert.Contains(t, buf.String(), fmt.Sprintf(`"culprits":[%q]`, ids[0]))
	assert.Contains(t, buf.String(), "refusing to answer")
}

func TestTwoPartyHandlerSessionMismatch(t *testing.T) {
	h0, h1 := runPing(t, start("ping", ids[0], true, false), start("pong", ids[1], false, false))

	_, err := h0.Result()
	assert.ErrorIs(t, err, protocol.ErrSessionMismatch)
	_, err = h1.Result()
	assert.ErrorIs(t, err, protocol.ErrSessionMismatch)
}

func TestTwoPartyHandlerStop(t *testing.T) {
	h, err := protocol.NewTwoPartyHandlerWithLogger(start("ping", ids[1], false, false), nil, false, zerolog.Nop())
	require.NoError(t, err)
	_, err = h.Result()
	assert.ErrorIs(t, err, protocol.ErrNotFinished)

	h.Stop()
	_, err = h.Result()
	assert.ErrorIs(t, err, protocol.ErrAbortedByUser)

	// the abort is announced to the other party, then the channel is closed
	msg, ok := <-h.Listen()
	require.True(t, ok)
	assert.Equal(t, round.Number(0), msg.RoundNumber)
	assert.Equal(t, ids[1], msg.From)
	_, ok = <-h.Listen()
	assert.False(t, ok)

	// stopping twice is harmless
	h.Stop()
}

func TestTwoPartyHandlerCanAccept(t *testing.T) {
	h, err := protocol.NewTwoPartyHandlerWithLogger(start("ping", ids[1], false, false), []byte("s"), false, zerolog.Nop())
	require.NoError(t, err)

	leader, err := protocol.NewTwoPartyHandlerWithLogger(start("ping", ids[0], true, false), []byte("s"), true, zerolog.Nop())
	require.NoError(t, err)
	msg := <-leader.Listen()
	require.NotNil(t, msg)
	assert.True(t, h.CanAccept(msg))
	assert.False(t, leader.CanAccept(msg), "own message")
	assert.False(t, h.CanAccept(nil))

	wrongRound := *msg
	wrongRound.RoundNumber = 3
	assert.False(t, h.CanAccept(&wrongRound))

	noData := *msg
	noData.Data = nil
	assert.False(t, h.CanAccept(&noData))

	stranger := *msg
	stranger.From = "stranger"
	assert.False(t, h.CanAccept(&stranger))
	h.Accept(&stranger)
	_, err = h.Result()
	assert.ErrorIs(t, err, protocol.ErrNotFinished)

	assert.False(t, (protocol.Message{From: ids[0]}).IsFor(ids[0]))
	assert.True(t, (protocol.Message{From: ids[0]}).Broadcast())
	assert.Contains(t, h.String(), string(ids[1]))
}

func TestTwoPartyHandlerRejectsMultiParty(t *testing.T) {
	create := func(sessionID []byte) (round.Session, error) {
		helper, err := round.NewSession(round.Info{
			ProtocolID:       "ping",
			FinalRoundNumber: 2,
			SelfID:           "a",
			PartyIDs:         test.PartyIDs(3),
		}, sessionID, nil)
		if err != nil {
			return nil, err
		}
		return &leader1{Helper: helper}, nil
	}
	_, err := protocol.NewTwoPartyHandlerWithLogger(create, nil, true, zerolog.Nop())
	assert.Error(t, err)
}
