package test

import (
	"sync"

	"github.com/taurusgroup/alsz-ot/pkg/party"
	"github.com/taurusgroup/alsz-ot/pkg/protocol"
)

// Network is an in-memory transport between the parties of a protocol.
//
// An optional Tamper hook can rewrite or drop messages in flight.
type Network struct {
	parties          party.IDSlice
	listenChannels   map[party.ID]chan *protocol.Message
	done             chan struct{}
	closedListenChan chan *protocol.Message
	mtx              sync.Mutex

	// Tamper is applied to every message before delivery. Returning nil drops the message.
	Tamper func(msg *protocol.Message) *protocol.Message
}

func NewNetwork(parties party.IDSlice) *Network {
	closed := make(chan *protocol.Message)
	close(closed)
	c := &Network{
		parties:          parties,
		listenChannels:   make(map[party.ID]chan *protocol.Message, len(parties)),
		closedListenChan: closed,
	}
	return c
}

func (n *Network) init() {
	N := len(n.parties)
	for _, id := range n.parties {
		n.listenChannels[id] = make(chan *protocol.Message, N*N+N)
	}
	n.done = make(chan struct{})
}

// Next returns the channel of messages addressed to id.
func (n *Network) Next(id party.ID) <-chan *protocol.Message {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if len(n.listenChannels) == 0 {
		n.init()
	}
	c, ok := n.listenChannels[id]
	if !ok {
		return n.closedListenChan
	}
	return c
}

// Send delivers msg to every party it is for.
func (n *Network) Send(msg *protocol.Message) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if n.Tamper != nil {
		if msg = n.Tamper(msg); msg == nil {
			return
		}
	}
	for id, c := range n.listenChannels {
		if msg.IsFor(id) && c != nil {
			c <- msg
		}
	}
}

// Done marks id as finished, and returns a channel closed once every party is.
func (n *Network) Done(id party.ID) chan struct{} {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if _, ok := n.listenChannels[id]; ok {
		close(n.listenChannels[id])
		delete(n.listenChannels, id)
	}
	if len(n.listenChannels) == 0 {
		close(n.done)
	}
	return n.done
}
