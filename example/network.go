package main

import (
	"github.com/taurusgroup/alsz-ot/pkg/party"
	"github.com/taurusgroup/alsz-ot/pkg/protocol"
)

// Network moves messages between the parties running in this process.
type Network interface {
	Send(msg *protocol.Message)
	Next(id party.ID) <-chan *protocol.Message
}

type chanNetwork struct {
	parties        party.IDSlice
	listenChannels map[party.ID]chan *protocol.Message
}

func NewNetwork(parties party.IDSlice) Network {
	n := len(parties)
	lc := make(map[party.ID]chan *protocol.Message, n)
	for _, id := range parties {
		lc[id] = make(chan *protocol.Message, 4*n)
	}
	return &chanNetwork{
		parties:        parties,
		listenChannels: lc,
	}
}

func (c *chanNetwork) Next(id party.ID) <-chan *protocol.Message {
	return c.listenChannels[id]
}

func (c *chanNetwork) Send(msg *protocol.Message) {
	for _, id := range c.parties {
		if msg.IsFor(id) {
			c.listenChannels[id] <- msg
		}
	}
}
