package protocol

import (
	"fmt"

	"github.com/taurusgroup/alsz-ot/internal/round"
	"github.com/taurusgroup/alsz-ot/pkg/party"
)

type Message struct {
	// SSID is a byte string which uniquely identifies the session this message belongs to.
	SSID []byte
	// From is the party.ID of the sender
	From party.ID
	// To is the intended recipient for this message.
	// If To == "", then the message should be interpreted as a broadcast message.
	To party.ID
	// Protocol identifies the protocol this message belongs to
	Protocol string
	// RoundNumber is the index of the round this message belongs to.
	// A RoundNumber of 0 signals an abort, and Data then holds the reason.
	RoundNumber round.Number
	// Data is the actual content consumed by the round.
	Data []byte
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return fmt.Sprintf("message: round %d, from: %s, to %v, protocol: %s", m.RoundNumber, m.From, m.To, m.Protocol)
}

// Broadcast returns true if the message is addressed to all participants.
func (m Message) Broadcast() bool {
	return m.To == ""
}

// IsFor returns true if the message is intended for the designated party.
func (m Message) IsFor(id party.ID) bool {
	if m.From == id {
		return false
	}
	return m.To == "" || m.To == id
}
