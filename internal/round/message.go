package round

import (
	"github.com/taurusgroup/alsz-ot/pkg/party"
)

// Content represents the message returned by a round during finalization.
type Content interface {
	RoundNumber() Number
}

type Message struct {
	From, To party.ID
	Content  Content
}
