package round

type Round interface {
	// VerifyMessage handles an incoming Message and validates its content for this round.
	// The content argument can be cast to the appropriate type for this round without error check.
	// In the first round of the leader, this function returns nil.
	// This function should not modify any saved state.
	VerifyMessage(msg Message) error

	// StoreMessage should be called after VerifyMessage and should only store the appropriate fields from the
	// content.
	StoreMessage(msg Message) error

	// Finalize is called after all messages from the parties have been processed in the current round.
	// Messages for the next round are sent out through the out channel.
	// If a non-critical error occurs (like a failure to send a message), the current round can be
	// returned so that the caller may try to finalize again.
	//
	// In the last round, Finalize should return
	//   r.ResultRound(result), nil
	// where result is the output of the protocol.
	Finalize(out chan<- *Message) (Session, error)

	// MessageContent returns an uninitialized message.Content for this round.
	//
	// A round which expects no message returns nil.
	MessageContent() Content

	// Number returns the current round number.
	Number() Number
}
