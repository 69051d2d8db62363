package round

import "errors"

var (
	ErrInvalidContent = errors.New("content is not the right type")
	ErrNilFields      = errors.New("message contained empty fields")
	ErrOutChanFull    = errors.New("out channel is full")
)
