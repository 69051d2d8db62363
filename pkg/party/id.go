package party

import (
	"io"
)

// ID represents a unique identifier for a participant in our scheme.
//
// An ID is a free form string, and must be distinct from the other participant's.
type ID string

// WriteTo implements io.WriterTo, and writes the ID as raw bytes.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (ID) Domain() string {
	return "ID"
}
