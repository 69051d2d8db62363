package hash

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the length of the output of Sum.
const DigestLengthBytes = 32

// Hash is the hash function we use for session transcripts, based on blake3.
//
// Every value written is prefixed by a domain and its length, so that two
// different sequences of values never produce the same state.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct where the internal hash function is initialized with "alsz-ot".
func New(initialData ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	_, _ = hash.h.WriteString("alsz-ot")
	for _, d := range initialData {
		_ = hash.WriteAny(d)
	}
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - *saferith.Nat
//   - *saferith.Modulus
//   - hash.WriterToWithDomain
//   - encoding.BinaryMarshaler (curve.Point and curve.Scalar)
//
// This function will apply its own domain separation for the first three types.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var toBeWritten WriterToWithDomain
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			toBeWritten = BytesWithDomain{"[]byte", t}
		case *saferith.Nat:
			toBeWritten = BytesWithDomain{"saferith.Nat", t.Bytes()}
		case *saferith.Modulus:
			toBeWritten = BytesWithDomain{"saferith.Modulus", t.Bytes()}
		case WriterToWithDomain:
			toBeWritten = t
		case encoding.BinaryMarshaler:
			b, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.Hash: write %T: %w", t, err)
			}
			toBeWritten = BytesWithDomain{fmt.Sprintf("%T", t), b}
		default:
			return errors.New("hash.Hash: unsupported type")
		}

		var buf bytes.Buffer
		if _, err := toBeWritten.WriteTo(&buf); err != nil {
			return fmt.Errorf("hash.Hash: write %s: %w", toBeWritten.Domain(), err)
		}
		// Write out `(<domain><length><data>)`, so that each domain separated piece of data
		// is distinguished from others.
		var length [8]byte
		binary.BigEndian.PutUint64(length[:], uint64(buf.Len()))
		_, _ = hash.h.WriteString("(")
		_, _ = hash.h.WriteString(toBeWritten.Domain())
		_, _ = hash.h.Write(length[:])
		_, _ = hash.h.Write(buf.Bytes())
		_, _ = hash.h.WriteString(")")
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
