// Package kdf derives fixed-size pads from group elements.
//
// A KDF hashes the canonical encoding of a curve.Point. Its output length is
// fixed, and is also the length of the messages the masked OT can transfer.
package kdf

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"

	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrNilPoint is returned when deriving a pad from a nil point.
	ErrNilPoint = errors.New("kdf: nil point")
	// ErrInvalid is returned when deriving a pad with the zero KDF.
	ErrInvalid = errors.New("kdf: invalid function")
)

// KDF is a hash function with a fixed digest size, applied to encoded points.
//
// A KDF is stateless and safe for concurrent use.
type KDF struct {
	name    string
	size    int
	newHash func() hash.Hash
}

// Blake3 returns the BLAKE3 KDF with a 32 byte output. This is the default.
func Blake3() KDF {
	return KDF{name: "blake3", size: 32, newHash: func() hash.Hash { return blake3.New() }}
}

// SHA256 returns the SHA-256 KDF.
func SHA256() KDF {
	return KDF{name: "sha256", size: sha256.Size, newHash: sha256.New}
}

// SHA3_256 returns the SHA3-256 KDF.
func SHA3_256() KDF {
	return KDF{name: "sha3-256", size: 32, newHash: sha3.New256}
}

// Blake2b256 returns the unkeyed BLAKE2b KDF with a 32 byte output.
func Blake2b256() KDF {
	return KDF{name: "blake2b-256", size: blake2b.Size256, newHash: func() hash.Hash {
		// only fails for keys longer than 64 bytes
		h, _ := blake2b.New256(nil)
		return h
	}}
}

// ByName returns the KDF with the given name.
func ByName(name string) (KDF, error) {
	for _, k := range []KDF{Blake3(), SHA256(), SHA3_256(), Blake2b256()} {
		if k.name == name {
			return k, nil
		}
	}
	return KDF{}, fmt.Errorf("kdf: unknown function %q", name)
}

// Name returns the name of the underlying hash function.
func (k KDF) Name() string {
	return k.name
}

// Size returns the length of the pads produced by Derive.
func (k KDF) Size() int {
	return k.size
}

// Valid returns false for the zero KDF.
func (k KDF) Valid() bool {
	return k.newHash != nil && k.size > 0
}

// Sum hashes data directly. k must be Valid.
func (k KDF) Sum(data []byte) []byte {
	h := k.newHash()
	_, _ = h.Write(data)
	return h.Sum(nil)[:k.size]
}

// Derive returns H(encode(p)), where encode is the canonical encoding of the point.
func (k KDF) Derive(p curve.Point) ([]byte, error) {
	if !k.Valid() {
		return nil, ErrInvalid
	}
	if p == nil {
		return nil, ErrNilPoint
	}
	data, err := p.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("kdf.Derive: %w", err)
	}
	return k.Sum(data), nil
}
