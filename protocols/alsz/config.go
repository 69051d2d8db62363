package alsz

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/alsz-ot/pkg/kdf"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
	"github.com/taurusgroup/alsz-ot/pkg/ot"
)

// Variant selects how payloads are encoded.
type Variant string

const (
	// Masked transfers byte strings of KDF.Size() bytes, masked by the derived key.
	Masked Variant = "masked"
	// Direct transfers group elements, masked additively.
	Direct Variant = "direct"
)

var (
	ErrUnknownVariant = errors.New("alsz: unknown variant")
	ErrNoGroup        = errors.New("alsz: no group")
	ErrNoKDF          = errors.New("alsz: masked variant requires a KDF")
)

// Config fixes the parameters both parties must agree on.
type Config struct {
	Group   curve.Curve
	KDF     kdf.KDF
	Variant Variant
}

// DefaultConfig uses secp256k1, the masked variant, and BLAKE3.
func DefaultConfig() Config {
	return Config{
		Group:   curve.Secp256k1{},
		KDF:     kdf.Blake3(),
		Variant: Masked,
	}
}

// Validate checks that the configuration describes a runnable scheme.
func (c Config) Validate() error {
	if c.Group == nil {
		return ErrNoGroup
	}
	switch c.Variant {
	case Masked:
		if !c.KDF.Valid() {
			return ErrNoKDF
		}
	case Direct:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, c.Variant)
	}
	return nil
}

// MessageLength is the byte length of every payload in the masked variant,
// and the length of an encoded point in the direct variant.
func (c Config) MessageLength() int {
	if c.Variant == Direct {
		return c.Group.PointBytes()
	}
	return c.KDF.Size()
}

// ProtocolID identifies the protocol, variant and KDF.
func (c Config) ProtocolID() string {
	if c.Variant == Direct {
		return "alsz/ot/" + ot.NewDirect(c.Group).Name()
	}
	return "alsz/ot/" + ot.NewMasked(c.Group, c.KDF).Name()
}
