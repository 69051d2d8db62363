package curve

import (
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/gtank/ristretto255"
)

const ristretto255Bytes = 32

var ristretto255Order *saferith.Modulus

func init() {
	// l = 2^252 + 27742317777372353535851937790883648493
	orderNat, err := new(saferith.Nat).SetHex("1000000000000000000000000000000014DEF9DEA2F79CD65812631A5CF5D3ED")
	if err != nil {
		panic(err)
	}
	ristretto255Order = saferith.ModulusFromNat(orderNat)
}

// Ristretto255 is the prime order group built on top of Curve25519.
type Ristretto255 struct{}

func (Ristretto255) NewPoint() Point {
	out := new(Ristretto255Point)
	out.value.Zero()
	return out
}

func (Ristretto255) NewBasePoint() Point {
	out := new(Ristretto255Point)
	out.value.Base()
	return out
}

func (Ristretto255) NewScalar() Scalar {
	out := new(Ristretto255Scalar)
	out.value.Zero()
	return out
}

func (Ristretto255) Name() string {
	return "ristretto255"
}

func (Ristretto255) ScalarBits() int {
	return 253
}

func (Ristretto255) SafeScalarBytes() int {
	return 48
}

func (Ristretto255) PointBytes() int {
	return ristretto255Bytes
}

func (Ristretto255) Order() *saferith.Modulus {
	return ristretto255Order
}

// Ristretto255Scalar is an integer modulo the order of the ristretto255 group.
type Ristretto255Scalar struct {
	value ristretto255.Scalar
}

func ristretto255CastScalar(generic Scalar) *Ristretto255Scalar {
	out, ok := generic.(*Ristretto255Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristretto255Scalar: %v", generic))
	}
	return out
}

func (*Ristretto255Scalar) Curve() Curve {
	return Ristretto255{}
}

// MarshalBinary returns the 32 byte little-endian encoding of s.
func (s *Ristretto255Scalar) MarshalBinary() ([]byte, error) {
	return s.value.Encode(nil), nil
}

func (s *Ristretto255Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != ristretto255Bytes {
		return fmt.Errorf("invalid length for ristretto255 scalar: %d", len(data))
	}
	if err := s.value.Decode(data); err != nil {
		return errors.New("invalid bytes for ristretto255 scalar")
	}
	return nil
}

func (s *Ristretto255Scalar) Add(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Add(&s.value, &other.value)
	return s
}

func (s *Ristretto255Scalar) Sub(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Subtract(&s.value, &other.value)
	return s
}

func (s *Ristretto255Scalar) Mul(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Multiply(&s.value, &other.value)
	return s
}

// Invert sets s to its multiplicative inverse, computed with saferith.
func (s *Ristretto255Scalar) Invert() Scalar {
	inverse := new(saferith.Nat).ModInverse(s.nat(), ristretto255Order)
	return s.SetNat(inverse)
}

func (s *Ristretto255Scalar) Negate() Scalar {
	s.value.Negate(&s.value)
	return s
}

func (s *Ristretto255Scalar) Equal(that Scalar) bool {
	other := ristretto255CastScalar(that)

	return s.value.Equal(&other.value) == 1
}

func (s *Ristretto255Scalar) IsZero() bool {
	return s.value.Equal(ristretto255.NewScalar()) == 1
}

func (s *Ristretto255Scalar) Set(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Add(ristretto255.NewScalar(), &other.value)
	return s
}

func (s *Ristretto255Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, ristretto255Order)
	be := reduced.Bytes()
	le := make([]byte, ristretto255Bytes)
	for i := 0; i < len(be) && i < ristretto255Bytes; i++ {
		le[i] = be[len(be)-1-i]
	}
	// reduced < l, so the encoding is always canonical
	if err := s.value.Decode(le); err != nil {
		panic(err)
	}
	return s
}

// nat returns s as a saferith.Nat.
func (s *Ristretto255Scalar) nat() *saferith.Nat {
	le := s.value.Encode(nil)
	be := make([]byte, len(le))
	for i := range le {
		be[i] = le[len(le)-1-i]
	}
	return new(saferith.Nat).SetBytes(be)
}

func (s *Ristretto255Scalar) Act(that Point) Point {
	other := ristretto255CastPoint(that)
	out := new(Ristretto255Point)
	out.value.ScalarMult(&s.value, &other.value)
	return out
}

func (s *Ristretto255Scalar) ActOnBase() Point {
	out := new(Ristretto255Point)
	out.value.ScalarBaseMult(&s.value)
	return out
}

// Ristretto255Point is an element of the ristretto255 group.
type Ristretto255Point struct {
	value ristretto255.Element
}

func ristretto255CastPoint(generic Point) *Ristretto255Point {
	out, ok := generic.(*Ristretto255Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristretto255Point: %v", generic))
	}
	return out
}

func (*Ristretto255Point) Curve() Curve {
	return Ristretto255{}
}

// MarshalBinary returns the canonical 32 byte encoding of p.
func (p *Ristretto255Point) MarshalBinary() ([]byte, error) {
	return p.value.Encode(nil), nil
}

func (p *Ristretto255Point) UnmarshalBinary(data []byte) error {
	if len(data) != ristretto255Bytes {
		return fmt.Errorf("invalid length for ristretto255Point: %d", len(data))
	}
	if err := p.value.Decode(data); err != nil {
		return fmt.Errorf("ristretto255Point.UnmarshalBinary: %w", err)
	}
	return nil
}

func (p *Ristretto255Point) Add(that Point) Point {
	other := ristretto255CastPoint(that)

	out := new(Ristretto255Point)
	out.value.Add(&p.value, &other.value)
	return out
}

func (p *Ristretto255Point) Sub(that Point) Point {
	other := ristretto255CastPoint(that)

	out := new(Ristretto255Point)
	out.value.Subtract(&p.value, &other.value)
	return out
}

func (p *Ristretto255Point) Set(that Point) Point {
	other := ristretto255CastPoint(that)

	p.value.Add(ristretto255.NewElement(), &other.value)
	return p
}

func (p *Ristretto255Point) Negate() Point {
	out := new(Ristretto255Point)
	out.value.Negate(&p.value)
	return out
}

func (p *Ristretto255Point) Equal(that Point) bool {
	other := ristretto255CastPoint(that)

	return p.value.Equal(&other.value) == 1
}

func (p *Ristretto255Point) IsIdentity() bool {
	return p.value.Equal(ristretto255.NewElement()) == 1
}
