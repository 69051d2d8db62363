package curve

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var (
	secp256k1BaseX, secp256k1BaseY secp256k1.FieldVal
	secp256k1Order                 *saferith.Modulus
)

const secp256k1PointBytes = 33

func init() {
	Gx, _ := hex.DecodeString("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798")
	Gy, _ := hex.DecodeString("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8")
	secp256k1BaseX.SetByteSlice(Gx)
	secp256k1BaseY.SetByteSlice(Gy)

	orderNat, err := new(saferith.Nat).SetHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")
	if err != nil {
		panic(err)
	}
	secp256k1Order = saferith.ModulusFromNat(orderNat)
}

// Secp256k1 is the group of points on the secp256k1 curve.
type Secp256k1 struct{}

func (Secp256k1) NewPoint() Point {
	return new(Secp256k1Point)
}

func (Secp256k1) NewBasePoint() Point {
	out := new(Secp256k1Point)
	out.value.X.Set(&secp256k1BaseX)
	out.value.Y.Set(&secp256k1BaseY)
	out.value.Z.SetInt(1)
	return out
}

func (Secp256k1) NewScalar() Scalar {
	return new(Secp256k1Scalar)
}

func (Secp256k1) Name() string {
	return "secp256k1"
}

func (Secp256k1) ScalarBits() int {
	return 256
}

func (Secp256k1) SafeScalarBytes() int {
	return 48
}

func (Secp256k1) PointBytes() int {
	return secp256k1PointBytes
}

func (Secp256k1) Order() *saferith.Modulus {
	return secp256k1Order
}

// Secp256k1Scalar is an integer modulo the order of secp256k1.
type Secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func secp256k1CastScalar(generic Scalar) *Secp256k1Scalar {
	out, ok := generic.(*Secp256k1Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Scalar: %v", generic))
	}
	return out
}

func (*Secp256k1Scalar) Curve() Curve {
	return Secp256k1{}
}

func (s *Secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	return data[:], nil
}

func (s *Secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for secp256k1 scalar: %d", len(data))
	}
	var exactData [32]byte
	copy(exactData[:], data)
	if s.value.SetBytes(&exactData) != 0 {
		return errors.New("invalid bytes for secp256k1 scalar")
	}
	return nil
}

func (s *Secp256k1Scalar) Add(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Add(&other.value)
	return s
}

func (s *Secp256k1Scalar) Sub(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	negated := new(Secp256k1Scalar)
	negated.value.Set(&other.value)
	negated.value.Negate()

	s.value.Add(&negated.value)
	return s
}

func (s *Secp256k1Scalar) Mul(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Mul(&other.value)
	return s
}

func (s *Secp256k1Scalar) Invert() Scalar {
	s.value.InverseNonConst()
	return s
}

func (s *Secp256k1Scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *Secp256k1Scalar) Equal(that Scalar) bool {
	other := secp256k1CastScalar(that)

	return s.value.Equals(&other.value)
}

func (s *Secp256k1Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *Secp256k1Scalar) Set(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Set(&other.value)
	return s
}

func (s *Secp256k1Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, secp256k1Order)
	s.value.SetByteSlice(reduced.Bytes())
	return s
}

// Act and ActOnBase run in variable time with respect to s.
// Ristretto255 multiplies in constant time.
func (s *Secp256k1Scalar) Act(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(Secp256k1Point)
	secp256k1.ScalarMultNonConst(&s.value, &other.value, &out.value)
	return out
}

func (s *Secp256k1Scalar) ActOnBase() Point {
	out := new(Secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.value, &out.value)
	return out
}

// Secp256k1Point is a point on the secp256k1 curve, in Jacobian coordinates.
type Secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func secp256k1CastPoint(generic Point) *Secp256k1Point {
	out, ok := generic.(*Secp256k1Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Point: %v", generic))
	}
	return out
}

// affine returns a copy of p in affine coordinates, leaving p untouched so that
// points may be read from several goroutines.
func (p *Secp256k1Point) affine() secp256k1.JacobianPoint {
	var out secp256k1.JacobianPoint
	out.Set(&p.value)
	out.ToAffine()
	return out
}

func (*Secp256k1Point) Curve() Curve {
	return Secp256k1{}
}

// MarshalBinary returns the 33 byte compressed encoding of p.
// The identity is encoded as 33 zero bytes.
func (p *Secp256k1Point) MarshalBinary() ([]byte, error) {
	out := make([]byte, secp256k1PointBytes)
	if p.IsIdentity() {
		return out, nil
	}
	a := p.affine()
	// Doing it this way is compatible with Bitcoin
	out[0] = byte(a.Y.IsOddBit()) + 2
	data := a.X.Bytes()
	copy(out[1:], data[:])
	return out, nil
}

func (p *Secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != secp256k1PointBytes {
		return fmt.Errorf("invalid length for secp256k1Point: %d", len(data))
	}
	if isZero(data) {
		p.value = secp256k1.JacobianPoint{}
		return nil
	}
	if data[0] != 2 && data[0] != 3 {
		return fmt.Errorf("secp256k1Point.UnmarshalBinary: invalid format byte %d", data[0])
	}
	var x, y secp256k1.FieldVal
	if x.SetByteSlice(data[1:]) {
		return fmt.Errorf("secp256k1Point.UnmarshalBinary: x coordinate out of range")
	}
	if !secp256k1.DecompressY(&x, data[0] == 3, &y) {
		return fmt.Errorf("secp256k1Point.UnmarshalBinary: x coordinate not on curve")
	}
	y.Normalize()
	p.value.X.Set(&x)
	p.value.Y.Set(&y)
	p.value.Z.SetInt(1)
	return nil
}

func (p *Secp256k1Point) Add(that Point) Point {
	other := secp256k1CastPoint(that)

	out := new(Secp256k1Point)
	secp256k1.AddNonConst(&p.value, &other.value, &out.value)
	return out
}

func (p *Secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *Secp256k1Point) Set(that Point) Point {
	other := secp256k1CastPoint(that)

	p.value.Set(&other.value)
	return p
}

func (p *Secp256k1Point) Negate() Point {
	out := new(Secp256k1Point)
	out.value.Set(&p.value)
	out.value.Y.Normalize()
	out.value.Y.Negate(1)
	out.value.Y.Normalize()
	return out
}

func (p *Secp256k1Point) Equal(that Point) bool {
	other := secp256k1CastPoint(that)

	if p.IsIdentity() || other.IsIdentity() {
		return p.IsIdentity() && other.IsIdentity()
	}
	a, b := p.affine(), other.affine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

func (p *Secp256k1Point) IsIdentity() bool {
	return (p.value.X.IsZero() && p.value.Y.IsZero()) || p.value.Z.IsZero()
}

func isZero(data []byte) bool {
	acc := byte(0)
	for _, b := range data {
		acc |= b
	}
	return acc == 0
}
