package curve

import (
	"encoding"
	"fmt"

	"github.com/cronokirby/saferith"
)

// Curve represents a prime order group, along with its scalar field.
type Curve interface {
	// NewPoint returns the identity element of the group.
	NewPoint() Point
	// NewBasePoint returns the standard generator of the group.
	NewBasePoint() Point
	// NewScalar returns the zero scalar.
	NewScalar() Scalar
	// Name returns the name of this group, used for domain separation and encoding.
	Name() string
	// ScalarBits returns the number of significant bits of a scalar.
	ScalarBits() int
	// SafeScalarBytes returns the number of random bytes needed to sample a scalar
	// with negligible bias.
	SafeScalarBytes() int
	// PointBytes returns the length of the canonical encoding of a point.
	PointBytes() int
	// Order returns the order of the group, as a modulus.
	Order() *saferith.Modulus
}

// Scalar represents an element of the scalar field of a Curve.
//
// Arithmetic methods modify the receiver in place, and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Negate() Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	// Act returns s * P.
	Act(Point) Point
	// ActOnBase returns s * G.
	ActOnBase() Point
}

// Point represents an element of a Curve.
//
// Unlike scalars, points are treated as immutable: every operation returns a new value.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Set(Point) Point
	Equal(Point) bool
	IsIdentity() bool
}

// ByName returns the group with the given name.
func ByName(name string) (Curve, error) {
	switch name {
	case Secp256k1{}.Name():
		return Secp256k1{}, nil
	case Ristretto255{}.Name():
		return Ristretto255{}, nil
	default:
		return nil, fmt.Errorf("curve: unknown group %q", name)
	}
}

// SameGroup returns true if every point is non-nil and belongs to the given group.
func SameGroup(group Curve, points ...Point) bool {
	for _, p := range points {
		if p == nil || p.Curve().Name() != group.Name() {
			return false
		}
	}
	return true
}
