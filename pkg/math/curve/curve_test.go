package curve_test

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
)

var groups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}}

func randomScalar(t *testing.T, group curve.Curve) curve.Scalar {
	buf := make([]byte, group.SafeScalarBytes())
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf))
}

func TestBasePointDoubling(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			two := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(2))
			g := group.NewBasePoint()
			assert.True(t, g.Add(g).Equal(two.ActOnBase()))
			assert.True(t, g.Add(g).Equal(two.Act(g)))
		})
	}
}

func TestPointNegateSub(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			g := group.NewBasePoint()
			assert.True(t, g.Add(g.Negate()).IsIdentity())
			assert.True(t, g.Sub(g).IsIdentity())
			assert.True(t, group.NewPoint().Sub(g).Equal(g.Negate()))
			assert.False(t, g.IsIdentity())
			assert.True(t, group.NewPoint().IsIdentity())
		})
	}
}

func TestPointAddSubRoundTrip(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			p := randomScalar(t, group).ActOnBase()
			q := randomScalar(t, group).ActOnBase()
			assert.True(t, p.Add(q).Sub(q).Equal(p))
			assert.False(t, p.Add(q).Equal(p))
		})
	}
}

func TestPointMarshalBinary(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			p := randomScalar(t, group).ActOnBase()
			data, err := p.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, data, group.PointBytes())

			p2 := group.NewPoint()
			require.NoError(t, p2.UnmarshalBinary(data))
			assert.True(t, p.Equal(p2))

			identity, err := group.NewPoint().MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, identity, group.PointBytes())
			p3 := group.NewBasePoint()
			require.NoError(t, p3.UnmarshalBinary(identity))
			assert.True(t, p3.IsIdentity())

			assert.Error(t, p2.UnmarshalBinary(data[1:]))
		})
	}
}

func TestScalarArithmetic(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			a := randomScalar(t, group)
			b := randomScalar(t, group)

			sum := group.NewScalar().Set(a).Add(b)
			assert.True(t, sum.Sub(b).Equal(a))

			inv := group.NewScalar().Set(a).Invert()
			one := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
			assert.True(t, inv.Mul(a).Equal(one))

			neg := group.NewScalar().Set(a).Negate()
			assert.True(t, neg.Add(a).IsZero())

			// (a + b) * G = a * G + b * G
			ab := group.NewScalar().Set(a).Add(b)
			assert.True(t, ab.ActOnBase().Equal(a.ActOnBase().Add(b.ActOnBase())))
		})
	}
}

func TestScalarSetNatReduces(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			order := group.Order().Nat()
			s := group.NewScalar().SetNat(order)
			assert.True(t, s.IsZero())
		})
	}
}

func TestScalarMarshalBinary(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			s := randomScalar(t, group)
			data, err := s.MarshalBinary()
			require.NoError(t, err)
			s2 := group.NewScalar()
			require.NoError(t, s2.UnmarshalBinary(data))
			assert.True(t, s.Equal(s2))
		})
	}
}

type marshalTester struct {
	P *curve.MarshallablePoint
}

func TestMarshallable(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			s := marshalTester{
				P: curve.NewMarshallablePoint(group.NewBasePoint()),
			}
			data, err := cbor.Marshal(s)
			require.NoError(t, err)
			var s2 marshalTester
			require.NoError(t, cbor.Unmarshal(data, &s2))
			assert.True(t, s.P.Point.Equal(s2.P.Point))
			assert.Equal(t, group.Name(), s2.P.Point.Curve().Name())
		})
	}
}

func TestByName(t *testing.T) {
	for _, group := range groups {
		g, err := curve.ByName(group.Name())
		require.NoError(t, err)
		assert.Equal(t, group.Name(), g.Name())
	}
	_, err := curve.ByName("p256")
	assert.Error(t, err)
}

func TestSameGroup(t *testing.T) {
	g := curve.Secp256k1{}.NewBasePoint()
	h := curve.Ristretto255{}.NewBasePoint()
	assert.True(t, curve.SameGroup(curve.Secp256k1{}, g, g))
	assert.False(t, curve.SameGroup(curve.Secp256k1{}, g, h))
	assert.False(t, curve.SameGroup(curve.Secp256k1{}, g, nil))
}
