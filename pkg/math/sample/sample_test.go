package sample

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
)

func TestScalar(t *testing.T) {
	for _, group := range []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}} {
		a := Scalar(rand.Reader, group)
		b := Scalar(rand.Reader, group)
		assert.False(t, a.Equal(b), group.Name())
		assert.False(t, NonZeroScalar(rand.Reader, group).IsZero(), group.Name())
	}
}

func TestScalarPanicsOnExhaustedReader(t *testing.T) {
	assert.PanicsWithValue(t, ErrMaxIterations, func() {
		Scalar(bytes.NewReader(nil), curve.Secp256k1{})
	})
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultScalar curve.Scalar

func BenchmarkScalar(b *testing.B) {
	for i := 0; i < b.N; i++ {
		resultScalar = Scalar(rand.Reader, curve.Secp256k1{})
	}
}
