package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// Scalar returns a new uniformly random *curve.Scalar.
//
// SafeScalarBytes bytes are read and reduced modulo the group order, which keeps
// the bias negligible.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	buffer := make([]byte, group.SafeScalarBytes())
	mustReadBits(rand, buffer)
	n := new(saferith.Nat).SetBytes(buffer)
	return group.NewScalar().SetNat(n)
}

// NonZeroScalar samples Scalar until a non zero value is found.
func NonZeroScalar(rand io.Reader, group curve.Curve) curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		s := Scalar(rand, group)
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}
