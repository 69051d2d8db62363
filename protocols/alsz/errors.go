package alsz

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/alsz-ot/internal/round"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
)

var (
	// ErrCount is returned when a message does not hold one entry per instance.
	ErrCount = errors.New("alsz: wrong number of instances")
	// ErrWrongGroup is returned when a point was encoded in a different group.
	ErrWrongGroup = errors.New("alsz: point from another group")
)

func checkCount(expected int, counts ...int) error {
	for _, n := range counts {
		if n != expected {
			return fmt.Errorf("%w: got %d, expected %d", ErrCount, n, expected)
		}
	}
	return nil
}

func checkPoints(group curve.Curve, lists ...[]*curve.MarshallablePoint) error {
	for _, list := range lists {
		for _, p := range list {
			if p == nil || p.Point == nil {
				return round.ErrNilFields
			}
			if p.Point.Curve().Name() != group.Name() {
				return fmt.Errorf("%w: %s", ErrWrongGroup, p.Point.Curve().Name())
			}
		}
	}
	return nil
}
