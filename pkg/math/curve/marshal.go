package curve

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// MarshallablePoint wraps a Point so that it can be encoded with cbor without
// knowing the group in advance.
type MarshallablePoint struct {
	Point Point
}

type marshallablePoint struct {
	Group string
	Data  []byte
}

// NewMarshallablePoint wraps a point.
func NewMarshallablePoint(point Point) *MarshallablePoint {
	return &MarshallablePoint{point}
}

func (m *MarshallablePoint) MarshalCBOR() ([]byte, error) {
	if m.Point == nil {
		return nil, fmt.Errorf("curve.MarshallablePoint: nil point")
	}
	data, err := m.Point.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&marshallablePoint{m.Point.Curve().Name(), data})
}

func (m *MarshallablePoint) UnmarshalCBOR(data []byte) error {
	var mP marshallablePoint
	if err := cbor.Unmarshal(data, &mP); err != nil {
		return err
	}
	group, err := ByName(mP.Group)
	if err != nil {
		return err
	}
	point := group.NewPoint()
	if err := point.UnmarshalBinary(mP.Data); err != nil {
		return err
	}
	m.Point = point
	return nil
}
