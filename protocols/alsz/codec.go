package alsz

import (
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
)

// codec converts payloads of one variant to and from their wire form.
type codec[T any] interface {
	encode(x T) ([]byte, error)
	decode(group curve.Curve, data []byte) (T, error)
}

type bytesCodec struct{}

func (bytesCodec) encode(x []byte) ([]byte, error) {
	return x, nil
}

func (bytesCodec) decode(_ curve.Curve, data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

type pointCodec struct{}

func (pointCodec) encode(x curve.Point) ([]byte, error) {
	return x.MarshalBinary()
}

func (pointCodec) decode(group curve.Curve, data []byte) (curve.Point, error) {
	p := group.NewPoint()
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return p, nil
}
