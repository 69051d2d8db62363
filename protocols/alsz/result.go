package alsz

import (
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
)

// ReceiveResult is the receiver's output.
type ReceiveResult struct {
	// Choices are the choice bits, one per instance.
	Choices []uint8
	// Messages[i] is the payload chosen by Choices[i]. In the direct variant,
	// it holds the encoding of Points[i].
	Messages [][]byte
	// Points is only set in the direct variant.
	Points []curve.Point
}

// SendResult is the sender's output.
type SendResult struct {
	// Count is the number of instances answered.
	Count int
}

func newReceiveResult[T any](c codec[T], choices []uint8, xs []T) (*ReceiveResult, error) {
	result := &ReceiveResult{
		Choices:  choices,
		Messages: make([][]byte, len(xs)),
	}
	for i, x := range xs {
		data, err := c.encode(x)
		if err != nil {
			return nil, err
		}
		result.Messages[i] = data
		if p, ok := any(x).(curve.Point); ok {
			result.Points = append(result.Points, p)
		}
	}
	return result, nil
}
