package ot

import (
	"crypto/rand"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
	"github.com/taurusgroup/alsz-ot/pkg/math/sample"
)

func runDirect(d *Direct, sigma uint8, x0, x1 curve.Point) (curve.Point, error) {
	secret, msg, err := d.Setup(sigma)
	if err != nil {
		return nil, err
	}
	resp, err := d.Respond(msg, x0, x1)
	if err != nil {
		return nil, err
	}
	return d.Recover(sigma, secret, resp)
}

func TestDirectRoundTrip(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			d := NewDirect(group)
			x0, x1 := randomPoint(group), randomPoint(group)
			for sigma := uint8(0); sigma <= 1; sigma++ {
				x, err := runDirect(d, sigma, x0, x1)
				require.NoError(t, err)
				assert.True(t, x.Equal(choose(sigma, x0, x1)))
			}
			// the identity is a valid payload
			x, err := runDirect(d, 0, group.NewPoint(), x1)
			require.NoError(t, err)
			assert.True(t, x.IsIdentity())
		})
	}
}

func TestDirectScenario(t *testing.T) {
	for _, group := range groups {
		d := NewDirect(group)
		k0 := sample.Scalar(rand.Reader, group)
		k1 := sample.Scalar(rand.Reader, group)
		x0, x1 := k0.ActOnBase(), k1.ActOnBase()
		x, err := runDirect(d, 1, x0, x1)
		require.NoError(t, err)
		assert.True(t, x.Equal(x1))
		assert.False(t, x.Equal(x0))
	}
}

func TestDirectWrongChoice(t *testing.T) {
	group := curve.Secp256k1{}
	d := NewDirect(group)
	x0, x1 := randomPoint(group), randomPoint(group)
	secret, msg, err := d.Setup(1)
	require.NoError(t, err)
	resp, err := d.Respond(msg, x0, x1)
	require.NoError(t, err)
	wrong, err := d.Recover(0, secret, resp)
	require.NoError(t, err)
	assert.False(t, wrong.Equal(x0))
	assert.False(t, wrong.Equal(x1))
}

func TestDirectInvalidPayload(t *testing.T) {
	d := NewDirect(curve.Secp256k1{})
	_, msg, err := d.Setup(0)
	require.NoError(t, err)
	_, err = d.Respond(msg, nil, randomPoint(d.Group()))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = d.Respond(msg, randomPoint(d.Group()), randomPoint(curve.Ristretto255{}))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func testDirectQuick(choice bool, seed0, seed1 uint64) bool {
	group := curve.Ristretto255{}
	sigma := uint8(0)
	if choice {
		sigma = 1
	}
	x0 := scalarFromUint64(group, seed0).ActOnBase()
	x1 := scalarFromUint64(group, seed1).ActOnBase()
	x, err := runDirect(NewDirect(group), sigma, x0, x1)
	if err != nil {
		return false
	}
	return x.Equal(choose(sigma, x0, x1))
}

func TestDirectQuick(t *testing.T) {
	err := quick.Check(testDirectQuick, &quick.Config{MaxCount: 20})
	if err != nil {
		t.Error(err)
	}
}
