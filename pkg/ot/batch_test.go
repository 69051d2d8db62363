package ot

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/alsz-ot/pkg/kdf"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
	"github.com/taurusgroup/alsz-ot/pkg/pool"
)

func scalarFromUint64(group curve.Curve, x uint64) curve.Scalar {
	return group.NewScalar().SetNat(new(saferith.Nat).SetUint64(x))
}

func TestBatchScenario(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			m := NewMasked(group, kdf.Blake3())
			sigmas := []uint8{0, 1, 0}
			x0s := [][]byte{randomBytes(t, 32), randomBytes(t, 32), randomBytes(t, 32)}
			x1s := [][]byte{randomBytes(t, 32), randomBytes(t, 32), randomBytes(t, 32)}

			secrets, msgs, err := SetupBatch[[]byte](m, pl, sigmas)
			require.NoError(t, err)
			require.Len(t, secrets, 3)
			require.Len(t, msgs, 3)
			resps, err := RespondBatch[[]byte](m, pl, msgs, x0s, x1s)
			require.NoError(t, err)
			xs, err := RecoverBatch[[]byte](m, pl, sigmas, secrets, resps)
			require.NoError(t, err)
			assert.Equal(t, [][]byte{x0s[0], x1s[1], x0s[2]}, xs)
		})
	}
}

func TestBatchMatchesSingleInstances(t *testing.T) {
	group := curve.Secp256k1{}
	sigmas := []uint8{1, 0, 0, 1, 1}
	x0s := make([]curve.Point, len(sigmas))
	x1s := make([]curve.Point, len(sigmas))
	for i := range sigmas {
		x0s[i] = scalarFromUint64(group, uint64(2*i+1)).ActOnBase()
		x1s[i] = scalarFromUint64(group, uint64(2*i+2)).ActOnBase()
	}

	batched := NewDirect(group, WithRand(seeded("batch")))
	single := NewDirect(group, WithRand(seeded("batch")))

	// a nil pool evaluates in index order, so both consume the stream identically
	secrets, msgs, err := SetupBatch[curve.Point](batched, nil, sigmas)
	require.NoError(t, err)
	resps, err := RespondBatch[curve.Point](batched, nil, msgs, x0s, x1s)
	require.NoError(t, err)
	xs, err := RecoverBatch[curve.Point](batched, nil, sigmas, secrets, resps)
	require.NoError(t, err)

	singleSecrets := make([]*ReceiverSecret, len(sigmas))
	for i, sigma := range sigmas {
		secret, msg, err := single.Setup(sigma)
		require.NoError(t, err)
		assert.True(t, msg.H0.Equal(msgs[i].H0))
		assert.True(t, msg.H1.Equal(msgs[i].H1))
		singleSecrets[i] = secret
	}
	for i := range sigmas {
		resp, err := single.Respond(msgs[i], x0s[i], x1s[i])
		require.NoError(t, err)
		assert.True(t, resp.U.Equal(resps[i].U))
		assert.True(t, resp.V0.Equal(resps[i].V0))
		assert.True(t, resp.V1.Equal(resps[i].V1))
		x, err := single.Recover(sigmas[i], singleSecrets[i], resp)
		require.NoError(t, err)
		assert.True(t, x.Equal(xs[i]))
		assert.True(t, x.Equal(choose(sigmas[i], x0s[i], x1s[i])))
	}
}

func TestBatchLarge(t *testing.T) {
	pl := pool.NewPool(4)
	defer pl.TearDown()

	const n = 128
	m := NewMasked(curve.Ristretto255{}, kdf.SHA256(), WithRand(seeded("large")))
	sigmas := make([]uint8, n)
	x0s := make([][]byte, n)
	x1s := make([][]byte, n)
	for i := range sigmas {
		sigmas[i] = uint8(i % 2)
		x0s[i] = randomBytes(t, 32)
		x1s[i] = randomBytes(t, 32)
	}
	secrets, msgs, err := SetupBatch[[]byte](m, pl, sigmas)
	require.NoError(t, err)
	resps, err := RespondBatch[[]byte](m, pl, msgs, x0s, x1s)
	require.NoError(t, err)
	xs, err := RecoverBatch[[]byte](m, pl, sigmas, secrets, resps)
	require.NoError(t, err)
	for i := range xs {
		assert.Equal(t, choose(sigmas[i], x0s[i], x1s[i]), xs[i])
	}
}

func TestBatchEmpty(t *testing.T) {
	m := NewMasked(curve.Secp256k1{}, kdf.Blake3())
	secrets, msgs, err := SetupBatch[[]byte](m, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, secrets)
	assert.Empty(t, msgs)
	resps, err := RespondBatch[[]byte](m, nil, msgs, nil, nil)
	require.NoError(t, err)
	xs, err := RecoverBatch[[]byte](m, nil, nil, secrets, resps)
	require.NoError(t, err)
	assert.Empty(t, xs)
}

func TestBatchErrors(t *testing.T) {
	m := NewMasked(curve.Secp256k1{}, kdf.Blake3())

	counter := new(countingReader)
	counted := NewMasked(curve.Secp256k1{}, kdf.Blake3(), WithRand(counter))
	_, _, err := SetupBatch[[]byte](counted, nil, []uint8{0, 1, 2})
	assert.ErrorIs(t, err, ErrInvalidChoiceBit)
	assert.ErrorContains(t, err, "instance 2")
	assert.Zero(t, counter.n)

	sigmas := []uint8{0, 1}
	secrets, msgs, err := SetupBatch[[]byte](m, nil, sigmas)
	require.NoError(t, err)
	x := [][]byte{randomBytes(t, 32), randomBytes(t, 32)}

	_, err = RespondBatch[[]byte](m, nil, msgs, x, x[:1])
	assert.ErrorIs(t, err, ErrArity)
	_, err = RespondBatch[[]byte](m, nil, msgs[:1], x, x)
	assert.ErrorIs(t, err, ErrArity)
	_, err = RespondBatch[[]byte](m, nil, msgs, x, [][]byte{x[0], x[1][:8]})
	assert.ErrorIs(t, err, ErrPayloadLength)
	assert.ErrorContains(t, err, "instance 1")

	resps, err := RespondBatch[[]byte](m, nil, msgs, x, x)
	require.NoError(t, err)
	_, err = RecoverBatch[[]byte](m, nil, sigmas, secrets[:1], resps)
	assert.ErrorIs(t, err, ErrArity)
	_, err = RecoverBatch[[]byte](m, nil, sigmas, secrets, resps[1:])
	assert.ErrorIs(t, err, ErrArity)
	_, err = RecoverBatch[[]byte](m, nil, []uint8{0, 7}, secrets, resps)
	assert.ErrorIs(t, err, ErrInvalidChoiceBit)
}
