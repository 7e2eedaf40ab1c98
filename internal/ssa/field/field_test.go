package field_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"acircore/internal/ssa/field"
)

func TestZeroAndOneIdentities(t *testing.T) {
	assert.True(t, field.Zero().IsZero())
	assert.True(t, field.One().IsOne())
	assert.False(t, field.Zero().IsOne())
}

func TestAddSubRoundTrip(t *testing.T) {
	a := field.FromUint64(41)
	b := field.FromUint64(1)
	sum := field.Add(a, b)
	assert.True(t, field.Equal(sum, field.FromUint64(42)))

	back := field.Sub(sum, b)
	assert.True(t, field.Equal(back, a))
}

func TestMulDivRoundTrip(t *testing.T) {
	a := field.FromUint64(6)
	b := field.FromUint64(7)
	product := field.Mul(a, b)
	assert.True(t, field.Equal(product, field.FromUint64(42)))

	back := field.Div(product, b)
	assert.True(t, field.Equal(back, a))
}

func TestFromBigIntReducesModuloFieldOrder(t *testing.T) {
	order := field.Sub(field.Zero(), field.One()).BigInt()
	order.Add(order, big.NewInt(1))

	wrapped := field.FromBigInt(order)
	assert.True(t, wrapped.IsZero())
}

func TestBytesRoundTrip(t *testing.T) {
	original := field.FromUint64(123456789)
	restored := field.FromBytesReduce(original.Bytes())
	assert.True(t, field.Equal(original, restored))
}

func TestTryIntoU128(t *testing.T) {
	small := field.FromUint64(1000)
	v, ok := small.TryIntoU128()
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(1000), v)

	order := field.Sub(field.Zero(), field.One())
	_, ok = order.TryIntoU128()
	assert.False(t, ok)
}

func TestCmpTotalOrder(t *testing.T) {
	a := field.FromUint64(1)
	b := field.FromUint64(2)
	assert.Equal(t, -1, field.Cmp(a, b))
	assert.Equal(t, 1, field.Cmp(b, a))
	assert.Equal(t, 0, field.Cmp(a, a))
}
