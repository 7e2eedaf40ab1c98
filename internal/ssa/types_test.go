package ssa_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"acircore/internal/ssa"
	"acircore/internal/ssa/field"
)

func TestObjectTypeBits(t *testing.T) {
	assert.Equal(t, uint32(1), ssa.Boolean().Bits())
	assert.Equal(t, uint32(field.Bits), ssa.NativeField().Bits())
	assert.Equal(t, uint32(0), ssa.NotAnObject().Bits())
	assert.Equal(t, uint32(32), ssa.Unsigned(32).Bits())
	assert.Equal(t, uint32(8), ssa.Signed(8).Bits())
}

func TestObjectTypeEqual(t *testing.T) {
	assert.True(t, ssa.Unsigned(32).Equal(ssa.Unsigned(32)))
	assert.False(t, ssa.Unsigned(32).Equal(ssa.Unsigned(16)))
	assert.False(t, ssa.Unsigned(32).Equal(ssa.Signed(32)))
	assert.True(t, ssa.NativeField().Equal(ssa.NativeField()))
}

func TestMaxSizeForFixedWidth(t *testing.T) {
	max := ssa.Unsigned(8).MaxSize()
	assert.Equal(t, big.NewInt(255), max)
}

func TestMaxSizeForNativeFieldIsFieldOrderMinusOne(t *testing.T) {
	max := ssa.NativeField().MaxSize()
	assert.True(t, max.Cmp(big.NewInt(0)) > 0)
	plusOne := new(big.Int).Add(max, big.NewInt(1))
	assert.True(t, field.FromBigInt(plusOne).IsZero())
}

func TestFieldToTypeReducesModuloWidth(t *testing.T) {
	u8 := ssa.Unsigned(8)
	value := field.FromUint64(257)
	reduced := u8.FieldToType(value)
	assert.True(t, field.Equal(reduced, field.FromUint64(1)))
}

func TestFieldToTypeIsIdentityForNativeField(t *testing.T) {
	f := ssa.NativeField()
	value := field.FromUint64(12345)
	assert.True(t, field.Equal(f.FieldToType(value), value))
}

func TestFieldToTypePanicsForSigned(t *testing.T) {
	assert.Panics(t, func() {
		ssa.Signed(8).FieldToType(field.FromUint64(1))
	})
}

func TestNumericKindOf(t *testing.T) {
	k, ok := ssa.NumericKindOf(ssa.Unsigned(16))
	assert.True(t, ok)
	assert.True(t, k.Unsigned)
	assert.Equal(t, uint32(16), k.Width)

	_, ok = ssa.NumericKindOf(ssa.Boolean())
	assert.False(t, ok)
}

func TestFromFrontendTypeBasics(t *testing.T) {
	boolType, err := ssa.FromFrontendType(ssa.FrontendType{Kind: ssa.FrontendBool})
	assert.NoError(t, err)
	assert.Equal(t, ssa.KindBoolean, boolType.Kind())

	fieldType, err := ssa.FromFrontendType(ssa.FrontendType{Kind: ssa.FrontendField})
	assert.NoError(t, err)
	assert.Equal(t, ssa.KindNativeField, fieldType.Kind())

	intType, err := ssa.FromFrontendType(ssa.FrontendType{Kind: ssa.FrontendInteger, Signed: true, Bits: 32})
	assert.NoError(t, err)
	assert.Equal(t, ssa.KindSigned, intType.Kind())
	assert.Equal(t, uint32(32), intType.Width())

	unitType, err := ssa.FromFrontendType(ssa.FrontendType{Kind: ssa.FrontendUnit})
	assert.NoError(t, err)
	assert.Equal(t, ssa.KindNotAnObject, unitType.Kind())
}

func TestFromFrontendTypeRejectsLongIntegers(t *testing.T) {
	_, err := ssa.FromFrontendType(ssa.FrontendType{Kind: ssa.FrontendInteger, Bits: ssa.ShortIntMaxBits})
	assert.Error(t, err)
}

func TestFromFrontendTypeArrayLeaksElementType(t *testing.T) {
	elem := ssa.FrontendType{Kind: ssa.FrontendInteger, Bits: 8}
	arr := ssa.FrontendType{Kind: ssa.FrontendArray, Elem: &elem}

	got, err := ssa.FromFrontendType(arr)
	assert.NoError(t, err)
	assert.Equal(t, ssa.KindUnsigned, got.Kind())
	assert.Equal(t, uint32(8), got.Width())
}
