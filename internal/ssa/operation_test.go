package ssa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"acircore/internal/ssa"
)

func TestIsCommutative(t *testing.T) {
	assert.True(t, ssa.OpAdd.IsCommutative())
	assert.True(t, ssa.OpMul.IsCommutative())
	assert.True(t, ssa.OpAnd.IsCommutative())
	assert.False(t, ssa.OpSub.IsCommutative())
	assert.False(t, ssa.OpUdiv.IsCommutative())
	assert.False(t, ssa.OpLt.IsCommutative())
}

func TestOpcodeOfDistinguishesLoadsByArray(t *testing.T) {
	arr1 := ssa.NewArrayId(1)
	arr2 := ssa.NewArrayId(2)
	load1 := ssa.OpcodeOf(&ssa.Load{ArrayID: arr1})
	load2 := ssa.OpcodeOf(&ssa.Load{ArrayID: arr2})

	assert.False(t, load1.Equal(load2))
	assert.True(t, load1.Equal(ssa.OpcodeOf(&ssa.Load{ArrayID: arr1})))
}

func TestOpcodeOfDistinguishesBinaryByOperator(t *testing.T) {
	add := ssa.OpcodeOf(&ssa.Binary{Operator: ssa.OpAdd})
	sub := ssa.OpcodeOf(&ssa.Binary{Operator: ssa.OpSub})
	assert.False(t, add.Equal(sub))
}

func TestOpcodeOfCallsDistinguishedByFuncID(t *testing.T) {
	call1 := ssa.OpcodeOf(&ssa.Call{FuncID: ssa.NewFuncId(1)})
	call2 := ssa.OpcodeOf(&ssa.Call{FuncID: ssa.NewFuncId(2)})
	assert.False(t, call1.Equal(call2))
}

func TestTruncateRequiredTable(t *testing.T) {
	sizeOf := func(ssa.NodeId) uint32 { return 0 }

	cases := []struct {
		op       ssa.Operation
		required bool
	}{
		{&ssa.Binary{Operator: ssa.OpAdd}, false},
		{&ssa.Binary{Operator: ssa.OpUdiv}, true},
		{&ssa.Binary{Operator: ssa.OpEq}, true},
		{&ssa.Binary{Operator: ssa.OpShl}, true},
		{&ssa.Not{}, true},
		{&ssa.Constrain{}, true},
		{&ssa.Truncate{}, false},
		{&ssa.Phi{}, false},
		{&ssa.Load{}, false},
		{&ssa.Store{}, true},
		{&ssa.Call{}, false},
		{&ssa.Return{}, true},
		{&ssa.Result{}, false},
		{&ssa.Intrinsic{}, true},
	}

	for _, tc := range cases {
		instr := &ssa.Instruction{Operation: tc.op, ResultType: ssa.Unsigned(8)}
		assert.Equal(t, tc.required, ssa.TruncateRequired(instr, sizeOf))
	}
}

func TestTruncateRequiredForCastDependsOnWidth(t *testing.T) {
	narrow := func(ssa.NodeId) uint32 { return 4 }
	wide := func(ssa.NodeId) uint32 { return 64 }

	instr := &ssa.Instruction{Operation: &ssa.Cast{}, ResultType: ssa.Unsigned(8)}
	assert.True(t, ssa.TruncateRequired(instr, narrow))
	assert.False(t, ssa.TruncateRequired(instr, wide))
}

func TestBinaryFromASTGreaterIsRewrittenAsSwappedLess(t *testing.T) {
	lhs := ssa.NodeId{}
	rhs := ssa.DummyID()
	u32 := ssa.Unsigned(32)
	binary, err := ssa.BinaryFromAST(ssa.SurfaceGreater, u32, lhs, rhs)
	assert.NoError(t, err)
	assert.Equal(t, ssa.OpUlt, binary.Operator)
	assert.Equal(t, rhs, binary.Lhs)
	assert.Equal(t, lhs, binary.Rhs)
}

func TestBinaryFromASTModuloOnFieldIsUnsupported(t *testing.T) {
	_, err := ssa.BinaryFromAST(ssa.SurfaceModulo, ssa.NativeField(), ssa.NodeId{}, ssa.NodeId{})
	assert.Error(t, err)
}

func TestBinaryFromASTModuloOnUnsignedPicksUrem(t *testing.T) {
	binary, err := ssa.BinaryFromAST(ssa.SurfaceModulo, ssa.Unsigned(8), ssa.NodeId{}, ssa.NodeId{})
	assert.NoError(t, err)
	assert.Equal(t, ssa.OpUrem, binary.Operator)
}

func TestBinaryFromASTPanicsOnNonNumericTypeForDivide(t *testing.T) {
	assert.Panics(t, func() {
		ssa.BinaryFromAST(ssa.SurfaceDivide, ssa.Boolean(), ssa.NodeId{}, ssa.NodeId{})
	})
}

func TestBinaryFromASTAddAcceptsAnyResultType(t *testing.T) {
	binary, err := ssa.BinaryFromAST(ssa.SurfaceAdd, ssa.Boolean(), ssa.NodeId{}, ssa.NodeId{})
	assert.NoError(t, err)
	assert.Equal(t, ssa.OpAdd, binary.Operator)
}
