package ssa_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"acircore/internal/ssa"
)

func TestNodeTypeDispatchesAcrossTheSum(t *testing.T) {
	v := &ssa.Variable{Name: "x", ObjectType: ssa.Boolean()}
	c := &ssa.Constant{Value: big.NewInt(1), ObjectType: ssa.NativeField()}
	i := &ssa.Instruction{Operation: &ssa.Nop{}, ResultType: ssa.Unsigned(8)}

	assert.Equal(t, ssa.Boolean(), ssa.NodeType(v))
	assert.Equal(t, ssa.NativeField(), ssa.NodeType(c))
	assert.Equal(t, ssa.Unsigned(8), ssa.NodeType(i))
}

func TestVariableGetRootDefaultsToSelf(t *testing.T) {
	ctx := ssa.NewContext()
	v := &ssa.Variable{Name: "x", ObjectType: ssa.Boolean()}
	id := ctx.InsertVariable(v)
	assert.Equal(t, id, v.GetRoot())
}

func TestVariableGetRootFollowsExplicitRoot(t *testing.T) {
	ctx := ssa.NewContext()
	root := ctx.InsertVariable(&ssa.Variable{Name: "root", ObjectType: ssa.Boolean()})
	renamed := &ssa.Variable{Name: "x_1", ObjectType: ssa.Boolean(), Root: &root}
	ctx.InsertVariable(renamed)

	assert.Equal(t, root, renamed.GetRoot())
}

func TestMarkLifecycle(t *testing.T) {
	none := ssa.NoMark()
	assert.Equal(t, ssa.MarkNone, none.Kind())

	deleted := ssa.Deleted()
	assert.Equal(t, ssa.MarkDeleted, deleted.Kind())

	target := ssa.NodeId{}
	replaced := ssa.ReplaceWith(target)
	assert.Equal(t, ssa.MarkReplaceWith, replaced.Kind())
	got, ok := replaced.ReplacementID()
	assert.True(t, ok)
	assert.Equal(t, target, got)

	_, ok = deleted.ReplacementID()
	assert.False(t, ok)
}

func TestInstructionIsDeleted(t *testing.T) {
	instr := &ssa.Instruction{Operation: &ssa.Nop{}, ResultType: ssa.Boolean()}
	assert.False(t, instr.IsDeleted())
	instr.Mark = ssa.Deleted()
	assert.True(t, instr.IsDeleted())
}

func TestSizeInBitsForConstantUsesValueNotType(t *testing.T) {
	c := &ssa.Constant{Value: big.NewInt(3), ObjectType: ssa.Unsigned(32)}
	assert.Equal(t, uint32(2), ssa.SizeInBits(c))
}

func TestDisplayPrefersResultName(t *testing.T) {
	named := &ssa.Instruction{Operation: &ssa.Nop{}, ResultType: ssa.Boolean(), ResultName: "sum"}
	assert.Equal(t, "sum", ssa.Display(named))

	v := &ssa.Variable{Name: "x", ObjectType: ssa.Boolean()}
	assert.Equal(t, "x", ssa.Display(v))

	c := &ssa.Constant{Value: big.NewInt(7), ObjectType: ssa.NativeField()}
	assert.Equal(t, "7", ssa.Display(c))
}
