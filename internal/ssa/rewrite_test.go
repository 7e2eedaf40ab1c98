package ssa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"acircore/internal/ssa"
)

func TestMapIDRewritesBinaryOperands(t *testing.T) {
	ctx := ssa.NewContext()
	a := ctx.InsertVariable(&ssa.Variable{Name: "a", ObjectType: ssa.Boolean()})
	b := ctx.InsertVariable(&ssa.Variable{Name: "b", ObjectType: ssa.Boolean()})
	c := ctx.InsertVariable(&ssa.Variable{Name: "c", ObjectType: ssa.Boolean()})

	op := &ssa.Binary{Lhs: a, Rhs: b, Operator: ssa.OpAdd}
	rewritten := ssa.MapID(op, func(id ssa.NodeId) ssa.NodeId {
		if id == a {
			return c
		}
		return id
	})

	binary := rewritten.(*ssa.Binary)
	assert.Equal(t, c, binary.Lhs)
	assert.Equal(t, b, binary.Rhs)
	// Original is untouched.
	assert.Equal(t, a, op.Lhs)
}

func TestMapIDMutRewritesInPlace(t *testing.T) {
	ctx := ssa.NewContext()
	a := ctx.InsertVariable(&ssa.Variable{Name: "a", ObjectType: ssa.Boolean()})
	c := ctx.InsertVariable(&ssa.Variable{Name: "c", ObjectType: ssa.Boolean()})

	op := &ssa.Not{Value: a}
	ssa.MapIDMut(op, func(id ssa.NodeId) ssa.NodeId { return c })
	assert.Equal(t, c, op.Value)
}

func TestMapIDNeverRewritesPhiPredecessorBlock(t *testing.T) {
	ctx := ssa.NewContext()
	v := ctx.InsertVariable(&ssa.Variable{Name: "v", ObjectType: ssa.Boolean()})
	w := ctx.InsertVariable(&ssa.Variable{Name: "w", ObjectType: ssa.Boolean()})
	block := ctx.NewBlockID()

	op := &ssa.Phi{Root: v, BlockArgs: []ssa.PhiArg{{Value: v, PredecessorBlock: block}}}
	rewritten := ssa.MapID(op, func(ssa.NodeId) ssa.NodeId { return w }).(*ssa.Phi)

	assert.Equal(t, w, rewritten.Root)
	assert.Equal(t, w, rewritten.BlockArgs[0].Value)
	assert.Equal(t, block, rewritten.BlockArgs[0].PredecessorBlock)
}

func TestForEachIDVisitsEveryOperand(t *testing.T) {
	ctx := ssa.NewContext()
	a := ctx.InsertVariable(&ssa.Variable{Name: "a", ObjectType: ssa.Boolean()})
	b := ctx.InsertVariable(&ssa.Variable{Name: "b", ObjectType: ssa.Boolean()})

	op := &ssa.Return{Values: []ssa.NodeId{a, b}}
	var seen []ssa.NodeId
	ssa.ForEachID(op, func(id ssa.NodeId) { seen = append(seen, id) })

	assert.Equal(t, []ssa.NodeId{a, b}, seen)
}

func TestStandardFormSwapsCommutativeOperandsIntoOrder(t *testing.T) {
	ctx := ssa.NewContext()
	first := ctx.InsertVariable(&ssa.Variable{Name: "a", ObjectType: ssa.Boolean()})
	second := ctx.InsertVariable(&ssa.Variable{Name: "b", ObjectType: ssa.Boolean()})

	instr := &ssa.Instruction{
		Operation:  &ssa.Binary{Lhs: second, Rhs: first, Operator: ssa.OpAdd},
		ResultType: ssa.Boolean(),
	}
	ssa.StandardForm(instr)

	binary := instr.Operation.(*ssa.Binary)
	assert.Equal(t, first, binary.Lhs)
	assert.Equal(t, second, binary.Rhs)
}

func TestStandardFormLeavesNonCommutativeAlone(t *testing.T) {
	ctx := ssa.NewContext()
	first := ctx.InsertVariable(&ssa.Variable{Name: "a", ObjectType: ssa.Boolean()})
	second := ctx.InsertVariable(&ssa.Variable{Name: "b", ObjectType: ssa.Boolean()})

	instr := &ssa.Instruction{
		Operation:  &ssa.Binary{Lhs: second, Rhs: first, Operator: ssa.OpSub},
		ResultType: ssa.Boolean(),
	}
	ssa.StandardForm(instr)

	binary := instr.Operation.(*ssa.Binary)
	assert.Equal(t, second, binary.Lhs)
	assert.Equal(t, first, binary.Rhs)
}

func TestIsDummyStore(t *testing.T) {
	dummy := ssa.DummyID()
	assert.True(t, ssa.IsDummyStore(&ssa.Store{Index: dummy, Value: dummy}))

	ctx := ssa.NewContext()
	real := ctx.InsertVariable(&ssa.Variable{Name: "a", ObjectType: ssa.Boolean()})
	assert.False(t, ssa.IsDummyStore(&ssa.Store{Index: real, Value: dummy}))
	assert.False(t, ssa.IsDummyStore(&ssa.Binary{}))
}
