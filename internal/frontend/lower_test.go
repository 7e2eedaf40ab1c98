package frontend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acircore/internal/frontend"
	"acircore/internal/ssa"
)

func lowerOne(t *testing.T, source string) (*ssa.Context, *frontend.LoweredFunction) {
	t.Helper()
	prog, err := frontend.ParseString("test.acx", source)
	require.NoError(t, err)

	ctx := ssa.NewContext()
	fns, err := frontend.LowerProgram(ctx, prog)
	require.NoError(t, err)
	require.Len(t, fns, 1)
	return ctx, fns[0]
}

func TestLowerConstantAdditionFoldsAtLoweringTime(t *testing.T) {
	ctx, fn := lowerOne(t, `
fn f() -> Field {
    let x = 2 + 40;
    return x;
}
`)
	require.Len(t, fn.Instructions, 2)

	letValue := fn.Instructions[0]
	node, ok := ctx.TryGetNode(letValue)
	require.True(t, ok)
	constant, ok := node.(*ssa.Constant)
	require.True(t, ok, "constant folding should have collapsed 2 + 40 into a Constant node")
	assert.Equal(t, "42", constant.ValueStr)
}

func TestLowerUntypedLiteralAdoptsSiblingType(t *testing.T) {
	ctx, fn := lowerOne(t, `
fn f(a: u32) -> u32 {
    return a + 1;
}
`)
	returnInstrID := fn.Instructions[len(fn.Instructions)-1]
	node := ctx.Node(returnInstrID)
	instr, ok := node.(*ssa.Instruction)
	require.True(t, ok)
	ret, ok := instr.Operation.(*ssa.Return)
	require.True(t, ok)
	require.Len(t, ret.Values, 1)

	assert.Equal(t, ssa.Unsigned(32), ctx.GetObjectType(ret.Values[0]))
}

func TestLowerReturnTypeMismatchIsReported(t *testing.T) {
	prog, err := frontend.ParseString("test.acx", `
fn f(a: u32) -> bool {
    return a;
}
`)
	require.NoError(t, err)

	ctx := ssa.NewContext()
	_, err = frontend.LowerProgram(ctx, prog)
	require.Error(t, err)

	var lowerErr *frontend.LowerError
	require.ErrorAs(t, err, &lowerErr)
	assert.Equal(t, "E0003", lowerErr.Compiler.Code)
}

func TestLowerMissingReturnIsReported(t *testing.T) {
	prog, err := frontend.ParseString("test.acx", `
fn f() -> Field {
    let x = 1;
}
`)
	require.NoError(t, err)

	ctx := ssa.NewContext()
	_, err = frontend.LowerProgram(ctx, prog)
	require.Error(t, err)

	var lowerErr *frontend.LowerError
	require.ErrorAs(t, err, &lowerErr)
	assert.Equal(t, "E0600", lowerErr.Compiler.Code)
}

func TestLowerUndefinedVariableIsReported(t *testing.T) {
	prog, err := frontend.ParseString("test.acx", `
fn f() -> Field {
    return unknownVar;
}
`)
	require.NoError(t, err)

	ctx := ssa.NewContext()
	_, err = frontend.LowerProgram(ctx, prog)
	require.Error(t, err)

	var lowerErr *frontend.LowerError
	require.ErrorAs(t, err, &lowerErr)
	assert.Equal(t, "E0001", lowerErr.Compiler.Code)
	assert.Contains(t, lowerErr.Compiler.Message, "unknownVar")
}

func TestLowerConstrainAlwaysFalseIsReported(t *testing.T) {
	prog, err := frontend.ParseString("test.acx", `
fn f() -> Field {
    constrain 0;
    return 1;
}
`)
	require.NoError(t, err)

	ctx := ssa.NewContext()
	_, err = frontend.LowerProgram(ctx, prog)
	require.Error(t, err)

	var lowerErr *frontend.LowerError
	require.ErrorAs(t, err, &lowerErr)
	assert.Equal(t, "E0700", lowerErr.Compiler.Code)
	assert.Contains(t, lowerErr.Compiler.Message, "always false")
}

func TestLowerConstrainAlwaysTrueDisappears(t *testing.T) {
	ctx, fn := lowerOne(t, `
fn f() -> Field {
    constrain 1;
    return 0;
}
`)
	constrainResult := fn.Instructions[0]
	assert.True(t, constrainResult.IsDummy())
	_ = ctx
}

func TestLowerUnaryMinusOnLiteralFoldsDirectly(t *testing.T) {
	ctx, fn := lowerOne(t, `
fn f() -> Field {
    let x = -5;
    return x;
}
`)
	node := ctx.Node(fn.Instructions[0])
	constant, ok := node.(*ssa.Constant)
	require.True(t, ok)
	// -5 reduced into the field is p - 5, not a small negative number.
	assert.NotEqual(t, "5", constant.ValueStr)
}

func TestLowerBitwiseOnFieldIsRejected(t *testing.T) {
	prog, err := frontend.ParseString("test.acx", `
fn f(a: Field, b: Field) -> Field {
    return a & b;
}
`)
	require.NoError(t, err)

	ctx := ssa.NewContext()
	_, err = frontend.LowerProgram(ctx, prog)
	require.Error(t, err)

	var lowerErr *frontend.LowerError
	require.ErrorAs(t, err, &lowerErr)
	assert.Equal(t, "E0008", lowerErr.Compiler.Code)
}

func TestLowerDivisionByConstantZeroIsReported(t *testing.T) {
	prog, err := frontend.ParseString("test.acx", `
fn f(a: u32) -> u32 {
    return a / 0;
}
`)
	require.NoError(t, err)

	ctx := ssa.NewContext()
	_, err = frontend.LowerProgram(ctx, prog)
	require.Error(t, err)

	var lowerErr *frontend.LowerError
	require.ErrorAs(t, err, &lowerErr)
	assert.Equal(t, "E0700", lowerErr.Compiler.Code)
	assert.Contains(t, lowerErr.Compiler.Message, "division by zero")
}
