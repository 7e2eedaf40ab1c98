package frontend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acircore/internal/frontend"
)

func TestParseStringSingleFunction(t *testing.T) {
	source := `
fn add(a: Field, b: Field) -> Field {
    let sum = a + b;
    return sum;
}
`
	prog, err := frontend.ParseString("test.acx", source)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)

	fn := prog.Functions[0]
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "Field", fn.Params[0].Type)
	require.NotNil(t, fn.Return)
	assert.Equal(t, "Field", *fn.Return)
	require.Len(t, fn.Body.Statements, 2)
}

func TestParseStringMultipleFunctions(t *testing.T) {
	source := `
fn helper(x: u32) -> u32 {
    return x;
}

fn main(x: u32) -> bool {
    constrain x == x;
    return x == 0;
}
`
	prog, err := frontend.ParseString("test.acx", source)
	require.NoError(t, err)
	assert.Len(t, prog.Functions, 2)
}

func TestParseStringOperatorPrecedence(t *testing.T) {
	source := `
fn f(a: Field, b: Field, c: Field) -> Field {
    return a + b * c;
}
`
	prog, err := frontend.ParseString("test.acx", source)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)

	ret := prog.Functions[0].Body.Statements[0].Return
	require.NotNil(t, ret)

	additive := ret.Expr.Value.Left.Left.Left.Left.Left.Left
	require.Len(t, additive.Ops, 1)
	assert.Equal(t, "+", additive.Ops[0].Operator)
	assert.Len(t, additive.Ops[0].Right.Ops, 1)
	assert.Equal(t, "*", additive.Ops[0].Right.Ops[0].Operator)
}

func TestParseStringRejectsGarbage(t *testing.T) {
	_, err := frontend.ParseString("test.acx", "fn ( ) { this is not valid")
	assert.Error(t, err)
}

func TestParseStringUnaryAndParens(t *testing.T) {
	source := `
fn f(a: Field) -> Field {
    return -(a + 1);
}
`
	prog, err := frontend.ParseString("test.acx", source)
	require.NoError(t, err)
	ret := prog.Functions[0].Body.Statements[0].Return
	unary := ret.Expr.Value.Left.Left.Left.Left.Left.Left.Left.Left
	require.NotNil(t, unary.Operator)
	assert.Equal(t, "-", *unary.Operator)
	require.NotNil(t, unary.Value.Paren)
}
