package frontend

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"acircore/internal/errors"
	"acircore/internal/ssa"
	"acircore/internal/ssa/field"
)

// LowerError is the error type every lowering failure returns: a
// presentation-ready errors.CompilerError, whether it originated in this
// package's own name resolution/type checking or was bridged from a core
// *ssa.RuntimeError returned by ssa.Evaluate.
type LowerError struct {
	Compiler errors.CompilerError
}

func (e *LowerError) Error() string { return e.Compiler.Message }

func newLowerError(code, message string, pos lexer.Position) *LowerError {
	return &LowerError{Compiler: errors.CompilerError{
		Level:    errors.Error,
		Code:     code,
		Message:  message,
		Position: toPosition(pos),
		Length:   1,
	}}
}

func fromRuntimeError(err error) *LowerError {
	if re, ok := err.(*ssa.RuntimeError); ok {
		return &LowerError{Compiler: errors.FromRuntimeError(re)}
	}
	return &LowerError{Compiler: errors.CompilerError{Level: errors.Error, Message: err.Error()}}
}

func toLocation(pos lexer.Position) ssa.Location {
	return ssa.Location{Line: pos.Line, Column: pos.Column}
}

func toPosition(pos lexer.Position) errors.Position {
	return errors.Position{Line: pos.Line, Column: pos.Column}
}

// LoweredFunction is one function's lowered body: its block, its parameter
// and return types, and the node id each statement lowered to, in source
// order: a let's value (which may be a folded Constant or an existing
// Variable), a constrain's result (the dummy id when it folded away), and
// the Return instruction.
type LoweredFunction struct {
	Name         string
	Block        ssa.BlockId
	ParamNames   []string
	ParamIDs     []ssa.NodeId
	ReturnType   ssa.ObjectType
	Instructions []ssa.NodeId
}

// LowerProgram lowers every function in prog into ctx, in declaration order.
// A function referencing an undeclared identifier, an unknown type name, or
// whose body constrains away to "always false" stops lowering and returns
// that function's error; functions before it remain lowered into ctx.
func LowerProgram(ctx *ssa.Context, prog *Program) ([]*LoweredFunction, error) {
	var out []*LoweredFunction
	for _, fn := range prog.Functions {
		lowered, err := lowerFunction(ctx, fn)
		if err != nil {
			return out, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

func lowerFunction(ctx *ssa.Context, fn *Function) (*LoweredFunction, error) {
	block := ctx.NewBlockID()

	returnType := ssa.NotAnObject()
	if fn.Return != nil {
		t, err := resolveType(*fn.Return, fn.Pos)
		if err != nil {
			return nil, err
		}
		returnType = t
	}

	scope := map[string]ssa.NodeId{}
	lowered := &LoweredFunction{Name: fn.Name, Block: block, ReturnType: returnType}

	for _, p := range fn.Params {
		t, err := resolveType(p.Type, fn.Pos)
		if err != nil {
			return nil, err
		}
		v := &ssa.Variable{ObjectType: t, Name: p.Name, ParentBlock: block}
		id := ctx.InsertVariable(v)
		scope[p.Name] = id
		lowered.ParamNames = append(lowered.ParamNames, p.Name)
		lowered.ParamIDs = append(lowered.ParamIDs, id)
	}

	sawReturn := false
	for _, stmt := range fn.Body.Statements {
		switch {
		case stmt.Let != nil:
			v, err := lowerExpr(ctx, block, scope, stmt.Let.Expr, nil)
			if err != nil {
				return nil, err
			}
			id, typ, err := materialize(ctx, v, ssa.NativeField())
			if err != nil {
				return nil, err
			}
			named := &ssa.Variable{ObjectType: typ, Name: stmt.Let.Name, ParentBlock: block, Root: &id}
			boundID := ctx.InsertVariable(named)
			scope[stmt.Let.Name] = boundID
			lowered.Instructions = append(lowered.Instructions, id)

		case stmt.Constrain != nil:
			v, err := lowerExpr(ctx, block, scope, stmt.Constrain.Expr, nil)
			if err != nil {
				return nil, err
			}
			id, _, err := materialize(ctx, v, ssa.Boolean())
			if err != nil {
				return nil, err
			}
			instr := &ssa.Instruction{
				Operation:   &ssa.Constrain{Value: id, SourceLocation: toLocation(stmt.Constrain.Pos)},
				ResultType:  ssa.NotAnObject(),
				ParentBlock: block,
			}
			resultID, err := insertAndFold(ctx, instr)
			if err != nil {
				return nil, fromRuntimeError(err)
			}
			lowered.Instructions = append(lowered.Instructions, resultID)

		case stmt.Return != nil:
			sawReturn = true
			v, err := lowerExpr(ctx, block, scope, stmt.Return.Expr, &returnType)
			if err != nil {
				return nil, err
			}
			id, typ, err := materialize(ctx, v, returnType)
			if err != nil {
				return nil, err
			}
			if fn.Return != nil && !typ.Equal(returnType) {
				return nil, newLowerError(errors.ErrorTypeMismatch,
					fmt.Sprintf("type mismatch: expected %s, found %s", returnType, typ), stmt.Return.Pos)
			}
			instr := &ssa.Instruction{
				Operation:   &ssa.Return{Values: []ssa.NodeId{id}},
				ResultType:  returnType,
				ParentBlock: block,
			}
			resultID := ctx.InsertInstruction(instr)
			lowered.Instructions = append(lowered.Instructions, resultID)
		}
	}

	if fn.Return != nil && !sawReturn {
		return nil, newLowerError(errors.ErrorMissingReturn,
			fmt.Sprintf("function '%s' declares return type '%s' but has no return statement", fn.Name, *fn.Return),
			fn.Pos)
	}

	return lowered, nil
}

// resolveType maps the demonstration surface's type vocabulary onto
// ssa.ObjectType via ssa.FromFrontendType (§4.2's From(frontend_type)).
func resolveType(name string, pos lexer.Position) (ssa.ObjectType, error) {
	ft, ok := parseFrontendType(name)
	if !ok {
		return ssa.ObjectType{}, newLowerError(errors.ErrorInvalidOperation,
			fmt.Sprintf("unknown type '%s'", name), pos)
	}
	t, err := ssa.FromFrontendType(ft)
	if err != nil {
		return ssa.ObjectType{}, fromRuntimeError(err)
	}
	return t, nil
}

func parseFrontendType(name string) (ssa.FrontendType, bool) {
	switch name {
	case "Field":
		return ssa.FrontendType{Kind: ssa.FrontendField}, true
	case "bool":
		return ssa.FrontendType{Kind: ssa.FrontendBool}, true
	}
	signed := strings.HasPrefix(name, "i")
	unsigned := strings.HasPrefix(name, "u")
	if !signed && !unsigned {
		return ssa.FrontendType{}, false
	}
	bits, err := strconv.ParseUint(name[1:], 10, 32)
	if err != nil {
		return ssa.FrontendType{}, false
	}
	return ssa.FrontendType{Kind: ssa.FrontendInteger, Signed: signed, Bits: uint32(bits)}, true
}

// exprVal is the result of lowering one expression node: either a concrete
// node already inserted into ctx, or an integer literal whose type hasn't
// been committed yet (untyped, in the sense Go's own constants are untyped)
// so the enclosing context — the other operand of a binary expression, a
// let binding, or a function's declared return type — can pick its type.
type exprVal struct {
	id      ssa.NodeId
	typ     ssa.ObjectType
	literal *big.Int
}

// materialize commits an exprVal to a concrete NodeId, defaulting an
// unresolved literal to fallback.
func materialize(ctx *ssa.Context, v exprVal, fallback ssa.ObjectType) (ssa.NodeId, ssa.ObjectType, error) {
	if v.literal == nil {
		return v.id, v.typ, nil
	}
	return commitLiteral(ctx, v.literal, fallback)
}

func commitLiteral(ctx *ssa.Context, value *big.Int, typ ssa.ObjectType) (ssa.NodeId, ssa.ObjectType, error) {
	reduced := field.FromBigInt(new(big.Int).Mod(value, new(big.Int).Add(typ.MaxSize(), big.NewInt(1))))
	return ctx.GetOrCreateConst(reduced, typ), typ, nil
}

func lowerExpr(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *Expr, hint *ssa.ObjectType) (exprVal, error) {
	return lowerEquality(ctx, block, scope, e.Value, hint)
}

func lowerEquality(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *EqualityExpr, hint *ssa.ObjectType) (exprVal, error) {
	left, err := lowerRelational(ctx, block, scope, e.Left, hint)
	if err != nil {
		return exprVal{}, err
	}
	for _, op := range e.Ops {
		right, err := lowerRelational(ctx, block, scope, op.Right, nil)
		if err != nil {
			return exprVal{}, err
		}
		var surface ssa.SurfaceBinaryOp
		if op.Operator == "==" {
			surface = ssa.SurfaceEqual
		} else {
			surface = ssa.SurfaceNotEqual
		}
		left, err = combineBinary(ctx, block, left, right, surface, ssa.Boolean(), op.Operator)
		if err != nil {
			return exprVal{}, err
		}
	}
	return left, nil
}

func lowerRelational(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *RelationalExpr, hint *ssa.ObjectType) (exprVal, error) {
	left, err := lowerBitOr(ctx, block, scope, e.Left, hint)
	if err != nil {
		return exprVal{}, err
	}
	for _, op := range e.Ops {
		right, err := lowerBitOr(ctx, block, scope, op.Right, nil)
		if err != nil {
			return exprVal{}, err
		}
		var surface ssa.SurfaceBinaryOp
		switch op.Operator {
		case "<":
			surface = ssa.SurfaceLess
		case "<=":
			surface = ssa.SurfaceLessEqual
		case ">":
			surface = ssa.SurfaceGreater
		default:
			surface = ssa.SurfaceGreaterEqual
		}
		left, err = combineBinary(ctx, block, left, right, surface, ssa.Boolean(), op.Operator)
		if err != nil {
			return exprVal{}, err
		}
	}
	return left, nil
}

func lowerBitOr(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *BitOrExpr, hint *ssa.ObjectType) (exprVal, error) {
	left, err := lowerBitXor(ctx, block, scope, e.Left, hint)
	if err != nil {
		return exprVal{}, err
	}
	for _, op := range e.Ops {
		right, err := lowerBitXor(ctx, block, scope, op.Right, nil)
		if err != nil {
			return exprVal{}, err
		}
		left, err = combineSameType(ctx, block, left, right, ssa.SurfaceOr, "|")
		if err != nil {
			return exprVal{}, err
		}
	}
	return left, nil
}

func lowerBitXor(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *BitXorExpr, hint *ssa.ObjectType) (exprVal, error) {
	left, err := lowerBitAnd(ctx, block, scope, e.Left, hint)
	if err != nil {
		return exprVal{}, err
	}
	for _, op := range e.Ops {
		right, err := lowerBitAnd(ctx, block, scope, op.Right, nil)
		if err != nil {
			return exprVal{}, err
		}
		left, err = combineSameType(ctx, block, left, right, ssa.SurfaceXor, "^")
		if err != nil {
			return exprVal{}, err
		}
	}
	return left, nil
}

func lowerBitAnd(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *BitAndExpr, hint *ssa.ObjectType) (exprVal, error) {
	left, err := lowerShift(ctx, block, scope, e.Left, hint)
	if err != nil {
		return exprVal{}, err
	}
	for _, op := range e.Ops {
		right, err := lowerShift(ctx, block, scope, op.Right, nil)
		if err != nil {
			return exprVal{}, err
		}
		left, err = combineSameType(ctx, block, left, right, ssa.SurfaceAnd, "&")
		if err != nil {
			return exprVal{}, err
		}
	}
	return left, nil
}

func lowerShift(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *ShiftExpr, hint *ssa.ObjectType) (exprVal, error) {
	left, err := lowerAdditive(ctx, block, scope, e.Left, hint)
	if err != nil {
		return exprVal{}, err
	}
	for _, op := range e.Ops {
		right, err := lowerAdditive(ctx, block, scope, op.Right, nil)
		if err != nil {
			return exprVal{}, err
		}
		var surface ssa.SurfaceBinaryOp
		if op.Operator == "<<" {
			surface = ssa.SurfaceShiftLeft
		} else {
			surface = ssa.SurfaceShiftRight
		}
		// The shift amount doesn't need to share the left operand's type;
		// only the result does.
		left, err = combineShift(ctx, block, left, right, surface, op.Operator)
		if err != nil {
			return exprVal{}, err
		}
	}
	return left, nil
}

func lowerAdditive(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *AdditiveExpr, hint *ssa.ObjectType) (exprVal, error) {
	left, err := lowerMultiplicative(ctx, block, scope, e.Left, hint)
	if err != nil {
		return exprVal{}, err
	}
	for _, op := range e.Ops {
		right, err := lowerMultiplicative(ctx, block, scope, op.Right, nil)
		if err != nil {
			return exprVal{}, err
		}
		var surface ssa.SurfaceBinaryOp
		if op.Operator == "+" {
			surface = ssa.SurfaceAdd
		} else {
			surface = ssa.SurfaceSubtract
		}
		left, err = combineSameType(ctx, block, left, right, surface, op.Operator)
		if err != nil {
			return exprVal{}, err
		}
	}
	return left, nil
}

func lowerMultiplicative(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *MultiplicativeExpr, hint *ssa.ObjectType) (exprVal, error) {
	left, err := lowerUnary(ctx, block, scope, e.Left, hint)
	if err != nil {
		return exprVal{}, err
	}
	for _, op := range e.Ops {
		right, err := lowerUnary(ctx, block, scope, op.Right, nil)
		if err != nil {
			return exprVal{}, err
		}
		var surface ssa.SurfaceBinaryOp
		switch op.Operator {
		case "*":
			surface = ssa.SurfaceMultiply
		case "/":
			surface = ssa.SurfaceDivide
		default:
			surface = ssa.SurfaceModulo
		}
		left, err = combineSameType(ctx, block, left, right, surface, op.Operator)
		if err != nil {
			return exprVal{}, err
		}
	}
	return left, nil
}

func lowerUnary(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *UnaryExpr, hint *ssa.ObjectType) (exprVal, error) {
	v, err := lowerPrimary(ctx, block, scope, e.Value, hint)
	if err != nil {
		return exprVal{}, err
	}
	if e.Operator == nil {
		return v, nil
	}

	switch *e.Operator {
	case "!":
		id, typ, err := materialize(ctx, v, ssa.Boolean())
		if err != nil {
			return exprVal{}, err
		}
		instr := &ssa.Instruction{Operation: &ssa.Not{Value: id}, ResultType: typ, ParentBlock: block}
		resultID, err := insertAndFold(ctx, instr)
		if err != nil {
			return exprVal{}, fromRuntimeError(err)
		}
		return exprVal{id: resultID, typ: typ}, nil

	default: // "-"
		if v.literal != nil {
			return exprVal{literal: new(big.Int).Neg(v.literal)}, nil
		}
		zero := exprVal{literal: big.NewInt(0)}
		return combineSameType(ctx, block, zero, v, ssa.SurfaceSubtract, "-")
	}
}

func lowerPrimary(ctx *ssa.Context, block ssa.BlockId, scope map[string]ssa.NodeId, e *PrimaryExpr, hint *ssa.ObjectType) (exprVal, error) {
	switch {
	case e.Number != nil:
		v, ok := new(big.Int).SetString(*e.Number, 0)
		if !ok {
			return exprVal{}, newLowerError(errors.ErrorTypeMismatch, fmt.Sprintf("invalid integer literal '%s'", *e.Number), e.Pos)
		}
		if hint != nil {
			return commitLiteralVal(ctx, v, *hint)
		}
		return exprVal{literal: v}, nil

	case e.Ident != nil:
		id, ok := scope[*e.Ident]
		if !ok {
			names := make([]string, 0, len(scope))
			for n := range scope {
				names = append(names, n)
			}
			return exprVal{}, &LowerError{Compiler: errors.UndefinedVariable(*e.Ident, toPosition(e.Pos), similarNames(*e.Ident, names))}
		}
		return exprVal{id: id, typ: ctx.GetObjectType(id)}, nil

	case e.Paren != nil:
		return lowerExpr(ctx, block, scope, e.Paren, hint)

	default:
		panic("unreachable PrimaryExpr variant")
	}
}

func commitLiteralVal(ctx *ssa.Context, v *big.Int, typ ssa.ObjectType) (exprVal, error) {
	id, committed, err := commitLiteral(ctx, v, typ)
	if err != nil {
		return exprVal{}, err
	}
	return exprVal{id: id, typ: committed}, nil
}

// combineSameType resolves lhs/rhs to a shared concrete type — defaulting an
// unresolved literal against its sibling's type, or NativeField if both
// sides are still untyped — then builds and folds the Binary instruction.
func combineSameType(ctx *ssa.Context, block ssa.BlockId, lhs, rhs exprVal, surface ssa.SurfaceBinaryOp, opToken string) (exprVal, error) {
	typ, err := unifyTypes(lhs, rhs)
	if err != nil {
		return exprVal{}, err
	}
	lhsID, _, err := materialize(ctx, lhs, typ)
	if err != nil {
		return exprVal{}, err
	}
	rhsID, _, err := materialize(ctx, rhs, typ)
	if err != nil {
		return exprVal{}, err
	}
	return combineBinary(ctx, block, exprVal{id: lhsID, typ: typ}, exprVal{id: rhsID, typ: typ}, surface, typ, opToken)
}

// combineShift resolves only the left operand's type for the result; the
// shift amount materializes against its own type (defaulting to the left
// operand's type when it's an untyped literal, matching Noir's convention
// that shift amounts are plain unsigned values).
func combineShift(ctx *ssa.Context, block ssa.BlockId, lhs, rhs exprVal, surface ssa.SurfaceBinaryOp, opToken string) (exprVal, error) {
	lhsID, lhsTyp, err := materialize(ctx, lhs, ssa.NativeField())
	if err != nil {
		return exprVal{}, err
	}
	rhsID, _, err := materialize(ctx, rhs, lhsTyp)
	if err != nil {
		return exprVal{}, err
	}
	return combineBinary(ctx, block, exprVal{id: lhsID, typ: lhsTyp}, exprVal{id: rhsID, typ: lhsTyp}, surface, lhsTyp, opToken)
}

func unifyTypes(lhs, rhs exprVal) (ssa.ObjectType, error) {
	switch {
	case lhs.literal == nil && rhs.literal == nil:
		if !lhs.typ.Equal(rhs.typ) {
			return ssa.ObjectType{}, newLowerError(errors.ErrorInvalidOperation,
				fmt.Sprintf("type mismatch: %s vs %s", lhs.typ, rhs.typ), lexer.Position{})
		}
		return lhs.typ, nil
	case lhs.literal == nil:
		return lhs.typ, nil
	case rhs.literal == nil:
		return rhs.typ, nil
	default:
		return ssa.NativeField(), nil
	}
}

// combineBinary builds the Binary instruction via ssa.BinaryFromAST and
// folds it through ssa.Evaluate, the "Frontend -> core" surface §6 and §4.5
// describe.
func combineBinary(ctx *ssa.Context, block ssa.BlockId, lhs, rhs exprVal, surface ssa.SurfaceBinaryOp, resultType ssa.ObjectType, opToken string) (exprVal, error) {
	if _, ok := ssa.NumericKindOf(lhs.typ); !ok {
		switch surface {
		case ssa.SurfaceDivide, ssa.SurfaceLess, ssa.SurfaceLessEqual, ssa.SurfaceGreater, ssa.SurfaceGreaterEqual, ssa.SurfaceModulo:
			return exprVal{}, newLowerError(errors.ErrorInvalidOperation,
				fmt.Sprintf("invalid operation: %s %s %s", lhs.typ, opToken, rhs.typ), lexer.Position{})
		}
	}

	// Bitwise and shift operators have no field_op (eval.go's mustWrapping),
	// and BinaryFromAST refuses them on a Field operand with an
	// ArithmeticUnreachable error (E0702, a front-end bug). Reject them here
	// first so user input gets an E0008 invalid-operation diagnostic instead.
	switch surface {
	case ssa.SurfaceAnd, ssa.SurfaceOr, ssa.SurfaceXor, ssa.SurfaceShiftLeft, ssa.SurfaceShiftRight:
		if lhs.typ.Kind() == ssa.KindNativeField {
			return exprVal{}, newLowerError(errors.ErrorInvalidOperation,
				fmt.Sprintf("invalid operation: %s %s %s", lhs.typ, opToken, rhs.typ), lexer.Position{})
		}
	}

	binary, err := ssa.BinaryFromAST(surface, lhs.typ, lhs.id, rhs.id)
	if err != nil {
		return exprVal{}, fromRuntimeError(err)
	}
	instr := &ssa.Instruction{Operation: binary, ResultType: resultType, ParentBlock: block}
	resultID, err := insertAndFold(ctx, instr)
	if err != nil {
		return exprVal{}, fromRuntimeError(err)
	}
	return exprVal{id: resultID, typ: resultType}, nil
}

// insertAndFold inserts instr into ctx and immediately runs the evaluator
// over it (§4.6): a folded-away instruction gets marked Deleted or
// ReplaceWith per the fold's result, matching how a real optimizing builder
// folds as it emits rather than in a separate pass.
func insertAndFold(ctx *ssa.Context, instr *ssa.Instruction) (ssa.NodeId, error) {
	id := ctx.InsertInstruction(instr)
	result, err := ssa.Evaluate(instr, ctx)
	if err != nil {
		return ssa.NodeId{}, err
	}
	if foldedID, ok := result.IntoNodeID(); ok && foldedID == id {
		return id, nil
	}
	resultID := result.ToIndex(ctx)
	if resultID.IsDummy() {
		instr.Mark = ssa.Deleted()
	} else {
		instr.Mark = ssa.ReplaceWith(resultID)
	}
	return resultID, nil
}

func similarNames(target string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if levenshtein(target, c) <= 2 && len(c) > 2 {
			out = append(out, c)
		}
	}
	return out
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
