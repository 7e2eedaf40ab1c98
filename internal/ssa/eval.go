package ssa

import (
	"math/big"

	"acircore/internal/ssa/field"
)

// NodeEval is the evaluator's result: either a folded constant (with the
// type it was folded at) or a reference to whatever node the instruction
// still resolves to (§3, "evaluate(instr, ctx, resolver)").
type NodeEval struct {
	isConst   bool
	constVal  field.Element
	constType ObjectType
	nodeID    NodeId
}

// ConstEval builds a NodeEval holding a folded constant.
func ConstEval(value field.Element, t ObjectType) NodeEval {
	return NodeEval{isConst: true, constVal: value, constType: t}
}

// VarOrInstructionEval builds a NodeEval that still points at id.
func VarOrInstructionEval(id NodeId) NodeEval {
	return NodeEval{isConst: false, nodeID: id}
}

// IntoConstValue returns the folded value and true, or (zero, false) if this
// NodeEval isn't a constant.
func (n NodeEval) IntoConstValue() (field.Element, bool) {
	if n.isConst {
		return n.constVal, true
	}
	return field.Element{}, false
}

// IntoNodeID returns the referenced id and true, or (zero, false) if this
// NodeEval is a constant.
func (n NodeEval) IntoNodeID() (NodeId, bool) {
	if n.isConst {
		return NodeId{}, false
	}
	return n.nodeID, true
}

// ToIndex returns the NodeId this NodeEval corresponds to, interning a fresh
// Constant node through ctx if it's a folded value.
func (n NodeEval) ToIndex(ctx *Context) NodeId {
	if n.isConst {
		return ctx.GetOrCreateConst(n.constVal, n.constType)
	}
	return n.nodeID
}

// FromID reads the node at id out of ctx: a Constant becomes NodeEval.Const,
// anything else becomes NodeEval.VarOrInstruction. This is the default
// resolver evaluate() uses; callers that want to interpose substitutions
// (phi renaming, copy propagation) pass their own Resolver to EvaluateWith.
func FromID(ctx *Context, id NodeId) (NodeEval, error) {
	n, ok := ctx.TryGetNode(id)
	if !ok {
		return VarOrInstructionEval(id), nil
	}
	if c, ok := n.(*Constant); ok {
		return ConstEval(c.Field(), c.ObjectType), nil
	}
	return VarOrInstructionEval(id), nil
}

// Resolver lets a caller interpose substitutions ahead of folding.
type Resolver func(ctx *Context, id NodeId) (NodeEval, error)

// Evaluate folds instr against ctx using the default resolver (FromID).
func Evaluate(instr *Instruction, ctx *Context) (NodeEval, error) {
	return EvaluateWith(instr, ctx, FromID)
}

// EvaluateWith is constant folding (§4.6): if instr's operands evaluate to
// constants (after applying resolve), and an algebraic identity or the
// operator's constant-constant rule applies, it returns the folded
// NodeEval; otherwise it returns a reference back to instr's own id.
//
// Idempotent (§8 property 4): folding an already-folded instruction (one
// whose operands are already constants) yields the same NodeEval again,
// since every branch below is a pure function of the resolved operand
// values.
func EvaluateWith(instr *Instruction, ctx *Context, resolve Resolver) (NodeEval, error) {
	switch op := instr.Operation.(type) {
	case *Binary:
		return evaluateBinary(op, ctx, instr.ID, instr.ResultType, resolve)

	case *Cast:
		lEval, err := resolve(ctx, op.Value)
		if err != nil {
			return NodeEval{}, err
		}
		if lConst, ok := lEval.IntoConstValue(); ok {
			if instr.ResultType.Kind() == KindNativeField {
				return ConstEval(lConst, instr.ResultType), nil
			}
			if u128, ok := lConst.TryIntoU128(); ok {
				modulus := new(big.Int).Lsh(big.NewInt(1), uint(instr.ResultType.Bits()))
				reduced := new(big.Int).Mod(u128, modulus)
				return ConstEval(field.FromBigInt(reduced), instr.ResultType), nil
			}
		}

	case *Not:
		lEval, err := resolve(ctx, op.Value)
		if err != nil {
			return NodeEval{}, err
		}
		if lConst, ok := lEval.IntoConstValue(); ok {
			l := instr.ResultType.FieldToType(lConst).BigInt()
			max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(instr.ResultType.Bits())), big.NewInt(1))
			notL := new(big.Int).Not(l)
			notL.And(notL, max)
			return ConstEval(field.FromBigInt(notL), instr.ResultType), nil
		}

	case *Constrain:
		vEval, err := resolve(ctx, op.Value)
		if err != nil {
			return NodeEval{}, err
		}
		if v, ok := vEval.IntoConstValue(); ok {
			if v.IsOne() {
				// Always true: the constrain disappears. Signalled by
				// handing back the dummy id.
				return VarOrInstructionEval(DummyID()), nil
			}
			if v.IsZero() {
				err := NewUnstructuredError("Constraint is always false")
				return NodeEval{}, err.WithLocation(op.SourceLocation)
			}
		}

	case *Cond:
		condEval, err := resolve(ctx, op.Condition)
		if err != nil {
			return NodeEval{}, err
		}
		if cond, ok := condEval.IntoConstValue(); ok {
			if cond.IsZero() {
				return VarOrInstructionEval(op.ValFalse), nil
			}
			return VarOrInstructionEval(op.ValTrue), nil
		}
		if op.ValTrue == op.ValFalse {
			return VarOrInstructionEval(op.ValFalse), nil
		}

	case *Phi:
		// Phi is never folded here; simplify_phi (phi.go) handles it later.

	default:
		// Truncate/Jmp/Jne/Jeq/Load/Store/Call/Return/Result/
		// Intrinsic/Nop have nothing to fold: fall through.
	}

	return VarOrInstructionEval(instr.ID), nil
}

// evaluateBinary is Binary::evaluate (§4.6, step 1-3).
func evaluateBinary(b *Binary, ctx *Context, id NodeId, resType ObjectType, resolve Resolver) (NodeEval, error) {
	lEval, err := resolve(ctx, b.Lhs)
	if err != nil {
		return NodeEval{}, err
	}
	rEval, err := resolve(ctx, b.Rhs)
	if err != nil {
		return NodeEval{}, err
	}
	lType := ctx.GetObjectType(b.Lhs)
	rType := ctx.GetObjectType(b.Rhs)

	lhs, lIsConst := lEval.IntoConstValue()
	rhs, rIsConst := rEval.IntoConstValue()
	lIsZero := lIsConst && lhs.IsZero()
	rIsZero := rIsConst && rhs.IsZero()
	bothConst := lIsConst && rIsConst

	switch b.Operator {
	case OpAdd, OpSafeAdd:
		if lIsZero {
			return rEval, nil
		}
		if rIsZero {
			return lEval, nil
		}
		if !lType.Equal(rType) {
			panic("ssa: Add/SafeAdd operand type mismatch")
		}
		if bothConst {
			return wrapping(lhs, rhs, resType, bigAdd, field.Add), nil
		}

	case OpSub, OpSafeSub:
		if rIsZero {
			return lEval, nil
		}
		if b.Lhs == b.Rhs {
			return ConstEval(field.Zero(), resType), nil
		}
		if bothConst {
			return wrapping(lhs, rhs, resType, bigSub, field.Sub), nil
		}

	case OpMul, OpSafeMul:
		lIsOne := lIsConst && lhs.IsOne()
		rIsOne := rIsConst && rhs.IsOne()
		if !lType.Equal(rType) {
			panic("ssa: Mul/SafeMul operand type mismatch")
		}
		if lIsZero || rIsOne {
			return lEval, nil
		}
		if rIsZero || lIsOne {
			return rEval, nil
		}
		if bothConst {
			return wrapping(lhs, rhs, resType, bigMul, field.Mul), nil
		}

	case OpUdiv:
		if rIsZero {
			return NodeEval{}, NewUnstructuredError("division by zero")
		}
		if lIsZero {
			return lEval, nil
		}
		if bothConst {
			l := resType.FieldToType(lhs).BigInt()
			r := resType.FieldToType(rhs).BigInt()
			q := new(big.Int).Quo(l, r)
			return ConstEval(field.FromBigInt(q), resType), nil
		}

	case OpDiv:
		if rIsZero {
			return NodeEval{}, NewUnstructuredError("division by zero")
		}
		if lIsZero {
			return lEval, nil
		}
		if bothConst {
			return ConstEval(field.Div(lhs, rhs), resType), nil
		}

	case OpSdiv:
		if rIsZero {
			return NodeEval{}, NewUnstructuredError("division by zero")
		}
		if lIsZero {
			return lEval, nil
		}
		if bothConst {
			// Signed constant folding is an open item (§9): FieldToType is
			// unimplemented for Signed, so there is no way to recover the
			// two's-complement value to divide. Reject rather than panic.
			return NodeEval{}, NewUnstructuredError("constant folding for signed division is not supported")
		}

	case OpUrem:
		if rIsZero {
			return NodeEval{}, NewUnstructuredError("division by zero")
		}
		if lIsZero {
			return lEval, nil
		}
		if bothConst {
			l := resType.FieldToType(lhs).BigInt()
			r := resType.FieldToType(rhs).BigInt()
			m := new(big.Int).Rem(l, r)
			return ConstEval(field.FromBigInt(m), resType), nil
		}

	case OpSrem:
		if rIsZero {
			return NodeEval{}, NewUnstructuredError("division by zero")
		}
		if lIsZero {
			return lEval, nil
		}
		if bothConst {
			// Signed constant folding is an open item (§9): FieldToType is
			// unimplemented for Signed, so there is no way to recover the
			// two's-complement value to take the remainder of. Reject
			// rather than panic.
			return NodeEval{}, NewUnstructuredError("constant folding for signed remainder is not supported")
		}

	case OpUlt:
		if rIsZero {
			return ConstEval(field.Zero(), Boolean()), nil
		}
		if bothConst {
			return ConstEval(boolConst(field.Cmp(lhs, rhs) < 0), Boolean()), nil
		}

	case OpUle:
		if lIsZero {
			return ConstEval(field.One(), Boolean()), nil
		}
		if bothConst {
			return ConstEval(boolConst(field.Cmp(lhs, rhs) <= 0), Boolean()), nil
		}

	case OpSlt, OpSle:
		// Deliberately not folded: signed comparison folding needs
		// two's-complement semantics, same open item as Sdiv/Srem.

	case OpLt:
		if resType.Kind() != KindNativeField && lType.Kind() != KindNativeField {
			panic("ssa: Lt requires field operands")
		}
		if rIsZero {
			return ConstEval(field.Zero(), Boolean()), nil
		}
		if bothConst {
			return ConstEval(boolConst(field.Cmp(lhs, rhs) < 0), Boolean()), nil
		}

	case OpLte:
		if resType.Kind() != KindNativeField && lType.Kind() != KindNativeField {
			panic("ssa: Lte requires field operands")
		}
		if lIsZero {
			return ConstEval(field.One(), Boolean()), nil
		}
		if bothConst {
			return ConstEval(boolConst(field.Cmp(lhs, rhs) <= 0), Boolean()), nil
		}

	case OpEq:
		if b.Lhs == b.Rhs {
			return ConstEval(field.One(), Boolean()), nil
		}
		if bothConst {
			return ConstEval(boolConst(field.Equal(lhs, rhs)), Boolean()), nil
		}

	case OpNe:
		if b.Lhs == b.Rhs {
			return ConstEval(field.Zero(), Boolean()), nil
		}
		if bothConst {
			return ConstEval(boolConst(!field.Equal(lhs, rhs)), Boolean()), nil
		}

	case OpAnd:
		if lIsZero || b.Lhs == b.Rhs {
			return lEval, nil
		}
		if rIsZero {
			return rEval, nil
		}
		if bothConst {
			return mustWrapping(lhs, rhs, resType, bigAnd), nil
		}

	case OpOr:
		if lIsZero || b.Lhs == b.Rhs {
			return rEval, nil
		}
		if rIsZero {
			return lEval, nil
		}
		if bothConst {
			return mustWrapping(lhs, rhs, resType, bigOr), nil
		}

	case OpXor:
		if b.Lhs == b.Rhs {
			return ConstEval(field.Zero(), resType), nil
		}
		if lIsZero {
			return rEval, nil
		}
		if rIsZero {
			return lEval, nil
		}
		if bothConst {
			return mustWrapping(lhs, rhs, resType, bigXor), nil
		}

	case OpShl:
		if lIsZero {
			return lEval, nil
		}
		if rIsZero {
			return lEval, nil
		}
		if bothConst {
			return shiftConst(lhs, rhs, resType, true), nil
		}

	case OpShr:
		if lIsZero {
			return lEval, nil
		}
		if rIsZero {
			return lEval, nil
		}
		if bothConst {
			return shiftConst(lhs, rhs, resType, false), nil
		}

	case OpAssign:
		// No identity to apply.

	default:
		panic("ssa: unreachable BinaryOperator")
	}

	return VarOrInstructionEval(id), nil
}

func boolConst(b bool) field.Element {
	if b {
		return field.One()
	}
	return field.Zero()
}

// wrapping performs intOp/fieldOp depending on resType (§4.6 step 3): for a
// fixed-width type it reduces both operands modulo 2^bits(T), applies intOp,
// and reduces the result again (the wrapping policy: overflow is defined
// and silent for Add/Sub/Mul/Shl/Shr, including the Safe* variants — range
// checks are a later constraint-lowering concern, not folding's). For
// NativeField it applies fieldOp directly; bitwise/shift operators are not
// defined on field elements (evaluateBinary never calls wrapping for those
// on a NativeField operand — see mustWrapping below).
func wrapping(lhs, rhs field.Element, resType ObjectType, intOp func(a, b *big.Int) *big.Int, fieldOp func(a, b field.Element) field.Element) NodeEval {
	if resType.Kind() == KindNativeField {
		return ConstEval(fieldOp(lhs, rhs), resType)
	}
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(resType.Bits()))
	l := new(big.Int).Mod(lhs.BigInt(), modulus)
	r := new(big.Int).Mod(rhs.BigInt(), modulus)
	x := intOp(l, r)
	x.Mod(x, modulus)
	if x.Sign() < 0 {
		x.Add(x, modulus)
	}
	return ConstEval(field.FromBigInt(x), resType)
}

// mustWrapping is wrapping for the bitwise/shift operators, which have no
// field_op: reaching resType == NativeField here is ArithmeticUnreachable
// (§7) — BinaryFromAST never constructs And/Or/Xor/Shl/Shr over a field
// operand, so this indicates an earlier-phase bug.
func mustWrapping(lhs, rhs field.Element, resType ObjectType, intOp func(a, b *big.Int) *big.Int) NodeEval {
	if resType.Kind() == KindNativeField {
		panic(&RuntimeError{Kind: ErrArithmeticUnreachable, err: "bitwise/shift operation applied to NativeField"})
	}
	return wrapping(lhs, rhs, resType, intOp, nil)
}

func bigAdd(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
func bigSub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }
func bigMul(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }
func bigAnd(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) }
func bigOr(a, b *big.Int) *big.Int  { return new(big.Int).Or(a, b) }
func bigXor(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) }

// shiftConst folds Shl/Shr (§4.6): the shift amount is reduced modulo
// 2^bits(resType) by wrapping's usual rule, which for a wide result type
// does not bound it to something that fits a machine word, so the amount
// is clamped against the width directly instead of routed through
// wrapping/intOp: shifting by >= bits(resType) is defined as shifting
// every bit out, i.e. the result is 0 regardless of direction.
func shiftConst(lhs, rhs field.Element, resType ObjectType, left bool) NodeEval {
	if resType.Kind() == KindNativeField {
		panic(&RuntimeError{Kind: ErrArithmeticUnreachable, err: "shift operation applied to NativeField"})
	}
	width := uint(resType.Bits())
	modulus := new(big.Int).Lsh(big.NewInt(1), width)
	l := new(big.Int).Mod(lhs.BigInt(), modulus)
	r := rhs.BigInt()

	if !r.IsUint64() || r.Uint64() >= uint64(width) {
		return ConstEval(field.Zero(), resType)
	}
	amount := uint(r.Uint64())

	var result *big.Int
	if left {
		result = new(big.Int).Lsh(l, amount)
		result.Mod(result, modulus)
	} else {
		result = new(big.Int).Rsh(l, amount)
	}
	return ConstEval(field.FromBigInt(result), resType)
}
