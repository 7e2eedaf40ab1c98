package ssa

import "fmt"

// Operation is the closed instruction/operation algebra (§3, "adapted from
// LLVM IR" in the source). Like NodeObj, it is a sealed interface — every
// concrete variant lives in this file, isOperation is unexported, and every
// cross-cutting concern (Opcode projection, TruncateRequired, Map/MapMut/
// ForEachID in rewrite.go, Evaluate in eval.go) is an exhaustive type switch
// over the variants below, never a per-variant virtual method. Adding a
// variant is a compile error in every one of those switches until handled,
// which is the point: the algebra is closed by construction.
type Operation interface {
	isOperation()
}

// --- Binary -----------------------------------------------------------

// BinaryOperator enumerates the binary opcodes (§3).
type BinaryOperator uint8

const (
	OpAdd BinaryOperator = iota
	OpSafeAdd
	OpSub
	OpSafeSub
	OpMul
	OpSafeMul
	OpUdiv
	OpSdiv
	OpUrem
	OpSrem
	OpDiv
	OpEq
	OpNe
	OpUlt
	OpUle
	OpSlt
	OpSle
	OpLt
	OpLte
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpAssign
)

// IsCommutative reports whether operator participates in canonicalization
// (§3 invariant 3): Add, SafeAdd, Mul, SafeMul, And, Or, Xor.
func (op BinaryOperator) IsCommutative() bool {
	switch op {
	case OpAdd, OpSafeAdd, OpMul, OpSafeMul, OpAnd, OpOr, OpXor:
		return true
	default:
		return false
	}
}

// Binary is a binary operation over (Lhs, Rhs) with an optional conditional-
// execution guard (Predicate).
type Binary struct {
	Lhs         NodeId
	Rhs         NodeId
	Operator    BinaryOperator
	Predicate   *NodeId
	MaxRhsValue uint64 // only meaningful for OpSub/OpSafeSub
}

func (*Binary) isOperation() {}

// Cast converts Value's current type to the instruction's ResultType.
type Cast struct{ Value NodeId }

func (*Cast) isOperation() {}

// Truncate explicitly reduces Value to BitSize bits; MaxBitSize records the
// widest the value could have been before truncation.
type Truncate struct {
	Value      NodeId
	BitSize    uint32
	MaxBitSize uint32
}

func (*Truncate) isOperation() {}

// Not is bitwise NOT.
type Not struct{ Value NodeId }

func (*Not) isOperation() {}

// Constrain asserts Value is truthy (nonzero); SourceLocation anchors the
// "Constraint is always false" error when Value folds to the constant 0.
type Constrain struct {
	Value          NodeId
	SourceLocation Location
}

func (*Constrain) isOperation() {}

// Jmp is an unconditional jump to Target.
type Jmp struct{ Target BlockId }

func (*Jmp) isOperation() {}

// Jeq jumps to Target on equal, paired with Jne for jump-on-not-equal,
// matching the source's Jeq/Jne split.
type Jeq struct {
	Value  NodeId
	Target BlockId
}

func (*Jeq) isOperation() {}

// Jne jumps to Target on not-equal.
type Jne struct {
	Value  NodeId
	Target BlockId
}

func (*Jne) isOperation() {}

// PhiArg is one incoming (value, predecessor block) pair of a Phi.
type PhiArg struct {
	Value           NodeId
	PredecessorBlock BlockId
}

// Phi chooses one of BlockArgs based on which predecessor control arrived
// from. Root is the SSA root this phi is resolving.
type Phi struct {
	Root      NodeId
	BlockArgs []PhiArg
}

func (*Phi) isOperation() {}

// Cond is a value-level ternary: Condition ? ValTrue : ValFalse.
type Cond struct {
	Condition NodeId
	ValTrue   NodeId
	ValFalse  NodeId
}

func (*Cond) isOperation() {}

// Call invokes FuncID with Arguments under an optional conditional-execution
// Predicate (an assumption id supplied by the conditional-execution pass);
// ReturnedArrays records (array id, length) pairs for array-typed returns.
type ReturnedArray struct {
	ArrayID ArrayId
	Length  uint32
}

type Call struct {
	FuncID         FuncId
	Arguments      []NodeId
	ReturnedArrays []ReturnedArray
	Predicate      AssumptionId
}

func (*Call) isOperation() {}

// AssumptionId identifies a conditional-execution assumption; owned by the
// conditional-execution collaborator, threaded through opaquely here.
type AssumptionId struct{ raw int }

func NewAssumptionId(raw int) AssumptionId { return AssumptionId{raw: raw} }
func (a AssumptionId) Raw() int            { return a.raw }

// Return returns Values from the current function block.
type Return struct{ Values []NodeId }

func (*Return) isOperation() {}

// Result projects the Index-th result out of a prior CallInstruction.
type Result struct {
	CallInstruction NodeId
	Index           uint32
}

func (*Result) isOperation() {}

// Load reads Array[Index].
type Load struct {
	ArrayID ArrayId
	Index   NodeId
}

func (*Load) isOperation() {}

// Store writes Value into Array[Index]. An Index/Value pair both equal to
// the dummy id is the "dummy store" sentinel (IsDummyStore, rewrite.go).
type Store struct {
	ArrayID ArrayId
	Index   NodeId
	Value   NodeId
}

func (*Store) isOperation() {}

// IntrinsicOpcode is an opaque backend-specific primitive selector (hashing,
// bit decomposition, etc). The core passes it through without interpreting
// it (§6).
type IntrinsicOpcode struct{ raw int }

func NewIntrinsicOpcode(raw int) IntrinsicOpcode { return IntrinsicOpcode{raw: raw} }
func (o IntrinsicOpcode) Raw() int               { return o.raw }

// Intrinsic invokes a backend-specific primitive.
type Intrinsic struct {
	Opcode    IntrinsicOpcode
	Arguments []NodeId
}

func (*Intrinsic) isOperation() {}

// Nop is a no-op.
type Nop struct{}

func (*Nop) isOperation() {}

// --- Opcode projection --------------------------------------------------

// Opcode is the flat projection of Operation used for structural keying in
// CSE-style passes; it encodes array id, func id and intrinsic opcode as
// payload so two Load/Store/Call/Intrinsic operations over different
// targets key differently even though they share an Operation shape.
type Opcode struct {
	tag       opcodeTag
	binaryOp  BinaryOperator
	arrayID   ArrayId
	funcID    FuncId
	intrinsic IntrinsicOpcode
}

type opcodeTag uint8

const (
	OpcodeBinary opcodeTag = iota
	OpcodeCast
	OpcodeTruncate
	OpcodeNot
	OpcodeConstrain
	OpcodeJne
	OpcodeJeq
	OpcodeJmp
	OpcodePhi
	OpcodeCond
	OpcodeCall
	OpcodeReturn
	OpcodeResults
	OpcodeLoad
	OpcodeStore
	OpcodeIntrinsic
	OpcodeNop
)

func (o Opcode) Tag() opcodeTag            { return o.tag }
func (o Opcode) BinaryOperator() BinaryOperator { return o.binaryOp }
func (o Opcode) ArrayID() ArrayId          { return o.arrayID }
func (o Opcode) FuncID() FuncId            { return o.funcID }
func (o Opcode) IntrinsicOpcode() IntrinsicOpcode { return o.intrinsic }

func (o Opcode) Equal(other Opcode) bool {
	if o.tag != other.tag {
		return false
	}
	switch o.tag {
	case OpcodeBinary:
		return o.binaryOp == other.binaryOp
	case OpcodeLoad, OpcodeStore:
		return o.arrayID == other.arrayID
	case OpcodeCall:
		return o.funcID == other.funcID
	case OpcodeIntrinsic:
		return o.intrinsic == other.intrinsic
	default:
		return true
	}
}

func binaryOpcode(op *Binary) Opcode {
	return Opcode{tag: OpcodeBinary, binaryOp: op.Operator}
}

// OpcodeOf is the total function opcode(op) (§4.5, testable property 5): an
// exhaustive type switch over every Operation variant.
func OpcodeOf(op Operation) Opcode {
	switch v := op.(type) {
	case *Binary:
		return binaryOpcode(v)
	case *Cast:
		return Opcode{tag: OpcodeCast}
	case *Truncate:
		return Opcode{tag: OpcodeTruncate}
	case *Not:
		return Opcode{tag: OpcodeNot}
	case *Constrain:
		return Opcode{tag: OpcodeConstrain}
	case *Jne:
		return Opcode{tag: OpcodeJne}
	case *Jeq:
		return Opcode{tag: OpcodeJeq}
	case *Jmp:
		return Opcode{tag: OpcodeJmp}
	case *Phi:
		return Opcode{tag: OpcodePhi}
	case *Cond:
		return Opcode{tag: OpcodeCond}
	case *Call:
		return Opcode{tag: OpcodeCall, funcID: v.FuncID}
	case *Return:
		return Opcode{tag: OpcodeReturn}
	case *Result:
		return Opcode{tag: OpcodeResults}
	case *Load:
		return Opcode{tag: OpcodeLoad, arrayID: v.ArrayID}
	case *Store:
		return Opcode{tag: OpcodeStore, arrayID: v.ArrayID}
	case *Intrinsic:
		return Opcode{tag: OpcodeIntrinsic, intrinsic: v.Opcode}
	case *Nop:
		return Opcode{tag: OpcodeNop}
	default:
		panic(fmt.Sprintf("unreachable Operation variant %T", op))
	}
}

// --- TruncateRequired (§4.5) --------------------------------------------

// binaryTruncateRequired is Binary's own truncate_required table.
func binaryTruncateRequired(operator BinaryOperator) bool {
	switch operator {
	case OpUdiv, OpSdiv, OpUrem, OpSrem,
		OpEq, OpNe, OpUlt, OpUle, OpSlt, OpSle, OpLt, OpLte,
		OpAnd, OpOr, OpXor, OpShl, OpShr:
		return true
	default:
		// Add, SafeAdd, Sub, SafeSub, Mul, SafeMul, Div, Assign.
		return false
	}
}

// TruncateRequired indicates whether instr's operand(s) must be truncated to
// their declared bit-width before the backend can safely consume the
// result (§4.5). sizeOfOperand resolves the current stored bit-width of a
// NodeId (via SizeInBits over an arena lookup); Cast's rule depends on it.
func TruncateRequired(instr *Instruction, sizeOfOperand func(NodeId) uint32) bool {
	switch op := instr.Operation.(type) {
	case *Binary:
		return binaryTruncateRequired(op.Operator)
	case *Not:
		return true
	case *Constrain:
		return true
	case *Cast:
		bits := sizeOfOperand(op.Value)
		return instr.ResultType.Bits() > bits
	case *Truncate, *Phi:
		return false
	case *Nop, *Jne, *Jeq, *Jmp, *Cond:
		return false
	case *Load:
		return false
	case *Store:
		return true
	case *Intrinsic:
		return true
	case *Call:
		return false
	case *Return:
		return true
	case *Result:
		return false
	default:
		panic(fmt.Sprintf("unreachable Operation variant %T", op))
	}
}

// --- Binary.FromAST (§4.5) ----------------------------------------------

// SurfaceBinaryOp enumerates the front-end's surface-level binary operators,
// the input to Binary.FromAST. It's a strict superset projection point:
// Greater/GreaterEqual don't survive into BinaryOperator, they're rewritten
// by swapping operands (see FromAST).
type SurfaceBinaryOp uint8

const (
	SurfaceAdd SurfaceBinaryOp = iota
	SurfaceSubtract
	SurfaceMultiply
	SurfaceDivide
	SurfaceEqual
	SurfaceNotEqual
	SurfaceAnd
	SurfaceOr
	SurfaceXor
	SurfaceLess
	SurfaceLessEqual
	SurfaceGreater
	SurfaceGreaterEqual
	SurfaceShiftLeft
	SurfaceShiftRight
	SurfaceModulo
)

// BinaryFromAST constructs a Binary from a surface operator plus the
// operation's result type (§4.5). It returns an error for Modulo on a field
// operand, matching the source's unimplemented!() there, and an
// ErrArithmeticUnreachable error for And/Or/Xor/ShiftLeft/ShiftRight on a
// field operand, so those never reach folding. It panics for a non-numeric
// opType on Divide, Less, LessEqual, Greater, GreaterEqual or Modulo, since
// that indicates a front-end bug (the source converts ObjectType into
// NumericType and unreachable!()s there too); other operators accept any
// opType.
func BinaryFromAST(opKind SurfaceBinaryOp, opType ObjectType, lhs, rhs NodeId) (*Binary, error) {
	numKind, ok := NumericKindOf(opType)
	if !ok && (opKind == SurfaceDivide || opKind == SurfaceLess || opKind == SurfaceLessEqual ||
		opKind == SurfaceGreater || opKind == SurfaceGreaterEqual || opKind == SurfaceModulo) {
		panic("failed to convert an object type into a numeric type")
	}
	if ok && numKind.Field {
		switch opKind {
		case SurfaceAnd, SurfaceOr, SurfaceXor, SurfaceShiftLeft, SurfaceShiftRight:
			return nil, &RuntimeError{Kind: ErrArithmeticUnreachable, err: "bitwise/shift operation on a NativeField operand"}
		}
	}

	switch opKind {
	case SurfaceAdd:
		return &Binary{Operator: OpAdd, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceSubtract:
		return &Binary{Operator: OpSub, Lhs: lhs, Rhs: rhs, MaxRhsValue: 0}, nil
	case SurfaceMultiply:
		return &Binary{Operator: OpMul, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceEqual:
		return &Binary{Operator: OpEq, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceNotEqual:
		return &Binary{Operator: OpNe, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceAnd:
		return &Binary{Operator: OpAnd, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceOr:
		return &Binary{Operator: OpOr, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceXor:
		return &Binary{Operator: OpXor, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceDivide:
		switch {
		case numKind.Signed:
			return &Binary{Operator: OpSdiv, Lhs: lhs, Rhs: rhs}, nil
		case numKind.Unsigned:
			return &Binary{Operator: OpUdiv, Lhs: lhs, Rhs: rhs}, nil
		default:
			return &Binary{Operator: OpDiv, Lhs: lhs, Rhs: rhs}, nil
		}
	case SurfaceLess:
		switch {
		case numKind.Signed:
			return &Binary{Operator: OpSlt, Lhs: lhs, Rhs: rhs}, nil
		case numKind.Unsigned:
			return &Binary{Operator: OpUlt, Lhs: lhs, Rhs: rhs}, nil
		default:
			return &Binary{Operator: OpLt, Lhs: lhs, Rhs: rhs}, nil
		}
	case SurfaceLessEqual:
		switch {
		case numKind.Signed:
			return &Binary{Operator: OpSle, Lhs: lhs, Rhs: rhs}, nil
		case numKind.Unsigned:
			return &Binary{Operator: OpUle, Lhs: lhs, Rhs: rhs}, nil
		default:
			return &Binary{Operator: OpLte, Lhs: lhs, Rhs: rhs}, nil
		}
	case SurfaceGreater:
		// Rewritten by swapping operands and emitting <.
		switch {
		case numKind.Signed:
			return &Binary{Operator: OpSlt, Lhs: rhs, Rhs: lhs}, nil
		case numKind.Unsigned:
			return &Binary{Operator: OpUlt, Lhs: rhs, Rhs: lhs}, nil
		default:
			return &Binary{Operator: OpLt, Lhs: rhs, Rhs: lhs}, nil
		}
	case SurfaceGreaterEqual:
		// Rewritten by swapping operands and emitting <=.
		switch {
		case numKind.Signed:
			return &Binary{Operator: OpSle, Lhs: rhs, Rhs: lhs}, nil
		case numKind.Unsigned:
			return &Binary{Operator: OpUle, Lhs: rhs, Rhs: lhs}, nil
		default:
			return &Binary{Operator: OpLte, Lhs: rhs, Rhs: lhs}, nil
		}
	case SurfaceShiftLeft:
		return &Binary{Operator: OpShl, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceShiftRight:
		return &Binary{Operator: OpShr, Lhs: lhs, Rhs: rhs}, nil
	case SurfaceModulo:
		switch {
		case numKind.Signed:
			return &Binary{Operator: OpSrem, Lhs: lhs, Rhs: rhs}, nil
		case numKind.Unsigned:
			return &Binary{Operator: OpUrem, Lhs: lhs, Rhs: rhs}, nil
		default:
			return nil, NewUnstructuredError("Modulo on field is not supported")
		}
	default:
		panic(fmt.Sprintf("unreachable SurfaceBinaryOp %v", opKind))
	}
}
