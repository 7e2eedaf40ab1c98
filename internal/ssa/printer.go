package ssa

import (
	"fmt"
	"strings"
)

// operatorSymbol renders a BinaryOperator the way the printer needs to: a
// short, stable token, not the Go identifier.
func operatorSymbol(op BinaryOperator) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSafeAdd:
		return "safe_add"
	case OpSub:
		return "-"
	case OpSafeSub:
		return "safe_sub"
	case OpMul:
		return "*"
	case OpSafeMul:
		return "safe_mul"
	case OpUdiv:
		return "udiv"
	case OpSdiv:
		return "sdiv"
	case OpUrem:
		return "urem"
	case OpSrem:
		return "srem"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpUlt:
		return "u<"
	case OpUle:
		return "u<="
	case OpSlt:
		return "s<"
	case OpSle:
		return "s<="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpXor:
		return "^"
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	case OpAssign:
		return "="
	default:
		panic("ssa: unreachable BinaryOperator")
	}
}

// FormatOperation renders op for textual dumps (§4.10-style debug printing),
// resolving operand ids through display so a constant or named variable
// shows its value/name rather than a bare id. display must return a stable
// label for any NodeId it's given; PrintContext below supplies one backed
// by a Context.
func FormatOperation(op Operation, display func(NodeId) string) string {
	switch v := op.(type) {
	case *Binary:
		s := fmt.Sprintf("%s %s %s", display(v.Lhs), operatorSymbol(v.Operator), display(v.Rhs))
		if v.Predicate != nil {
			s += fmt.Sprintf(" if %s", display(*v.Predicate))
		}
		return s
	case *Cast:
		return fmt.Sprintf("cast %s", display(v.Value))
	case *Truncate:
		return fmt.Sprintf("truncate %s to %d bits (max %d)", display(v.Value), v.BitSize, v.MaxBitSize)
	case *Not:
		return fmt.Sprintf("not %s", display(v.Value))
	case *Constrain:
		return fmt.Sprintf("constrain %s", display(v.Value))
	case *Jmp:
		return fmt.Sprintf("jmp block%d", v.Target.raw)
	case *Jeq:
		return fmt.Sprintf("jeq %s, block%d", display(v.Value), v.Target.raw)
	case *Jne:
		return fmt.Sprintf("jne %s, block%d", display(v.Value), v.Target.raw)
	case *Phi:
		args := make([]string, len(v.BlockArgs))
		for i, a := range v.BlockArgs {
			args[i] = fmt.Sprintf("block%d: %s", a.PredecessorBlock.raw, display(a.Value))
		}
		return fmt.Sprintf("phi(%s) [%s]", display(v.Root), strings.Join(args, ", "))
	case *Cond:
		return fmt.Sprintf("%s ? %s : %s", display(v.Condition), display(v.ValTrue), display(v.ValFalse))
	case *Call:
		args := make([]string, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = display(a)
		}
		return fmt.Sprintf("call func%d(%s)", v.FuncID.raw, strings.Join(args, ", "))
	case *Return:
		vals := make([]string, len(v.Values))
		for i, val := range v.Values {
			vals[i] = display(val)
		}
		return fmt.Sprintf("return %s", strings.Join(vals, ", "))
	case *Result:
		return fmt.Sprintf("result %d of %s", v.Index, display(v.CallInstruction))
	case *Load:
		return fmt.Sprintf("load array%d[%s]", v.ArrayID.raw, display(v.Index))
	case *Store:
		return fmt.Sprintf("store array%d[%s] = %s", v.ArrayID.raw, display(v.Index), display(v.Value))
	case *Intrinsic:
		args := make([]string, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = display(a)
		}
		return fmt.Sprintf("intrinsic#%d(%s)", v.Opcode.raw, strings.Join(args, ", "))
	case *Nop:
		return "nop"
	default:
		panic(fmt.Sprintf("unreachable Operation variant %T", op))
	}
}

// FormatInstruction renders a full instruction line: its result name (or a
// positional placeholder), its type, and its operation.
func FormatInstruction(instr *Instruction, display func(NodeId) string) string {
	name := instr.ResultName
	if name == "" {
		name = fmt.Sprintf("%%%d", instr.ID.index)
	}
	body := FormatOperation(instr.Operation, display)
	switch instr.Mark.Kind() {
	case MarkDeleted:
		return fmt.Sprintf("// deleted: %s: %s = %s", name, instr.ResultType, body)
	case MarkReplaceWith:
		target, _ := instr.Mark.ReplacementID()
		return fmt.Sprintf("// replaced by %s: %s: %s = %s", display(target), name, instr.ResultType, body)
	default:
		return fmt.Sprintf("%s: %s = %s", name, instr.ResultType, body)
	}
}

// PrintContext renders every live node in ctx's arena as one line per node,
// in arena order — a whole-function/whole-program dump for tests and CLI
// debug output (§6's backend walk needs the same traversal; this is its
// read-only, display-only counterpart).
func PrintContext(ctx *Context) string {
	display := func(id NodeId) string {
		if id.IsDummy() {
			return "<dummy>"
		}
		n, ok := ctx.TryGetNode(id)
		if !ok {
			return fmt.Sprintf("<freed %d>", id.index)
		}
		return Display(n)
	}

	var b strings.Builder
	ctx.Arena().Iter(func(id NodeId, n NodeObj) bool {
		switch v := n.(type) {
		case *Constant:
			fmt.Fprintf(&b, "%s: %s = %s\n", display(id), v.ObjectType, v.ValueStr)
		case *Variable:
			fmt.Fprintf(&b, "%s: %s (var)\n", v.Name, v.ObjectType)
		case *Instruction:
			b.WriteString(FormatInstruction(v, display))
			b.WriteString("\n")
		}
		return true
	})
	return b.String()
}
