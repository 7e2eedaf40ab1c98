package ssa

import "fmt"

// MapID builds a new Operation with every embedded NodeId rewritten through
// f (§4.8). Fields that aren't NodeIds — block ids, array ids, bit widths,
// locations, func ids, intrinsic opcodes, MaxRhsValue — pass through
// unchanged. The phi's predecessor block id is never rewritten, only its
// value.
func MapID(op Operation, f func(NodeId) NodeId) Operation {
	switch v := op.(type) {
	case *Binary:
		out := &Binary{Lhs: f(v.Lhs), Rhs: f(v.Rhs), Operator: v.Operator, MaxRhsValue: v.MaxRhsValue}
		if v.Predicate != nil {
			p := f(*v.Predicate)
			out.Predicate = &p
		}
		return out
	case *Cast:
		return &Cast{Value: f(v.Value)}
	case *Truncate:
		return &Truncate{Value: f(v.Value), BitSize: v.BitSize, MaxBitSize: v.MaxBitSize}
	case *Not:
		return &Not{Value: f(v.Value)}
	case *Constrain:
		return &Constrain{Value: f(v.Value), SourceLocation: v.SourceLocation}
	case *Jne:
		return &Jne{Value: f(v.Value), Target: v.Target}
	case *Jeq:
		return &Jeq{Value: f(v.Value), Target: v.Target}
	case *Jmp:
		return &Jmp{Target: v.Target}
	case *Phi:
		args := make([]PhiArg, len(v.BlockArgs))
		for i, a := range v.BlockArgs {
			args[i] = PhiArg{Value: f(a.Value), PredecessorBlock: a.PredecessorBlock}
		}
		return &Phi{Root: f(v.Root), BlockArgs: args}
	case *Cond:
		return &Cond{Condition: f(v.Condition), ValTrue: f(v.ValTrue), ValFalse: f(v.ValFalse)}
	case *Load:
		return &Load{ArrayID: v.ArrayID, Index: f(v.Index)}
	case *Store:
		return &Store{ArrayID: v.ArrayID, Index: f(v.Index), Value: f(v.Value)}
	case *Intrinsic:
		args := make([]NodeId, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = f(a)
		}
		return &Intrinsic{Opcode: v.Opcode, Arguments: args}
	case *Nop:
		return &Nop{}
	case *Call:
		args := make([]NodeId, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = f(a)
		}
		arrays := make([]ReturnedArray, len(v.ReturnedArrays))
		copy(arrays, v.ReturnedArrays)
		return &Call{FuncID: v.FuncID, Arguments: args, ReturnedArrays: arrays, Predicate: v.Predicate}
	case *Return:
		values := make([]NodeId, len(v.Values))
		for i, val := range v.Values {
			values[i] = f(val)
		}
		return &Return{Values: values}
	case *Result:
		return &Result{CallInstruction: f(v.CallInstruction), Index: v.Index}
	default:
		panic(fmt.Sprintf("unreachable Operation variant %T", op))
	}
}

// MapIDMut mutates op's embedded NodeIds in place using f. Semantically
// identical to MapID but avoids allocating a new Operation.
func MapIDMut(op Operation, f func(NodeId) NodeId) {
	switch v := op.(type) {
	case *Binary:
		v.Lhs = f(v.Lhs)
		v.Rhs = f(v.Rhs)
		if v.Predicate != nil {
			p := f(*v.Predicate)
			v.Predicate = &p
		}
	case *Cast:
		v.Value = f(v.Value)
	case *Truncate:
		v.Value = f(v.Value)
	case *Not:
		v.Value = f(v.Value)
	case *Constrain:
		v.Value = f(v.Value)
	case *Jne:
		v.Value = f(v.Value)
	case *Jeq:
		v.Value = f(v.Value)
	case *Jmp:
		// no NodeId fields
	case *Phi:
		v.Root = f(v.Root)
		for i := range v.BlockArgs {
			v.BlockArgs[i].Value = f(v.BlockArgs[i].Value)
		}
	case *Cond:
		v.Condition = f(v.Condition)
		v.ValTrue = f(v.ValTrue)
		v.ValFalse = f(v.ValFalse)
	case *Load:
		v.Index = f(v.Index)
	case *Store:
		v.Index = f(v.Index)
		v.Value = f(v.Value)
	case *Intrinsic:
		for i := range v.Arguments {
			v.Arguments[i] = f(v.Arguments[i])
		}
	case *Nop:
		// no NodeId fields
	case *Call:
		for i := range v.Arguments {
			v.Arguments[i] = f(v.Arguments[i])
		}
	case *Return:
		for i := range v.Values {
			v.Values[i] = f(v.Values[i])
		}
	case *Result:
		v.CallInstruction = f(v.CallInstruction)
	default:
		panic(fmt.Sprintf("unreachable Operation variant %T", op))
	}
}

// ForEachID is MapID's read-only counterpart: it visits every embedded
// NodeId without constructing a replacement Operation.
func ForEachID(op Operation, f func(NodeId)) {
	switch v := op.(type) {
	case *Binary:
		f(v.Lhs)
		f(v.Rhs)
		if v.Predicate != nil {
			f(*v.Predicate)
		}
	case *Cast:
		f(v.Value)
	case *Truncate:
		f(v.Value)
	case *Not:
		f(v.Value)
	case *Constrain:
		f(v.Value)
	case *Jne:
		f(v.Value)
	case *Jeq:
		f(v.Value)
	case *Jmp:
		// no NodeId fields
	case *Phi:
		f(v.Root)
		for _, a := range v.BlockArgs {
			f(a.Value)
		}
	case *Cond:
		f(v.Condition)
		f(v.ValTrue)
		f(v.ValFalse)
	case *Load:
		f(v.Index)
	case *Store:
		f(v.Index)
		f(v.Value)
	case *Intrinsic:
		for _, a := range v.Arguments {
			f(a)
		}
	case *Nop:
		// no NodeId fields
	case *Call:
		for _, a := range v.Arguments {
			f(a)
		}
	case *Return:
		for _, val := range v.Values {
			f(val)
		}
	case *Result:
		f(v.CallInstruction)
	default:
		panic(fmt.Sprintf("unreachable Operation variant %T", op))
	}
}

// StandardForm canonicalizes a commutative binary instruction in place: if
// instr's operation is a Binary with a commutative operator and Rhs < Lhs
// under the NodeId ordering, its operands are swapped (§3 invariant 3,
// §4.8). Non-binary operations and non-commutative binaries are untouched.
func StandardForm(instr *Instruction) {
	binary, ok := instr.Operation.(*Binary)
	if !ok {
		return
	}
	if binary.Operator.IsCommutative() && binary.Rhs.Less(binary.Lhs) {
		binary.Lhs, binary.Rhs = binary.Rhs, binary.Lhs
	}
}

// IsDummyStore reports whether op is a Store whose Index and Value are both
// the dummy id — the sentinel for "dummy store" (§4.8).
func IsDummyStore(op Operation) bool {
	store, ok := op.(*Store)
	if !ok {
		return false
	}
	return store.Index.IsDummy() && store.Value.IsDummy()
}
