package ssa

import (
	"fmt"
	"math/big"

	"acircore/internal/ssa/field"
)

// NodeObj is the closed three-variant node sum (§3): *Constant, *Variable or
// *Instruction. It is a sealed interface — isNodeObj is unexported so no
// package outside ssa can add a fourth variant — and every core algorithm
// dispatches on it with an exhaustive type switch (NodeType, NodeID,
// SizeInBits, Display below), never virtual dispatch through per-type
// methods. This mirrors Operation's closed-set treatment in operation.go.
type NodeObj interface {
	isNodeObj()
}

// Constant is an arbitrary-precision natural paired with a display string
// and a type. Folding reduces Value into a field element when needed
// (Constant.Field). Two distinct Constant nodes may legally share the same
// (Value, Type); Context.GetOrCreateConst is how callers canonicalize.
type Constant struct {
	ID         NodeId
	Value      *big.Int
	ValueStr   string
	ObjectType ObjectType
}

func (*Constant) isNodeObj() {}

// Field returns the constant's value reduced into a field element, matching
// Constant::get_value_field.
func (c *Constant) Field() field.Element {
	return field.FromBigInt(c.Value)
}

// Variable is an SSA name: a type, a display name, and the bookkeeping SSA
// renaming needs.
type Variable struct {
	ID         NodeId
	ObjectType ObjectType
	Name       string
	// Root points to the SSA original of this renaming chain; the node is
	// its own root when Root is absent.
	Root *NodeId
	// Def links back to the front-end definition, used only for
	// diagnostics and lookup.
	Def *DefinitionId
	// Witness optionally binds a back-end witness slot.
	Witness *uint32
	ParentBlock BlockId
}

func (*Variable) isNodeObj() {}

// GetRoot returns Root if set, else the variable's own id.
func (v *Variable) GetRoot() NodeId {
	if v.Root != nil {
		return *v.Root
	}
	return v.ID
}

// Mark is the three-state deletion marker on an Instruction (§3 Lifecycle).
// An instruction is live iff Mark == MarkNone. Rewrites never remove an
// instruction in place; they set Mark and a later compaction pass sweeps
// the arena.
type Mark struct {
	kind        markKind
	replaceWith NodeId
}

type markKind uint8

const (
	MarkNone markKind = iota
	MarkDeleted
	MarkReplaceWith
)

// NoMark is the default, live mark.
func NoMark() Mark { return Mark{kind: MarkNone} }

// Deleted marks an instruction as logically removed.
func Deleted() Mark { return Mark{kind: MarkDeleted} }

// ReplaceWith marks an instruction as rewritten to id.
func ReplaceWith(id NodeId) Mark { return Mark{kind: MarkReplaceWith, replaceWith: id} }

func (m Mark) Kind() markKind { return m.kind }

// ReplacementID returns the target of a MarkReplaceWith mark and true, else
// the zero NodeId and false.
func (m Mark) ReplacementID() (NodeId, bool) {
	if m.kind == MarkReplaceWith {
		return m.replaceWith, true
	}
	return NodeId{}, false
}

// Instruction is a node carrying an Operation, its result type, and its
// mark.
type Instruction struct {
	ID          NodeId
	Operation   Operation
	ResultType  ObjectType
	ParentBlock BlockId
	ResultName  string
	Mark        Mark
}

func (*Instruction) isNodeObj() {}

// IsDeleted reports whether the instruction's mark is anything but MarkNone.
func (i *Instruction) IsDeleted() bool { return i.Mark.kind != MarkNone }

// NodeType implements Node::get_type across the sum (§3/§4.4): an
// exhaustive type switch, not a virtual method, is the sanctioned dispatch.
func NodeType(n NodeObj) ObjectType {
	switch v := n.(type) {
	case *Variable:
		return v.ObjectType
	case *Constant:
		return v.ObjectType
	case *Instruction:
		return v.ResultType
	default:
		panic(fmt.Sprintf("unreachable NodeObj variant %T", n))
	}
}

// NodeID implements Node::get_id across the sum.
func NodeID(n NodeObj) NodeId {
	switch v := n.(type) {
	case *Variable:
		return v.ID
	case *Constant:
		return v.ID
	case *Instruction:
		return v.ID
	default:
		panic(fmt.Sprintf("unreachable NodeObj variant %T", n))
	}
}

// SizeInBits implements Node::size_in_bits. For Variable and Instruction it
// delegates to the type; for Constant it is the bit length of the stored
// natural (not the type width) — used by Cast/truncate_required to decide
// whether truncation is required.
func SizeInBits(n NodeObj) uint32 {
	switch v := n.(type) {
	case *Variable:
		return v.ObjectType.Bits()
	case *Constant:
		return uint32(v.Value.BitLen())
	case *Instruction:
		return v.ResultType.Bits()
	default:
		panic(fmt.Sprintf("unreachable NodeObj variant %T", n))
	}
}

// Display renders a node's identity the way the source's Display impls do:
// an instruction shows its ResultName if non-empty, else "(rawIndex)"; a
// variable shows its Name; a constant shows its Value.
func Display(n NodeObj) string {
	switch v := n.(type) {
	case *Variable:
		return v.Name
	case *Constant:
		return v.Value.String()
	case *Instruction:
		if v.ResultName != "" {
			return v.ResultName
		}
		return fmt.Sprintf("(%d)", v.ID.index)
	default:
		panic(fmt.Sprintf("unreachable NodeObj variant %T", n))
	}
}
