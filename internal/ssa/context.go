package ssa

import (
	"fmt"

	"acircore/internal/ssa/field"
)

// constKey is the interning key for constants: the field element's
// canonical bytes plus its ObjectType. Two folds producing the same
// (value, type) must return the same NodeId so later CSE-style passes can
// compare operands by id (§4.9).
type constKey struct {
	bytes string
	kind  objectKind
	width uint32
	arr   ArrayId
}

// Context is the facade collaborators use to build and query the arena
// (§4.9): lookup, interning, and the single dummy id. It owns the Arena
// exclusively for the duration of any pass that mutates it (§5).
type Context struct {
	arena       *Arena
	constants   map[constKey]NodeId
	nextBlockID int
}

// NewContext returns an empty Context backed by a fresh Arena.
func NewContext() *Context {
	return &Context{
		arena:     NewArena(),
		constants: make(map[constKey]NodeId),
	}
}

// DummyID returns the reserved sentinel NodeId, guaranteed never to alias a
// live node in this context's arena.
func (c *Context) DummyID() NodeId { return dummyNodeId }

// TryGetNode returns the node at id, or (nil, false) if absent.
func (c *Context) TryGetNode(id NodeId) (NodeObj, bool) {
	return c.arena.Get(id)
}

// Node indexes the context like ctx[id] in the source, panicking on a miss
// — use TryGetNode when an absent lookup is expected.
func (c *Context) Node(id NodeId) NodeObj {
	n, ok := c.arena.Get(id)
	if !ok {
		panic(fmt.Sprintf("ssa: no live node for %v", id))
	}
	return n
}

// GetObjectType returns the type of the node at id, or NotAnObject on a miss.
func (c *Context) GetObjectType(id NodeId) ObjectType {
	n, ok := c.arena.Get(id)
	if !ok {
		return NotAnObject()
	}
	return NodeType(n)
}

// InsertVariable allocates a fresh Variable and returns its NodeId, fixing up
// the variable's own ID.
func (c *Context) InsertVariable(v *Variable) NodeId {
	id := c.arena.Insert(v)
	v.ID = id
	return id
}

// InsertInstruction allocates a fresh Instruction and returns its NodeId.
func (c *Context) InsertInstruction(instr *Instruction) NodeId {
	id := c.arena.Insert(instr)
	instr.ID = id
	return id
}

// GetOrCreateConst interns a constant by (canonical field bytes, type): the
// only way folding or a front end should produce a Constant node, since two
// folds yielding an equal (value, type) pair must return the same id
// (§4.9). Interning failure (a hash collision resolving to the wrong node)
// is fatal and indicates an arena bug, not a user error.
func (c *Context) GetOrCreateConst(value field.Element, t ObjectType) NodeId {
	key := constKey{bytes: string(value.Bytes()), kind: t.kind, width: t.width}
	if arr, ok := t.ArrayID(); ok {
		key.arr = arr
	}
	if id, ok := c.constants[key]; ok {
		existing, ok := c.arena.Get(id)
		if !ok {
			panic("ssa: constant interning table points at a freed node")
		}
		if _, ok := existing.(*Constant); !ok {
			panic("ssa: constant interning table points at a non-Constant node")
		}
		return id
	}

	c2 := &Constant{
		Value:      value.BigInt(),
		ValueStr:   value.String(),
		ObjectType: t,
	}
	id := c.arena.Insert(c2)
	c2.ID = id
	c.constants[key] = id
	return id
}

// NewBlockID hands out a fresh, context-local BlockId. Block identity
// itself is otherwise owned by the block-graph collaborator; this exists so
// tests and the demo front end can allocate blocks without a separate
// collaborator package.
func (c *Context) NewBlockID() BlockId {
	id := NewBlockId(c.nextBlockID)
	c.nextBlockID++
	return id
}

// Arena exposes the underlying Arena for iteration by passes that need to
// walk every node (e.g. a compaction pass, or the backend's instruction
// walk in §6).
func (c *Context) Arena() *Arena { return c.arena }
