package ssa

// Stable handles into slot-backed storage. NodeId carries a generation so a
// stale handle into a freed slot is detected rather than silently aliasing
// whatever was reinserted into that slot.
//
// BlockId, ArrayId, FuncId and DefinitionId are opaque ids supplied by
// collaborators (the block graph, array/memory model, call graph and
// front-end definition table respectively); the core never allocates them,
// it only threads them through.

// NodeId identifies a node (Variable, Constant or Instruction) in an Arena.
type NodeId struct {
	index int
	gen   uint32
}

// dummyNodeId is reserved by every Arena and never aliases a live insert.
// A Store{index, value} operand pair both equal to the dummy id is the
// "dummy store" sentinel (rewrite.go's IsDummyStore).
var dummyNodeId = NodeId{index: -1, gen: 0}

// DummyID returns the sentinel NodeId. Defined as a package-level helper so
// callers that don't hold a *Context (e.g. while constructing an Operation
// before it's inserted) can still refer to it.
func DummyID() NodeId { return dummyNodeId }

// IsDummy reports whether id is the dummy sentinel.
func (id NodeId) IsDummy() bool { return id == dummyNodeId }

// Less gives the total order over NodeId used for commutative canonicalization
// (§3 invariant 3, §4.8 StandardForm). Dummy ids sort before all live ids.
func (id NodeId) Less(other NodeId) bool {
	if id.index != other.index {
		return id.index < other.index
	}
	return id.gen < other.gen
}

// BlockId identifies a basic block; owned by the block-graph collaborator.
type BlockId struct{ raw int }

// NewBlockId wraps a caller-supplied raw block handle.
func NewBlockId(raw int) BlockId { return BlockId{raw: raw} }

func (b BlockId) Raw() int { return b.raw }

var dummyBlockId = BlockId{raw: -1}

// DummyBlockID returns the reserved "no block" id.
func DummyBlockID() BlockId { return dummyBlockId }

func (b BlockId) IsDummy() bool { return b == dummyBlockId }

// ArrayId identifies a memory array owned by the memory-model collaborator.
type ArrayId struct{ raw int }

func NewArrayId(raw int) ArrayId { return ArrayId{raw: raw} }
func (a ArrayId) Raw() int       { return a.raw }

// FuncId identifies a callee function, owned by the call-graph collaborator.
type FuncId struct{ raw int }

func NewFuncId(raw int) FuncId { return FuncId{raw: raw} }
func (f FuncId) Raw() int      { return f.raw }

// DefinitionId links a Variable back to a front-end source definition, used
// only for diagnostics and lookup.
type DefinitionId struct{ raw int }

func NewDefinitionId(raw int) DefinitionId { return DefinitionId{raw: raw} }
func (d DefinitionId) Raw() int            { return d.raw }

// arenaSlot is one generational slot. A freed slot has occupied == false;
// its node field is cleared so a stale reference can't retain it.
type arenaSlot struct {
	node     NodeObj
	gen      uint32
	occupied bool
}

// Arena is the slot-backed store of every node in a compilation. It is
// single-owner: the surrounding Context lends mutable access for the
// duration of one pass (§5).
type Arena struct {
	slots []arenaSlot
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Insert stores node and returns its freshly allocated NodeId. Ids are never
// reused across a Free (none of the core's passes free slots; the method
// exists so a future compaction pass has somewhere to put it).
func (a *Arena) Insert(node NodeObj) NodeId {
	id := NodeId{index: len(a.slots), gen: 1}
	a.slots = append(a.slots, arenaSlot{node: node, gen: id.gen, occupied: true})
	return id
}

// Get returns the node at id, or (nil, false) if id is absent: out of range,
// freed, or a generation mismatch. Core algorithms are expected to tolerate
// an absent lookup (e.g. Cast width resolution falls back to 0 bits) rather
// than treat it as a bug.
func (a *Arena) Get(id NodeId) (NodeObj, bool) {
	if id.IsDummy() || id.index < 0 || id.index >= len(a.slots) {
		return nil, false
	}
	slot := &a.slots[id.index]
	if !slot.occupied || slot.gen != id.gen {
		return nil, false
	}
	return slot.node, true
}

// GetMut returns a pointer-identity node the caller may mutate in place
// (instructions are stored as pointers, so Get already permits mutation of
// their fields; GetMut exists for symmetry with the slot-absence check).
func (a *Arena) GetMut(id NodeId) (NodeObj, bool) {
	return a.Get(id)
}

// Free marks a slot absent. Logical deletion (Instruction.Mark) is the
// normal way to retire a node; Free is reserved for a compaction pass that
// has already rewritten every remaining reference away from id.
func (a *Arena) Free(id NodeId) {
	if id.IsDummy() || id.index < 0 || id.index >= len(a.slots) {
		return
	}
	slot := &a.slots[id.index]
	if slot.gen == id.gen {
		slot.occupied = false
		slot.node = nil
	}
}

// Iter calls f for every live node in insertion order. f returning false
// stops the iteration early.
func (a *Arena) Iter(f func(NodeId, NodeObj) bool) {
	for i := range a.slots {
		slot := &a.slots[i]
		if !slot.occupied {
			continue
		}
		id := NodeId{index: i, gen: slot.gen}
		if !f(id, slot.node) {
			return
		}
	}
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	n := 0
	a.Iter(func(NodeId, NodeObj) bool { n++; return true })
	return n
}
