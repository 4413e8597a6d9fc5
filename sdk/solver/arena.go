package solver

// Arena is a growable flat store of Nodes plus a hash table mapping a
// 64-bit infoset key to a dense id, in the shape of the teacher's sharded
// RegretTable (sdk/solver/regret.go) reduced to just the id-allocation
// concern: the arena only hands out ids, it never stores regret or
// strategy values itself — the trainer owns the tensors that index by id.
type Arena struct {
	nodes    []Node
	infosets map[uint64]uint32
}

// NewArena returns an empty arena with room for an estimated node count.
func NewArena(capacityHint int) *Arena {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Arena{
		nodes:    make([]Node, 0, capacityHint),
		infosets: make(map[uint64]uint32),
	}
}

// Append adds a node and returns its index. Callers building a subtree must
// append all of a node's children consecutively, with no other Append calls
// interleaved, to preserve the contiguous-children invariant.
func (a *Arena) Append(n Node) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

// Node returns the node at index i.
func (a *Arena) Node(i int) Node {
	return a.nodes[i]
}

// SetNode overwrites the node at index i, used by the builder to backfill
// ChildrenStart/ChildrenCount once a node's children have all been
// appended.
func (a *Arena) SetNode(i int, n Node) {
	a.nodes[i] = n
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// NumInfosets returns the number of distinct infoset ids allocated so far.
func (a *Arena) NumInfosets() int {
	return len(a.infosets)
}

// InfosetID returns the dense id for key, assigning a new one the first
// time key is seen.
func (a *Arena) InfosetID(key uint64) uint32 {
	if id, ok := a.infosets[key]; ok {
		return id
	}
	id := uint32(len(a.infosets))
	a.infosets[key] = id
	return id
}
