// Package trie is the learned prior: a trie of the move sequences seen in
// self-play, with a heuristic value on every node.
package trie

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/domino14/boop/move"
)

// NodeID addresses a node in the arena. The root is always 0.
type NodeID int32

const Root NodeID = 0

type edge struct {
	sym   move.Symbol
	child NodeID
}

type node struct {
	value float64
	// edges is sorted by sym.
	edges []edge
}

// Child describes one outgoing edge.
type Child struct {
	Symbol move.Symbol
	ID     NodeID
	Value  float64
}

// Trie is safe for concurrent use: inserts and loads take the write lock,
// everything else the read lock.
type Trie struct {
	mu    sync.RWMutex
	nodes []node
}

func New() *Trie {
	return &Trie{nodes: []node{{}}}
}

func (n *node) find(sym move.Symbol) (NodeID, bool) {
	i := sort.Search(len(n.edges), func(i int) bool { return n.edges[i].sym >= sym })
	if i < len(n.edges) && n.edges[i].sym == sym {
		return n.edges[i].child, true
	}
	return 0, false
}

// childOrAdd must be called with the write lock held.
func (t *Trie) childOrAdd(id NodeID, sym move.Symbol) NodeID {
	if c, ok := t.nodes[id].find(sym); ok {
		return c
	}
	c := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{})
	n := &t.nodes[id]
	i := sort.Search(len(n.edges), func(i int) bool { return n.edges[i].sym >= sym })
	n.edges = append(n.edges, edge{})
	copy(n.edges[i+1:], n.edges[i:])
	n.edges[i] = edge{sym: sym, child: c}
	return c
}

func (t *Trie) walk(seq move.Sequence) (NodeID, bool) {
	cur := Root
	for _, sym := range seq {
		c, ok := t.nodes[cur].find(sym)
		if !ok {
			return 0, false
		}
		cur = c
	}
	return cur, true
}

// Walk follows prefix from the root.
func (t *Trie) Walk(prefix move.Sequence) (NodeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.walk(prefix)
}

func (t *Trie) contains(seq move.Sequence) bool {
	id, ok := t.walk(seq)
	return ok && len(t.nodes[id].edges) == 0
}

// Contains returns whether seq is stored as a full path, i.e. walking it
// ends on a leaf.
func (t *Trie) Contains(seq move.Sequence) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.contains(seq)
}

// weight is what a sequence of length n adds to the node it reaches at
// index i. Odd-length sequences were ended by side A's trio.
func weight(i, n int) float64 {
	w := 1 / float64(i-n)
	if n%2 == 0 {
		w = -w
	}
	return w
}

// Insert adds seq and returns true, or returns false and changes nothing
// if seq is empty or already stored. A sequence containing an invalid symbol is
// rejected with move.ErrBadSymbol.
func (t *Trie) Insert(seq move.Sequence) (bool, error) {
	for _, sym := range seq {
		if !sym.Valid() {
			return false, move.ErrBadSymbol
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insert(seq), nil
}

func (t *Trie) insert(seq move.Sequence) bool {
	if len(seq) == 0 || t.contains(seq) {
		return false
	}
	n := len(seq)
	cur := Root
	for i, sym := range seq {
		cur = t.childOrAdd(cur, sym)
		t.nodes[cur].value += weight(i, n)
	}
	return true
}

func (t *Trie) Value(id NodeID) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[id].value
}

// Children lists the edges out of id in symbol order.
func (t *Trie) Children(id NodeID) []Child {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.Map(t.nodes[id].edges, func(e edge, _ int) Child {
		return Child{Symbol: e.sym, ID: e.child, Value: t.nodes[e.child].value}
	})
}

// LookupChildren maps each symbol that can follow prefix to its node's
// value. The map is empty if prefix is not in the trie.
func (t *Trie) LookupChildren(prefix move.Sequence) map[move.Symbol]float64 {
	id, ok := t.Walk(prefix)
	if !ok {
		return map[move.Symbol]float64{}
	}
	return lo.SliceToMap(t.Children(id), func(c Child) (move.Symbol, float64) {
		return c.Symbol, c.Value
	})
}

func (t *Trie) NumNodes() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// NumSequences is the number of leaves.
func (t *Trie) NumSequences() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.nodes) == 1 {
		return 0
	}
	return lo.CountBy(t.nodes, func(n node) bool { return len(n.edges) == 0 })
}

// Depth is the length of the longest stored sequence.
func (t *Trie) Depth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	depth := make([]int, len(t.nodes))
	deepest := 0
	// children always come after their parent in the arena.
	for id := range t.nodes {
		for _, e := range t.nodes[id].edges {
			depth[e.child] = depth[id] + 1
			if depth[e.child] > deepest {
				deepest = depth[e.child]
			}
		}
	}
	return deepest
}
