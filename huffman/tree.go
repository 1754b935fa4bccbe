// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"container/heap"

	"github.com/dsnet/huff/internal/errors"
)

// Node is a node of a code tree. It is either a *Leaf or an *Internal.
type Node interface {
	// Weight is the total count of all leaves under the node.
	// Trees decoded from a stream header have zero weights.
	Weight() uint64

	isNode()
}

// Leaf is a terminal node carrying a symbol.
type Leaf struct {
	Sym Symbol
	Cnt uint64
}

// Internal is a node with exactly two children.
// Descending Left appends a 0 bit to a code, descending Right appends a 1.
type Internal struct {
	Left, Right Node
	Cnt         uint64
}

func (n *Leaf) Weight() uint64     { return n.Cnt }
func (n *Internal) Weight() uint64 { return n.Cnt }

func (*Leaf) isNode()     {}
func (*Internal) isNode() {}

// nodeQueue is a min-heap of nodes ordered by weight, then by the order in
// which they were pushed.
type nodeQueue []queueItem

type queueItem struct {
	node Node
	seq  int
}

func (q nodeQueue) Len() int      { return len(q) }
func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q nodeQueue) Less(i, j int) bool {
	if wi, wj := q[i].node.Weight(), q[j].node.Weight(); wi != wj {
		return wi < wj
	}
	return q[i].seq < q[j].seq
}
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]
	return x
}

// BuildTree builds a Huffman code tree from the frequency table.
//
// A leaf is created for every symbol with a non-zero count, in ascending
// symbol order. The two lightest nodes are then repeatedly merged under a
// new internal node, the first removed becoming the left child. Nodes of
// equal weight are removed in the order they were created, which makes the
// resulting tree deterministic.
//
// If only one symbol is present, the tree is a single leaf.
// If no symbol is present, BuildTree returns nil.
func BuildTree(cnts *Counts) Node {
	q := make(nodeQueue, 0, NumSymbols)
	var seq int
	for sym, cnt := range cnts {
		if cnt > 0 {
			q = append(q, queueItem{&Leaf{Sym: Symbol(sym), Cnt: cnt}, seq})
			seq++
		}
	}
	if len(q) == 0 {
		return nil
	}

	heap.Init(&q)
	for q.Len() > 1 {
		l := heap.Pop(&q).(queueItem).node
		r := heap.Pop(&q).(queueItem).node
		n := &Internal{Left: l, Right: r, Cnt: l.Weight() + r.Weight()}
		heap.Push(&q, queueItem{n, seq})
		seq++
	}
	return q[0].node
}

// Equal reports whether two trees have the same shape and the same symbols
// at the same leaves. Weights are ignored.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *Leaf:
		b, ok := b.(*Leaf)
		return ok && a.Sym == b.Sym
	case *Internal:
		b, ok := b.(*Internal)
		return ok && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	default:
		return a == nil && b == nil
	}
}

// Leaves returns the symbols of all leaves in preorder.
func Leaves(root Node) []Symbol {
	var syms []Symbol
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := n.(type) {
		case *Leaf:
			syms = append(syms, n.Sym)
		case *Internal:
			stack = append(stack, n.Right, n.Left)
		}
	}
	return syms
}

// checkTree verifies the structural invariants of a code tree: every
// internal node has two children, leaf symbols are unique and in range,
// and EOF is present.
func checkTree(root Node) error {
	var seen [NumSymbols]bool
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := n.(type) {
		case *Leaf:
			if int(n.Sym) >= NumSymbols || seen[n.Sym] {
				return errorf(errors.Internal, "invalid leaf symbol")
			}
			seen[n.Sym] = true
		case *Internal:
			if n.Left == nil || n.Right == nil {
				return errorf(errors.Internal, "internal node missing a child")
			}
			stack = append(stack, n.Right, n.Left)
		default:
			return errorf(errors.Internal, "nil node")
		}
	}
	if !seen[EOF] {
		return errorf(errors.Internal, "tree has no end-of-stream leaf")
	}
	return nil
}
