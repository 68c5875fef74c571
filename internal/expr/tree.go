// Package expr builds and evaluates random scalar-field expressions.
//
// A Tree is a random arithmetic expression over x and y assembled from the
// operators registered in package fpool. Trees are drawn from a seeded
// rng.Stream; the same seed, depth and parameters always produce the same
// tree, so the sequence of draws made by New is fixed:
//
//	r (0..99) -> multiplier -> [operator index -> left subtree -> right subtree]
//
// Nodes are stored in a flat arena in pre-order. Every node is owned by
// exactly one parent, and the root is node 0.
package expr

import (
	"github.com/gogpu/genart/internal/fpool"
	"github.com/gogpu/genart/internal/rng"
)

// Kind identifies the variant of a node.
type Kind uint8

const (
	// Terminal nodes read the x or y coordinate.
	Terminal Kind = iota
	// Unary nodes apply a unary operator to one child.
	Unary
	// Binary nodes apply a binary operator to two children.
	Binary
)

// Axis selects the coordinate read by a terminal node.
type Axis uint8

const (
	AxisY Axis = iota
	AxisX
)

// binaryPercent is the probability, in percent, that an inner node is binary.
const binaryPercent = 70

type node struct {
	kind Kind
	op   uint8 // operator index, or Axis for terminals
	mult float64

	left, right int32
}

// Params bounds the random choices made while building a tree.
type Params struct {
	// MultMin and MultMax bound the per-node multiplier.
	MultMin, MultMax float64

	// UnaryLimit and BinaryLimit restrict how many registry entries are
	// eligible. They let images drawn before the registry grew be
	// reproduced exactly. Non-positive means the whole registry.
	UnaryLimit, BinaryLimit int
}

// Tree is an immutable random expression. It is safe for concurrent
// evaluation.
type Tree struct {
	nodes []node
	depth int
}

// New draws a tree of exactly the given depth from s. Depth values below 1
// are treated as 1.
func New(s *rng.Stream, depth int, p Params) *Tree {
	if depth < 1 {
		depth = 1
	}
	b := builder{
		s:       s,
		p:       p,
		nUnary:  fpool.Eligible(fpool.NumUnary, p.UnaryLimit),
		nBinary: fpool.Eligible(fpool.NumBinary, p.BinaryLimit),
	}
	b.build(depth)
	return &Tree{nodes: b.nodes, depth: depth}
}

type builder struct {
	s     *rng.Stream
	p     Params
	nodes []node

	nUnary, nBinary int
}

func (b *builder) build(depth int) int32 {
	r := b.s.IntN(100)
	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, node{mult: b.s.Float(b.p.MultMin, b.p.MultMax), left: -1, right: -1})

	if depth == 1 {
		b.nodes[idx].kind = Terminal
		b.nodes[idx].op = uint8(r % 2)
		return idx
	}

	if r < binaryPercent {
		b.nodes[idx].kind = Binary
		b.nodes[idx].op = uint8(b.s.IntN(b.nBinary))
		left := b.build(depth - 1)
		right := b.build(depth - 1)
		b.nodes[idx].left, b.nodes[idx].right = left, right
		return idx
	}

	b.nodes[idx].kind = Unary
	b.nodes[idx].op = uint8(b.s.IntN(b.nUnary))
	b.nodes[idx].left = b.build(depth - 1)
	return idx
}

// Depth returns the construction depth. Every leaf sits exactly Depth levels
// below the root, counting the root as level 1.
func (t *Tree) Depth() int {
	return t.depth
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Eval evaluates the expression at (x, y).
func (t *Tree) Eval(x, y float64) float64 {
	return t.eval(0, x, y)
}

func (t *Tree) eval(i int32, x, y float64) float64 {
	n := &t.nodes[i]
	switch n.kind {
	case Binary:
		a := t.eval(n.left, x, y)
		b := t.eval(n.right, x, y)
		return n.mult * fpool.Binary[n.op].Fn(a, b)
	case Unary:
		return n.mult * fpool.Unary[n.op].Fn(t.eval(n.left, x, y))
	default:
		if Axis(n.op) == AxisX {
			return n.mult * x
		}
		return n.mult * y
	}
}

// Walk calls fn for every node in pre-order with its level (root is 1).
func (t *Tree) Walk(fn func(kind Kind, op int, level int)) {
	t.walk(0, 1, fn)
}

func (t *Tree) walk(i int32, level int, fn func(Kind, int, int)) {
	n := &t.nodes[i]
	fn(n.kind, int(n.op), level)
	if n.left >= 0 {
		t.walk(n.left, level+1, fn)
	}
	if n.right >= 0 {
		t.walk(n.right, level+1, fn)
	}
}
