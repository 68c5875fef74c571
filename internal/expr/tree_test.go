package expr

import (
	"math"
	"testing"

	"github.com/gogpu/genart/internal/fpool"
	"github.com/gogpu/genart/internal/rng"
)

var defaultParams = Params{MultMin: 1, MultMax: 1.9}

func TestNew_DepthBound(t *testing.T) {
	for seed := uint32(1); seed <= 50; seed++ {
		depth := 1 + int(seed%7)
		tree := New(rng.New(seed), depth, defaultParams)

		if tree.Depth() != depth {
			t.Fatalf("seed %d: Depth() = %d, want %d", seed, tree.Depth(), depth)
		}
		tree.Walk(func(kind Kind, _ int, level int) {
			if level > depth {
				t.Fatalf("seed %d: node at level %d beyond depth %d", seed, level, depth)
			}
			if kind == Terminal && level != depth {
				t.Fatalf("seed %d: leaf at level %d, want %d", seed, level, depth)
			}
			if kind != Terminal && level == depth {
				t.Fatalf("seed %d: inner node at last level %d", seed, level)
			}
		})
	}
}

func TestNew_DepthOneIsTerminal(t *testing.T) {
	tree := New(rng.New(3), 1, defaultParams)
	if tree.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tree.Len())
	}
	if tree.nodes[0].kind != Terminal {
		t.Errorf("kind = %v, want Terminal", tree.nodes[0].kind)
	}
}

func TestNew_ZeroDepthClamped(t *testing.T) {
	tree := New(rng.New(3), 0, defaultParams)
	if tree.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", tree.Depth())
	}
}

// TestNew_DrawOrder replays the draws of a depth-2 tree by hand. The order
// r -> multiplier -> operator -> children is what makes old seeds reproducible.
func TestNew_DrawOrder(t *testing.T) {
	for seed := uint32(1); seed <= 20; seed++ {
		tree := New(rng.New(seed), 2, defaultParams)

		s := rng.New(seed)
		r := s.IntN(100)
		mult := s.Float(1, 1.9)
		root := tree.nodes[0]
		if root.mult != mult {
			t.Fatalf("seed %d: root multiplier %v, want %v", seed, root.mult, mult)
		}

		leaves := 1
		if r < binaryPercent {
			if root.kind != Binary {
				t.Fatalf("seed %d: r=%d but root kind %v", seed, r, root.kind)
			}
			if op := s.IntN(fpool.NumBinary); int(root.op) != op {
				t.Fatalf("seed %d: root op %d, want %d", seed, root.op, op)
			}
			leaves = 2
		} else {
			if root.kind != Unary {
				t.Fatalf("seed %d: r=%d but root kind %v", seed, r, root.kind)
			}
			if op := s.IntN(fpool.NumUnary); int(root.op) != op {
				t.Fatalf("seed %d: root op %d, want %d", seed, root.op, op)
			}
		}

		for i := 1; i <= leaves; i++ {
			lr := s.IntN(100)
			lm := s.Float(1, 1.9)
			leaf := tree.nodes[i]
			if leaf.kind != Terminal || int(leaf.op) != lr%2 || leaf.mult != lm {
				t.Fatalf("seed %d: leaf %d = %+v, want axis %d mult %v", seed, i, leaf, lr%2, lm)
			}
		}
	}
}

func TestNew_Deterministic(t *testing.T) {
	a := New(rng.New(42), 6, defaultParams)
	b := New(rng.New(42), 6, defaultParams)
	if a.String() != b.String() {
		t.Fatalf("same seed produced different trees:\n%s\n%s", a, b)
	}
	for _, p := range [][2]float64{{0, 0}, {0.3, 0.7}, {1, 1}} {
		va, vb := a.Eval(p[0], p[1]), b.Eval(p[0], p[1])
		if math.Float64bits(va) != math.Float64bits(vb) {
			t.Errorf("Eval(%v) differs: %v vs %v", p, va, vb)
		}
	}
}

func TestNew_PoolLimits(t *testing.T) {
	p := defaultParams
	p.UnaryLimit, p.BinaryLimit = 1, 1
	for seed := uint32(1); seed <= 30; seed++ {
		tree := New(rng.New(seed), 6, p)
		tree.Walk(func(kind Kind, op int, _ int) {
			if kind != Terminal && op != 0 {
				t.Fatalf("seed %d: %v node uses op %d with limit 1", seed, kind, op)
			}
		})
	}
}

func TestNew_MultiplierInDomain(t *testing.T) {
	tree := New(rng.New(11), 7, defaultParams)
	for _, n := range tree.nodes {
		if n.mult < 1 || n.mult >= 1.9 {
			t.Fatalf("multiplier %v outside [1, 1.9)", n.mult)
		}
	}
}

func TestEval_PostOrder(t *testing.T) {
	// 2 * ((3 * x) - (0.5 * y))
	tree := &Tree{
		depth: 2,
		nodes: []node{
			{kind: Binary, op: 1, mult: 2, left: 1, right: 2},
			{kind: Terminal, op: uint8(AxisX), mult: 3, left: -1, right: -1},
			{kind: Terminal, op: uint8(AxisY), mult: 0.5, left: -1, right: -1},
		},
	}
	if got, want := tree.Eval(2, 4), 2*(3*2-0.5*4.0); got != want {
		t.Errorf("Eval = %v, want %v", got, want)
	}

	// 1.5 * (2 * y)^2
	sq := &Tree{
		depth: 2,
		nodes: []node{
			{kind: Unary, op: 11, mult: 1.5, left: 1, right: -1},
			{kind: Terminal, op: uint8(AxisY), mult: 2, left: -1, right: -1},
		},
	}
	if got, want := sq.Eval(100, 3), 1.5*36.0; got != want {
		t.Errorf("Eval = %v, want %v", got, want)
	}
}

func TestString(t *testing.T) {
	tree := &Tree{
		depth: 2,
		nodes: []node{
			{kind: Binary, op: 3, mult: 1, left: 1, right: 2},
			{kind: Terminal, op: uint8(AxisX), mult: 1.5, left: -1, right: -1},
			{kind: Terminal, op: uint8(AxisY), mult: 1.25, left: -1, right: -1},
		},
	}
	want := "1.0000 * sin(1.5000 * x * 1.2500 * y)"
	if got := tree.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
