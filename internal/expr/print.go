package expr

import (
	"strconv"
	"strings"

	"github.com/gogpu/genart/internal/fpool"
)

// String renders the expression using the operator templates, for example
// "1.4200 * sin(1.1000 * x)".
func (t *Tree) String() string {
	var b strings.Builder
	t.print(&b, 0)
	return b.String()
}

func (t *Tree) print(b *strings.Builder, i int32) {
	n := &t.nodes[i]
	b.WriteString(strconv.FormatFloat(n.mult, 'f', 4, 64))
	b.WriteString(" * ")
	switch n.kind {
	case Binary:
		op := &fpool.Binary[n.op]
		b.WriteString(op.Prefix)
		t.print(b, n.left)
		b.WriteString(op.Infix)
		t.print(b, n.right)
		b.WriteString(op.Suffix)
	case Unary:
		op := &fpool.Unary[n.op]
		b.WriteString(op.Prefix)
		t.print(b, n.left)
		b.WriteString(op.Suffix)
	default:
		if Axis(n.op) == AxisX {
			b.WriteByte('x')
		} else {
			b.WriteByte('y')
		}
	}
}
