package tree

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

// String renders the subtree at root in the problem-text syntax. An index
// outside the arena renders as "".
func String(t types.Tree, root int) string {
	var sb strings.Builder
	write(&sb, t, root)
	return sb.String()
}

// LeafString renders a standalone predicate or function leaf.
func LeafString(n types.Node) string {
	return String(types.Tree{Nodes: []types.Node{leafCopy(n)}}, 0)
}

// FormatNumber renders v without a trailing fraction when it is integral.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func write(sb *strings.Builder, t types.Tree, i int) {
	if i < 0 || i >= len(t.Nodes) {
		return
	}
	n := t.Nodes[i]
	switch n.Kind {
	case types.KindAnd, types.KindOr, types.KindNot, types.KindUnknown, types.KindOneOf:
		writeList(sb, t, n.Kind.String(), n.Children)
	case types.KindExpression, types.KindFunctionModifier:
		writeList(sb, t, n.Name, n.Children)
	case types.KindPredicate:
		if n.Negate {
			sb.WriteString("(not ")
		}
		writeAtom(sb, n)
		if n.Negate {
			sb.WriteByte(')')
		}
	case types.KindFunction:
		writeAtom(sb, n)
	case types.KindNumber:
		sb.WriteString(FormatNumber(n.Value))
	case types.KindUndefined:
		sb.WriteString("(?)")
	}
}

func writeList(sb *strings.Builder, t types.Tree, head string, children []int) {
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, c := range children {
		sb.WriteByte(' ')
		write(sb, t, c)
	}
	sb.WriteByte(')')
}

func writeAtom(sb *strings.Builder, n types.Node) {
	sb.WriteByte('(')
	sb.WriteString(n.Name)
	for _, p := range n.Parameters {
		sb.WriteByte(' ')
		sb.WriteString(p.Name)
	}
	sb.WriteByte(')')
}
