// Package tree implements the expression-tree arena shared by facts,
// conditionals and goals: appending nodes, structural equality, subtree
// extraction and the textual form of trees.
//
// Indices handed out by Append are never reused or reassigned. Structural
// edits rebuild a new arena instead of splicing the old one.
package tree

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Append adds n to the arena and returns its index.
func Append(t *types.Tree, n types.Node) int {
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1
}

// Equal reports whether a and b are structurally identical: same node
// sequence, same payloads, same children, same parameter order. Operand
// order of AND, OR and ONE_OF nodes matters here; see Equivalent for the
// order-insensitive comparison.
func Equal(a, b types.Tree) bool {
	if len(a.Nodes) != len(b.Nodes) {
		return false
	}
	for i := range a.Nodes {
		if !payloadEqual(a.Nodes[i], b.Nodes[i]) {
			return false
		}
		if !intsEqual(a.Nodes[i].Children, b.Nodes[i].Children) {
			return false
		}
	}
	return true
}

// NodeEqual reports whether two nodes denote the same fact: kind, name,
// negation and bound objects. Children are ignored and so is the value of
// a FUNCTION node, since functions are keyed by name and parameters.
func NodeEqual(a, b types.Node) bool {
	if a.Kind != b.Kind || a.Name != b.Name || a.Negate != b.Negate {
		return false
	}
	if a.Kind == types.KindNumber && a.Value != b.Value {
		return false
	}
	return paramsEqual(a.Parameters, b.Parameters)
}

// Key returns a string that is equal for two nodes exactly when NodeEqual
// holds for them.
func Key(n types.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	sb.WriteByte('|')
	sb.WriteString(n.Name)
	if n.Negate {
		sb.WriteString("|not")
	}
	if n.Kind == types.KindNumber {
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	}
	for _, p := range n.Parameters {
		sb.WriteByte('|')
		sb.WriteString(p.Name)
	}
	return sb.String()
}

// Equivalent compares a and b from their roots, treating the operands of
// AND, OR and ONE_OF nodes as unordered.
func Equivalent(a, b types.Tree) bool {
	if a.Empty() || b.Empty() {
		return a.Empty() && b.Empty()
	}
	return equivalentAt(a, 0, b, 0)
}

func equivalentAt(a types.Tree, ai int, b types.Tree, bi int) bool {
	if ai < 0 || ai >= len(a.Nodes) || bi < 0 || bi >= len(b.Nodes) {
		return false
	}
	na, nb := a.Nodes[ai], b.Nodes[bi]
	if !payloadEqual(na, nb) || len(na.Children) != len(nb.Children) {
		return false
	}
	switch na.Kind {
	case types.KindAnd, types.KindOr, types.KindOneOf:
		used := make([]bool, len(nb.Children))
		for _, ca := range na.Children {
			matched := false
			for j, cb := range nb.Children {
				if used[j] || !equivalentAt(a, ca, b, cb) {
					continue
				}
				used[j] = true
				matched = true
				break
			}
			if !matched {
				return false
			}
		}
		return true
	default:
		for i := range na.Children {
			if !equivalentAt(a, na.Children[i], b, nb.Children[i]) {
				return false
			}
		}
		return true
	}
}

func payloadEqual(a, b types.Node) bool {
	return a.Kind == b.Kind &&
		a.Name == b.Name &&
		a.Negate == b.Negate &&
		a.Value == b.Value &&
		paramsEqual(a.Parameters, b.Parameters)
}

func paramsEqual(a, b []types.Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
