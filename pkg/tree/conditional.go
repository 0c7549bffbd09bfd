package tree

import "github.com/mesh-intelligence/contingent/pkg/types"

// NewUnknown builds the flat encoding of an unresolved fact: an UNKNOWN
// operator at index 0 and the fact at index 1.
func NewUnknown(fact types.Node) types.Tree {
	var t types.Tree
	root := Append(&t, types.Node{Kind: types.KindUnknown})
	leaf := Append(&t, leafCopy(fact))
	t.Nodes[root].Children = []int{leaf}
	return t
}

// NewOneOf builds the flat encoding of a one-of group: a ONE_OF operator
// at index 0 and the candidate facts at indices 1..N, in the given order.
func NewOneOf(facts ...types.Node) types.Tree {
	var t types.Tree
	root := Append(&t, types.Node{Kind: types.KindOneOf})
	children := make([]int, 0, len(facts))
	for _, f := range facts {
		children = append(children, Append(&t, leafCopy(f)))
	}
	t.Nodes[root].Children = children
	return t
}

// Disjuncts returns copies of the operand nodes of a flat-encoded
// conditional, in operand order.
func Disjuncts(t types.Tree) []types.Node {
	if t.Empty() {
		return nil
	}
	out := make([]types.Node, 0, len(t.Nodes[0].Children))
	for _, c := range t.Nodes[0].Children {
		if c > 0 && c < len(t.Nodes) {
			out = append(out, t.Nodes[c].Clone())
		}
	}
	return out
}

// WithoutDisjunct rebuilds a ONE_OF group dropping every operand equal to
// fact. Survivors are renumbered contiguously from 1. It returns the new
// group, the number of survivors and whether anything was dropped.
func WithoutDisjunct(group types.Tree, fact types.Node) (types.Tree, int, bool) {
	var kept []types.Node
	dropped := false
	for _, d := range Disjuncts(group) {
		if NodeEqual(d, fact) {
			dropped = true
			continue
		}
		kept = append(kept, d)
	}
	return NewOneOf(kept...), len(kept), dropped
}

func leafCopy(n types.Node) types.Node {
	c := n.Clone()
	c.Children = nil
	return c
}
