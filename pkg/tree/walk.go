package tree

import "github.com/mesh-intelligence/contingent/pkg/types"

// Subtrees splits t into its top-level subgoals. The operands of a root
// AND or OR become standalone trees; any other root yields the whole tree
// as the only subgoal. An empty tree has no subgoals.
func Subtrees(t types.Tree) []types.Tree {
	if t.Empty() {
		return nil
	}
	root := t.Nodes[0]
	if root.Kind != types.KindAnd && root.Kind != types.KindOr {
		return []types.Tree{t.Clone()}
	}
	subtrees := make([]types.Tree, 0, len(root.Children))
	for _, c := range root.Children {
		subtrees = append(subtrees, Extract(t, c))
	}
	return subtrees
}

// Extract copies the subtree rooted at root into a fresh arena whose root
// is index 0. Nodes are renumbered in pre-order.
func Extract(t types.Tree, root int) types.Tree {
	var out types.Tree
	if root < 0 || root >= len(t.Nodes) {
		return out
	}
	copySubtree(t, root, &out)
	return out
}

func copySubtree(src types.Tree, idx int, dst *types.Tree) int {
	n := src.Nodes[idx].Clone()
	children := n.Children
	n.Children = nil
	at := Append(dst, n)
	for _, c := range children {
		if c < 0 || c >= len(src.Nodes) {
			continue
		}
		ci := copySubtree(src, c, dst)
		dst.Nodes[at].Children = append(dst.Nodes[at].Children, ci)
	}
	return at
}

// Canonical copies t, writing every negated PREDICATE leaf as a NOT node
// over the plain leaf. That is the shape Parse gives "(not (p a))".
func Canonical(t types.Tree) types.Tree {
	var out types.Tree
	if t.Empty() {
		return out
	}
	canonical(t, 0, &out)
	return out
}

func canonical(src types.Tree, idx int, dst *types.Tree) int {
	n := src.Nodes[idx].Clone()
	children := n.Children
	n.Children = nil
	if n.Kind == types.KindPredicate && n.Negate {
		n.Negate = false
		at := Append(dst, types.Node{Kind: types.KindNot})
		leaf := Append(dst, n)
		dst.Nodes[at].Children = []int{leaf}
		return at
	}
	at := Append(dst, n)
	for _, c := range children {
		if c <= idx || c >= len(src.Nodes) {
			continue
		}
		ci := canonical(src, c, dst)
		dst.Nodes[at].Children = append(dst.Nodes[at].Children, ci)
	}
	return at
}

// FromSubtrees joins subtrees under a new AND or OR root. With any other
// kind a single subtree is returned unchanged. The boolean is false when
// there is nothing to join.
func FromSubtrees(subtrees []types.Tree, kind types.NodeKind) (types.Tree, bool) {
	if len(subtrees) == 0 {
		return types.Tree{}, false
	}
	if kind != types.KindAnd && kind != types.KindOr {
		if len(subtrees) != 1 {
			return types.Tree{}, false
		}
		return subtrees[0].Clone(), true
	}
	var out types.Tree
	root := Append(&out, types.Node{Kind: kind})
	for _, st := range subtrees {
		if st.Empty() {
			continue
		}
		ci := copySubtree(st, 0, &out)
		out.Nodes[root].Children = append(out.Nodes[root].Children, ci)
	}
	return out, true
}

// Predicates returns copies of the PREDICATE leaves reachable from root.
func Predicates(t types.Tree, root int) []types.Node {
	return collect(t, root, types.KindPredicate)
}

// Functions returns copies of the FUNCTION leaves reachable from root.
func Functions(t types.Tree, root int) []types.Node {
	return collect(t, root, types.KindFunction)
}

func collect(t types.Tree, root int, kind types.NodeKind) []types.Node {
	var out []types.Node
	seen := make(map[int]bool)
	var walk func(int)
	walk = func(i int) {
		if i < 0 || i >= len(t.Nodes) || seen[i] {
			return
		}
		seen[i] = true
		n := t.Nodes[i]
		if n.Kind == kind {
			out = append(out, n.Clone())
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// References reports whether any predicate or function leaf reachable from
// the root of t is bound to the named object.
func References(t types.Tree, object string) bool {
	for _, p := range Predicates(t, 0) {
		if p.References(object) {
			return true
		}
	}
	for _, f := range Functions(t, 0) {
		if f.References(object) {
			return true
		}
	}
	return false
}
