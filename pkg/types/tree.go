package types

// Tree is an arena of nodes addressed by index. The root is index 0.
// Conditionals use a flat encoding: index 0 is the UNKNOWN or ONE_OF
// operator and indices 1..N are its operand leaves.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Goal is the expression the planner must make true.
type Goal = Tree

// Empty reports whether the tree has no nodes.
func (t Tree) Empty() bool {
	return len(t.Nodes) == 0
}

// Root returns the root node. It panics on an empty tree.
func (t Tree) Root() Node {
	return t.Nodes[0]
}

// RootKind returns the kind of the root node, or KindUndefined for an
// empty tree.
func (t Tree) RootKind() NodeKind {
	if t.Empty() {
		return KindUndefined
	}
	return t.Nodes[0].Kind
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t.Nodes == nil {
		return Tree{}
	}
	nodes := make([]Node, len(t.Nodes))
	for i, n := range t.Nodes {
		nodes[i] = n.Clone()
	}
	return Tree{Nodes: nodes}
}
