package kb

import (
	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

func factKey(n types.Node) string {
	return tree.Key(n)
}

// leaf strips the fields a stored fact does not carry.
func leaf(n types.Node, keepValue bool) types.Node {
	out := n.Clone()
	out.Children = nil
	if !keepValue {
		out.Value = 0
	}
	return out
}

func indexOf(facts []types.Node, n types.Node) int {
	for i, f := range facts {
		if tree.NodeEqual(f, n) {
			return i
		}
	}
	return -1
}

func cloneNodes(nodes []types.Node) []types.Node {
	if nodes == nil {
		return nil
	}
	out := make([]types.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// AddPredicate inserts a certain predicate. An equal predicate already in
// the store is a success without validation.
func (k *KnowledgeBase) AddPredicate(predicate types.Node) bool {
	if indexOf(k.predicates, predicate) >= 0 {
		delete(k.collapsed, factKey(predicate))
		return true
	}
	if !k.validPredicate("add_predicate", predicate) {
		return false
	}
	k.predicates = append(k.predicates, leaf(predicate, false))
	return true
}

// RemovePredicate removes an equal predicate if present. It reports false
// only when the predicate itself is invalid.
func (k *KnowledgeBase) RemovePredicate(predicate types.Node) bool {
	if !k.validPredicate("remove_predicate", predicate) {
		return false
	}
	k.dropPredicate(predicate)
	return true
}

func (k *KnowledgeBase) dropPredicate(predicate types.Node) bool {
	i := indexOf(k.predicates, predicate)
	if i < 0 {
		return false
	}
	k.predicates = append(k.predicates[:i], k.predicates[i+1:]...)
	delete(k.collapsed, factKey(predicate))
	return true
}

// ExistPredicate reports whether an equal predicate is stored.
func (k *KnowledgeBase) ExistPredicate(predicate types.Node) bool {
	return indexOf(k.predicates, predicate) >= 0
}

// GetPredicates returns copies of the stored predicates in insertion order.
func (k *KnowledgeBase) GetPredicates() []types.Node {
	return cloneNodes(k.predicates)
}

// GetPredicate parses expr, for example "(robot_at r1 kitchen)", and returns
// the equal stored predicate.
func (k *KnowledgeBase) GetPredicate(expr string) (types.Node, bool) {
	p, err := tree.ParsePredicate(expr)
	if err != nil {
		return types.Node{}, false
	}
	i := indexOf(k.predicates, p)
	if i < 0 {
		return types.Node{}, false
	}
	return k.predicates[i].Clone(), true
}

// AddFunction inserts a function, or overwrites the value of the stored
// function with the same name and parameters.
func (k *KnowledgeBase) AddFunction(function types.Node) bool {
	if i := indexOf(k.functions, function); i >= 0 {
		k.functions[i].Value = function.Value
		return true
	}
	if !k.validFunction("add_function", function) {
		return false
	}
	k.functions = append(k.functions, leaf(function, true))
	return true
}

// UpdateFunction overwrites the value of a stored function. It fails when
// the function is invalid or not stored.
func (k *KnowledgeBase) UpdateFunction(function types.Node) bool {
	if !k.validFunction("update_function", function) {
		return false
	}
	i := indexOf(k.functions, function)
	if i < 0 {
		return false
	}
	k.functions[i].Value = function.Value
	return true
}

// RemoveFunction removes the stored function with the same name and
// parameters. It reports false only when the function itself is invalid.
func (k *KnowledgeBase) RemoveFunction(function types.Node) bool {
	if !k.validFunction("remove_function", function) {
		return false
	}
	if i := indexOf(k.functions, function); i >= 0 {
		k.functions = append(k.functions[:i], k.functions[i+1:]...)
	}
	return true
}

// ExistFunction reports whether a function with the same name and
// parameters is stored, whatever its value.
func (k *KnowledgeBase) ExistFunction(function types.Node) bool {
	return indexOf(k.functions, function) >= 0
}

// GetFunctions returns copies of the stored functions in insertion order.
func (k *KnowledgeBase) GetFunctions() []types.Node {
	return cloneNodes(k.functions)
}

// GetFunction parses expr, either "(battery r1)" or "(= (battery r1) 40)",
// and returns the stored function with its current value.
func (k *KnowledgeBase) GetFunction(expr string) (types.Node, bool) {
	f, err := tree.ParseFunction(expr)
	if err != nil {
		return types.Node{}, false
	}
	i := indexOf(k.functions, f)
	if i < 0 {
		return types.Node{}, false
	}
	return k.functions[i].Clone(), true
}
