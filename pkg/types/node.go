package types

import "fmt"

// NodeKind discriminates the payload carried by a Node.
// The zero value is deliberately not a valid kind.
type NodeKind uint8

// Node kinds of an expression tree.
const (
	KindUndefined NodeKind = iota
	KindAnd
	KindOr
	KindNot
	KindUnknown
	KindOneOf
	KindPredicate
	KindFunction
	KindExpression
	KindFunctionModifier
	KindNumber
)

var kindNames = map[NodeKind]string{
	KindUndefined:        "undefined",
	KindAnd:              "and",
	KindOr:               "or",
	KindNot:              "not",
	KindUnknown:          "unknown",
	KindOneOf:            "oneof",
	KindPredicate:        "predicate",
	KindFunction:         "function",
	KindExpression:       "expression",
	KindFunctionModifier: "function_modifier",
	KindNumber:           "number",
}

// String returns the lower-case name of the kind.
func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsLeaf reports whether nodes of this kind carry no children.
func (k NodeKind) IsLeaf() bool {
	return k == KindPredicate || k == KindFunction || k == KindNumber
}

// Param binds a parameter position to an object name. Type is optional
// and informational; equality only considers Name.
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Node is one element of a Tree arena. Which fields are meaningful
// depends on Kind:
//
//	and, or, not, unknown, oneof      Children
//	expression, function_modifier     Name (operator), Children
//	predicate                         Name, Parameters, Negate
//	function                          Name, Parameters, Value
//	number                            Value
type Node struct {
	Kind       NodeKind `json:"kind"`
	Name       string   `json:"name,omitempty"`
	Parameters []Param  `json:"parameters,omitempty"`
	Negate     bool     `json:"negate,omitempty"`
	Value      float64  `json:"value,omitempty"`
	Children   []int    `json:"children,omitempty"`
}

// Predicate is a grounded predicate stored as a standalone PREDICATE leaf.
type Predicate = Node

// Function is a grounded numeric function stored as a standalone FUNCTION leaf.
type Function = Node

// NewPredicate builds a PREDICATE leaf bound to the given objects.
func NewPredicate(name string, objects ...string) Node {
	return Node{Kind: KindPredicate, Name: name, Parameters: params(objects)}
}

// NewFunction builds a FUNCTION leaf bound to the given objects.
func NewFunction(name string, value float64, objects ...string) Node {
	return Node{Kind: KindFunction, Name: name, Parameters: params(objects), Value: value}
}

// ObjectNames returns the bound object names in parameter order.
func (n Node) ObjectNames() []string {
	names := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		names[i] = p.Name
	}
	return names
}

// References reports whether any parameter is bound to the named object.
func (n Node) References(object string) bool {
	for _, p := range n.Parameters {
		if p.Name == object {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	c := n
	if n.Parameters != nil {
		c.Parameters = append([]Param(nil), n.Parameters...)
	}
	if n.Children != nil {
		c.Children = append([]int(nil), n.Children...)
	}
	return c
}

func params(objects []string) []Param {
	if len(objects) == 0 {
		return nil
	}
	ps := make([]Param, len(objects))
	for i, o := range objects {
		ps[i] = Param{Name: o}
	}
	return ps
}
