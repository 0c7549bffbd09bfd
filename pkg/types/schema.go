package types

// ParamSpec declares the type accepted at one parameter position.
// SubTypes lists every type that is also accepted there (all
// descendants of Type in the domain hierarchy).
type ParamSpec struct {
	Type     string   `json:"type"`
	SubTypes []string `json:"sub_types,omitempty"`
}

// Accepts reports whether an object of the given type may be bound to
// this parameter.
func (p ParamSpec) Accepts(objectType string) bool {
	if objectType == p.Type {
		return true
	}
	for _, st := range p.SubTypes {
		if st == objectType {
			return true
		}
	}
	return false
}

// Signature is the parameter-type signature of a predicate or function.
type Signature struct {
	Name   string      `json:"name"`
	Params []ParamSpec `json:"params"`
}

// Schema is the read-only view of a planning domain consulted by the
// knowledge base. The knowledge base queries it on every validation and
// never caches the answers.
type Schema interface {
	// Name returns the domain name.
	Name() string

	// Types returns every declared type name.
	Types() []string

	// TypeExists reports whether name is a declared type.
	TypeExists(name string) bool

	// Predicate returns the signature of the named predicate. The boolean
	// is false when the domain does not declare it.
	Predicate(name string) (Signature, bool)

	// Function returns the signature of the named function. The boolean
	// is false when the domain does not declare it.
	Function(name string) (Signature, bool)

	// Constants returns the objects the domain itself declares.
	Constants() []Instance
}

// Evaluator decides whether an expression holds over a set of facts.
// UNKNOWN and ONE_OF nodes are not valid evaluator input.
type Evaluator interface {
	Evaluate(tree Tree, root int, predicates []Node, functions []Node) (bool, error)
}
