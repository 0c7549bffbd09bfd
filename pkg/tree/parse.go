package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

var comparisons = map[string]bool{">": true, "<": true, ">=": true, "<=": true, "=": true}

var arithmetic = map[string]bool{"+": true, "-": true, "*": true, "/": true}

var modifiers = map[string]bool{
	"assign":     true,
	"increase":   true,
	"decrease":   true,
	"scale-up":   true,
	"scale-down": true,
}

// Parse reads one expression and builds its tree in pre-order with the root
// at index 0. A flat conditional (oneof a b) comes out as 0:oneof, 1:a, 2:b.
func Parse(expr string) (types.Tree, error) {
	e, err := ReadSExpr(expr)
	if err != nil {
		return types.Tree{}, err
	}
	return FromSExpr(e)
}

// FromSExpr builds a tree from an already-read s-expression.
func FromSExpr(e SExpr) (types.Tree, error) {
	var t types.Tree
	if _, err := build(&t, e, false); err != nil {
		return types.Tree{}, err
	}
	return t, nil
}

// ParsePredicate reads a single grounded predicate such as
// "(robot_at r1 kitchen)". A predicate wrapped in (not ...) comes back
// with Negate set.
func ParsePredicate(expr string) (types.Node, error) {
	t, err := Parse(expr)
	if err != nil {
		return types.Node{}, err
	}
	return PredicateFromTree(t)
}

// PredicateFromTree converts a parsed predicate tree to a standalone leaf.
func PredicateFromTree(t types.Tree) (types.Node, error) {
	root := t.Nodes[0]
	switch {
	case root.Kind == types.KindPredicate:
		return leafCopy(root), nil
	case root.Kind == types.KindNot && len(root.Children) == 1 &&
		t.Nodes[root.Children[0]].Kind == types.KindPredicate:
		p := leafCopy(t.Nodes[root.Children[0]])
		p.Negate = !p.Negate
		return p, nil
	default:
		return types.Node{}, fmt.Errorf("%w: %s is not a predicate", ErrSyntax, String(t, 0))
	}
}

// ParseFunction reads a grounded function, either bare as
// "(battery r1)" or with a value as "(= (battery r1) 80)".
func ParseFunction(expr string) (types.Node, error) {
	e, err := ReadSExpr(expr)
	if err != nil {
		return types.Node{}, err
	}
	return FunctionFromSExpr(e)
}

// FunctionFromSExpr converts "(f a)" or "(= (f a) v)" to a FUNCTION leaf.
func FunctionFromSExpr(e SExpr) (types.Node, error) {
	if e.Head() == "=" && len(e.List) == 3 && e.List[1].IsList && !e.List[2].IsList {
		f, err := FunctionFromSExpr(e.List[1])
		if err != nil {
			return types.Node{}, err
		}
		v, err := strconv.ParseFloat(e.List[2].Atom, 64)
		if err != nil {
			return types.Node{}, fmt.Errorf("%w: bad number %q at offset %d", ErrSyntax, e.List[2].Atom, e.List[2].Pos)
		}
		f.Value = v
		return f, nil
	}
	var t types.Tree
	if _, err := build(&t, e, true); err != nil {
		return types.Node{}, err
	}
	if t.Nodes[0].Kind != types.KindFunction {
		return types.Node{}, fmt.Errorf("%w: %s is not a function", ErrSyntax, e.String())
	}
	return leafCopy(t.Nodes[0]), nil
}

// build appends e and its operands to t. numeric selects how a bare
// (name args...) list is read: FUNCTION inside arithmetic, PREDICATE
// elsewhere.
func build(t *types.Tree, e SExpr, numeric bool) (int, error) {
	if !e.IsList {
		v, err := strconv.ParseFloat(e.Atom, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: unexpected atom %q at offset %d", ErrSyntax, e.Atom, e.Pos)
		}
		return Append(t, types.Node{Kind: types.KindNumber, Value: v}), nil
	}
	if len(e.List) == 0 {
		return 0, fmt.Errorf("%w: empty list at offset %d", ErrSyntax, e.Pos)
	}
	head := e.Head()
	if head == "" {
		return 0, fmt.Errorf("%w: list must start with a name at offset %d", ErrSyntax, e.Pos)
	}
	args := e.List[1:]

	var kind types.NodeKind
	name := ""
	operandsNumeric := false
	keyword := strings.ToLower(head)
	switch {
	case keyword == "and":
		kind = types.KindAnd
	case keyword == "or":
		kind = types.KindOr
	case keyword == "not":
		kind = types.KindNot
		if len(args) != 1 {
			return 0, fmt.Errorf("%w: not takes one operand at offset %d", ErrSyntax, e.Pos)
		}
	case keyword == "unknown":
		kind = types.KindUnknown
	case keyword == "oneof":
		kind = types.KindOneOf
	case comparisons[head], arithmetic[head]:
		kind, name, operandsNumeric = types.KindExpression, head, true
	case modifiers[keyword]:
		kind, name, operandsNumeric = types.KindFunctionModifier, keyword, true
	default:
		return buildLeaf(t, e, numeric)
	}

	at := Append(t, types.Node{Kind: kind, Name: name})
	children := make([]int, 0, len(args))
	for _, a := range args {
		ci, err := build(t, a, operandsNumeric)
		if err != nil {
			return 0, err
		}
		children = append(children, ci)
	}
	t.Nodes[at].Children = children
	return at, nil
}

func buildLeaf(t *types.Tree, e SExpr, numeric bool) (int, error) {
	n := types.Node{Kind: types.KindPredicate, Name: e.Head()}
	if numeric {
		n.Kind = types.KindFunction
	}
	for _, a := range e.List[1:] {
		if a.IsList {
			return 0, fmt.Errorf("%w: nested list in %s at offset %d", ErrSyntax, n.Name, a.Pos)
		}
		n.Parameters = append(n.Parameters, types.Param{Name: a.Atom})
	}
	return Append(t, n), nil
}
