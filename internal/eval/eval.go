// Package eval decides goal satisfaction over a snapshot of known facts.
//
// Predicate membership is answered by a Mangle in-memory fact store built
// from the snapshot; numeric expressions are computed directly from the
// function values.
package eval

import (
	"fmt"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Evaluator implements types.Evaluator with propositional semantics for
// AND, OR and NOT and numeric comparison semantics for expressions.
type Evaluator struct {
	logger *zap.Logger
}

var _ types.Evaluator = (*Evaluator)(nil)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// snapshot is the indexed view of one Evaluate call's facts.
type snapshot struct {
	facts  factstore.FactStore
	values map[string]float64
}

// Evaluate reports whether the subtree of t rooted at root holds given the
// predicates and functions. UNKNOWN, ONE_OF and FUNCTION_MODIFIER nodes
// yield types.ErrInvalidEvaluation.
func (e *Evaluator) Evaluate(t types.Tree, root int, predicates []types.Node, functions []types.Node) (bool, error) {
	if root < 0 || root >= len(t.Nodes) {
		return false, fmt.Errorf("%w: root %d outside tree of %d nodes", types.ErrInvalidEvaluation, root, len(t.Nodes))
	}
	s := newSnapshot(predicates, functions)
	ok, err := s.holds(t, root)
	if err != nil {
		e.logger.Debug("evaluation failed",
			zap.String("expr", tree.String(t, root)),
			zap.Error(err))
		return false, err
	}
	return ok, nil
}

func newSnapshot(predicates, functions []types.Node) *snapshot {
	s := &snapshot{
		facts:  factstore.NewSimpleInMemoryStore(),
		values: make(map[string]float64, len(functions)),
	}
	for _, p := range predicates {
		if p.Kind != types.KindPredicate || p.Negate {
			continue
		}
		s.facts.Add(atom(p))
	}
	for _, f := range functions {
		s.values[tree.Key(f)] = f.Value
	}
	return s
}

func atom(n types.Node) ast.Atom {
	terms := make([]ast.BaseTerm, len(n.Parameters))
	for i, p := range n.Parameters {
		terms[i] = ast.String(p.Name)
	}
	return ast.NewAtom(n.Name, terms...)
}

func (s *snapshot) known(n types.Node) bool {
	return s.facts.Contains(atom(n))
}

func (s *snapshot) holds(t types.Tree, i int) (bool, error) {
	n := t.Nodes[i]
	if err := operandsAfter(t, i, n.Children); err != nil {
		return false, err
	}
	switch n.Kind {
	case types.KindAnd:
		for _, c := range n.Children {
			ok, err := s.holds(t, c)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case types.KindOr:
		for _, c := range n.Children {
			ok, err := s.holds(t, c)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case types.KindNot:
		if len(n.Children) != 1 {
			return false, fmt.Errorf("%w: not takes one operand, got %d", types.ErrInvalidEvaluation, len(n.Children))
		}
		ok, err := s.holds(t, n.Children[0])
		return !ok && err == nil, err
	case types.KindPredicate:
		return s.known(n) != n.Negate, nil
	case types.KindExpression:
		return s.compare(t, n)
	case types.KindUnknown, types.KindOneOf, types.KindFunctionModifier,
		types.KindFunction, types.KindNumber, types.KindUndefined:
		return false, fmt.Errorf("%w: %s node in boolean position", types.ErrInvalidEvaluation, n.Kind)
	default:
		return false, fmt.Errorf("%w: unrecognized node kind %s", types.ErrInvalidEvaluation, n.Kind)
	}
}

// operandsAfter rejects child indices that are out of range or do not
// follow their parent, which would otherwise loop forever.
func operandsAfter(t types.Tree, parent int, children []int) error {
	for _, c := range children {
		if c <= parent || c >= len(t.Nodes) {
			return fmt.Errorf("%w: node %d has operand index %d", types.ErrInvalidEvaluation, parent, c)
		}
	}
	return nil
}

func (s *snapshot) compare(t types.Tree, n types.Node) (bool, error) {
	if len(n.Children) != 2 {
		return false, fmt.Errorf("%w: %q takes two operands, got %d", types.ErrInvalidEvaluation, n.Name, len(n.Children))
	}
	lhs, err := s.value(t, n.Children[0])
	if err != nil {
		return false, err
	}
	rhs, err := s.value(t, n.Children[1])
	if err != nil {
		return false, err
	}
	switch n.Name {
	case ">":
		return lhs > rhs, nil
	case "<":
		return lhs < rhs, nil
	case ">=":
		return lhs >= rhs, nil
	case "<=":
		return lhs <= rhs, nil
	case "=":
		return lhs == rhs, nil
	default:
		return false, fmt.Errorf("%w: %q is not a comparison", types.ErrInvalidEvaluation, n.Name)
	}
}

func (s *snapshot) value(t types.Tree, i int) (float64, error) {
	n := t.Nodes[i]
	if err := operandsAfter(t, i, n.Children); err != nil {
		return 0, err
	}
	switch n.Kind {
	case types.KindNumber:
		return n.Value, nil
	case types.KindFunction:
		v, ok := s.values[tree.Key(n)]
		if !ok {
			return 0, fmt.Errorf("%w: %s", types.ErrMissingFunction, tree.LeafString(n))
		}
		return v, nil
	case types.KindExpression:
		return s.arithmetic(t, n)
	default:
		return 0, fmt.Errorf("%w: %s node in numeric position", types.ErrInvalidEvaluation, n.Kind)
	}
}

func (s *snapshot) arithmetic(t types.Tree, n types.Node) (float64, error) {
	operands := make([]float64, len(n.Children))
	for k, c := range n.Children {
		v, err := s.value(t, c)
		if err != nil {
			return 0, err
		}
		operands[k] = v
	}
	if n.Name == "-" && len(operands) == 1 {
		return -operands[0], nil
	}
	if len(operands) != 2 {
		return 0, fmt.Errorf("%w: %q takes two operands, got %d", types.ErrInvalidEvaluation, n.Name, len(operands))
	}
	a, b := operands[0], operands[1]
	switch n.Name {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, types.ErrDivisionByZero
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("%w: %q is not an arithmetic operator", types.ErrInvalidEvaluation, n.Name)
	}
}
