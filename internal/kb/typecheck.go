package kb

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Rejection categories attached to validation diagnostics.
const (
	reasonSchema      = "schema"
	reasonReferential = "referential"
	reasonMalformed   = "malformed"
)

// violation is one reason a tree failed validation.
type violation struct {
	category string
	detail   string
}

// checker walks a tree and records every violation it finds. It does not
// stop at the first failure so that diagnostics name all of them.
type checker struct {
	kb         *KnowledgeBase
	violations []violation
}

func (c *checker) fail(category, format string, args ...any) bool {
	c.violations = append(c.violations, violation{category: category, detail: fmt.Sprintf(format, args...)})
	return false
}

func (c *checker) node(t types.Tree, i int) bool {
	if i < 0 || i >= len(t.Nodes) {
		return c.fail(reasonMalformed, "child index %d outside tree of %d nodes", i, len(t.Nodes))
	}
	n := t.Nodes[i]
	switch n.Kind {
	case types.KindAnd, types.KindOr, types.KindExpression, types.KindFunctionModifier, types.KindOneOf:
		return c.children(t, i, n.Children)
	case types.KindNot:
		if len(n.Children) != 1 {
			c.children(t, i, n.Children)
			return c.fail(reasonMalformed, "not at %d has %d operands", i, len(n.Children))
		}
		return c.children(t, i, n.Children)
	case types.KindUnknown:
		if len(n.Children) != 1 {
			c.children(t, i, n.Children)
			return c.fail(reasonMalformed, "unknown at %d has %d operands", i, len(n.Children))
		}
		return c.children(t, i, n.Children)
	case types.KindPredicate:
		sig, ok := c.kb.schema.Predicate(n.Name)
		if !ok {
			return c.fail(reasonSchema, "predicate %q is not declared", n.Name)
		}
		return c.params(n, sig)
	case types.KindFunction:
		sig, ok := c.kb.schema.Function(n.Name)
		if !ok {
			return c.fail(reasonSchema, "function %q is not declared", n.Name)
		}
		return c.params(n, sig)
	case types.KindNumber:
		return true
	default:
		c.kb.logger.Warn("unrecognized node kind",
			zap.Int("index", i),
			zap.Stringer("kind", n.Kind))
		return c.fail(reasonMalformed, "unrecognized node kind %s at %d", n.Kind, i)
	}
}

// children checks the operands of the node at parent. Operands are always
// appended after their parent, so a smaller index would form a cycle.
func (c *checker) children(t types.Tree, parent int, children []int) bool {
	ok := true
	for _, ci := range children {
		if ci <= parent {
			ok = c.fail(reasonMalformed, "node %d refers back to %d", parent, ci)
			continue
		}
		if !c.node(t, ci) {
			ok = false
		}
	}
	return ok
}

func (c *checker) params(n types.Node, sig types.Signature) bool {
	if len(n.Parameters) != len(sig.Params) {
		return c.fail(reasonSchema, "%s takes %d parameters, got %d", n.Name, len(sig.Params), len(n.Parameters))
	}
	ok := true
	for i, p := range n.Parameters {
		inst, found := c.kb.instance(p.Name)
		if !found {
			ok = c.fail(reasonReferential, "%s parameter %d names unknown object %q", n.Name, i, p.Name)
			continue
		}
		if !sig.Params[i].Accepts(inst.Type) {
			ok = c.fail(reasonSchema, "%s parameter %d wants %s, %q is %s", n.Name, i, sig.Params[i].Type, p.Name, inst.Type)
		}
	}
	return ok
}

// check validates t from root and logs the violations when it fails.
func (k *KnowledgeBase) check(op string, t types.Tree, root int) bool {
	c := &checker{kb: k}
	if c.node(t, root) {
		return true
	}
	k.reject(op, c.violations)
	return false
}

func (k *KnowledgeBase) reject(op string, violations []violation) {
	if ce := k.logger.Check(zap.DebugLevel, "rejected"); ce != nil {
		categories := make([]string, len(violations))
		details := make([]string, len(violations))
		for i, v := range violations {
			categories[i] = v.category
			details[i] = v.detail
		}
		ce.Write(
			zap.String("op", op),
			zap.Strings("categories", categories),
			zap.Strings("details", details))
	}
}

func (k *KnowledgeBase) validPredicate(op string, p types.Node) bool {
	if p.Kind != types.KindPredicate {
		k.reject(op, []violation{{reasonMalformed, fmt.Sprintf("expected predicate, got %s", p.Kind)}})
		return false
	}
	if p.Negate {
		k.reject(op, []violation{{reasonMalformed, "stored facts cannot be negated"}})
		return false
	}
	return k.check(op, types.Tree{Nodes: []types.Node{p}}, 0)
}

func (k *KnowledgeBase) validFunction(op string, f types.Node) bool {
	if f.Kind != types.KindFunction {
		k.reject(op, []violation{{reasonMalformed, fmt.Sprintf("expected function, got %s", f.Kind)}})
		return false
	}
	return k.check(op, types.Tree{Nodes: []types.Node{f}}, 0)
}

// validConditional also enforces the flat encoding: every operand of the
// UNKNOWN or ONE_OF root is a plain predicate leaf.
func (k *KnowledgeBase) validConditional(op string, t types.Tree) bool {
	if t.Empty() {
		k.reject(op, []violation{{reasonMalformed, "empty conditional"}})
		return false
	}
	root := t.Root()
	if root.Kind != types.KindUnknown && root.Kind != types.KindOneOf {
		k.reject(op, []violation{{reasonMalformed, fmt.Sprintf("conditional root must be unknown or oneof, got %s", root.Kind)}})
		return false
	}
	if root.Kind == types.KindOneOf && len(root.Children) == 0 {
		k.reject(op, []violation{{reasonMalformed, "oneof without disjuncts"}})
		return false
	}
	for _, ci := range root.Children {
		if ci > 0 && ci < len(t.Nodes) && t.Nodes[ci].Kind != types.KindPredicate {
			k.reject(op, []violation{{reasonMalformed, fmt.Sprintf("conditional operand %d is %s, not a predicate", ci, t.Nodes[ci].Kind)}})
			return false
		}
		if ci > 0 && ci < len(t.Nodes) && t.Nodes[ci].Negate {
			k.reject(op, []violation{{reasonMalformed, fmt.Sprintf("conditional operand %d is negated", ci)}})
			return false
		}
	}
	return k.check(op, t, 0)
}

func (k *KnowledgeBase) validGoal(op string, t types.Tree) bool {
	if t.Empty() {
		k.reject(op, []violation{{reasonMalformed, "empty goal"}})
		return false
	}
	switch kind := t.RootKind(); kind {
	case types.KindUnknown, types.KindOneOf:
		k.reject(op, []violation{{reasonMalformed, fmt.Sprintf("goal root cannot be %s", kind)}})
		return false
	}
	return k.check(op, t, 0)
}
