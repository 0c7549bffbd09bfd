package kb

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// AddConditional stores an UNKNOWN or ONE_OF conditional. A stored equal
// conditional is a success without change. A ONE_OF with a single
// disjunct is not stored; its disjunct becomes a certain predicate.
func (k *KnowledgeBase) AddConditional(conditional types.Tree) bool {
	if k.conditionalIndex(conditional) >= 0 {
		return true
	}
	if !k.validConditional("add_conditional", conditional) {
		return false
	}
	root := conditional.Root()
	if root.Kind == types.KindOneOf && len(root.Children) == 1 {
		return k.collapse(conditional.Nodes[root.Children[0]])
	}
	k.conditionals = append(k.conditionals, conditional.Clone())
	return true
}

// collapse turns the last surviving disjunct of a group into a predicate.
func (k *KnowledgeBase) collapse(fact types.Node) bool {
	certain := k.ExistPredicate(fact)
	if !k.AddPredicate(fact) {
		return false
	}
	if !certain {
		k.collapsed[factKey(fact)] = true
	}
	k.logger.Debug("one-of collapsed", zap.String("fact", tree.LeafString(fact)))
	return true
}

// replacement is one planned change to a stored ONE_OF group.
type replacement struct {
	old      types.Tree
	filtered types.Tree
	keep     bool
}

// RemoveConditional removes an equal stored conditional. When the input is
// an UNKNOWN, its fact is also struck from every stored ONE_OF group: each
// affected group is deleted and, if any disjunct survives, re-added through
// AddConditional so that a single survivor collapses. A predicate that
// earlier came from such a collapse is retracted too. It reports false only
// when the input is invalid.
func (k *KnowledgeBase) RemoveConditional(conditional types.Tree) bool {
	if !k.validConditional("remove_conditional", conditional) {
		return false
	}

	var plan []replacement
	var fact types.Node
	resolving := conditional.RootKind() == types.KindUnknown
	if resolving {
		fact = conditional.Nodes[conditional.Root().Children[0]]
		for _, c := range k.conditionals {
			if c.RootKind() != types.KindOneOf {
				continue
			}
			filtered, survivors, dropped := tree.WithoutDisjunct(c, fact)
			if dropped {
				plan = append(plan, replacement{old: c, filtered: filtered, keep: survivors > 0})
			}
		}
	}

	k.deleteConditional(conditional)
	for _, r := range plan {
		k.deleteConditional(r.old)
	}
	for _, r := range plan {
		if r.keep && !k.AddConditional(r.filtered) {
			k.logger.Debug("filtered group dropped", zap.String("group", tree.String(r.filtered, 0)))
		}
	}
	if resolving && k.collapsed[factKey(fact)] {
		k.dropPredicate(fact)
		k.logger.Debug("collapsed fact retracted", zap.String("fact", tree.LeafString(fact)))
	}
	if len(plan) > 0 {
		k.logger.Debug("one-of groups revised",
			zap.String("fact", tree.LeafString(fact)),
			zap.Int("groups", len(plan)))
	}
	return true
}

func (k *KnowledgeBase) deleteConditional(conditional types.Tree) {
	if i := k.conditionalIndex(conditional); i >= 0 {
		k.conditionals = append(k.conditionals[:i], k.conditionals[i+1:]...)
	}
}

func (k *KnowledgeBase) conditionalIndex(conditional types.Tree) int {
	for i, c := range k.conditionals {
		if tree.Equal(c, conditional) {
			return i
		}
	}
	return -1
}

// ExistConditional reports whether an equal conditional is stored. ONE_OF
// equality is order sensitive.
func (k *KnowledgeBase) ExistConditional(conditional types.Tree) bool {
	return k.conditionalIndex(conditional) >= 0
}

// GetConditionals returns copies of the stored conditionals.
func (k *KnowledgeBase) GetConditionals() []types.Tree {
	if k.conditionals == nil {
		return nil
	}
	out := make([]types.Tree, len(k.conditionals))
	for i, c := range k.conditionals {
		out[i] = c.Clone()
	}
	return out
}
