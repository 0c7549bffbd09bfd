package kb

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// SetGoal replaces the goal. The root may not be UNKNOWN or ONE_OF. A
// negated predicate leaf is stored as a NOT over the plain leaf.
func (k *KnowledgeBase) SetGoal(goal types.Tree) bool {
	if !k.validGoal("set_goal", goal) {
		return false
	}
	k.goal = tree.Canonical(goal)
	return true
}

// ClearGoal empties the goal.
func (k *KnowledgeBase) ClearGoal() {
	k.goal = types.Tree{}
}

// GetGoal returns a copy of the goal.
func (k *KnowledgeBase) GetGoal() types.Tree {
	return k.goal.Clone()
}

// IsGoalSatisfied evaluates goal against the stored predicates and
// functions. An empty goal and an evaluation error both count as not
// satisfied.
func (k *KnowledgeBase) IsGoalSatisfied(goal types.Tree) bool {
	if goal.Empty() {
		return false
	}
	ok, err := k.evaluator.Evaluate(goal, 0, k.predicates, k.functions)
	if err != nil {
		k.logger.Debug("goal not evaluable", zap.String("goal", tree.String(goal, 0)), zap.Error(err))
		return false
	}
	return ok
}

// IsCurrentGoalSatisfied evaluates the stored goal.
func (k *KnowledgeBase) IsCurrentGoalSatisfied() bool {
	return k.IsGoalSatisfied(k.goal)
}

// cascadeGoal drops every top-level subgoal mentioning object and rebuilds
// the goal under the original connective, or clears it when none survive.
func (k *KnowledgeBase) cascadeGoal(object string) {
	if k.goal.Empty() {
		return
	}
	subgoals := tree.Subtrees(k.goal)
	kept := make([]types.Tree, 0, len(subgoals))
	for _, sg := range subgoals {
		if !tree.References(sg, object) {
			kept = append(kept, sg)
		}
	}
	if len(kept) == len(subgoals) {
		return
	}
	rebuilt, ok := tree.FromSubtrees(kept, k.goal.RootKind())
	if !ok {
		k.goal = types.Tree{}
		k.logger.Debug("goal cleared", zap.String("object", object))
		return
	}
	k.goal = rebuilt
	k.logger.Debug("goal pruned",
		zap.String("object", object),
		zap.Int("dropped", len(subgoals)-len(kept)))
}
