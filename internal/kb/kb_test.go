package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mesh-intelligence/contingent/internal/domain"
	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

const testDomain = `
name: delivery
types:
  - name: robot
  - name: location
  - name: room
    parent: location
  - name: item
predicates:
  - name: robot_at
    params: [robot, location]
  - name: carrying
    params: [robot, item]
  - name: item_at
    params: [item, location]
functions:
  - name: battery
    params: [robot]
  - name: distance
    params: [location, location]
`

func newTestKB(t *testing.T) *KnowledgeBase {
	t.Helper()
	schema, err := domain.Parse([]byte(testDomain))
	require.NoError(t, err)
	return New(schema, WithLogger(zaptest.NewLogger(t)))
}

// populated adds robots r1 r2, locations l1 l2, room kitchen and item box.
func populated(t *testing.T) *KnowledgeBase {
	t.Helper()
	k := newTestKB(t)
	for _, inst := range []types.Instance{
		{Name: "r1", Type: "robot"},
		{Name: "r2", Type: "robot"},
		{Name: "l1", Type: "location"},
		{Name: "l2", Type: "location"},
		{Name: "kitchen", Type: "room"},
		{Name: "box", Type: "item"},
	} {
		require.True(t, k.AddInstance(inst), inst.Name)
	}
	return k
}

func goal(t *testing.T, expr string) types.Tree {
	t.Helper()
	g, err := tree.Parse(expr)
	require.NoError(t, err)
	return g
}

func at(robot, loc string) types.Node {
	return types.NewPredicate("robot_at", robot, loc)
}

func notAt(robot, loc string) types.Node {
	p := at(robot, loc)
	p.Negate = true
	return p
}

func TestAddInstance(t *testing.T) {
	k := newTestKB(t)

	assert.True(t, k.AddInstance(types.Instance{Name: "r1", Type: "robot"}))
	assert.True(t, k.AddInstance(types.Instance{Name: "r1", Type: "robot"}), "re-adding is a no-op success")
	assert.Len(t, k.GetInstances(), 1)

	assert.False(t, k.AddInstance(types.Instance{Name: "r1", Type: "room"}), "type conflict")
	inst, ok := k.GetInstance("r1")
	require.True(t, ok)
	assert.Equal(t, "robot", inst.Type)

	assert.False(t, k.AddInstance(types.Instance{Name: "d1", Type: "drone"}), "undeclared type")
	assert.False(t, k.AddInstance(types.Instance{Name: "", Type: "robot"}), "empty name")
	assert.Len(t, k.GetInstances(), 1)
}

func TestAddPredicateValidation(t *testing.T) {
	tests := []struct {
		name string
		pred types.Node
		want bool
	}{
		{"valid", at("r1", "l1"), true},
		{"subtype accepted", at("r1", "kitchen"), true},
		{"wrong arity", types.NewPredicate("robot_at", "r1"), false},
		{"wrong type", at("box", "l1"), false},
		{"unknown object", at("r9", "l1"), false},
		{"undeclared predicate", types.NewPredicate("flying", "r1"), false},
		{"function kind", types.NewFunction("battery", 1, "r1"), false},
		{"negated", notAt("r1", "l1"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := populated(t)
			assert.Equal(t, tt.want, k.AddPredicate(tt.pred))
			if tt.want {
				assert.Len(t, k.GetPredicates(), 1)
			} else {
				assert.Empty(t, k.GetPredicates())
			}
		})
	}
}

func TestPredicatesFormASet(t *testing.T) {
	k := populated(t)
	require.True(t, k.AddPredicate(at("r1", "l1")))
	require.True(t, k.AddPredicate(at("r1", "l1")))
	assert.Len(t, k.GetPredicates(), 1)
	assert.True(t, k.ExistPredicate(at("r1", "l1")))

	got, ok := k.GetPredicate("(robot_at r1 l1)")
	require.True(t, ok)
	assert.Equal(t, "robot_at", got.Name)
	_, ok = k.GetPredicate("(robot_at r1 l2)")
	assert.False(t, ok)
	_, ok = k.GetPredicate("robot_at r1")
	assert.False(t, ok)

	assert.True(t, k.RemovePredicate(at("r1", "l1")))
	assert.True(t, k.RemovePredicate(at("r1", "l1")), "removal of an absent valid fact succeeds")
	assert.False(t, k.RemovePredicate(at("r9", "l1")), "invalid fact")
	assert.Empty(t, k.GetPredicates())
}

func TestAccessorsReturnCopies(t *testing.T) {
	k := populated(t)
	require.True(t, k.AddPredicate(at("r1", "l1")))
	require.True(t, k.SetGoal(goal(t, "(and (robot_at r1 l2))")))

	preds := k.GetPredicates()
	preds[0].Parameters[0].Name = "r2"
	assert.True(t, k.ExistPredicate(at("r1", "l1")))

	g := k.GetGoal()
	g.Nodes[1].Name = "carrying"
	assert.Equal(t, "robot_at", k.GetGoal().Nodes[1].Name)
}

func TestFunctions(t *testing.T) {
	k := populated(t)

	assert.False(t, k.UpdateFunction(types.NewFunction("battery", 50, "r1")), "update of a missing function")
	require.True(t, k.AddFunction(types.NewFunction("battery", 80, "r1")))
	require.True(t, k.AddFunction(types.NewFunction("distance", 3, "l1", "kitchen")))
	assert.True(t, k.AddFunction(types.NewFunction("battery", 60, "r1")), "re-adding overwrites the value")
	assert.Len(t, k.GetFunctions(), 2)

	f, ok := k.GetFunction("(battery r1)")
	require.True(t, ok)
	assert.Equal(t, 60.0, f.Value)

	assert.True(t, k.UpdateFunction(types.NewFunction("battery", 40, "r1")))
	f, ok = k.GetFunction("(= (battery r1) 0)")
	require.True(t, ok)
	assert.Equal(t, 40.0, f.Value)
	assert.Equal(t, "battery", k.GetFunctions()[0].Name, "update keeps position")

	assert.True(t, k.ExistFunction(types.NewFunction("battery", 0, "r1")), "value is not part of identity")
	assert.False(t, k.AddFunction(types.NewFunction("battery", 1, "box")))
	assert.False(t, k.RemoveFunction(types.NewFunction("battery", 1, "box")))
	assert.True(t, k.RemoveFunction(types.NewFunction("battery", 0, "r1")))
	assert.True(t, k.RemoveFunction(types.NewFunction("battery", 0, "r1")))
	assert.Len(t, k.GetFunctions(), 1)
}

func TestRemoveInstanceCascades(t *testing.T) {
	k := populated(t)
	require.True(t, k.AddPredicate(at("r1", "l1")))
	require.True(t, k.AddPredicate(at("r2", "l2")))
	require.True(t, k.AddFunction(types.NewFunction("battery", 10, "r1")))
	require.True(t, k.AddFunction(types.NewFunction("battery", 20, "r2")))
	require.True(t, k.SetGoal(goal(t, "(and (robot_at r1 l2) (robot_at r2 l1) (> (battery r1) 5))")))

	assert.True(t, k.RemoveInstance("r1"))

	assert.False(t, k.ExistPredicate(at("r1", "l1")))
	assert.True(t, k.ExistPredicate(at("r2", "l2")))
	assert.Len(t, k.GetFunctions(), 1)
	assert.True(t, tree.Equal(goal(t, "(and (robot_at r2 l1))"), k.GetGoal()))
	_, ok := k.GetInstance("r1")
	assert.False(t, ok)

	assert.False(t, k.RemoveInstance("r1"), "already gone")
}

func TestRemoveInstanceClearsGoal(t *testing.T) {
	tests := []struct {
		name string
		goal string
	}{
		{"every conjunct", "(and (robot_at r1 l1) (carrying r1 box))"},
		{"every disjunct", "(or (robot_at r1 l1) (robot_at r1 l2))"},
		{"single leaf", "(robot_at r1 l1)"},
		{"negation", "(not (robot_at r1 l1))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := populated(t)
			require.True(t, k.SetGoal(goal(t, tt.goal)))
			require.True(t, k.RemoveInstance("r1"))
			assert.True(t, k.GetGoal().Empty())
		})
	}
}

func TestRemoveInstanceKeepsConnective(t *testing.T) {
	k := populated(t)
	require.True(t, k.SetGoal(goal(t, "(or (robot_at r1 l1) (robot_at r2 l1) (robot_at r2 l2))")))
	require.True(t, k.RemoveInstance("r1"))
	assert.True(t, tree.Equal(goal(t, "(or (robot_at r2 l1) (robot_at r2 l2))"), k.GetGoal()))
}

func TestOneOfCollapse(t *testing.T) {
	k := populated(t)
	group := tree.NewOneOf(at("r1", "l1"), at("r1", "l2"))
	require.True(t, k.AddConditional(group))
	require.True(t, k.ExistConditional(group))

	assert.True(t, k.RemoveConditional(tree.NewUnknown(at("r1", "l1"))))

	assert.Empty(t, k.GetConditionals())
	assert.True(t, k.ExistPredicate(at("r1", "l2")))
	assert.False(t, k.ExistPredicate(at("r1", "l1")))
}

func TestOneOfExhaustion(t *testing.T) {
	k := populated(t)
	require.True(t, k.AddConditional(tree.NewOneOf(at("r1", "l1"), at("r1", "l2"))))

	require.True(t, k.RemoveConditional(tree.NewUnknown(at("r1", "l1"))))
	require.True(t, k.RemoveConditional(tree.NewUnknown(at("r1", "l2"))))

	assert.Empty(t, k.GetConditionals())
	assert.Empty(t, k.GetPredicates())
}

func TestCertainFactSurvivesResolution(t *testing.T) {
	k := populated(t)
	require.True(t, k.AddPredicate(at("r1", "l2")))
	require.True(t, k.AddConditional(tree.NewOneOf(at("r1", "l1"), at("r1", "l2"))))

	require.True(t, k.RemoveConditional(tree.NewUnknown(at("r1", "l1"))))
	require.True(t, k.RemoveConditional(tree.NewUnknown(at("r1", "l2"))))

	assert.True(t, k.ExistPredicate(at("r1", "l2")), "fact was certain before the group collapsed")
}

func TestRemoveUnknownRevisesOnlyAffectedGroups(t *testing.T) {
	k := populated(t)
	unknown := tree.NewUnknown(at("r1", "l1"))
	big := tree.NewOneOf(at("r1", "l1"), at("r1", "l2"), at("r1", "kitchen"))
	other := tree.NewOneOf(at("r2", "l1"), at("r2", "l2"))
	require.True(t, k.AddConditional(unknown))
	require.True(t, k.AddConditional(big))
	require.True(t, k.AddConditional(other))

	require.True(t, k.RemoveConditional(unknown))

	assert.False(t, k.ExistConditional(unknown))
	assert.False(t, k.ExistConditional(big))
	assert.True(t, k.ExistConditional(tree.NewOneOf(at("r1", "l2"), at("r1", "kitchen"))))
	assert.True(t, k.ExistConditional(other))
	assert.Len(t, k.GetConditionals(), 2)
	assert.Empty(t, k.GetPredicates())
}

func TestAddConditional(t *testing.T) {
	k := populated(t)

	single := tree.NewOneOf(at("r1", "l1"))
	assert.True(t, k.AddConditional(single))
	assert.Empty(t, k.GetConditionals(), "single disjunct collapses")
	assert.True(t, k.ExistPredicate(at("r1", "l1")))

	group := tree.NewOneOf(at("r2", "l1"), at("r2", "l2"))
	require.True(t, k.AddConditional(group))
	require.True(t, k.AddConditional(group))
	assert.Len(t, k.GetConditionals(), 1)

	reversed := tree.NewOneOf(at("r2", "l2"), at("r2", "l1"))
	assert.False(t, k.ExistConditional(reversed), "one-of equality is order sensitive")

	assert.False(t, k.AddConditional(tree.NewOneOf(at("r9", "l1"), at("r2", "l2"))), "unknown object")
	assert.False(t, k.AddConditional(tree.NewOneOf()), "no disjuncts")
	assert.False(t, k.AddConditional(goal(t, "(robot_at r1 l1)")), "root is not a conditional")
	assert.False(t, k.AddConditional(goal(t, "(unknown (robot_at r1 l1) (robot_at r1 l2))")), "unknown takes one fact")
	assert.False(t, k.AddConditional(tree.NewOneOf(notAt("r2", "l1"), at("r2", "l2"))), "negated disjunct")
	assert.False(t, k.AddConditional(tree.NewUnknown(notAt("r1", "l2"))), "negated unknown")
	assert.False(t, k.AddConditional(types.Tree{}))
	assert.False(t, k.RemoveConditional(types.Tree{}))
	assert.Len(t, k.GetConditionals(), 1)
}

func TestSetGoal(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"conjunction", "(and (robot_at r1 l1) (not (carrying r1 box)))", true},
		{"numeric", "(> (battery r1) (distance l1 kitchen))", true},
		{"unknown root", "(unknown (robot_at r1 l1))", false},
		{"oneof root", "(oneof (robot_at r1 l1) (robot_at r1 l2))", false},
		{"bad leaf", "(and (robot_at r1 l1) (robot_at box l1))", false},
		{"undeclared function", "(> (speed r1) 2)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := populated(t)
			require.True(t, k.SetGoal(goal(t, "(robot_at r2 l2)")))
			assert.Equal(t, tt.want, k.SetGoal(goal(t, tt.expr)))
			if !tt.want {
				assert.True(t, tree.Equal(goal(t, "(robot_at r2 l2)"), k.GetGoal()), "goal unchanged")
			}
		})
	}
}

func TestRemoveNegatedPredicateRejected(t *testing.T) {
	k := populated(t)
	require.True(t, k.AddPredicate(at("r1", "l1")))
	assert.False(t, k.RemovePredicate(notAt("r1", "l1")))
	assert.True(t, k.ExistPredicate(at("r1", "l1")))
}

func TestSetGoalStoresNegatedLeafAsNot(t *testing.T) {
	k := populated(t)
	var g types.Tree
	root := tree.Append(&g, types.Node{Kind: types.KindAnd})
	a := tree.Append(&g, at("r1", "l1"))
	b := tree.Append(&g, notAt("r2", "l2"))
	g.Nodes[root].Children = []int{a, b}

	require.True(t, k.SetGoal(g))
	assert.True(t, tree.Equal(goal(t, "(and (robot_at r1 l1) (not (robot_at r2 l2)))"), k.GetGoal()),
		"got %s", tree.String(k.GetGoal(), 0))

	require.True(t, k.AddPredicate(at("r1", "l1")))
	assert.True(t, k.IsCurrentGoalSatisfied())
	require.True(t, k.AddPredicate(at("r2", "l2")))
	assert.False(t, k.IsCurrentGoalSatisfied())
}

func TestMalformedTrees(t *testing.T) {
	k := populated(t)
	cyclic := types.Tree{Nodes: []types.Node{{Kind: types.KindAnd, Children: []int{0}}}}
	assert.False(t, k.SetGoal(cyclic))

	outOfRange := types.Tree{Nodes: []types.Node{{Kind: types.KindAnd, Children: []int{3}}}}
	assert.False(t, k.SetGoal(outOfRange))

	bogus := types.Tree{Nodes: []types.Node{{Kind: types.NodeKind(42)}}}
	assert.False(t, k.SetGoal(bogus))

	notTwo := types.Tree{Nodes: []types.Node{
		{Kind: types.KindNot, Children: []int{1, 2}},
		at("r1", "l1"),
		at("r1", "l2"),
	}}
	assert.False(t, k.SetGoal(notTwo))
	assert.True(t, k.GetGoal().Empty())
}

func TestGoalSatisfaction(t *testing.T) {
	k := populated(t)
	require.True(t, k.AddPredicate(at("r1", "l1")))
	require.True(t, k.AddFunction(types.NewFunction("battery", 30, "r1")))

	assert.True(t, k.IsGoalSatisfied(goal(t, "(robot_at r1 l1)")))
	assert.False(t, k.IsGoalSatisfied(goal(t, "(robot_at r1 l2)")))
	assert.True(t, k.IsGoalSatisfied(goal(t, "(and (robot_at r1 l1) (>= (battery r1) 30))")))
	assert.False(t, k.IsGoalSatisfied(goal(t, "(> (battery r2) 0)")), "missing function")
	assert.False(t, k.IsGoalSatisfied(types.Tree{}))

	assert.False(t, k.IsCurrentGoalSatisfied(), "no goal set")
	require.True(t, k.SetGoal(goal(t, "(robot_at r1 l1)")))
	assert.True(t, k.IsCurrentGoalSatisfied())
}

func TestClearKnowledge(t *testing.T) {
	k := populated(t)
	require.True(t, k.AddPredicate(at("r1", "l1")))
	require.True(t, k.AddFunction(types.NewFunction("battery", 30, "r1")))
	require.True(t, k.AddConditional(tree.NewOneOf(at("r2", "l1"), at("r2", "l2"))))
	require.True(t, k.SetGoal(goal(t, "(robot_at r1 l2)")))

	k.ClearKnowledge()

	assert.Empty(t, k.GetInstances())
	assert.Empty(t, k.GetPredicates())
	assert.Empty(t, k.GetFunctions())
	assert.Empty(t, k.GetConditionals())
	assert.True(t, k.GetGoal().Empty())
}
