package types

import "errors"

// KnowledgeBase holds what is currently known about the world: typed
// instances, certain predicates, numeric functions, contingent facts and
// the goal. Mutators return false when the input fails validation and
// leave the store unchanged in that case.
//
// Implementations are single-writer: mutators must not run concurrently
// with each other or with readers.
type KnowledgeBase interface {
	// AddInstance inserts an object. Re-adding the same name and type is a
	// no-op success; a different type for an existing name fails.
	AddInstance(instance Instance) bool

	// RemoveInstance removes the named object and every predicate,
	// function and subgoal that references it. It reports whether the
	// object was found.
	RemoveInstance(name string) bool

	GetInstances() []Instance
	GetInstance(name string) (Instance, bool)

	AddPredicate(predicate Node) bool
	RemovePredicate(predicate Node) bool
	ExistPredicate(predicate Node) bool
	GetPredicates() []Node
	GetPredicate(expr string) (Node, bool)

	AddFunction(function Node) bool
	UpdateFunction(function Node) bool
	RemoveFunction(function Node) bool
	ExistFunction(function Node) bool
	GetFunctions() []Node
	GetFunction(expr string) (Node, bool)

	AddConditional(conditional Tree) bool
	RemoveConditional(conditional Tree) bool
	ExistConditional(conditional Tree) bool
	GetConditionals() []Tree

	SetGoal(goal Tree) bool
	ClearGoal()
	GetGoal() Tree
	IsGoalSatisfied(goal Tree) bool

	// ClearKnowledge empties instances, facts, functions, conditionals and
	// the goal.
	ClearKnowledge()
}

// Evaluation errors.
var (
	ErrInvalidEvaluation = errors.New("expression cannot be evaluated")
	ErrMissingFunction   = errors.New("function value not known")
	ErrDivisionByZero    = errors.New("division by zero")
)

// Archive errors.
var (
	ErrArchiveDetached = errors.New("archive is detached")
	ErrAlreadyAttached = errors.New("archive is already attached")
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidContent  = errors.New("content must not be empty")
)
