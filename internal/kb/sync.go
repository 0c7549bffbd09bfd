package kb

import (
	"sync"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Synchronized serializes access to a KnowledgeBase. Mutators take the
// write lock; readers share the read lock.
type Synchronized struct {
	mu sync.RWMutex
	kb *KnowledgeBase
}

var _ types.KnowledgeBase = (*Synchronized)(nil)

// NewSynchronized wraps k. k must not be used directly afterwards.
func NewSynchronized(k *KnowledgeBase) *Synchronized {
	return &Synchronized{kb: k}
}

// View runs fn under the read lock so that several reads see one state.
// fn must not mutate k.
func (s *Synchronized) View(fn func(k *KnowledgeBase)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.kb)
}

// Update runs fn under the write lock so that a batch of mutations is not
// interleaved with other callers.
func (s *Synchronized) Update(fn func(k *KnowledgeBase)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.kb)
}

// AddInstance calls KnowledgeBase.AddInstance under the write lock.
func (s *Synchronized) AddInstance(instance types.Instance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.AddInstance(instance)
}

// RemoveInstance calls KnowledgeBase.RemoveInstance under the write lock.
func (s *Synchronized) RemoveInstance(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.RemoveInstance(name)
}

// GetInstances calls KnowledgeBase.GetInstances under the read lock.
func (s *Synchronized) GetInstances() []types.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.GetInstances()
}

// GetInstance calls KnowledgeBase.GetInstance under the read lock.
func (s *Synchronized) GetInstance(name string) (types.Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.GetInstance(name)
}

// AddPredicate calls KnowledgeBase.AddPredicate under the write lock.
func (s *Synchronized) AddPredicate(predicate types.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.AddPredicate(predicate)
}

// RemovePredicate calls KnowledgeBase.RemovePredicate under the write lock.
func (s *Synchronized) RemovePredicate(predicate types.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.RemovePredicate(predicate)
}

// ExistPredicate calls KnowledgeBase.ExistPredicate under the read lock.
func (s *Synchronized) ExistPredicate(predicate types.Node) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.ExistPredicate(predicate)
}

// GetPredicates calls KnowledgeBase.GetPredicates under the read lock.
func (s *Synchronized) GetPredicates() []types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.GetPredicates()
}

// GetPredicate calls KnowledgeBase.GetPredicate under the read lock.
func (s *Synchronized) GetPredicate(expr string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.GetPredicate(expr)
}

// AddFunction calls KnowledgeBase.AddFunction under the write lock.
func (s *Synchronized) AddFunction(function types.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.AddFunction(function)
}

// UpdateFunction calls KnowledgeBase.UpdateFunction under the write lock.
func (s *Synchronized) UpdateFunction(function types.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.UpdateFunction(function)
}

// RemoveFunction calls KnowledgeBase.RemoveFunction under the write lock.
func (s *Synchronized) RemoveFunction(function types.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.RemoveFunction(function)
}

// ExistFunction calls KnowledgeBase.ExistFunction under the read lock.
func (s *Synchronized) ExistFunction(function types.Node) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.ExistFunction(function)
}

// GetFunctions calls KnowledgeBase.GetFunctions under the read lock.
func (s *Synchronized) GetFunctions() []types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.GetFunctions()
}

// GetFunction calls KnowledgeBase.GetFunction under the read lock.
func (s *Synchronized) GetFunction(expr string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.GetFunction(expr)
}

// AddConditional calls KnowledgeBase.AddConditional under the write lock.
func (s *Synchronized) AddConditional(conditional types.Tree) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.AddConditional(conditional)
}

// RemoveConditional calls KnowledgeBase.RemoveConditional under the write lock.
func (s *Synchronized) RemoveConditional(conditional types.Tree) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.RemoveConditional(conditional)
}

// ExistConditional calls KnowledgeBase.ExistConditional under the read lock.
func (s *Synchronized) ExistConditional(conditional types.Tree) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.ExistConditional(conditional)
}

// GetConditionals calls KnowledgeBase.GetConditionals under the read lock.
func (s *Synchronized) GetConditionals() []types.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.GetConditionals()
}

// SetGoal calls KnowledgeBase.SetGoal under the write lock.
func (s *Synchronized) SetGoal(goal types.Tree) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kb.SetGoal(goal)
}

// ClearGoal calls KnowledgeBase.ClearGoal under the write lock.
func (s *Synchronized) ClearGoal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kb.ClearGoal()
}

// GetGoal calls KnowledgeBase.GetGoal under the read lock.
func (s *Synchronized) GetGoal() types.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.GetGoal()
}

// IsGoalSatisfied calls KnowledgeBase.IsGoalSatisfied under the read lock.
func (s *Synchronized) IsGoalSatisfied(goal types.Tree) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.IsGoalSatisfied(goal)
}

// IsCurrentGoalSatisfied calls KnowledgeBase.IsCurrentGoalSatisfied under the read lock.
func (s *Synchronized) IsCurrentGoalSatisfied() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb.IsCurrentGoalSatisfied()
}

// ClearKnowledge calls KnowledgeBase.ClearKnowledge under the write lock.
func (s *Synchronized) ClearKnowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kb.ClearKnowledge()
}
