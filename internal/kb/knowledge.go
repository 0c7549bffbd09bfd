// Package kb implements the contingent knowledge base: typed instances,
// certain predicates, numeric functions, unknown and one-of conditionals,
// and the current goal, all validated against a domain schema.
//
// A KnowledgeBase is single-writer. Share one between goroutines through
// Synchronized.
package kb

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/internal/eval"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// KnowledgeBase is the in-memory store. The zero value is not usable; call
// New.
type KnowledgeBase struct {
	schema    types.Schema
	evaluator types.Evaluator
	logger    *zap.Logger

	instances    []types.Instance
	predicates   []types.Node
	functions    []types.Node
	conditionals []types.Tree
	goal         types.Tree

	// collapsed holds the keys of predicates that entered the store by
	// collapsing a one-of group rather than by direct insertion.
	collapsed map[string]bool
}

var _ types.KnowledgeBase = (*KnowledgeBase)(nil)

// Option configures a KnowledgeBase.
type Option func(*KnowledgeBase)

// WithLogger sets the logger for rejection and cascade diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(k *KnowledgeBase) {
		if logger != nil {
			k.logger = logger
		}
	}
}

// WithEvaluator replaces the goal evaluator.
func WithEvaluator(evaluator types.Evaluator) Option {
	return func(k *KnowledgeBase) {
		k.evaluator = evaluator
	}
}

// New creates an empty knowledge base validating against schema.
func New(schema types.Schema, opts ...Option) *KnowledgeBase {
	k := &KnowledgeBase{
		schema:    schema,
		logger:    zap.NewNop(),
		collapsed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.evaluator == nil {
		k.evaluator = eval.New(eval.WithLogger(k.logger))
	}
	return k
}

// Schema returns the schema the knowledge base validates against.
func (k *KnowledgeBase) Schema() types.Schema {
	return k.schema
}

// ClearKnowledge empties every collection and the goal.
func (k *KnowledgeBase) ClearKnowledge() {
	k.instances = nil
	k.predicates = nil
	k.functions = nil
	k.conditionals = nil
	k.goal = types.Tree{}
	k.collapsed = make(map[string]bool)
	k.logger.Debug("knowledge cleared")
}
