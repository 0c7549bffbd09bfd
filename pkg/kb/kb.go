// Package kb provides the public API for the contingent knowledge base.
// It exposes the constructors while keeping the implementation internal.
package kb

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/internal/domain"
	"github.com/mesh-intelligence/contingent/internal/kb"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Version is the knowledge base release.
const Version = "0.1.0"

// New creates an empty knowledge base validating against schema.
//
// Example:
//
//	schema, err := kb.LoadDomain("domain.yaml")
//	if err != nil {
//	    return err
//	}
//	store := kb.New(schema, logger)
//	store.AddInstance(types.Instance{Name: "r1", Type: "robot"})
func New(schema types.Schema, logger *zap.Logger) types.KnowledgeBase {
	return kb.New(schema, kb.WithLogger(logger))
}

// NewSynchronized creates a knowledge base that is safe for concurrent use.
func NewSynchronized(schema types.Schema, logger *zap.Logger) types.KnowledgeBase {
	return kb.NewSynchronized(kb.New(schema, kb.WithLogger(logger)))
}

// LoadDomain reads a YAML domain description.
func LoadDomain(path string) (types.Schema, error) {
	return domain.Load(path)
}
