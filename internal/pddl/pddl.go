// Package pddl converts between the knowledge base's collections and the
// textual problem format: (define (problem ...) (:domain ...) (:objects
// ...) (:init ...) (:goal ...)).
package pddl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Codec errors. ErrSyntax is the expression reader's error so callers can
// match either.
var (
	ErrSyntax         = tree.ErrSyntax
	ErrEmptyProblem   = errors.New("problem text is empty")
	ErrDomainMismatch = errors.New("problem names a different domain")
)

// DefaultType is the type of objects listed without "- type".
const DefaultType = "object"

// Problem is the in-memory form of one problem text.
type Problem struct {
	Name         string
	Domain       string
	Objects      []types.Instance
	Predicates   []types.Node
	Functions    []types.Node
	Conditionals []types.Tree
	Goal         types.Tree
}

// MatchDomain fails with ErrDomainMismatch when the problem names a domain
// other than name or names none. Domain names compare without regard to
// case.
func (p Problem) MatchDomain(name string) error {
	if p.Domain == "" {
		return fmt.Errorf("%w: no (:domain ...) section, expected %q", ErrDomainMismatch, name)
	}
	if strings.EqualFold(p.Domain, name) {
		return nil
	}
	return fmt.Errorf("%w: %q, expected %q", ErrDomainMismatch, p.Domain, name)
}
