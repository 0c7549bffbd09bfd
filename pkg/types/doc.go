// Package types defines the knowledge-base data model (expression tree
// nodes, instances, grounded facts, goals), the interfaces the knowledge
// base consumes and exposes, and the standard errors shared by the
// contingent knowledge system.
package types
