package pddl

import (
	"strings"

	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Render writes p as problem text. Objects are grouped by type in order of
// first appearance. Names are written as stored. The :goal section is omitted
// when the goal is empty.
func Render(p Problem) string {
	var sb strings.Builder
	sb.WriteString("(define (problem ")
	sb.WriteString(orDefault(p.Name, "problem"))
	sb.WriteString(")\n")
	if p.Domain != "" {
		sb.WriteString("  (:domain ")
		sb.WriteString(p.Domain)
		sb.WriteString(")\n")
	}

	sb.WriteString("  (:objects")
	for _, g := range groupByType(p.Objects) {
		sb.WriteString("\n    ")
		sb.WriteString(strings.Join(g.names, " "))
		sb.WriteString(" - ")
		sb.WriteString(g.typ)
	}
	sb.WriteString("\n  )\n")

	sb.WriteString("  (:init")
	for _, pred := range p.Predicates {
		sb.WriteString("\n    ")
		sb.WriteString(tree.LeafString(pred))
	}
	for _, f := range p.Functions {
		sb.WriteString("\n    (= ")
		sb.WriteString(tree.LeafString(f))
		sb.WriteByte(' ')
		sb.WriteString(tree.FormatNumber(f.Value))
		sb.WriteByte(')')
	}
	for _, c := range p.Conditionals {
		sb.WriteString("\n    ")
		sb.WriteString(tree.String(c, 0))
	}
	sb.WriteString("\n  )\n")

	if !p.Goal.Empty() {
		sb.WriteString("  (:goal ")
		sb.WriteString(tree.String(p.Goal, 0))
		sb.WriteString(")\n")
	}
	sb.WriteString(")\n")
	return sb.String()
}

type typeGroup struct {
	typ   string
	names []string
}

func groupByType(objects []types.Instance) []typeGroup {
	var groups []typeGroup
	index := make(map[string]int)
	for _, o := range objects {
		typ := orDefault(o.Type, DefaultType)
		i, ok := index[typ]
		if !ok {
			i = len(groups)
			index[typ] = i
			groups = append(groups, typeGroup{typ: typ})
		}
		groups[i].names = append(groups[i].names, o.Name)
	}
	return groups
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
