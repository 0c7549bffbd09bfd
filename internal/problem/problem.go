// Package problem moves problem text in and out of a knowledge base. Loading
// parses the whole text before touching the store, then feeds every item
// through the validating mutators one at a time.
package problem

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/internal/pddl"
	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Item kinds named in a Rejection.
const (
	ItemInstance    = "instance"
	ItemPredicate   = "predicate"
	ItemFunction    = "function"
	ItemConditional = "conditional"
	ItemGoal        = "goal"
)

// Rejection is one item the knowledge base refused.
type Rejection struct {
	Kind string `json:"kind"`
	Item string `json:"item"`
}

// LoadReport counts what a load accepted and lists what it rejected.
type LoadReport struct {
	Problem      string      `json:"problem"`
	Domain       string      `json:"domain"`
	Instances    int         `json:"instances"`
	Predicates   int         `json:"predicates"`
	Functions    int         `json:"functions"`
	Conditionals int         `json:"conditionals"`
	GoalSet      bool        `json:"goal_set"`
	Rejected     []Rejection `json:"rejected,omitempty"`
}

// Clean reports whether every item was accepted.
func (r LoadReport) Clean() bool {
	return len(r.Rejected) == 0
}

// Load parses text and adds its contents to k: the schema's constants
// first, then objects, facts, functions, conditionals and the goal. A
// parse error or a domain mismatch returns before k is modified. Items k
// rejects are recorded in the report and do not stop the load.
func Load(k types.KnowledgeBase, schema types.Schema, text string, logger *zap.Logger) (LoadReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p, err := pddl.Parse(text)
	if err != nil {
		return LoadReport{}, err
	}
	if err := p.MatchDomain(schema.Name()); err != nil {
		return LoadReport{}, err
	}

	report := LoadReport{Problem: p.Name, Domain: schema.Name()}
	reject := func(kind, item string) {
		report.Rejected = append(report.Rejected, Rejection{Kind: kind, Item: item})
		logger.Info("item rejected", zap.String("kind", kind), zap.String("item", item))
	}

	for _, c := range schema.Constants() {
		if !k.AddInstance(c) {
			reject(ItemInstance, c.Name+" - "+c.Type)
		}
	}
	for _, o := range p.Objects {
		if k.AddInstance(o) {
			report.Instances++
		} else {
			reject(ItemInstance, o.Name+" - "+o.Type)
		}
	}
	for _, pred := range p.Predicates {
		if k.AddPredicate(pred) {
			report.Predicates++
		} else {
			reject(ItemPredicate, tree.LeafString(pred))
		}
	}
	for _, f := range p.Functions {
		if k.AddFunction(f) {
			report.Functions++
		} else {
			reject(ItemFunction, tree.LeafString(f))
		}
	}
	for _, c := range p.Conditionals {
		if k.AddConditional(c) {
			report.Conditionals++
		} else {
			reject(ItemConditional, tree.String(c, 0))
		}
	}
	if !p.Goal.Empty() {
		if k.SetGoal(p.Goal) {
			report.GoalSet = true
		} else {
			reject(ItemGoal, tree.String(p.Goal, 0))
		}
	}

	logger.Debug("problem loaded",
		zap.String("problem", report.Problem),
		zap.Int("instances", report.Instances),
		zap.Int("predicates", report.Predicates),
		zap.Int("functions", report.Functions),
		zap.Int("conditionals", report.Conditionals),
		zap.Int("rejected", len(report.Rejected)))
	return report, nil
}

// Snapshot copies the contents of k into a pddl.Problem. Domain constants
// are left out of the objects.
func Snapshot(k types.KnowledgeBase, schema types.Schema, name string) pddl.Problem {
	constants := make(map[string]bool)
	for _, c := range schema.Constants() {
		constants[c.Name] = true
	}
	var objects []types.Instance
	for _, inst := range k.GetInstances() {
		if !constants[inst.Name] {
			objects = append(objects, inst)
		}
	}
	return pddl.Problem{
		Name:         name,
		Domain:       schema.Name(),
		Objects:      objects,
		Predicates:   k.GetPredicates(),
		Functions:    k.GetFunctions(),
		Conditionals: k.GetConditionals(),
		Goal:         k.GetGoal(),
	}
}

// Render writes the contents of k as problem text.
func Render(k types.KnowledgeBase, schema types.Schema, name string) string {
	return pddl.Render(Snapshot(k, schema, name))
}
