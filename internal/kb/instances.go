package kb

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

// AddInstance inserts an object whose type the schema declares. Re-adding
// the same name with the same type succeeds without change.
func (k *KnowledgeBase) AddInstance(instance types.Instance) bool {
	if instance.Name == "" {
		k.reject("add_instance", []violation{{reasonMalformed, "empty instance name"}})
		return false
	}
	if !k.schema.TypeExists(instance.Type) {
		k.reject("add_instance", []violation{{reasonSchema, "type " + instance.Type + " is not declared"}})
		return false
	}
	if existing, ok := k.instance(instance.Name); ok {
		if existing.Type != instance.Type {
			k.reject("add_instance", []violation{{reasonSchema, instance.Name + " already exists as " + existing.Type}})
			return false
		}
		return true
	}
	k.instances = append(k.instances, instance)
	return true
}

// RemoveInstance removes the named object together with every predicate and
// function that references it, and drops the goal's top-level subgoals that
// mention it. It reports whether the object existed.
func (k *KnowledgeBase) RemoveInstance(name string) bool {
	found := false
	for i, inst := range k.instances {
		if inst.Name == name {
			k.instances = append(k.instances[:i], k.instances[i+1:]...)
			found = true
			break
		}
	}

	predicates := k.predicates[:0]
	for _, p := range k.predicates {
		if p.References(name) {
			delete(k.collapsed, factKey(p))
			continue
		}
		predicates = append(predicates, p)
	}
	removedPredicates := len(k.predicates) - len(predicates)
	k.predicates = predicates

	functions := k.functions[:0]
	for _, f := range k.functions {
		if !f.References(name) {
			functions = append(functions, f)
		}
	}
	removedFunctions := len(k.functions) - len(functions)
	k.functions = functions

	k.cascadeGoal(name)

	k.logger.Debug("instance removed",
		zap.String("name", name),
		zap.Bool("found", found),
		zap.Int("predicates", removedPredicates),
		zap.Int("functions", removedFunctions))
	return found
}

// GetInstances returns every object in insertion order.
func (k *KnowledgeBase) GetInstances() []types.Instance {
	return append([]types.Instance(nil), k.instances...)
}

// GetInstance returns the named object.
func (k *KnowledgeBase) GetInstance(name string) (types.Instance, bool) {
	return k.instance(name)
}

func (k *KnowledgeBase) instance(name string) (types.Instance, bool) {
	for _, inst := range k.instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return types.Instance{}, false
}
