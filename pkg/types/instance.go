package types

// Instance is a typed object of the planning problem. Names are unique
// within a knowledge base.
type Instance struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}
