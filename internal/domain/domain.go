// Package domain loads planning-domain descriptions from YAML and serves
// them through the types.Schema view the knowledge base validates against.
package domain

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Domain load errors.
var (
	ErrInvalidDomain = errors.New("invalid domain description")
	ErrDuplicateName = errors.New("duplicate declaration")
	ErrUnknownType   = errors.New("unknown type")
	ErrTypeCycle     = errors.New("type hierarchy contains a cycle")
)

// Document is the YAML form of a domain.
type Document struct {
	Name       string          `yaml:"name" validate:"required"`
	Types      []TypeDecl      `yaml:"types" validate:"required,min=1,dive"`
	Constants  []ConstantDecl  `yaml:"constants" validate:"dive"`
	Predicates []SignatureDecl `yaml:"predicates" validate:"dive"`
	Functions  []SignatureDecl `yaml:"functions" validate:"dive"`
}

// TypeDecl declares a type and, optionally, its parent type.
type TypeDecl struct {
	Name   string `yaml:"name" validate:"required"`
	Parent string `yaml:"parent,omitempty"`
}

// ConstantDecl declares an object that belongs to the domain itself.
type ConstantDecl struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required"`
}

// SignatureDecl declares a predicate or function and its parameter types.
type SignatureDecl struct {
	Name   string   `yaml:"name" validate:"required"`
	Params []string `yaml:"params" validate:"dive,required"`
}

var validate = validator.New()

// Domain is an immutable, validated domain. It implements types.Schema.
type Domain struct {
	name       string
	types      []string
	parents    map[string]string
	subtypes   map[string][]string
	constants  []types.Instance
	predicates map[string]types.Signature
	functions  map[string]types.Signature
}

var _ types.Schema = (*Domain)(nil)

// Load reads and validates the domain file at path.
func Load(path string) (*Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading domain %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading domain %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a YAML domain description.
func Parse(data []byte) (*Domain, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomain, err)
	}
	return New(doc)
}

// New validates doc and computes the subtype closure of every type.
func New(doc Document) (*Domain, error) {
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomain, err)
	}

	d := &Domain{
		name:       doc.Name,
		parents:    make(map[string]string),
		subtypes:   make(map[string][]string),
		predicates: make(map[string]types.Signature),
		functions:  make(map[string]types.Signature),
	}

	for _, td := range doc.Types {
		if _, dup := d.parents[td.Name]; dup {
			return nil, fmt.Errorf("%w: type %q", ErrDuplicateName, td.Name)
		}
		d.parents[td.Name] = td.Parent
		d.types = append(d.types, td.Name)
	}
	for _, td := range doc.Types {
		if td.Parent == "" {
			continue
		}
		if _, ok := d.parents[td.Parent]; !ok {
			return nil, fmt.Errorf("%w: %q is the parent of %q", ErrUnknownType, td.Parent, td.Name)
		}
	}
	if err := d.computeSubtypes(); err != nil {
		return nil, err
	}

	for _, c := range doc.Constants {
		if !d.TypeExists(c.Type) {
			return nil, fmt.Errorf("%w: constant %q has type %q", ErrUnknownType, c.Name, c.Type)
		}
		d.constants = append(d.constants, types.Instance{Name: c.Name, Type: c.Type})
	}

	var err error
	if d.predicates, err = d.signatures("predicate", doc.Predicates); err != nil {
		return nil, err
	}
	if d.functions, err = d.signatures("function", doc.Functions); err != nil {
		return nil, err
	}
	return d, nil
}

// computeSubtypes walks every type up to its root, registering it as a
// subtype of each ancestor on the way.
func (d *Domain) computeSubtypes() error {
	for _, t := range d.types {
		seen := map[string]bool{t: true}
		for p := d.parents[t]; p != ""; p = d.parents[p] {
			if seen[p] {
				return fmt.Errorf("%w: through %q", ErrTypeCycle, t)
			}
			seen[p] = true
			d.subtypes[p] = append(d.subtypes[p], t)
		}
	}
	for p := range d.subtypes {
		sort.Strings(d.subtypes[p])
	}
	return nil
}

func (d *Domain) signatures(what string, decls []SignatureDecl) (map[string]types.Signature, error) {
	out := make(map[string]types.Signature, len(decls))
	for _, decl := range decls {
		if _, dup := out[decl.Name]; dup {
			return nil, fmt.Errorf("%w: %s %q", ErrDuplicateName, what, decl.Name)
		}
		sig := types.Signature{Name: decl.Name, Params: make([]types.ParamSpec, len(decl.Params))}
		for i, pt := range decl.Params {
			if !d.TypeExists(pt) {
				return nil, fmt.Errorf("%w: %s %q parameter %d has type %q", ErrUnknownType, what, decl.Name, i, pt)
			}
			sig.Params[i] = types.ParamSpec{Type: pt, SubTypes: append([]string(nil), d.subtypes[pt]...)}
		}
		out[decl.Name] = sig
	}
	return out, nil
}

// Name returns the domain name.
func (d *Domain) Name() string { return d.name }

// Types returns the declared types in declaration order.
func (d *Domain) Types() []string { return append([]string(nil), d.types...) }

// TypeExists reports whether name is a declared type.
func (d *Domain) TypeExists(name string) bool {
	_, ok := d.parents[name]
	return ok
}

// SubTypes returns every transitive descendant of the named type, sorted.
func (d *Domain) SubTypes(name string) []string {
	return append([]string(nil), d.subtypes[name]...)
}

// Predicate returns the signature of the named predicate.
func (d *Domain) Predicate(name string) (types.Signature, bool) {
	sig, ok := d.predicates[name]
	return cloneSignature(sig), ok
}

// Function returns the signature of the named function.
func (d *Domain) Function(name string) (types.Signature, bool) {
	sig, ok := d.functions[name]
	return cloneSignature(sig), ok
}

// Constants returns the domain's own objects.
func (d *Domain) Constants() []types.Instance {
	return append([]types.Instance(nil), d.constants...)
}

// IsConstant reports whether name is one of the domain's constants.
func (d *Domain) IsConstant(name string) bool {
	for _, c := range d.constants {
		if c.Name == name {
			return true
		}
	}
	return false
}

func cloneSignature(sig types.Signature) types.Signature {
	out := types.Signature{Name: sig.Name}
	if sig.Params != nil {
		out.Params = make([]types.ParamSpec, len(sig.Params))
		for i, p := range sig.Params {
			out.Params[i] = types.ParamSpec{Type: p.Type, SubTypes: append([]string(nil), p.SubTypes...)}
		}
	}
	return out
}
