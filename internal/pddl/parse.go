package pddl

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Parse reads problem text. Keywords match in any case; names keep the
// case they are written in. ';' comments are ignored. Sections may appear
// in any order; :requirements and :metric are accepted and skipped.
func Parse(text string) (Problem, error) {
	exprs, err := tree.ReadSExprs(text)
	if err != nil {
		return Problem{}, err
	}
	if len(exprs) == 0 {
		return Problem{}, ErrEmptyProblem
	}
	if len(exprs) > 1 {
		return Problem{}, fmt.Errorf("%w: text after the problem at offset %d", ErrSyntax, exprs[1].Pos)
	}
	def := exprs[0]
	if !strings.EqualFold(def.Head(), "define") {
		return Problem{}, fmt.Errorf("%w: expected (define ...) at offset %d", ErrSyntax, def.Pos)
	}

	var p Problem
	for _, section := range def.List[1:] {
		if !section.IsList || len(section.List) == 0 {
			return Problem{}, fmt.Errorf("%w: expected a section at offset %d", ErrSyntax, section.Pos)
		}
		args := section.List[1:]
		switch head := strings.ToLower(section.Head()); head {
		case "problem":
			if len(args) != 1 || args[0].IsList {
				return Problem{}, fmt.Errorf("%w: (problem <name>) at offset %d", ErrSyntax, section.Pos)
			}
			p.Name = args[0].Atom
		case ":domain":
			if len(args) != 1 || args[0].IsList {
				return Problem{}, fmt.Errorf("%w: (:domain <name>) at offset %d", ErrSyntax, section.Pos)
			}
			p.Domain = args[0].Atom
		case ":objects":
			if p.Objects, err = parseObjects(args); err != nil {
				return Problem{}, err
			}
		case ":init":
			if err := parseInit(&p, args); err != nil {
				return Problem{}, err
			}
		case ":goal":
			if len(args) != 1 {
				return Problem{}, fmt.Errorf("%w: (:goal <expr>) at offset %d", ErrSyntax, section.Pos)
			}
			if p.Goal, err = tree.FromSExpr(args[0]); err != nil {
				return Problem{}, err
			}
		case ":requirements", ":metric":
		default:
			return Problem{}, fmt.Errorf("%w: unknown section %q at offset %d", ErrSyntax, head, section.Pos)
		}
	}
	return p, nil
}

// parseObjects reads "a b - type c - other d": names before a "- type"
// marker take that type; trailing names take DefaultType.
func parseObjects(args []tree.SExpr) ([]types.Instance, error) {
	var out []types.Instance
	var pending []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a.IsList {
			return nil, fmt.Errorf("%w: unexpected list in :objects at offset %d", ErrSyntax, a.Pos)
		}
		if a.Atom != "-" {
			pending = append(pending, a.Atom)
			continue
		}
		if i+1 >= len(args) || args[i+1].IsList || len(pending) == 0 {
			return nil, fmt.Errorf("%w: dangling '-' in :objects at offset %d", ErrSyntax, a.Pos)
		}
		i++
		for _, name := range pending {
			out = append(out, types.Instance{Name: name, Type: args[i].Atom})
		}
		pending = pending[:0]
	}
	for _, name := range pending {
		out = append(out, types.Instance{Name: name, Type: DefaultType})
	}
	return out, nil
}

func parseInit(p *Problem, items []tree.SExpr) error {
	for _, item := range items {
		switch strings.ToLower(item.Head()) {
		case "=":
			f, err := tree.FunctionFromSExpr(item)
			if err != nil {
				return err
			}
			p.Functions = append(p.Functions, f)
		case "unknown", "oneof":
			c, err := tree.FromSExpr(item)
			if err != nil {
				return err
			}
			p.Conditionals = append(p.Conditionals, c)
		default:
			t, err := tree.FromSExpr(item)
			if err != nil {
				return err
			}
			pred, err := tree.PredicateFromTree(t)
			if err != nil {
				return err
			}
			if pred.Negate {
				return fmt.Errorf("%w: negated fact in :init at offset %d", ErrSyntax, item.Pos)
			}
			p.Predicates = append(p.Predicates, pred)
		}
	}
	return nil
}
