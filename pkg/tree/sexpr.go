package tree

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrSyntax is wrapped by every error produced while reading or
// interpreting expression text.
var ErrSyntax = errors.New("syntax error")

// SExpr is one parsed s-expression: either an atom or a list.
type SExpr struct {
	Atom   string
	List   []SExpr
	IsList bool
	Pos    int // byte offset of the first character
}

// Head returns the first atom of a list, or "" when there is none.
func (e SExpr) Head() string {
	if !e.IsList || len(e.List) == 0 || e.List[0].IsList {
		return ""
	}
	return e.List[0].Atom
}

// String renders the expression back to text.
func (e SExpr) String() string {
	if !e.IsList {
		return e.Atom
	}
	parts := make([]string, len(e.List))
	for i, c := range e.List {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// ReadSExprs reads every top-level s-expression in src. Text from ';' to
// the end of a line is a comment.
func ReadSExprs(src string) ([]SExpr, error) {
	r := &reader{src: src}
	var out []SExpr
	for {
		r.skipSpace()
		if r.eof() {
			return out, nil
		}
		e, err := r.read()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
}

// ReadSExpr reads exactly one s-expression from src.
func ReadSExpr(src string) (SExpr, error) {
	exprs, err := ReadSExprs(src)
	if err != nil {
		return SExpr{}, err
	}
	if len(exprs) != 1 {
		return SExpr{}, fmt.Errorf("%w: expected one expression, found %d", ErrSyntax, len(exprs))
	}
	return exprs[0], nil
}

type reader struct {
	src string
	pos int
}

func (r *reader) eof() bool { return r.pos >= len(r.src) }

func (r *reader) skipSpace() {
	for !r.eof() {
		c := r.src[r.pos]
		switch {
		case c == ';':
			for !r.eof() && r.src[r.pos] != '\n' {
				r.pos++
			}
		case unicode.IsSpace(rune(c)):
			r.pos++
		default:
			return
		}
	}
}

func (r *reader) read() (SExpr, error) {
	start := r.pos
	switch r.src[r.pos] {
	case ')':
		return SExpr{}, fmt.Errorf("%w: unexpected ')' at offset %d", ErrSyntax, start)
	case '(':
		r.pos++
		list := SExpr{IsList: true, Pos: start, List: []SExpr{}}
		for {
			r.skipSpace()
			if r.eof() {
				return SExpr{}, fmt.Errorf("%w: unclosed '(' at offset %d", ErrSyntax, start)
			}
			if r.src[r.pos] == ')' {
				r.pos++
				return list, nil
			}
			child, err := r.read()
			if err != nil {
				return SExpr{}, err
			}
			list.List = append(list.List, child)
		}
	default:
		for !r.eof() {
			c := r.src[r.pos]
			if c == '(' || c == ')' || c == ';' || unicode.IsSpace(rune(c)) {
				break
			}
			r.pos++
		}
		return SExpr{Atom: r.src[start:r.pos], Pos: start}, nil
	}
}
