package meta

import (
	"fmt"
	"unicode"

	"github.com/pkg/errors"
)

// ErrSyntax is returned for malformed type expressions
var ErrSyntax = errors.New("syntax error")

// Parse reads a type expression such as
//
//	Map<String, List<? extends Number>>
//	T[]
//	? super Integer
//
// Class names are looked up in u (see Lookup); names of vars take precedence.
func (u *Universe) Parse(src string, vars ...*Variable) (Expr, error) {
	p := &exprParser{src: []rune(src), universe: u, vars: vars}
	p.next()
	e, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q after type", p.tok.text)
	}
	return e, nil
}

// MustParse is Parse, panicking on error
func (u *Universe) MustParse(src string, vars ...*Variable) Expr {
	e, err := u.Parse(src, vars...)
	if err != nil {
		panic(err)
	}
	return e
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokPunct
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type exprParser struct {
	src      []rune
	offset   int
	tok      token
	universe *Universe
	vars     []*Variable
}

func (p *exprParser) errorf(format string, args ...any) error {
	return errors.Wrapf(ErrSyntax, "%s at offset %d in %q", fmt.Sprintf(format, args...), p.tok.pos, string(p.src))
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || r == '$' || unicode.IsLetter(r) {
		return true
	}
	return !first && (r == '.' || unicode.IsDigit(r))
}

func (p *exprParser) next() {
	for p.offset < len(p.src) && unicode.IsSpace(p.src[p.offset]) {
		p.offset++
	}
	start := p.offset
	if p.offset >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	r := p.src[p.offset]
	if isIdentRune(r, true) {
		for p.offset < len(p.src) && isIdentRune(p.src[p.offset], p.offset == start) {
			p.offset++
		}
		p.tok = token{kind: tokIdent, text: string(p.src[start:p.offset]), pos: start}
		return
	}
	p.offset++
	p.tok = token{kind: tokPunct, text: string(r), pos: start}
}

func (p *exprParser) accept(text string) bool {
	if p.tok.text == text && p.tok.kind != tokEOF {
		p.next()
		return true
	}
	return false
}

func (p *exprParser) expect(text string) error {
	if !p.accept(text) {
		return p.errorf("expected %q, found %q", text, p.tok.text)
	}
	return nil
}

func (p *exprParser) parseType() (Expr, error) {
	if p.accept("?") {
		return p.parseWildcard()
	}
	e, err := p.parseNamed()
	if err != nil {
		return nil, err
	}
	for p.accept("[") {
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		if c, ok := e.(*Class); ok {
			e = ArrayOf(c)
		} else {
			e = &GenericArray{Component: e}
		}
	}
	return e, nil
}

func (p *exprParser) parseWildcard() (Expr, error) {
	w := &Wildcard{}
	switch {
	case p.tok.kind == tokIdent && p.tok.text == "extends":
		p.next()
		for {
			b, err := p.parseType()
			if err != nil {
				return nil, err
			}
			w.Upper = append(w.Upper, b)
			if !p.accept("&") {
				break
			}
		}
	case p.tok.kind == tokIdent && p.tok.text == "super":
		p.next()
		b, err := p.parseType()
		if err != nil {
			return nil, err
		}
		w.Lower = []Expr{b}
	}
	return w, nil
}

func (p *exprParser) parseNamed() (Expr, error) {
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected a type name, found %q", p.tok.text)
	}
	name := p.tok.text
	p.next()
	for _, v := range p.vars {
		if v.Name == name {
			return v, nil
		}
	}
	raw, err := p.universe.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !p.accept("<") {
		return raw, nil
	}
	var args []Expr
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(",") {
			break
		}
	}
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	if len(args) != len(raw.TypeParams()) {
		return nil, p.errorf("%s declares %d type parameters but %d were given", raw.Name(), len(raw.TypeParams()), len(args))
	}
	return Param(raw, args...), nil
}
