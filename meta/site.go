package meta

import (
	"fmt"
	"strings"
)

// ConstructorName is the Method.Name of constructors
const ConstructorName = "<init>"

// Site is a declaration whose declared type can be described: a field,
// a method or constructor parameter, or a method return type.
type Site interface {
	fmt.Stringer
	GenericType() Expr
	DeclaringClass() *Class
}

var (
	_ Site = (*Field)(nil)
	_ Site = (*Parameter)(nil)
	_ Site = (*Return)(nil)
)

type Field struct {
	Name  string
	Type  Expr
	owner *Class
}

func (f *Field) GenericType() Expr      { return f.Type }
func (f *Field) DeclaringClass() *Class { return f.owner }
func (f *Field) String() string         { return f.owner.Name() + "." + f.Name }

// Method is a method or a constructor of a class.
type Method struct {
	Name        string
	TypeParams  []*Variable
	Params      []Expr
	Returns     Expr
	Constructor bool
	owner       *Class
}

// Param returns the method's own type parameter named name, or nil
func (m *Method) Param(name string) *Variable {
	for _, p := range m.TypeParams {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Accepts sets the declared parameter types
func (m *Method) Accepts(params ...Expr) *Method {
	m.Params = params
	return m
}

// Returning sets the declared return type
func (m *Method) Returning(ret Expr) *Method {
	m.Returns = ret
	return m
}

func (m *Method) DeclaringClass() *Class { return m.owner }

// Parameter returns the declaration site of the i-th parameter.
// It panics when i is outside the declared parameters.
func (m *Method) Parameter(i int) *Parameter {
	if i < 0 || i >= len(m.Params) {
		panic(fmt.Sprintf("parameter index %d out of range for %s with %d parameters", i, m, len(m.Params)))
	}
	return &Parameter{Method: m, Index: i}
}

// ReturnSite returns the declaration site of the return type
func (m *Method) ReturnSite() *Return {
	return &Return{Method: m}
}

func (m *Method) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s.%s(%s)", m.owner.Name(), m.Name, strings.Join(params, ", "))
}

type Parameter struct {
	Method *Method
	Index  int
}

func (p *Parameter) GenericType() Expr      { return p.Method.Params[p.Index] }
func (p *Parameter) DeclaringClass() *Class { return p.Method.owner }
func (p *Parameter) String() string {
	return fmt.Sprintf("parameter %d of %s", p.Index, p.Method)
}

type Return struct {
	Method *Method
}

func (r *Return) GenericType() Expr {
	if r.Method.Returns == nil {
		return Empty
	}
	return r.Method.Returns
}
func (r *Return) DeclaringClass() *Class { return r.Method.owner }
func (r *Return) String() string         { return "return type of " + r.Method.String() }
