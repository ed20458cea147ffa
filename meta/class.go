package meta

import (
	"hash/fnv"
	"strings"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

// ErrTypeNotPresent is returned when a class declares a supertype
// that is not available in its Universe
var ErrTypeNotPresent = errors.New("type not present")

type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
	KindArray
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	default:
		return "invalid"
	}
}

var classIDs atomic.Uint64

// Class is a type handle: a nominal type independent of any generic arguments.
//
// Classes are compared by identity. Redefining a class under the same name
// (see Universe.Define) produces a distinct handle.
//
// A Class is built once (NewClass, Extends, Implements, ...) and must not be
// modified after it is handed to the resolution engine.
type Class struct {
	id         uint64
	name       string
	kind       Kind
	typeParams []*Variable
	superclass Expr
	interfaces []Expr
	// missing names supertypes which were declared but could not be found
	missing   []string
	component *Class
	fields    []*Field
	methods   []*Method

	arrayOf    atomic.Pointer[Class]
	supertypes atomic.Pointer[immutable.Set[*Class]]
}

// Object is the root of every class hierarchy
var Object = &Class{id: classIDs.Add(1), name: "lang.Object", kind: KindClass}

// NewClass declares a class named name with the given type parameters.
func NewClass(name string, typeParams ...string) *Class {
	return newClass(name, KindClass, typeParams)
}

// NewInterface declares an interface named name with the given type parameters.
func NewInterface(name string, typeParams ...string) *Class {
	return newClass(name, KindInterface, typeParams)
}

// NewPrimitive declares a primitive type, which is only assignable to itself.
func NewPrimitive(name string) *Class {
	return newClass(name, KindPrimitive, nil)
}

func newClass(name string, kind Kind, typeParams []string) *Class {
	c := &Class{
		id:   classIDs.Add(1),
		name: name,
		kind: kind,
	}
	for _, p := range typeParams {
		c.typeParams = append(c.typeParams, &Variable{Name: p, Declarer: name})
	}
	return c
}

// Extends sets the generic superclass of c
func (c *Class) Extends(super Expr) *Class {
	c.superclass = super
	return c
}

// Implements appends directly implemented (or, for interfaces, extended) interfaces
func (c *Class) Implements(ifaces ...Expr) *Class {
	c.interfaces = append(c.interfaces, ifaces...)
	return c
}

// Requires records a supertype named name that is declared but not available.
// Walking the supertypes of c then fails with ErrTypeNotPresent.
func (c *Class) Requires(name string) *Class {
	c.missing = append(c.missing, name)
	return c
}

// Bound sets the declared bounds of the type parameter named param.
// It panics if c declares no such parameter.
func (c *Class) Bound(param string, bounds ...Expr) *Class {
	v := c.Param(param)
	if v == nil {
		panic("class " + c.name + " declares no type parameter " + param)
	}
	v.Bounds = bounds
	return c
}

// Param returns the declared type parameter named name, or nil
func (c *Class) Param(name string) *Variable {
	for _, p := range c.typeParams {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (c *Class) Name() string { return c.name }
func (c *Class) Kind() Kind   { return c.kind }

// SimpleName is the last dot-separated segment of the name
func (c *Class) SimpleName() string {
	if c.IsArray() {
		return c.component.SimpleName() + "[]"
	}
	if i := strings.LastIndexByte(c.name, '.'); i >= 0 {
		return c.name[i+1:]
	}
	return c.name
}

func (c *Class) String() string      { return c.name }
func (c *Class) IsArray() bool       { return c.kind == KindArray }
func (c *Class) IsInterface() bool   { return c.kind == KindInterface }
func (c *Class) IsPrimitive() bool   { return c.kind == KindPrimitive }
func (c *Class) Component() *Class   { return c.component }
func (c *Class) TypeParams() []*Variable {
	return c.typeParams
}

func (c *Class) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(c.name))
	return h.Sum64() ^ (c.id * 1099511628211)
}

// GenericSuperclass returns the declared superclass expression, or nil if c has none.
// Classes without an explicit superclass extend Object; Object, interfaces
// and primitives have no superclass.
func (c *Class) GenericSuperclass() (Expr, error) {
	if err := c.checkPresent(); err != nil {
		return nil, err
	}
	switch {
	case c == Object, c.kind == KindInterface, c.kind == KindPrimitive:
		return nil, nil
	case c.superclass != nil:
		return c.superclass, nil
	default:
		return Object, nil
	}
}

// GenericInterfaces returns the directly declared interface expressions
func (c *Class) GenericInterfaces() ([]Expr, error) {
	if err := c.checkPresent(); err != nil {
		return nil, err
	}
	return c.interfaces, nil
}

func (c *Class) checkPresent() error {
	if len(c.missing) == 0 {
		return nil
	}
	return errors.Wrapf(ErrTypeNotPresent, "%s (required by %s)", strings.Join(c.missing, ", "), c.name)
}

// ArrayOf returns the array class whose component is c.
// Repeated calls return the same handle.
func ArrayOf(c *Class) *Class {
	if arr := c.arrayOf.Load(); arr != nil {
		return arr
	}
	arr := &Class{
		id:        classIDs.Add(1),
		name:      c.name + "[]",
		kind:      KindArray,
		component: c,
	}
	if c.arrayOf.CompareAndSwap(nil, arr) {
		return arr
	}
	return c.arrayOf.Load()
}

// IsAssignableFrom reports whether a value of class other can be assigned to c,
// following nominal subtyping and covariant arrays.
func (c *Class) IsAssignableFrom(other *Class) bool {
	if c == nil || other == nil {
		return false
	}
	if c == other {
		return true
	}
	if c.kind == KindPrimitive || other.kind == KindPrimitive {
		return false
	}
	if c == Object {
		return true
	}
	if c.kind == KindArray {
		return other.kind == KindArray && c.component.IsAssignableFrom(other.component)
	}
	return other.Supertypes().Has(c)
}

// Supertypes is the set of all raw superclasses and interfaces of c, transitively.
// Supertypes that are not present are skipped.
func (c *Class) Supertypes() immutable.Set[*Class] {
	if s := c.supertypes.Load(); s != nil {
		return *s
	}
	traversed := set.New[*Class](4)
	c.collectSupertypes(traversed)
	traversed.Remove(c)
	s := immutable.NewSet[*Class](classHasher{}, traversed.Slice()...)
	c.supertypes.Store(&s)
	return s
}

func (c *Class) collectSupertypes(traversed *set.Set[*Class]) {
	if !traversed.Insert(c) {
		return
	}
	super, _ := c.GenericSuperclass()
	if raw := RawClass(super); raw != nil {
		raw.collectSupertypes(traversed)
	}
	ifaces, _ := c.GenericInterfaces()
	for _, iface := range ifaces {
		if raw := RawClass(iface); raw != nil {
			raw.collectSupertypes(traversed)
		}
	}
}

// AddField declares a field of c
func (c *Class) AddField(name string, typ Expr) *Field {
	f := &Field{Name: name, Type: typ, owner: c}
	c.fields = append(c.fields, f)
	return f
}

// Field returns the declared field named name, or nil
func (c *Class) Field(name string) *Field {
	for _, f := range c.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (c *Class) Fields() []*Field { return c.fields }

// AddMethod declares a method of c. typeParams are the method's own type parameters,
// which can be looked up with Method.Param to build params and ret.
func (c *Class) AddMethod(name string, typeParams ...string) *Method {
	m := &Method{Name: name, owner: c}
	for _, p := range typeParams {
		m.TypeParams = append(m.TypeParams, &Variable{Name: p, Declarer: c.name + "." + name})
	}
	c.methods = append(c.methods, m)
	return m
}

// AddConstructor declares a constructor of c
func (c *Class) AddConstructor(params ...Expr) *Method {
	m := &Method{Name: ConstructorName, owner: c, Params: params, Constructor: true}
	c.methods = append(c.methods, m)
	return m
}

// Method returns the first declared method named name, or nil
func (c *Class) Method(name string) *Method {
	for _, m := range c.methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (c *Class) Methods() []*Method { return c.methods }

type classHasher struct{}

func (classHasher) Hash(c *Class) uint32 {
	h := c.Hash()
	return uint32(h ^ h>>32)
}
func (classHasher) Equal(a, b *Class) bool { return a == b }
