package meta

import (
	"cmp"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnknownType is returned when a name does not refer to a class of the Universe
var ErrUnknownType = errors.New("unknown type")

// ErrAmbiguousType is returned when a simple name matches more than one class
var ErrAmbiguousType = errors.New("ambiguous type")

// Instance is implemented by live values which know their own class
type Instance interface {
	Class() *Class
}

// Universe is a registry of classes by name.
// It is safe for concurrent use.
type Universe struct {
	mu       sync.RWMutex
	classes  map[string]*Class
	simple   map[string][]*Class
	bindings map[reflect.Type]*Class
}

// NewUniverse returns a Universe containing only Object and the primitives
func NewUniverse() *Universe {
	u := &Universe{
		classes:  make(map[string]*Class),
		simple:   make(map[string][]*Class),
		bindings: make(map[reflect.Type]*Class),
	}
	u.Define(Object)
	for _, p := range primitives {
		u.Define(p)
	}
	return u
}

var primitives = []*Class{
	NewPrimitive("int"),
	NewPrimitive("long"),
	NewPrimitive("double"),
	NewPrimitive("boolean"),
	NewPrimitive("byte"),
	NewPrimitive("char"),
}

// Define registers c under its name, replacing (and returning) any previous class of that name
func (u *Universe) Define(c *Class) (previous *Class) {
	u.mu.Lock()
	defer u.mu.Unlock()
	previous = u.classes[c.name]
	u.classes[c.name] = c
	simple := c.SimpleName()
	u.simple[simple] = slices.DeleteFunc(u.simple[simple], func(other *Class) bool {
		return other == previous
	})
	u.simple[simple] = append(u.simple[simple], c)
	if previous != nil {
		for t, bound := range u.bindings {
			if bound == previous {
				u.bindings[t] = c
			}
		}
	}
	return previous
}

// stage returns a copy of u which classes can be defined into without changing u
func (u *Universe) stage() *Universe {
	u.mu.RLock()
	defer u.mu.RUnlock()
	staged := &Universe{
		classes:  maps.Clone(u.classes),
		simple:   make(map[string][]*Class, len(u.simple)),
		bindings: maps.Clone(u.bindings),
	}
	for name, classes := range u.simple {
		staged.simple[name] = slices.Clone(classes)
	}
	return staged
}

// Lookup finds a class by qualified name, or by simple name when that is unambiguous.
// Names ending in [] refer to array classes.
func (u *Universe) Lookup(name string) (*Class, error) {
	if len(name) > 2 && name[len(name)-2:] == "[]" {
		component, err := u.Lookup(name[:len(name)-2])
		if err != nil {
			return nil, err
		}
		return ArrayOf(component), nil
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	if c, ok := u.classes[name]; ok {
		return c, nil
	}
	candidates := u.simple[name]
	switch len(candidates) {
	case 0:
		return nil, errors.Wrap(ErrUnknownType, name)
	case 1:
		return candidates[0], nil
	default:
		return nil, errors.Wrapf(ErrAmbiguousType, "%s matches %d classes", name, len(candidates))
	}
}

// MustLookup is Lookup, panicking on error
func (u *Universe) MustLookup(name string) *Class {
	c, err := u.Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Classes returns all registered classes ordered by name
func (u *Universe) Classes() []*Class {
	u.mu.RLock()
	defer u.mu.RUnlock()
	all := make([]*Class, 0, len(u.classes))
	for _, c := range u.classes {
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b *Class) int { return cmp.Compare(a.name, b.name) })
	return all
}

// Bind makes values of Go type t report class c in ClassOf
func (u *Universe) Bind(t reflect.Type, c *Class) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.bindings[t] = c
}

// ClassOf returns the runtime class of v: its own if v is an Instance,
// otherwise the class bound to its Go type. It returns nil if neither is known.
func (u *Universe) ClassOf(v any) *Class {
	if inst, ok := v.(Instance); ok {
		return inst.Class()
	}
	if v == nil || u == nil {
		return nil
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.bindings[reflect.TypeOf(v)]
}
