package resolvable

import (
	"github.com/cottand/rtype/meta"
)

// Generics describes the generic arguments of t.
//
// For a plain class these are its declared type parameters, unresolved.
// For util.Map<String, Integer> they describe String and Integer.
func (t *Type) Generics() []*Type {
	if t.isNone() || t.raw {
		return noTypes
	}
	if generics := t.generics.Load(); generics != nil {
		return *generics
	}
	var generics []*Type
	switch e := t.expr.(type) {
	case *meta.Class:
		params := e.TypeParams()
		generics = make([]*Type, len(params))
		owner := t.asVariableResolver()
		for i, p := range params {
			generics[i] = t.ctx.forExpr(p, owner)
		}
	case *meta.Parameterized:
		generics = make([]*Type, len(e.Args))
		for i, arg := range e.Args {
			generics[i] = t.ctx.forExpr(arg, t.resolver)
		}
	default:
		generics = t.resolveOneLevel().Generics()
	}
	t.generics.Store(&generics)
	return generics
}

// HasGenerics reports whether t has any generic arguments
func (t *Type) HasGenerics() bool {
	return len(t.Generics()) > 0
}

// Generic walks into the generics of t: Generic(1, 0) on
// util.Map<String, List<Integer>> describes Integer.
// Without indices it returns the first generic.
// It returns None when any index is out of range.
func (t *Type) Generic(indices ...int) *Type {
	if len(indices) == 0 {
		generics := t.Generics()
		if len(generics) == 0 {
			return None
		}
		return generics[0]
	}
	generic := t
	for _, i := range indices {
		generics := generic.Generics()
		if i < 0 || i >= len(generics) {
			return None
		}
		generic = generics[i]
	}
	return generic
}

// ResolveGeneric resolves Generic(indices...) to a class, or nil
func (t *Type) ResolveGeneric(indices ...int) *meta.Class {
	return t.Generic(indices...).Resolve()
}

// ResolveGenerics resolves every generic of t, using Object for the unresolvable ones
func (t *Type) ResolveGenerics() []*meta.Class {
	return t.ResolveGenericsOr(meta.Object)
}

// ResolveGenericsOr resolves every generic of t, using fallback for the unresolvable ones
func (t *Type) ResolveGenericsOr(fallback *meta.Class) []*meta.Class {
	generics := t.Generics()
	resolved := make([]*meta.Class, len(generics))
	for i, g := range generics {
		resolved[i] = g.ResolveOr(fallback)
	}
	return resolved
}

// HasUnresolvableGenerics reports whether some generic of t, or of its supertypes,
// cannot be resolved: an unresolvable variable, an unbounded wildcard, or a
// generic interface implemented without arguments.
func (t *Type) HasUnresolvableGenerics() bool {
	if t.isNone() {
		return false
	}
	for _, g := range t.Generics() {
		if g.isUnresolvableVariable() || g.isUnboundedWildcard() {
			return true
		}
	}
	resolved := t.Resolve()
	if resolved == nil {
		return false
	}
	ifaces, err := resolved.GenericInterfaces()
	if err == nil {
		for _, iface := range ifaces {
			if c, ok := iface.(*meta.Class); ok && len(c.TypeParams()) > 0 {
				return true
			}
		}
	}
	return t.SuperType().HasUnresolvableGenerics()
}

func (t *Type) isUnresolvableVariable() bool {
	v, ok := t.expr.(*meta.Variable)
	if !ok {
		return false
	}
	if t.resolver == nil {
		return true
	}
	resolved := t.resolver.ResolveVariable(v)
	return resolved == nil || resolved.isUnresolvableVariable()
}

func (t *Type) isUnboundedWildcard() bool {
	w, ok := t.expr.(*meta.Wildcard)
	return ok && len(w.Lower) == 0 && firstBound(w.Upper) == nil
}

// Nested descends nesting levels into t: level 1 is t itself, and every
// further level steps into the array component, or into a generic argument.
// For generics, the supertypes of t are climbed until one has generics, then
// the argument at indexPerLevel[level] is taken, the last argument by default.
//
// Level 2 of List<List<String>> is List<String>, level 3 is String.
func (t *Type) Nested(level int, indexPerLevel map[int]int) *Type {
	result := t
	for i := 2; i <= level; i++ {
		if result.IsArray() {
			result = result.ComponentType()
			continue
		}
		for !result.isNone() && !result.HasGenerics() {
			result = result.SuperType()
		}
		index, ok := indexPerLevel[i]
		if !ok {
			index = len(result.Generics()) - 1
		}
		result = result.Generic(index)
	}
	return result
}

// IsArray reports whether t describes an array
func (t *Type) IsArray() bool {
	if t.isNone() {
		return false
	}
	switch e := t.expr.(type) {
	case *meta.Class:
		return e.IsArray()
	case *meta.GenericArray:
		return true
	}
	return t.resolveOneLevel().IsArray()
}

// ComponentType describes the component of an array type, None for non-arrays
func (t *Type) ComponentType() *Type {
	if t.isNone() {
		return None
	}
	if t.component != nil {
		return t.component
	}
	switch e := t.expr.(type) {
	case *meta.Class:
		if !e.IsArray() {
			return None
		}
		return t.ctx.forExpr(e.Component(), t.resolver)
	case *meta.GenericArray:
		return t.ctx.forExpr(e.Component, t.resolver)
	}
	return t.resolveOneLevel().ComponentType()
}
