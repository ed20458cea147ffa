package resolvable

import (
	"github.com/cottand/rtype/meta"
)

// Resolve returns the class t resolves to, or nil when t cannot be resolved
func (t *Type) Resolve() *meta.Class {
	if t.isNone() {
		return nil
	}
	return t.resolved
}

// ResolveOr returns the class t resolves to, or fallback
func (t *Type) ResolveOr(fallback *meta.Class) *meta.Class {
	if c := t.Resolve(); c != nil {
		return c
	}
	return fallback
}

// ToClass returns the class t resolves to, or meta.Object
func (t *Type) ToClass() *meta.Class {
	return t.ResolveOr(meta.Object)
}

func (t *Type) resolveClass() *meta.Class {
	switch e := t.expr.(type) {
	case *meta.Class:
		return e
	case *meta.GenericArray:
		component := t.ComponentType().Resolve()
		if component == nil {
			return nil
		}
		return meta.ArrayOf(component)
	}
	if meta.IsEmpty(t.expr) {
		return nil
	}
	return t.resolveOneLevel().Resolve()
}

// resolveOneLevel unwraps a single level of t: the raw class of a
// parameterized type, the bound of a wildcard, or the value of a variable.
func (t *Type) resolveOneLevel() *Type {
	if t.isNone() {
		return None
	}
	switch e := t.expr.(type) {
	case *meta.Parameterized:
		return t.ctx.forExpr(e.Raw, t.resolver)
	case *meta.Wildcard:
		bound := firstBound(e.Upper)
		if bound == nil && len(e.Lower) > 0 {
			// ? super Object is bounded by Object, unlike ? extends Object
			bound = e.Lower[0]
		}
		return t.ctx.forExpr(bound, t.resolver)
	case *meta.Variable:
		if t.resolver != nil {
			if resolved := t.resolver.ResolveVariable(e); resolved != nil {
				return resolved
			}
		}
		return t.ctx.forExpr(firstBound(e.Bounds), t.resolver)
	}
	return None
}

// firstBound returns the first of the upper bounds, treating Object as no bound at all
func firstBound(bounds []meta.Expr) meta.Expr {
	if len(bounds) == 0 || bounds[0] == meta.Expr(meta.Object) {
		return nil
	}
	return bounds[0]
}

// resolveVariable finds the descriptor v stands for in the context of t
func (t *Type) resolveVariable(v *meta.Variable) *Type {
	if t.isNone() {
		return nil
	}
	switch e := t.expr.(type) {
	case *meta.Variable:
		return t.resolveOneLevel().resolveVariable(v)
	case *meta.Parameterized:
		resolved := t.Resolve()
		if resolved == nil {
			return nil
		}
		for i, param := range resolved.TypeParams() {
			if param.Name == v.Name && i < len(e.Args) {
				return t.ctx.forExpr(e.Args[i], t.resolver)
			}
		}
		if e.Owner != nil {
			return t.ctx.forExpr(e.Owner, t.resolver).resolveVariable(v)
		}
	case *meta.Wildcard:
		if resolved := t.resolveOneLevel().resolveVariable(v); resolved != nil {
			return resolved
		}
	}
	if t.resolver != nil {
		return t.resolver.ResolveVariable(v)
	}
	return nil
}

// SuperType describes the generic superclass of the class t resolves to, with
// the type variables of that class resolved through t. It returns None for
// Object, interfaces, and when the superclass is not present.
func (t *Type) SuperType() *Type {
	resolved := t.Resolve()
	if resolved == nil {
		return None
	}
	if super := t.superType.Load(); super != nil {
		return super
	}
	expr, err := resolved.GenericSuperclass()
	if err != nil {
		t.ctx.logger.Debug("superclass not available", "type", resolved.Name(), "error", err)
		return None
	}
	super := t.ctx.forExpr(expr, t.asVariableResolver())
	t.superType.Store(super)
	return super
}

// Interfaces describes the interfaces directly implemented by the class t
// resolves to, with their type variables resolved through t.
// It is empty when the interfaces are not present.
func (t *Type) Interfaces() []*Type {
	resolved := t.Resolve()
	if resolved == nil {
		return noTypes
	}
	if ifaces := t.interfaces.Load(); ifaces != nil {
		return *ifaces
	}
	exprs, err := resolved.GenericInterfaces()
	if err != nil {
		t.ctx.logger.Debug("interfaces not available", "type", resolved.Name(), "error", err)
		return noTypes
	}
	ifaces := make([]*Type, len(exprs))
	resolver := t.asVariableResolver()
	for i, e := range exprs {
		ifaces[i] = t.ctx.forExpr(e, resolver)
	}
	t.interfaces.Store(&ifaces)
	return ifaces
}

// As views t as target, a class t resolves to or one of its supertypes,
// so that the generics of target are expressed in terms of t.
// For util.TreeMap<String, Integer> viewed as util.Map this gives
// util.Map<String, Integer>. It returns None when t does not implement target.
func (t *Type) As(target *meta.Class) *Type {
	resolved := t.Resolve()
	if resolved == nil || target == nil {
		return None
	}
	if resolved == target {
		return t
	}
	for _, iface := range t.Interfaces() {
		if asTarget := iface.As(target); !asTarget.isNone() {
			return asTarget
		}
	}
	return t.SuperType().As(target)
}
