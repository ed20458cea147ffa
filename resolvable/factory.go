package resolvable

import (
	"fmt"

	"github.com/cottand/rtype/meta"
	"github.com/pkg/errors"
)

// GenericArityError is returned when the number of generics given for a
// class does not match the number of type parameters it declares
type GenericArityError struct {
	Class    *meta.Class
	Expected int
	Actual   int
}

func (e *GenericArityError) Error() string {
	return fmt.Sprintf("mismatched number of generics for %s: declares %d, got %d", e.Class.Name(), e.Expected, e.Actual)
}

// Provider is implemented by values which know their type more precisely
// than their runtime class does, for example with generics
type Provider interface {
	ResolvableType() *Type
}

func notNil[A any](v *A, what string) {
	if v == nil {
		panic(what + " must not be nil")
	}
}

// ForClass describes class c without tracking any generics:
// Resolve returns c directly.
func (ctx *Ctx) ForClass(c *meta.Class) *Type {
	notNil(c, "class")
	return ctx.forExpr(c, nil)
}

// ForRawClass describes class c ignoring its generics entirely: it has no
// Generics, and assignability only checks raw classes.
func (ctx *Ctx) ForRawClass(c *meta.Class) *Type {
	notNil(c, "class")
	return &Type{ctx: ctx, expr: c, hash: computeHash(c, nil, nil), resolved: c, raw: true}
}

// ForClassAs describes base as implemented by implementation, so that generics
// of base bound by implementation are resolved. It falls back to
// ForRawClass(base) when implementation is nil or does not implement base.
func (ctx *Ctx) ForClassAs(base, implementation *meta.Class) *Type {
	notNil(base, "base class")
	if implementation == nil {
		return ctx.ForRawClass(base)
	}
	asBase := ctx.ForClass(implementation).As(base)
	if asBase.isNone() {
		return ctx.ForRawClass(base)
	}
	return asBase
}

// ForClassWithGenerics describes c instantiated with generics, one per declared
// type parameter. A nil (or None) generic leaves its parameter unresolved.
func (ctx *Ctx) ForClassWithGenerics(c *meta.Class, generics ...*Type) (*Type, error) {
	notNil(c, "class")
	params := c.TypeParams()
	if len(params) != len(generics) {
		return nil, errors.WithStack(&GenericArityError{Class: c, Expected: len(params), Actual: len(generics)})
	}
	args := make([]meta.Expr, len(generics))
	for i, g := range generics {
		args[i] = params[i]
		if g.isNone() {
			continue
		}
		if _, isVar := g.expr.(*meta.Variable); !isVar {
			args[i] = g.expr
		}
	}
	resolver := &genericsResolver{params: params, generics: genericsSource(generics)}
	return ctx.forExpr(meta.Param(c, args...), resolver), nil
}

// MustForClassWithGenerics is ForClassWithGenerics, panicking on error
func (ctx *Ctx) MustForClassWithGenerics(c *meta.Class, generics ...*Type) *Type {
	t, err := ctx.ForClassWithGenerics(c, generics...)
	if err != nil {
		panic(err)
	}
	return t
}

// ForClassWithGenericClasses is ForClassWithGenerics with each generic given as a class
func (ctx *Ctx) ForClassWithGenericClasses(c *meta.Class, generics ...*meta.Class) (*Type, error) {
	types := make([]*Type, len(generics))
	for i, g := range generics {
		types[i] = ctx.ForClass(g)
	}
	return ctx.ForClassWithGenerics(c, types...)
}

// ForSite describes the declared type of site. When owner is not nil, it is
// viewed as the declaring class of site and resolves the type variables of
// that class, like the element type of a field declared in a generic superclass.
func (ctx *Ctx) ForSite(site meta.Site, owner *Type) *Type {
	if site == nil {
		panic("declaration site must not be nil")
	}
	var resolver VariableResolver
	if !owner.isNone() {
		resolver = owner.As(site.DeclaringClass()).asVariableResolver()
	}
	return ctx.forExpr(site.GenericType(), resolver)
}

// ForField describes the declared type of f
func (ctx *Ctx) ForField(f *meta.Field) *Type {
	notNil(f, "field")
	return ctx.ForSite(f, nil)
}

// ForFieldIn describes the declared type of f as seen from implementation,
// a subclass of the field's declaring class
func (ctx *Ctx) ForFieldIn(f *meta.Field, implementation *meta.Class) *Type {
	notNil(f, "field")
	return ctx.ForSite(f, ctx.ownerOf(implementation))
}

// ForParameter describes the declared type of the i-th parameter of m.
// It panics when m has no i-th parameter.
func (ctx *Ctx) ForParameter(m *meta.Method, i int) *Type {
	notNil(m, "method")
	return ctx.ForSite(m.Parameter(i), nil)
}

// ForParameterIn is ForParameter as seen from implementation
func (ctx *Ctx) ForParameterIn(m *meta.Method, i int, implementation *meta.Class) *Type {
	notNil(m, "method")
	return ctx.ForSite(m.Parameter(i), ctx.ownerOf(implementation))
}

// ForReturnType describes the declared return type of m
func (ctx *Ctx) ForReturnType(m *meta.Method) *Type {
	notNil(m, "method")
	return ctx.ForSite(m.ReturnSite(), nil)
}

// ForReturnTypeIn is ForReturnType as seen from implementation
func (ctx *Ctx) ForReturnTypeIn(m *meta.Method, implementation *meta.Class) *Type {
	notNil(m, "method")
	return ctx.ForSite(m.ReturnSite(), ctx.ownerOf(implementation))
}

func (ctx *Ctx) ownerOf(implementation *meta.Class) *Type {
	if implementation == nil {
		return None
	}
	return ctx.ForClass(implementation)
}

// ForExpr describes expr, resolving its type variables through owner when owner is not nil
func (ctx *Ctx) ForExpr(expr meta.Expr, owner *Type) *Type {
	return ctx.forExpr(expr, owner.asVariableResolver())
}

// ForExprResolver describes expr, resolving its type variables through resolver (which may be nil)
func (ctx *Ctx) ForExprResolver(expr meta.Expr, resolver VariableResolver) *Type {
	return ctx.forExpr(expr, resolver)
}

// ForInstance describes the type of v: the descriptor v provides itself if it
// is a Provider, otherwise its runtime class. It returns None when the class
// of v is unknown.
func (ctx *Ctx) ForInstance(v any) *Type {
	if v == nil {
		panic("instance must not be nil")
	}
	if p, ok := v.(Provider); ok {
		if t := p.ResolvableType(); !t.isNone() {
			return t
		}
	}
	c := ctx.classOf(v)
	if c == nil {
		ctx.logger.Debug("no class known for instance", "goType", fmt.Sprintf("%T", v))
		return None
	}
	return ctx.ForClass(c)
}

// ForArrayComponent describes the array class whose component is component
func (ctx *Ctx) ForArrayComponent(component *Type) *Type {
	notNil(component, "component type")
	c := component.ToClass()
	arr := meta.ArrayOf(c)
	return &Type{ctx: ctx, expr: arr, component: component, hash: computeHash(arr, nil, component), resolved: arr}
}

// forExpr is the general constructor: classes are described directly, other
// expressions are interned in the Cache.
func (ctx *Ctx) forExpr(expr meta.Expr, resolver VariableResolver) *Type {
	if meta.IsEmpty(expr) {
		return None
	}
	if c, ok := expr.(*meta.Class); ok {
		return &Type{ctx: ctx, expr: c, resolver: resolver, hash: computeHash(c, resolver, nil), resolved: c}
	}

	probe := &Type{ctx: ctx, expr: expr, resolver: resolver, hash: computeHash(expr, resolver, nil)}
	if cached := ctx.cache.get(probe); cached != nil {
		return cached
	}
	probe.resolved = probe.resolveClass()
	return ctx.cache.put(probe)
}

// ForClass describes c using Default
func ForClass(c *meta.Class) *Type { return Default.ForClass(c) }

// ForRawClass describes c using Default
func ForRawClass(c *meta.Class) *Type { return Default.ForRawClass(c) }

// ForClassAs describes base as implemented by implementation using Default
func ForClassAs(base, implementation *meta.Class) *Type {
	return Default.ForClassAs(base, implementation)
}

// ForClassWithGenerics describes c with generics using Default
func ForClassWithGenerics(c *meta.Class, generics ...*Type) (*Type, error) {
	return Default.ForClassWithGenerics(c, generics...)
}

// MustForClassWithGenerics describes c with generics using Default
func MustForClassWithGenerics(c *meta.Class, generics ...*Type) *Type {
	return Default.MustForClassWithGenerics(c, generics...)
}

// ForClassWithGenericClasses describes c with generic classes using Default
func ForClassWithGenericClasses(c *meta.Class, generics ...*meta.Class) (*Type, error) {
	return Default.ForClassWithGenericClasses(c, generics...)
}

// ForSite describes the declared type of site using Default
func ForSite(site meta.Site, owner *Type) *Type { return Default.ForSite(site, owner) }

// ForField describes the declared type of f using Default
func ForField(f *meta.Field) *Type { return Default.ForField(f) }

// ForFieldIn describes the declared type of f in implementation using Default
func ForFieldIn(f *meta.Field, implementation *meta.Class) *Type {
	return Default.ForFieldIn(f, implementation)
}

// ForParameter describes the i-th parameter of m using Default
func ForParameter(m *meta.Method, i int) *Type { return Default.ForParameter(m, i) }

// ForParameterIn describes the i-th parameter of m in implementation using Default
func ForParameterIn(m *meta.Method, i int, implementation *meta.Class) *Type {
	return Default.ForParameterIn(m, i, implementation)
}

// ForReturnType describes the return type of m using Default
func ForReturnType(m *meta.Method) *Type { return Default.ForReturnType(m) }

// ForReturnTypeIn describes the return type of m in implementation using Default
func ForReturnTypeIn(m *meta.Method, implementation *meta.Class) *Type {
	return Default.ForReturnTypeIn(m, implementation)
}

// ForExpr describes expr owned by owner using Default
func ForExpr(expr meta.Expr, owner *Type) *Type { return Default.ForExpr(expr, owner) }

// ForInstance describes v using Default
func ForInstance(v any) *Type { return Default.ForInstance(v) }

// ForArrayComponent describes an array of component using Default
func ForArrayComponent(component *Type) *Type { return Default.ForArrayComponent(component) }
