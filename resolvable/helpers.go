package resolvable

import (
	"github.com/cottand/rtype/meta"
	"github.com/pkg/errors"
)

// ErrNotSingleGeneric is returned when a single type argument was asked for
// a type with several generics
var ErrNotSingleGeneric = errors.New("expected a single type argument")

// ResolveTypeArguments resolves the type arguments that c binds for genericIface,
// a generic supertype of c. Unresolvable arguments are reported as meta.Object.
// It returns nil when c does not bind any argument of genericIface.
func (ctx *Ctx) ResolveTypeArguments(c, genericIface *meta.Class) []*meta.Class {
	notNil(c, "class")
	asIface := ctx.ForClass(c).As(genericIface)
	if !asIface.HasGenerics() || asIface.isEntirelyUnresolvable() {
		return nil
	}
	return asIface.ResolveGenerics()
}

// ResolveTypeArgument is ResolveTypeArguments for a genericIface with a single
// type parameter. It returns nil when the argument cannot be resolved.
func (ctx *Ctx) ResolveTypeArgument(c, genericIface *meta.Class) (*meta.Class, error) {
	notNil(c, "class")
	return singleGeneric(ctx.ForClass(c).As(genericIface))
}

// ResolveReturnTypeArgument resolves the single type argument that the return
// type of m binds for genericIface, like lang.String for a method returning
// function.Supplier<lang.String>.
func (ctx *Ctx) ResolveReturnTypeArgument(m *meta.Method, genericIface *meta.Class) (*meta.Class, error) {
	notNil(m, "method")
	return singleGeneric(ctx.ForReturnType(m).As(genericIface))
}

func singleGeneric(t *Type) (*meta.Class, error) {
	generics := t.Generics()
	switch len(generics) {
	case 0:
		return nil, nil
	case 1:
		return generics[0].Resolve(), nil
	default:
		return nil, errors.Wrapf(ErrNotSingleGeneric, "%s has %d", t, len(generics))
	}
}

func (t *Type) isEntirelyUnresolvable() bool {
	for _, g := range t.Generics() {
		if g.Resolve() != nil {
			return false
		}
	}
	return true
}

// ResolveTypeArguments resolves the type arguments c binds for genericIface using Default
func ResolveTypeArguments(c, genericIface *meta.Class) []*meta.Class {
	return Default.ResolveTypeArguments(c, genericIface)
}

// ResolveTypeArgument resolves the single type argument c binds for genericIface using Default
func ResolveTypeArgument(c, genericIface *meta.Class) (*meta.Class, error) {
	return Default.ResolveTypeArgument(c, genericIface)
}

// ResolveReturnTypeArgument resolves the single type argument the return type
// of m binds for genericIface using Default
func ResolveReturnTypeArgument(m *meta.Method, genericIface *meta.Class) (*meta.Class, error) {
	return Default.ResolveReturnTypeArgument(m, genericIface)
}
