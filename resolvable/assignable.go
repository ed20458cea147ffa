package resolvable

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/cottand/rtype/meta"
	"github.com/hashicorp/go-set/v3"
)

// exprPair records that the expression lhs was already checked against rhs
type exprPair struct {
	lhs, rhs meta.Expr
}

func (p *exprPair) Hash() uint64 {
	h := fnv.New64a()
	arr := make([]byte, 0, 16)
	arr = binary.LittleEndian.AppendUint64(arr, p.lhs.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, p.rhs.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// matchedPairs holds the expression pairs whose generics are being checked,
// which are assumed assignable when met again
type matchedPairs = *set.HashSet[*exprPair, uint64]

// IsAssignableFrom reports whether a value of type other can be assigned to
// a variable of type t.
//
// Generic arguments are invariant: util.List<lang.Number> is not assignable
// from util.List<lang.Integer>. Wildcards widen that: util.List<? extends lang.Number>
// is. Type variables which cannot be resolved accept any type.
func (t *Type) IsAssignableFrom(other *Type) bool {
	return t.isAssignableFrom(other, true, nil)
}

// IsAssignableFromClass is IsAssignableFrom for a value of class c
func (t *Type) IsAssignableFromClass(c *meta.Class) bool {
	if t.isNone() || c == nil {
		return false
	}
	return t.IsAssignableFrom(t.ctx.ForClass(c))
}

// IsInstance reports whether v can be assigned to a variable of type t
func (t *Type) IsInstance(v any) bool {
	if t.isNone() || v == nil {
		return false
	}
	return t.IsAssignableFromClass(t.ctx.classOf(v))
}

// isAssignableFrom checks other against t. When strict, classes within
// generics must match exactly; wildcard bounds are checked leniently.
func (t *Type) isAssignableFrom(other *Type, strict bool, matched matchedPairs) bool {
	if t.isNone() || other.isNone() {
		return false
	}

	if t.raw {
		otherClass := other.Resolve()
		return otherClass != nil && t.resolved.IsAssignableFrom(otherClass)
	}

	// arrays are covariant in their component
	if t.IsArray() {
		return other.IsArray() && t.ComponentType().isAssignableFrom(other.ComponentType(), strict, matched)
	}

	if matched != nil && matched.Contains(&exprPair{t.expr, other.expr}) {
		return true
	}

	ourBounds := wildcardBoundsOf(t)
	otherBounds := wildcardBoundsOf(other)

	// X <: ? extends Number only when X is a wildcard of the same kind
	if otherBounds != nil {
		return ourBounds != nil && ourBounds.upper == otherBounds.upper && ourBounds.accepts(otherBounds.bounds, matched)
	}
	// ? extends Number <: X
	if ourBounds != nil {
		return ourBounds.accepts([]*Type{other}, matched)
	}

	// within generics, classes must match exactly
	exactMatch := strict && matched != nil
	checkGenerics := true
	var ourResolved *meta.Class
	if v, ok := t.expr.(*meta.Variable); ok {
		if t.resolver != nil {
			if resolved := t.resolver.ResolveVariable(v); resolved != nil {
				ourResolved = resolved.Resolve()
			}
		}
		if ourResolved == nil && other.resolver != nil {
			// the variable may be declared on the class other was derived from,
			// in which case its generics are congruent already
			if resolved := other.resolver.ResolveVariable(v); resolved != nil {
				ourResolved = resolved.Resolve()
				checkGenerics = false
			}
		}
		if ourResolved == nil {
			// an unresolvable variable accepts any subtype of its fallback,
			// even within generics: List<T> takes List<Integer> for an unbound T
			exactMatch = false
		}
	}
	if ourResolved == nil {
		ourResolved = t.ToClass()
	}
	otherResolved := other.ToClass()

	if exactMatch {
		if ourResolved != otherResolved {
			return false
		}
	} else if !ourResolved.IsAssignableFrom(otherResolved) {
		return false
	}

	if !checkGenerics {
		return true
	}
	ourGenerics := t.Generics()
	otherGenerics := other.As(ourResolved).Generics()
	if len(ourGenerics) != len(otherGenerics) {
		return false
	}
	if len(ourGenerics) == 0 {
		return true
	}
	if matched == nil {
		matched = set.NewHashSet[*exprPair, uint64](1)
	}
	matched.Insert(&exprPair{t.expr, other.expr})
	for i, ours := range ourGenerics {
		if !ours.isAssignableFrom(otherGenerics[i], true, matched) {
			return false
		}
	}
	return true
}

// wildcardBounds are the bounds of a wildcard type,
// either all upper bounds (? extends) or all lower bounds (? super)
type wildcardBounds struct {
	upper  bool
	bounds []*Type
}

// wildcardBoundsOf returns the bounds of the wildcard t resolves to, or nil
// if t does not resolve to a wildcard
func wildcardBoundsOf(t *Type) *wildcardBounds {
	resolveToWildcard := t
	for {
		if resolveToWildcard.isNone() {
			return nil
		}
		if _, ok := resolveToWildcard.expr.(*meta.Wildcard); ok {
			break
		}
		resolveToWildcard = resolveToWildcard.resolveOneLevel()
	}
	w := resolveToWildcard.expr.(*meta.Wildcard)
	wb := &wildcardBounds{upper: len(w.Lower) == 0}
	exprs := w.Lower
	if wb.upper {
		exprs = w.Upper
	}
	wb.bounds = make([]*Type, 0, len(exprs))
	for _, e := range exprs {
		if wb.upper && e == meta.Expr(meta.Object) {
			continue
		}
		wb.bounds = append(wb.bounds, resolveToWildcard.ctx.forExpr(e, resolveToWildcard.resolver))
	}
	return wb
}

// accepts reports whether every bound accepts every one of types
func (wb *wildcardBounds) accepts(types []*Type, matched matchedPairs) bool {
	for _, bound := range wb.bounds {
		for _, other := range types {
			if wb.upper && !bound.isAssignableFrom(other, false, matched) {
				return false
			}
			if !wb.upper && !other.isAssignableFrom(bound, false, matched) {
				return false
			}
		}
	}
	return true
}
