// Package resolvable describes types with their full generic shape and
// answers resolution, generic navigation and assignability questions about them.
//
// A Type combines a meta.Expr with the context needed to resolve its type
// variables. Types are obtained from the factories (ForClass, ForField,
// ForExpr, ForInstance, ...) and are immutable. Unresolvable types are
// represented by None rather than by errors.
package resolvable

import (
	"encoding/binary"
	"hash/fnv"
	"strings"
	"sync/atomic"

	"github.com/cottand/rtype/meta"
	"github.com/hashicorp/go-set/v3"
)

// Type is a descriptor of a type expression together with the variable
// resolver that gives meaning to its type variables.
//
// Equality (Equal, Hash) only considers the expression, the resolver's source
// and the explicit component; the remaining fields are caches.
type Type struct {
	ctx      *Ctx
	expr     meta.Expr
	resolver VariableResolver
	// component is set by ForArrayComponent, nil otherwise
	component *Type
	hash      uint64
	// resolved is computed before the Type is published and never changes
	resolved *meta.Class
	// raw is set by ForRawClass: only raw classes take part in assignability
	raw bool

	superType  atomic.Pointer[Type]
	interfaces atomic.Pointer[[]*Type]
	generics   atomic.Pointer[[]*Type]
}

var _ set.Hasher[uint64] = (*Type)(nil)

// None is returned wherever no type is available
var None = &Type{expr: meta.Empty, hash: meta.Empty.Hash()}

var noTypes = []*Type{}

func (t *Type) isNone() bool {
	return t == nil || t == None
}

// IsNone reports whether t is None (or nil)
func (t *Type) IsNone() bool { return t.isNone() }

// Expr returns the underlying type expression
func (t *Type) Expr() meta.Expr {
	if t.isNone() {
		return meta.Empty
	}
	return t.expr
}

// VariableResolver returns the resolver used for type variables of t, or nil
func (t *Type) VariableResolver() VariableResolver {
	if t.isNone() {
		return nil
	}
	return t.resolver
}

// asVariableResolver adapts t to resolve variables declared on the
// classes it was derived from
func (t *Type) asVariableResolver() VariableResolver {
	if t.isNone() {
		return nil
	}
	return &ownerResolver{owner: t}
}

func (t *Type) Hash() uint64 {
	if t == nil {
		return None.hash
	}
	return t.hash
}

func computeHash(expr meta.Expr, resolver VariableResolver, component *Type) uint64 {
	h := fnv.New64a()
	arr := make([]byte, 0, 24)
	arr = binary.LittleEndian.AppendUint64(arr, expr.Hash())
	if resolver != nil {
		arr = binary.LittleEndian.AppendUint64(arr, sourceHash(resolver.Source()))
	}
	if component != nil {
		arr = binary.LittleEndian.AppendUint64(arr, component.Hash())
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Equal reports whether t and other describe the same expression in the same context
func (t *Type) Equal(other *Type) bool {
	if t.isNone() || other.isNone() {
		return t.isNone() && other.isNone()
	}
	if t == other {
		return true
	}
	if t.hash != other.hash || t.raw != other.raw {
		return false
	}
	if !meta.Equal(t.expr, other.expr) {
		return false
	}
	if !sameResolver(t.resolver, other.resolver) {
		return false
	}
	if (t.component == nil) != (other.component == nil) {
		return false
	}
	return t.component == nil || t.component.Equal(other.component)
}

// String shows the resolved class with its resolved generics, using ? for
// variables which cannot be resolved, like util.Map<lang.String, ?>.
func (t *Type) String() string {
	if t.IsArray() {
		return t.ComponentType().String() + "[]"
	}
	if t.isNone() || t.resolved == nil {
		return "?"
	}
	if v, ok := t.expr.(*meta.Variable); ok {
		// variable bounds are ignored, they may refer to the variable itself
		if t.resolver == nil || t.resolver.ResolveVariable(v) == nil {
			return "?"
		}
	}
	generics := t.Generics()
	if len(generics) == 0 {
		return t.resolved.Name()
	}
	sb := strings.Builder{}
	sb.WriteString(t.resolved.Name())
	sb.WriteString("<")
	for i, g := range generics {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(g.String())
	}
	sb.WriteString(">")
	return sb.String()
}
