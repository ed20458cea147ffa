package resolvable

import (
	"encoding/binary"
	"hash/fnv"
	"reflect"
	"slices"

	"github.com/cottand/rtype/meta"
	"github.com/hashicorp/go-set/v3"
)

// VariableResolver resolves type variables to descriptors in some context,
// typically the descriptor a type was derived from.
type VariableResolver interface {
	// Source identifies the context of the resolver: resolvers with equal
	// sources resolve equally. *Type sources compare with Type.Equal,
	// set.Hasher[uint64] sources by hash, other comparable sources with ==.
	Source() any
	// ResolveVariable returns the descriptor v stands for, or nil if v is unknown
	ResolveVariable(v *meta.Variable) *Type
}

var (
	_ VariableResolver = (*ownerResolver)(nil)
	_ VariableResolver = (*genericsResolver)(nil)
)

// ownerResolver answers for the variables of the classes its owner was derived from
type ownerResolver struct {
	owner *Type
}

func (r *ownerResolver) Source() any { return r.owner }
func (r *ownerResolver) ResolveVariable(v *meta.Variable) *Type {
	return r.owner.resolveVariable(v)
}

// genericsResolver maps the declared parameters of a class to explicit descriptors.
// A nil entry in generics leaves the parameter unresolved.
type genericsResolver struct {
	params   []*meta.Variable
	generics genericsSource
}

type genericsSource []*Type

func (s genericsSource) Hash() uint64 {
	h := fnv.New64a()
	arr := make([]byte, 0, 8*len(s))
	for _, g := range s {
		arr = binary.LittleEndian.AppendUint64(arr, g.Hash())
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

func (s genericsSource) equal(other genericsSource) bool {
	return slices.EqualFunc(s, other, (*Type).Equal)
}

func (r *genericsResolver) Source() any { return r.generics }
func (r *genericsResolver) ResolveVariable(v *meta.Variable) *Type {
	for i, p := range r.params {
		if p.Name == v.Name && p.Declarer == v.Declarer {
			if r.generics[i].isNone() {
				return nil
			}
			return r.generics[i]
		}
	}
	return nil
}

func sameResolver(a, b VariableResolver) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	switch sa := a.Source().(type) {
	case *Type:
		sb, ok := b.Source().(*Type)
		return ok && sa.Equal(sb)
	case genericsSource:
		sb, ok := b.Source().(genericsSource)
		return ok && sa.equal(sb)
	case set.Hasher[uint64]:
		sb, ok := b.Source().(set.Hasher[uint64])
		return ok && sa.Hash() == sb.Hash()
	default:
		return isComparable(sa) && a.Source() == b.Source()
	}
}

func sourceHash(source any) uint64 {
	if h, ok := source.(set.Hasher[uint64]); ok {
		return h.Hash()
	}
	return 0
}

func isComparable(v any) bool {
	t := reflect.TypeOf(v)
	return t == nil || t.Comparable()
}
