package meta

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
)

// Expr is the declared shape of a type, as host metadata reports it.
//
// The set of implementations is closed:
//   - *Class for a plain nominal type without generic arguments
//   - *Parameterized for a generic instantiation
//   - *GenericArray for arrays whose component is generic
//   - *Wildcard for ? / ? extends / ? super
//   - *Variable for type parameters
//   - Empty when no type is available
type Expr interface {
	fmt.Stringer
	Hash() uint64
	isExpr()
}

var (
	_ Expr = (*Class)(nil)
	_ Expr = (*Parameterized)(nil)
	_ Expr = (*GenericArray)(nil)
	_ Expr = (*Wildcard)(nil)
	_ Expr = (*Variable)(nil)
	_ Expr = emptyExpr{}
)

type emptyExpr struct{}

// Empty is the sentinel for "no type available"
var Empty Expr = emptyExpr{}

func (emptyExpr) isExpr()        {}
func (emptyExpr) String() string { return "<empty>" }
func (emptyExpr) Hash() uint64   { return 0x9e3779b97f4a7c15 }
func (*Class) isExpr()           {}
func (*Parameterized) isExpr()   {}
func (*GenericArray) isExpr()    {}
func (*Wildcard) isExpr()        {}
func (*Variable) isExpr()        {}

// IsEmpty reports whether e carries no type. A nil Expr counts as empty.
func IsEmpty(e Expr) bool {
	if e == nil {
		return true
	}
	_, ok := e.(emptyExpr)
	return ok
}

// Parameterized is a generic instantiation such as Map<String, Integer>.
type Parameterized struct {
	Raw  *Class
	Args []Expr
	// Owner is the enclosing type of an inner class instantiation, may be nil
	Owner Expr
}

// Param builds a Parameterized over raw with args.
func Param(raw *Class, args ...Expr) *Parameterized {
	return &Parameterized{Raw: raw, Args: args}
}

func (t *Parameterized) String() string {
	sb := strings.Builder{}
	if t.Owner != nil {
		sb.WriteString(t.Owner.String())
		sb.WriteString("$")
	}
	sb.WriteString(t.Raw.Name())
	if len(t.Args) == 0 {
		return sb.String()
	}
	sb.WriteString("<")
	for i, arg := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(">")
	return sb.String()
}

func (t *Parameterized) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("Parameterized"))
	arr := make([]byte, 0, 8*(len(t.Args)+2))
	arr = binary.LittleEndian.AppendUint64(arr, t.Raw.Hash())
	for _, arg := range t.Args {
		arr = binary.LittleEndian.AppendUint64(arr, arg.Hash())
	}
	if t.Owner != nil {
		arr = binary.LittleEndian.AppendUint64(arr, t.Owner.Hash())
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

// GenericArray is an array whose component is a Parameterized or a Variable,
// like List<String>[] or T[].
type GenericArray struct {
	Component Expr
}

func (t *GenericArray) String() string { return t.Component.String() + "[]" }

func (t *GenericArray) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("GenericArray"))
	_, _ = h.Write(binary.LittleEndian.AppendUint64(nil, t.Component.Hash()))
	return h.Sum64()
}

// Wildcard is ?, ? extends Upper & ... or ? super Lower.
// An unbounded wildcard has neither bounds.
type Wildcard struct {
	Upper []Expr
	Lower []Expr
}

func (t *Wildcard) String() string {
	switch {
	case len(t.Lower) > 0:
		return "? super " + joinExprs(t.Lower, " & ")
	case len(t.Upper) > 0:
		return "? extends " + joinExprs(t.Upper, " & ")
	default:
		return "?"
	}
}

func (t *Wildcard) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("Wildcard"))
	arr := make([]byte, 0, 8*(len(t.Upper)+len(t.Lower)+1))
	for _, b := range t.Upper {
		arr = binary.LittleEndian.AppendUint64(arr, b.Hash())
	}
	// separates ? extends A from ? super A
	arr = binary.LittleEndian.AppendUint64(arr, uint64(len(t.Upper)))
	for _, b := range t.Lower {
		arr = binary.LittleEndian.AppendUint64(arr, b.Hash())
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Variable is a declared type parameter.
//
// Two variables are the same variable when they share Declarer and Name;
// Bounds do not take part in equality, as a bound may refer back to the
// variable itself (T extends Comparable<T>).
type Variable struct {
	Name string
	// Declarer is the qualified name of the declaring class or method
	Declarer string
	Bounds   []Expr
}

func (t *Variable) String() string { return t.Name }

func (t *Variable) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("Variable"))
	_, _ = h.Write([]byte(t.Declarer))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(t.Name))
	return h.Sum64()
}

// Equal is structural equality over expressions. Classes compare by identity.
func Equal(a, b Expr) bool {
	if IsEmpty(a) || IsEmpty(b) {
		return IsEmpty(a) && IsEmpty(b)
	}
	switch a := a.(type) {
	case *Class:
		bc, ok := b.(*Class)
		return ok && a == bc
	case *Parameterized:
		bp, ok := b.(*Parameterized)
		if !ok || a.Raw != bp.Raw {
			return false
		}
		if (a.Owner == nil) != (bp.Owner == nil) || (a.Owner != nil && !Equal(a.Owner, bp.Owner)) {
			return false
		}
		return slices.EqualFunc(a.Args, bp.Args, Equal)
	case *GenericArray:
		bg, ok := b.(*GenericArray)
		return ok && Equal(a.Component, bg.Component)
	case *Wildcard:
		bw, ok := b.(*Wildcard)
		return ok && slices.EqualFunc(a.Upper, bw.Upper, Equal) && slices.EqualFunc(a.Lower, bw.Lower, Equal)
	case *Variable:
		bv, ok := b.(*Variable)
		return ok && a.Name == bv.Name && a.Declarer == bv.Declarer
	}
	return false
}

// RawClass returns the class behind a Class or Parameterized expression, nil otherwise
func RawClass(e Expr) *Class {
	switch e := e.(type) {
	case *Class:
		return e
	case *Parameterized:
		return e.Raw
	}
	return nil
}

func joinExprs(exprs []Expr, sep string) string {
	strs := make([]string, len(exprs))
	for i, e := range exprs {
		strs[i] = e.String()
	}
	return strings.Join(strs, sep)
}
