package meta_test

import (
	"reflect"
	"testing"

	"github.com/cottand/rtype/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassAssignability(t *testing.T) {
	u := meta.Builtin()
	lookup := u.MustLookup

	assignable := [][2]string{
		{"lang.Number", "lang.Integer"},
		{"lang.Object", "lang.Integer"},
		{"lang.Object", "util.List"},
		{"util.Collection", "util.ArrayList"},
		{"lang.Iterable", "util.ArrayList"},
		{"util.Map", "util.TreeMap"},
		{"lang.Comparable", "lang.String"},
		{"lang.CharSequence", "lang.String"},
		{"int", "int"},
		{"lang.Number[]", "lang.Integer[]"},
		{"lang.Object", "lang.Integer[]"},
	}
	for _, pair := range assignable {
		assert.True(t, lookup(pair[0]).IsAssignableFrom(lookup(pair[1])), "%s from %s", pair[0], pair[1])
	}

	notAssignable := [][2]string{
		{"lang.Integer", "lang.Number"},
		{"util.List", "util.HashSet"},
		{"lang.Object", "int"},
		{"long", "int"},
		{"lang.Integer[]", "lang.Number[]"},
		{"int[]", "lang.Integer[]"},
		{"lang.Number", "lang.Integer[]"},
	}
	for _, pair := range notAssignable {
		assert.False(t, lookup(pair[0]).IsAssignableFrom(lookup(pair[1])), "%s from %s", pair[0], pair[1])
	}
	assert.False(t, lookup("lang.Object").IsAssignableFrom(nil))
}

func TestArrayOfIsStable(t *testing.T) {
	str := meta.NewClass("x.Str")
	arr := meta.ArrayOf(str)

	assert.Same(t, arr, meta.ArrayOf(str))
	assert.Same(t, str, arr.Component())
	assert.Equal(t, meta.KindArray, arr.Kind())
	assert.Equal(t, "x.Str[]", arr.Name())
	assert.Equal(t, "Str[]", arr.SimpleName())
}

func TestGenericSuperclass(t *testing.T) {
	u := meta.Builtin()

	super, err := u.MustLookup("util.ArrayList").GenericSuperclass()
	require.NoError(t, err)
	assert.Equal(t, "util.AbstractList<E>", super.String())

	super, err = u.MustLookup("lang.Number").GenericSuperclass()
	require.NoError(t, err)
	assert.Same(t, meta.Object, super)

	for _, name := range []string{"lang.Object", "util.List", "int"} {
		super, err = u.MustLookup(name).GenericSuperclass()
		require.NoError(t, err)
		assert.Nil(t, super, name)
	}
}

func TestMissingSupertype(t *testing.T) {
	base := meta.NewClass("x.Base")
	broken := meta.NewClass("x.Broken").Extends(base).Requires("x.Gone")

	_, err := broken.GenericSuperclass()
	assert.ErrorIs(t, err, meta.ErrTypeNotPresent)
	_, err = broken.GenericInterfaces()
	assert.ErrorIs(t, err, meta.ErrTypeNotPresent)

	// the hierarchy of a broken class is not walked
	assert.Equal(t, 0, broken.Supertypes().Len())
	assert.False(t, base.IsAssignableFrom(broken))
}

func TestSupertypesAreTransitive(t *testing.T) {
	u := meta.Builtin()
	supers := u.MustLookup("util.ArrayList").Supertypes()

	for _, name := range []string{"util.AbstractList", "util.AbstractCollection", "util.List", "util.Collection", "lang.Iterable", "util.RandomAccess", "lang.Object"} {
		assert.True(t, supers.Has(u.MustLookup(name)), name)
	}
	assert.False(t, supers.Has(u.MustLookup("util.ArrayList")))
	assert.False(t, supers.Has(u.MustLookup("util.Set")))
}

func TestBoundPanicsOnUnknownParam(t *testing.T) {
	c := meta.NewClass("x.Box", "T")
	assert.Panics(t, func() { c.Bound("U", meta.Object) })
	assert.NotPanics(t, func() { c.Bound("T", meta.Object) })
	assert.Equal(t, []meta.Expr{meta.Object}, c.Param("T").Bounds)
}

func TestSites(t *testing.T) {
	u := meta.Builtin()
	arrayList := u.MustLookup("util.ArrayList")

	field := arrayList.Field("elementData")
	require.NotNil(t, field)
	assert.Same(t, arrayList, field.DeclaringClass())
	assert.Equal(t, "E[]", field.GenericType().String())

	get := u.MustLookup("util.List").Method("get")
	require.NotNil(t, get)
	assert.Equal(t, "E", get.ReturnSite().GenericType().String())
	assert.Equal(t, "int", get.Parameter(0).GenericType().String())
	assert.Panics(t, func() { get.Parameter(1) })

	ctor := arrayList.Method(meta.ConstructorName)
	require.NotNil(t, ctor)
	assert.True(t, ctor.Constructor)
	assert.True(t, meta.IsEmpty(ctor.ReturnSite().GenericType()))
	assert.Equal(t, "util.Collection<? extends E>", ctor.Parameter(0).GenericType().String())
}

type goDog struct{}

type selfDescribing struct{ class *meta.Class }

func (s selfDescribing) Class() *meta.Class { return s.class }

func TestUniverseLookup(t *testing.T) {
	u := meta.NewUniverse()
	fooA := meta.NewClass("a.Foo")
	fooB := meta.NewClass("b.Foo")
	u.Define(fooA)

	found, err := u.Lookup("Foo")
	require.NoError(t, err)
	assert.Same(t, fooA, found)

	u.Define(fooB)
	_, err = u.Lookup("Foo")
	assert.ErrorIs(t, err, meta.ErrAmbiguousType)
	assert.Same(t, fooB, u.MustLookup("b.Foo"))

	_, err = u.Lookup("c.Foo")
	assert.ErrorIs(t, err, meta.ErrUnknownType)

	arr, err := u.Lookup("a.Foo[][]")
	require.NoError(t, err)
	assert.Same(t, meta.ArrayOf(meta.ArrayOf(fooA)), arr)
}

func TestUniverseRedefine(t *testing.T) {
	u := meta.NewUniverse()
	first := meta.NewClass("zoo.Dog")
	u.Define(first)
	u.Bind(reflect.TypeOf(goDog{}), first)

	second := meta.NewClass("zoo.Dog")
	assert.Same(t, first, u.Define(second))

	found, err := u.Lookup("Dog")
	require.NoError(t, err, "a redefined class must not make its simple name ambiguous")
	assert.Same(t, second, found)
	assert.Same(t, second, u.ClassOf(goDog{}))
}

func TestClassOf(t *testing.T) {
	u := meta.NewUniverse()
	dog := meta.NewClass("zoo.Dog")
	u.Define(dog)

	assert.Nil(t, u.ClassOf(goDog{}))
	assert.Nil(t, u.ClassOf(nil))
	u.Bind(reflect.TypeOf(goDog{}), dog)
	assert.Same(t, dog, u.ClassOf(goDog{}))

	cat := meta.NewClass("zoo.Cat")
	assert.Same(t, cat, u.ClassOf(selfDescribing{cat}))

	var noUniverse *meta.Universe
	assert.Same(t, cat, noUniverse.ClassOf(selfDescribing{cat}))
	assert.Nil(t, noUniverse.ClassOf(goDog{}))
}

func TestClassesAreSorted(t *testing.T) {
	u := meta.Builtin()
	classes := u.Classes()
	require.NotEmpty(t, classes)
	for i := 1; i < len(classes); i++ {
		assert.Less(t, classes[i-1].Name(), classes[i].Name())
	}
}
