package resolvable_test

import (
	"testing"

	"github.com/cottand/rtype/meta"
	"github.com/cottand/rtype/resolvable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericNavigation(t *testing.T) {
	z := newZoo(t)
	m := z.expr("Map<String, List<Integer>>")

	assert.Same(t, z.class("lang.String"), m.ResolveGeneric(0))
	assert.Same(t, z.class("lang.String"), m.Generic().Resolve())
	assert.Same(t, z.class("util.List"), m.ResolveGeneric(1))
	assert.Same(t, z.class("lang.Integer"), m.ResolveGeneric(1, 0))
	assert.Equal(t, []*meta.Class{z.class("lang.String"), z.class("util.List")}, m.ResolveGenerics())

	assert.True(t, m.Generic(2).IsNone())
	assert.True(t, m.Generic(-1).IsNone())
	assert.True(t, m.Generic(1, 0, 0).IsNone())
	assert.Nil(t, m.ResolveGeneric(1, 1))

	assert.True(t, m.HasGenerics())
	assert.False(t, z.forClass("lang.String").HasGenerics())

	assert.Same(t, meta.Object, z.expr("List<? super Object>").ResolveGeneric(0))
	assert.Same(t, z.class("lang.Number"), z.expr("List<? super Number>").ResolveGeneric(0))
	assert.Nil(t, z.expr("List<?>").Generic(0).Resolve())
}

func TestAs(t *testing.T) {
	z := newZoo(t)

	intList := z.forClass("zoo.IntList")
	assert.Equal(t, "util.List<lang.Integer>", intList.As(z.class("util.List")).String())
	assert.Same(t, z.class("lang.Integer"), intList.As(z.class("lang.Iterable")).ResolveGeneric(0))
	assert.Equal(t, "util.AbstractList<lang.Integer>", intList.As(z.class("util.AbstractList")).String())
	assert.Same(t, intList, intList.As(z.class("zoo.IntList")))
	assert.True(t, intList.As(z.class("util.Set")).IsNone())
	assert.True(t, intList.As(nil).IsNone())

	treeMap := z.with("util.TreeMap", "lang.String", "lang.Integer")
	assert.Equal(t, "util.Map<lang.String, lang.Integer>", treeMap.As(z.class("util.Map")).String())

	stringMap := z.forClass("zoo.StringMap").As(z.class("util.Map"))
	assert.Equal(t, "util.Map<lang.String, ?>", stringMap.String())
	assert.Equal(t, []*meta.Class{z.class("lang.String"), meta.Object}, stringMap.ResolveGenerics())
	assert.Equal(t, []*meta.Class{z.class("lang.String"), nil}, stringMap.ResolveGenericsOr(nil))
}

func TestSuperTypeAndInterfaces(t *testing.T) {
	z := newZoo(t)
	arrayList := z.with("util.ArrayList", "zoo.Dog")

	super := arrayList.SuperType()
	assert.Equal(t, "util.AbstractList<zoo.Dog>", super.String())
	assert.Same(t, super, arrayList.SuperType(), "supertypes are memoized")
	assert.Equal(t, "util.AbstractCollection<zoo.Dog>", super.SuperType().String())
	assert.Same(t, meta.Object, super.SuperType().SuperType().Resolve())
	assert.True(t, super.SuperType().SuperType().SuperType().IsNone())

	ifaces := arrayList.Interfaces()
	require.Len(t, ifaces, 2)
	assert.Equal(t, "util.List<zoo.Dog>", ifaces[0].String())
	assert.Equal(t, "util.RandomAccess", ifaces[1].String())

	assert.True(t, z.forClass("util.List").SuperType().IsNone(), "interfaces have no superclass")
	assert.Empty(t, z.forClass("lang.Number").Interfaces())
}

func TestMissingSupertypesDegrade(t *testing.T) {
	z := newZoo(t)
	stray := z.forClass("zoo.Stray")

	assert.NotPanics(t, func() {
		assert.True(t, stray.SuperType().IsNone())
		assert.Empty(t, stray.Interfaces())
		assert.True(t, stray.As(z.class("zoo.Repo")).IsNone())
		assert.False(t, stray.HasUnresolvableGenerics())
	})
}

func TestNested(t *testing.T) {
	z := newZoo(t)

	nested := z.expr("List<List<String>>")
	assert.Same(t, nested, nested.Nested(1, nil))
	assert.Equal(t, "util.List<lang.String>", nested.Nested(2, nil).String())
	assert.Same(t, z.class("lang.String"), nested.Nested(3, nil).Resolve())

	m := z.expr("Map<String, List<Integer>>")
	assert.Same(t, z.class("util.List"), m.Nested(2, nil).Resolve(), "the last generic by default")
	assert.Same(t, z.class("lang.String"), m.Nested(2, map[int]int{2: 0}).Resolve())
	assert.Same(t, z.class("lang.Integer"), m.Nested(3, nil).Resolve())

	// supertypes are climbed until generics are found
	assert.Same(t, z.class("lang.Integer"), z.forClass("zoo.IntList").Nested(2, nil).Resolve())

	arrays := z.expr("Integer[][]")
	assert.Same(t, meta.ArrayOf(z.class("lang.Integer")), arrays.Nested(2, nil).Resolve())
	assert.Same(t, z.class("lang.Integer"), arrays.Nested(3, nil).Resolve())

	byName := z.ctx.ForFieldIn(z.class("zoo.Shelter").Field("byName"), z.class("zoo.DogShelter"))
	assert.Same(t, z.class("zoo.Dog"), byName.Nested(3, nil).Resolve())

	assert.True(t, z.forClass("lang.String").Nested(2, nil).IsNone())
}

func TestHasUnresolvableGenerics(t *testing.T) {
	z := newZoo(t)
	cases := map[string]bool{
		"String":                 false,
		"List<String>":           false,
		"zoo.IntList":            false,
		"zoo.Leaf":               false,
		"zoo.DogRepo":            false,
		"List<? extends Number>": false,
		"util.ArrayList":         true,
		"zoo.StringMap":          true,
		"List<?>":                true,
		"zoo.RawRepo":            true,
		"zoo.Node":               true,
		"lang.Enum":              true,
	}
	for src, expected := range cases {
		assert.Equal(t, expected, z.expr(src).HasUnresolvableGenerics(), src)
	}
	assert.False(t, z.ctx.ForFieldIn(z.class("zoo.Shelter").Field("residents"), z.class("zoo.DogShelter")).HasUnresolvableGenerics())
}

func TestArrays(t *testing.T) {
	z := newZoo(t)

	elements := z.ctx.ForFieldIn(z.class("util.ArrayList").Field("elementData"), z.class("zoo.IntList"))
	assert.True(t, elements.IsArray())
	assert.Same(t, meta.ArrayOf(z.class("lang.Integer")), elements.Resolve())
	assert.Same(t, z.class("lang.Integer"), elements.ComponentType().Resolve())
	assert.Equal(t, "lang.Integer[]", elements.String())

	unresolved := z.ctx.ForField(z.class("util.ArrayList").Field("elementData"))
	assert.True(t, unresolved.IsArray())
	assert.Nil(t, unresolved.Resolve(), "the component is unresolvable")
	assert.Equal(t, "?[]", unresolved.String())

	generic := z.expr("List<String>[]")
	assert.True(t, generic.IsArray())
	assert.Equal(t, "util.List<lang.String>", generic.ComponentType().String())
	assert.Same(t, meta.ArrayOf(z.class("util.List")), generic.Resolve())

	assert.False(t, z.expr("List<String>").IsArray())
	assert.True(t, z.expr("List<String>").ComponentType().IsNone())
}

func TestNoneIsInert(t *testing.T) {
	none := resolvable.None
	assert.NotPanics(t, func() {
		assert.Nil(t, none.Resolve())
		assert.Same(t, meta.Object, none.ToClass())
		assert.Empty(t, none.Generics())
		assert.False(t, none.HasGenerics())
		assert.True(t, none.Generic().IsNone())
		assert.True(t, none.Generic(0, 1).IsNone())
		assert.Empty(t, none.ResolveGenerics())
		assert.True(t, none.SuperType().IsNone())
		assert.Empty(t, none.Interfaces())
		assert.True(t, none.As(meta.Object).IsNone())
		assert.True(t, none.Nested(3, nil).IsNone())
		assert.True(t, none.ComponentType().IsNone())
		assert.False(t, none.IsArray())
		assert.False(t, none.HasUnresolvableGenerics())
		assert.True(t, meta.IsEmpty(none.Expr()))
		assert.Nil(t, none.VariableResolver())
		assert.Equal(t, "?", none.String())
	})

	var nilType *resolvable.Type
	assert.True(t, nilType.IsNone())
	assert.True(t, nilType.Equal(none))
	assert.Equal(t, none.Hash(), nilType.Hash())
}
