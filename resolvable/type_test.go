package resolvable_test

import (
	"sync"
	"testing"

	"github.com/cottand/rtype/meta"
	"github.com/cottand/rtype/resolvable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	z := newZoo(t)
	cases := map[string]string{
		"String":                              "lang.String",
		"int":                                 "int",
		"Map<String, List<Integer>>":          "util.Map<lang.String, util.List<lang.Integer>>",
		"Map<String, List<? extends Number>>": "util.Map<lang.String, util.List<lang.Number>>",
		"List<?>":                             "util.List<?>",
		"List<? super Integer>":               "util.List<lang.Integer>",
		"String[][]":                          "lang.String[][]",
		"List<String>[]":                      "util.List<lang.String>[]",
		"util.ArrayList":                      "util.ArrayList<?>",
		"zoo.Node":                            "zoo.Node<?>",
		"lang.Enum":                           "lang.Enum<?>",
	}
	for src, expected := range cases {
		assert.Equal(t, expected, z.expr(src).String(), src)
	}
}

func TestEquality(t *testing.T) {
	z := newZoo(t)

	a := z.expr("Map<String, List<Integer>>")
	b := z.expr("util.Map<lang.String, util.List<lang.Integer>>")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	assert.False(t, a.Equal(z.expr("Map<String, List<Long>>")))
	assert.False(t, a.Equal(resolvable.None))
	assert.False(t, z.forClass("util.List").Equal(z.ctx.ForRawClass(z.class("util.List"))))
	assert.True(t, z.forClass("util.List").Equal(z.forClass("util.List")))

	// the same expression in different contexts
	residents := z.class("zoo.Shelter").Field("residents")
	inShelter := z.ctx.ForField(residents)
	inDogShelter := z.ctx.ForFieldIn(residents, z.class("zoo.DogShelter"))
	assert.True(t, meta.Equal(inShelter.Expr(), inDogShelter.Expr()))
	assert.False(t, inShelter.Equal(inDogShelter))
	assert.True(t, inDogShelter.Equal(z.ctx.ForFieldIn(residents, z.class("zoo.DogShelter"))))
}

func TestDescriptorsAreInterned(t *testing.T) {
	z := newZoo(t)
	src := z.MustParse("Map<String, List<Integer>>")

	first := z.ctx.ForExpr(src, nil)
	before := z.ctx.Cache().Stats()
	second := z.ctx.ForExpr(z.MustParse("Map<String, List<Integer>>"), nil)
	after := z.ctx.Cache().Stats()

	assert.Same(t, first, second)
	assert.Greater(t, after.Hits, before.Hits)
	assert.Positive(t, after.Size)

	// derived descriptors are shared too
	assert.Same(t, first.Generic(1), second.Generic(1))
}

func TestClearCache(t *testing.T) {
	z := newZoo(t)
	first := z.expr("Map<String, List<Integer>>")
	integer := first.Generic(1, 0)

	z.ctx.ClearCache()
	assert.Zero(t, z.ctx.Cache().Len())

	second := z.expr("Map<String, List<Integer>>")
	assert.NotSame(t, first, second)
	assert.True(t, first.Equal(second))
	assert.Same(t, z.class("lang.Integer"), integer.Resolve(), "descriptors handed out stay valid")
	assert.Same(t, z.class("lang.Integer"), first.ResolveGeneric(1, 0))
}

func TestSharedCache(t *testing.T) {
	z := newZoo(t)
	cache := resolvable.NewCache()
	a := resolvable.NewCtx(resolvable.WithCache(cache), resolvable.WithUniverse(z.Universe))
	b := resolvable.NewCtx(resolvable.WithCache(cache))

	src := z.MustParse("List<? extends Number>")
	assert.Same(t, a.ForExpr(src, nil), b.ForExpr(src, nil))
	assert.Same(t, cache, a.Cache())
	assert.Same(t, z.Universe, a.Universe())
	assert.Nil(t, b.Universe())
}

func TestConcurrentResolution(t *testing.T) {
	z := newZoo(t)
	integer := z.class("lang.Integer")
	const workers = 16

	var wg sync.WaitGroup
	results := make([]*resolvable.Type, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := z.expr("Map<String, List<Integer>>")
			assert.Same(t, integer, m.ResolveGeneric(1, 0))
			assert.True(t, z.expr("List<? extends Number>").IsAssignableFrom(z.forClass("zoo.IntList")))
			assert.Equal(t, "util.List<lang.Integer>", z.forClass("zoo.IntList").As(z.class("util.List")).String())
			if i%4 == 0 {
				z.ctx.ClearCache()
			}
			results[i] = m
		}()
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.True(t, r.Equal(results[0]))
	}
}
