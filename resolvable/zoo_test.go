package resolvable_test

import (
	_ "embed"
	"strings"
	"testing"

	"github.com/cottand/rtype/meta"
	"github.com/cottand/rtype/resolvable"
	"github.com/stretchr/testify/require"
)

// embeds the declarations the tests resolve against
//
//go:embed testdata/zoo.toml
var zooDecls string

// zoo is a Universe holding the builtin classes and the test declarations,
// with a Ctx of its own so that tests do not share a cache
type zoo struct {
	*meta.Universe
	ctx *resolvable.Ctx
}

func newZoo(t *testing.T) *zoo {
	t.Helper()
	u := meta.Builtin()
	_, err := u.Load(strings.NewReader(zooDecls), "zoo.toml")
	require.NoError(t, err)
	return &zoo{Universe: u, ctx: resolvable.NewCtx(resolvable.WithUniverse(u))}
}

func (z *zoo) class(name string) *meta.Class {
	return z.MustLookup(name)
}

func (z *zoo) forClass(name string) *resolvable.Type {
	return z.ctx.ForClass(z.class(name))
}

// expr describes a parsed type expression, like Map<String, List<Integer>>
func (z *zoo) expr(src string) *resolvable.Type {
	return z.ctx.ForExpr(z.MustParse(src), nil)
}

func (z *zoo) with(name string, generics ...string) *resolvable.Type {
	classes := make([]*meta.Class, len(generics))
	for i, g := range generics {
		classes[i] = z.class(g)
	}
	t, err := z.ctx.ForClassWithGenericClasses(z.class(name), classes...)
	if err != nil {
		panic(err)
	}
	return t
}
