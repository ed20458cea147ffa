package resolvable

import (
	"log/slog"

	"github.com/cottand/rtype/internal/log"
	"github.com/cottand/rtype/meta"
)

// Ctx builds descriptors. It owns the interning Cache descriptors share, and
// optionally a Universe used to find the class of live values.
//
// Descriptors remember the Ctx they were built by, so that descriptors derived
// from them (supertypes, generics, ...) use the same Cache.
type Ctx struct {
	cache    *Cache
	universe *meta.Universe
	logger   *slog.Logger
}

type Option func(*Ctx)

// WithUniverse sets the Universe used by ForInstance and IsInstance
// for values which are not meta.Instance
func WithUniverse(u *meta.Universe) Option {
	return func(ctx *Ctx) { ctx.universe = u }
}

func WithLogger(logger *slog.Logger) Option {
	return func(ctx *Ctx) { ctx.logger = logger }
}

// WithCache makes the Ctx intern into cache, which may be shared between Ctxs
func WithCache(cache *Cache) Option {
	return func(ctx *Ctx) { ctx.cache = cache }
}

func NewCtx(opts ...Option) *Ctx {
	ctx := &Ctx{
		logger: log.Section("resolvable"),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	if ctx.cache == nil {
		ctx.cache = NewCache()
	}
	if ctx.cache.logger == nil {
		ctx.cache.logger = ctx.logger
	}
	return ctx
}

// Default is the Ctx behind the package-level factories
var Default = NewCtx()

// ClearCache drops the interned descriptors of ctx. Call it after classes
// were redefined, so that stale hierarchy walks are not reused.
func (ctx *Ctx) ClearCache() { ctx.cache.Clear() }

func (ctx *Ctx) Cache() *Cache { return ctx.cache }

func (ctx *Ctx) Universe() *meta.Universe { return ctx.universe }

// ClearCache clears the cache of Default
func ClearCache() { Default.ClearCache() }

// classOf returns the runtime class of v, or nil
func (ctx *Ctx) classOf(v any) *meta.Class {
	return ctx.universe.ClassOf(v)
}
