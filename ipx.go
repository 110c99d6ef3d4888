package ipx

import (
	"net/http"

	"github.com/spf13/afero"
)

// IPX is the top-level context: it owns the supplier registry, the codec,
// and the optional result cache, and builds the http.Handler that serves
// requests against them. Use New to build one from a Config, then the
// With* methods (mirroring the teacher's builder idiom) to customize it;
// each With* method returns a modified copy, leaving the receiver intact.
type IPX struct {
	Config   Config
	Registry *Registry
	Codec    Codec
	Cache    Cache
	NotFound http.Handler
}

// New builds an IPX context from cfg: a filesystem supplier rooted at
// cfg.Dir (skipped if Dir is empty), an HTTP supplier allow-listing
// cfg.Domains (skipped if Domains is empty), the default govips codec, and
// (if cfg.CacheEnabled) a result cache backend selected by whether
// cfg.CacheRedisHost is set. A source whose supplier was skipped this way
// resolves to Registry.Select's "Unknown source" error, exactly as if the
// id named a third, unregistered scheme.
func New(cfg Config) (*IPX, error) {
	registry := NewRegistry()

	if cfg.Dir != "" {
		registry.Register("filesystem", NewFilesystemSupplier(defaultFs(), cfg.Dir, cfg.MaxAge))
	}

	if len(cfg.Domains) > 0 {
		httpSupplier, err := NewHTTPSupplier(cfg.Domains, cfg.MaxAge, cfg.FetchOptions)
		if err != nil {
			return nil, err
		}
		registry.Register("http", httpSupplier)
	}

	x := &IPX{
		Config:   cfg,
		Registry: registry,
		Codec:    VipsCodec{},
	}

	if cfg.CacheEnabled {
		cache, err := newConfiguredCache(cfg)
		if err != nil {
			return nil, err
		}
		x.Cache = cache
	}

	return x, nil
}

// defaultFs is the production backing store for the filesystem supplier.
func defaultFs() afero.Fs {
	return afero.NewOsFs()
}

func newConfiguredCache(cfg Config) (Cache, error) {
	if cfg.CacheRedisHost != "" {
		return NewRedisCache(cfg.CacheRedisHost, cfg.CacheTTL()), nil
	}
	return NewMemoryCache(cfg.CacheMemoryEntries)
}

// WithCache returns a copy of x using the given Cache, overriding whatever
// Config.CacheEnabled selected.
func (x IPX) WithCache(cache Cache) *IPX {
	x.Cache = cache
	return &x
}

// WithNotFound returns a copy of x whose Handler delegates a not-found
// result to notFound instead of rendering the default error body.
func (x IPX) WithNotFound(notFound http.Handler) *IPX {
	x.NotFound = notFound
	return &x
}

// WithCodec returns a copy of x using a different Codec, e.g. a fake in
// tests that don't want to link libvips.
func (x IPX) WithCodec(codec Codec) *IPX {
	x.Codec = codec
	return &x
}

// Handler builds the http.Handler that serves requests through x's
// engine. BypassDomain, when true, disables the HTTP supplier's host
// allow-list (intended for trusted, server-side callers only).
func (x *IPX) Handler(bypassDomain bool) *Handler {
	return &Handler{
		Engine: &Engine{
			Registry:       x.Registry,
			Codec:          x.Codec,
			Cache:          x.Cache,
			Aliases:        x.Config.Aliases(),
			DefaultQuality: x.Config.DefaultQuality,
			SharpOptions:   x.Config.Sharp,
		},
		BypassDomain: bypassDomain,
		NotFound:     x.NotFound,
	}
}
