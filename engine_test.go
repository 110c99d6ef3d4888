package ipx

import (
	"testing"

	"github.com/rickb777/expect"
	"github.com/spf13/afero"
)

func newTestEngine(t *testing.T) (*Engine, *FilesystemSupplier) {
	t.Helper()
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/cat.jpg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}, 0644)

	supplier := NewFilesystemSupplier(fs, "/", 3600)
	registry := NewRegistry()
	registry.Register("filesystem", supplier)

	return &Engine{
		Registry:       registry,
		Codec:          FakeCodec{Width: 300, Height: 200},
		DefaultQuality: 80,
	}, supplier
}

func TestEngine_handleRenders(t *testing.T) {
	engine, _ := newTestEngine(t)

	result, err := engine.Handle("/w_150/cat.jpg", ReqOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.String(result.MimeType).ToBe(t, "image/jpeg")
	expect.Any(result.HasMTime).ToBe(t, true)
	expect.Number(result.MaxAge).ToBe(t, 3600)
}

func TestEngine_cacheHitAvoidsRerender(t *testing.T) {
	engine, _ := newTestEngine(t)
	cache, err := NewMemoryCache(16)
	expect.Error(err).Not().ToHaveOccurred(t)
	engine.Cache = cache

	_, err = engine.Handle("/w_150/cat.jpg", ReqOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)

	key, err := cacheKey("/cat.jpg", Modifiers{"w": "150"})
	expect.Error(err).Not().ToHaveOccurred(t)

	_, ok := cache.Get(key)
	expect.Any(ok).ToBe(t, true)

	result, err := engine.Handle("/w_150/cat.jpg", ReqOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.String(result.MimeType).ToBe(t, "image/jpeg")
}

func TestEngine_unknownSourceErrors(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Handle("/_/https://example.com/cat.jpg", ReqOptions{})
	expect.Error(err).ToHaveOccurred(t)
	expect.Number(AsError(err).StatusCode).ToBe(t, 400)
}

func TestEngine_formatOverride(t *testing.T) {
	engine, _ := newTestEngine(t)

	result, err := engine.Handle("/f_webp/cat.jpg", ReqOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.String(result.MimeType).ToBe(t, "image/webp")
}

func TestResolveFormat(t *testing.T) {
	expect.String(resolveFormat(Modifiers{"f": "jpg"}, "png")).ToBe(t, "jpeg")
	expect.String(resolveFormat(Modifiers{"format": "webp"}, "png")).ToBe(t, "webp")
	expect.String(resolveFormat(Modifiers{}, "png")).ToBe(t, "png")
}
