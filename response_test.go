package ipx

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rickb777/expect"
	"github.com/spf13/afero"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/cat.jpg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}, 0644)

	registry := NewRegistry()
	registry.Register("filesystem", NewFilesystemSupplier(fs, "/", 3600))

	return &Handler{
		Engine: &Engine{
			Registry:       registry,
			Codec:          FakeCodec{Width: 100, Height: 100},
			DefaultQuality: 80,
		},
	}
}

func TestHandler_servesImage(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/w_50/cat.jpg", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	expect.Number(w.Code).ToBe(t, 200)
	expect.String(w.Header().Get("Content-Type")).ToBe(t, "image/jpeg")
	expect.Any(w.Header().Get("ETag") != "").ToBe(t, true)
	expect.String(w.Header().Get("Cache-Control")).ToBe(t, "max-age=3600, public, s-maxage=3600")

	lastModified, err := strconv.ParseInt(w.Header().Get("Last-Modified"), 10, 64)
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.Any(lastModified > 0).ToBe(t, true)
}

func TestHandler_notModified(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/w_50/cat.jpg", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	etag := w.Header().Get("ETag")

	r2 := httptest.NewRequest(http.MethodGet, "/w_50/cat.jpg", nil)
	r2.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)

	expect.Number(w2.Code).ToBe(t, 304)
}

func TestHandler_notFound(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/_/missing.jpg", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	expect.Number(w.Code).ToBe(t, 404)
	expect.String(w.Body.String()).ToBe(t, "IPX Error: File not found\n")
}

func TestHandler_methodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/_/cat.jpg", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	expect.Number(w.Code).ToBe(t, 400)
}

func TestHandler_headHasNoBody(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodHead, "/w_50/cat.jpg", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	expect.Number(w.Code).ToBe(t, 200)
	expect.Number(w.Body.Len()).ToBe(t, 0)
}
