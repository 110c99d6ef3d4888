package ipx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rickb777/expect"
)

func TestHTTPSupplier_fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=120")
		w.Header().Set("Last-Modified", "Tue, 01 Jul 2025 00:00:00 GMT")
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	host := mustHost(t, srv.URL)
	supplier, err := NewHTTPSupplier([]string{host}, 60, FetchOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)

	src, err := supplier.Fetch(srv.URL+"/cat.jpg", ReqOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.Any(src.HasMTime).ToBe(t, true)
	expect.Number(*src.MaxAge).ToBe(t, 120)

	data, err := src.GetData()
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.String(string(data)).ToBe(t, "image-bytes")
}

func TestHTTPSupplier_forbiddenHost(t *testing.T) {
	supplier, err := NewHTTPSupplier([]string{"allowed.example.com"}, 60, FetchOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)

	_, err = supplier.Fetch("http://evil.example.com/x.jpg", ReqOptions{})
	expect.Error(err).ToHaveOccurred(t)
	expect.Number(AsError(err).StatusCode).ToBe(t, 403)
}

func TestHTTPSupplier_bypassDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	supplier, err := NewHTTPSupplier(nil, 60, FetchOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)

	_, err = supplier.Fetch(srv.URL+"/x.jpg", ReqOptions{BypassDomain: true})
	expect.Error(err).Not().ToHaveOccurred(t)
}

func TestHTTPSupplier_upstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	host := mustHost(t, srv.URL)
	supplier, err := NewHTTPSupplier([]string{host}, 60, FetchOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)

	_, err = supplier.Fetch(srv.URL+"/x.jpg", ReqOptions{})
	expect.Error(err).ToHaveOccurred(t)
	ierr := AsError(err)
	expect.Number(ierr.StatusCode).ToBe(t, 404)
	expect.Any(ierr.Upstream).ToBe(t, true)
}

func TestHTTPSupplier_fetchOptionsHeaders(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	host := mustHost(t, srv.URL)
	supplier, err := NewHTTPSupplier([]string{host}, 60, FetchOptions{
		Headers: map[string]string{"Authorization": "Bearer secret"},
	})
	expect.Error(err).Not().ToHaveOccurred(t)

	_, err = supplier.Fetch(srv.URL+"/x.jpg", ReqOptions{})
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.String(seen).ToBe(t, "Bearer secret")
}

func mustHost(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	expect.Error(err).Not().ToHaveOccurred(t)
	return u.Hostname()
}
