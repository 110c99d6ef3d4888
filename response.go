package ipx

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// contentSecurityPolicy is attached to every successful response: served
// images are user-controlled, so they must never be allowed to execute
// script or load sub-resources even if a client is tricked into treating
// one as HTML.
const contentSecurityPolicy = "default-src 'none'"

// Handler is the http.Handler facade over an Engine, following the
// teacher's ServeHTTP shape: compute headers, handle the conditional
// request, then write the body (or a mapped error).
type Handler struct {
	Engine       *Engine
	BypassDomain bool
	NotFound     http.Handler
}

var _ http.Handler = (*Handler)(nil)

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodHead && req.Method != http.MethodGet {
		httpError(w, BadRequest("Method not allowed"))
		return
	}

	result, err := h.Engine.Handle(req.URL.Path, ReqOptions{BypassDomain: h.BypassDomain})
	if err != nil {
		ierr := AsError(err)
		if ierr.StatusCode == http.StatusNotFound && h.NotFound != nil {
			h.NotFound.ServeHTTP(w, req)
			return
		}
		Debugf("ipx ServeHTTP (error %d) %s %s", ierr.StatusCode, req.Method, req.URL.Path)
		httpError(w, ierr)
		return
	}

	etag := calculateEtag(result.Data)
	header := w.Header()
	header.Set("Content-Type", result.MimeType)
	header.Set("Content-Security-Policy", contentSecurityPolicy)
	header.Set("ETag", etag)
	if result.MaxAge > 0 {
		header.Set("Cache-Control", fmt.Sprintf("max-age=%d, public, s-maxage=%d", result.MaxAge, result.MaxAge))
		header.Set("Expires", time.Now().UTC().Add(time.Duration(result.MaxAge)*time.Second).Format(http.TimeFormat))
	}
	if result.HasMTime {
		header.Set("Last-Modified", strconv.FormatInt(result.MTime.UnixMilli(), 10))
	}

	if isNotModified(req, etag, result) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if req.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Write(result.Data)

	Debugf("ipx ServeHTTP (ok) %s %s", req.Method, req.URL.Path)
}

// calculateEtag derives a strong ETag from the response body's content
// hash: results are cached/regenerated by content, not by file identity,
// so there is no inode/mtime pair to hash as the teacher's file-backed
// handler does.
func calculateEtag(data []byte) string {
	sum := sha1.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// isNotModified evaluates If-None-Match and, failing that, If-Modified-Since
// against the computed ETag and the source's modification time.
func isNotModified(req *http.Request, etag string, result *Result) bool {
	if inm := req.Header.Get("If-None-Match"); inm != "" {
		return inm == etag || inm == "*"
	}
	if !result.HasMTime {
		return false
	}
	ims := req.Header.Get("If-Modified-Since")
	if ims == "" {
		return false
	}
	t, err := http.ParseTime(ims)
	if err != nil {
		return false
	}
	return !result.MTime.After(t)
}

// httpError maps an *Error onto the response per the failure-mapping
// design: any uncaught 500 is logged via Errorf, and the body is the
// literal text "IPX Error: <msg>" passed through the response shaper's
// safe-string pass.
func httpError(w http.ResponseWriter, err *Error) {
	if err == nil {
		err = InternalError("Unknown error")
	}
	if err.StatusCode >= 500 {
		Errorf("ipx: %s", err.Error())
	}

	body := sanitizeBody(fmt.Sprintf("IPX Error: %s", err.StatusMessage))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(err.StatusCode)
	fmt.Fprintln(w, body)
}
