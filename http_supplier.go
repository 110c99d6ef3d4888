package ipx

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// httpSupplierIdleConns bounds the keep-alive pool size per allow-listed
// host, amortizing TLS/TCP handshake cost across requests the way the
// imageproxy reference client does with its shared http.Client.
const httpSupplierIdleConns = 16

var maxAgeDirective = regexp.MustCompile(`max-age=(\d+)`)

// HTTPSupplier fetches ids that name a remote origin, enforcing a host
// allow-list and reusing one keep-alive client per scheme.
type HTTPSupplier struct {
	allowedHosts map[string]struct{}
	maxAge       int
	fetchOptions FetchOptions
	httpClient   *http.Client
	httpsClient  *http.Client
}

// NewHTTPSupplier builds an HTTPSupplier. Each allow-list entry is
// schemed (defaulting to "http://") and reduced to its hostname at
// construction time. fetchOptions is passed verbatim to every outgoing
// request (currently: extra headers).
func NewHTTPSupplier(allowList []string, maxAge int, fetchOptions FetchOptions) (*HTTPSupplier, error) {
	hosts := make(map[string]struct{}, len(allowList))
	for _, entry := range allowList {
		if !hasScheme(entry) {
			entry = "http://" + entry
		}
		parsed, err := url.Parse(entry)
		if err != nil {
			return nil, BadRequest(fmt.Sprintf("Invalid allow-list entry %q", entry))
		}
		hosts[parsed.Hostname()] = struct{}{}
	}

	return &HTTPSupplier{
		allowedHosts: hosts,
		maxAge:       maxAge,
		fetchOptions: fetchOptions,
		httpClient:   &http.Client{Transport: newKeepAliveTransport()},
		httpsClient:  &http.Client{Transport: newKeepAliveTransport()},
	}, nil
}

func newKeepAliveTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConnsPerHost: httpSupplierIdleConns,
		IdleConnTimeout:     90 * time.Second,
	}
}

var _ Supplier = (*HTTPSupplier)(nil)

// Fetch implements Supplier.
func (h *HTTPSupplier) Fetch(id string, opts ReqOptions) (*SourceDescriptor, error) {
	parsed, err := url.Parse(id)
	if err != nil || parsed.Hostname() == "" {
		return nil, Forbidden("Hostname is missing")
	}

	if !opts.BypassDomain {
		if _, ok := h.allowedHosts[parsed.Hostname()]; !ok {
			return nil, Forbidden("Forbidden host")
		}
	}

	client := h.httpClient
	if parsed.Scheme == "https" {
		client = h.httpsClient
	}

	req, err := http.NewRequest(http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, InternalError(err.Error())
	}
	for name, value := range h.fetchOptions.Headers {
		req.Header.Set(name, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, InternalError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, UpstreamError(resp.StatusCode, upstreamReason(resp))
	}

	maxAge := h.maxAge
	if match := maxAgeDirective.FindStringSubmatch(resp.Header.Get("Cache-Control")); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			maxAge = n
		}
	}

	var mtime time.Time
	hasMTime := false
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			mtime, hasMTime = t, true
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, InternalError(err.Error())
	}

	return newSourceDescriptor(mtime, hasMTime, &maxAge, func() ([]byte, error) {
		return body, nil
	}), nil
}

// upstreamReason extracts the reason phrase from an HTTP response's status
// line, falling back to the standard text for the status code.
func upstreamReason(resp *http.Response) string {
	if idx := strings.IndexByte(resp.Status, ' '); idx >= 0 {
		return resp.Status[idx+1:]
	}
	return http.StatusText(resp.StatusCode)
}
