// MIT License
//
// Copyright (c) 2016 Rick Beton
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

/*
Package ipx serves resized, reformatted and otherwise transformed images
on demand over HTTP. A request names a source image and a set of
modifiers in its URL path; ipx resolves the source, runs the requested
operations, and serves the result with cache-friendly headers. This is
an enhancement to simply serving static assets: the representation is
computed on first request and then reused, rather than precomputed ahead
of time.

	cfg := ipx.ConfigFromEnv()
	x, err := ipx.New(cfg)
	handler := x.Handler(false)

Handler is an http.Handler and can be used alongside your other handlers.

# URL Grammar

A request path has the shape "/<modifiers>/<id>", for example:

	/w_200,h_100,fit_cover/photos/cat.jpg
	/q_80,f_webp/https://example.com/cat.jpg

The modifiers segment is a comma- or ampersand-separated list of
"name_value", "name=value" or "name:value" entries; the literal segment
"_" requests the identity transform. The id names either a path under the
configured filesystem root or, when it carries a URL scheme, a remote
origin fetched through the allow-listed HTTP supplier.

# Sources

Two source suppliers are available, each registered by New only when it
is configured: a filesystem supplier rooted at a configured directory, and
an HTTP supplier that only fetches from an allow-listed set of hosts. Both memoize their fetch per request
so concurrent operations against the same source id never do the work
twice.

# Operations

Modifiers are dispatched through a static handler table: context-setters
such as quality, fit, position and background run first and configure how
later operations behave, then the pipeline operations (resize, crop,
rotate, blur, and the rest of the vocabulary) run in the handler table's
own declared order. The concrete image codec is pluggable behind the
Codec/Pipeline interfaces; the default implementation is backed by
libvips.

# Conditional Request Support

The Handler sets 'ETag' headers computed from the rendered content and
honours 'If-None-Match'/'If-Modified-Since', so repeat requests for an
unchanged representation shrink to a 304 Not Modified.

# Caching

Rendered results can optionally be cached, keyed by id and modifiers, in
an in-process LRU or in Redis, so once a transform has been computed,
subsequent requests for it are served from the cache. Concurrent requests
that all miss the cache each compute the transform.
*/
package ipx
