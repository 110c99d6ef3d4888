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

package echo_adapter

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/workupsrl/ipx"
)

// EchoHandler is an adapter for ipx.Handler with an additional HandlerFunc
// method for registration with an echo.Echo.
type EchoHandler struct {
	inner *ipx.Handler
}

// NewHandler wraps x's http.Handler for use with echo.
func NewHandler(x *ipx.IPX, bypassDomain bool) *EchoHandler {
	return &EchoHandler{inner: x.Handler(bypassDomain)}
}

// HandlerFunc gets the image handler as an echo handler. The path must
// end "/*"; the route prefix in front of it ("/img" for "/img/*") is
// stripped from the request URL before it reaches the image handler.
func (h *EchoHandler) HandlerFunc(path string) echo.HandlerFunc {
	if !strings.HasSuffix(path, "/*") {
		panic(path + ": path must end /*")
	}
	trim := len(path) - 2

	return func(c echo.Context) error {
		req := c.Request()
		req.URL.Path = req.URL.Path[trim:]
		h.inner.ServeHTTP(c.Response(), req)
		return nil
	}
}

// Register registers the handler with an echo.Echo using the specified
// catch-all path ("/img/*") to handle GET and HEAD requests.
func (h *EchoHandler) Register(e *echo.Echo, path string) {
	handler := h.HandlerFunc(path)
	e.GET(path, handler)
	e.HEAD(path, handler)
}
