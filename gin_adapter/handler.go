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

package gin_adapter

import (
	"github.com/gin-gonic/gin"

	"github.com/workupsrl/ipx"
)

// GinHandler is an adapter for ipx.Handler with an additional HandlerFunc
// method for registration with a gin.Engine.
type GinHandler struct {
	inner *ipx.Handler
}

// NewHandler wraps x's http.Handler for use with gin. bypassDomain is
// passed straight through to ipx.IPX.Handler.
func NewHandler(x *ipx.IPX, bypassDomain bool) *GinHandler {
	return &GinHandler{inner: x.Handler(bypassDomain)}
}

// HandlerFunc gets the image handler as a gin handler. The handler is
// registered using a catch-all path such as "/img/*filepath". The name of
// the catch-all parameter is passed in here (for example "filepath").
func (h *GinHandler) HandlerFunc(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		req.URL.Path = c.Param(paramName)
		h.inner.ServeHTTP(c.Writer, c.Request)
	}
}

// Register registers the handler with a gin.Engine using the specified
// catch-all path to handle GET and HEAD requests.
func (h *GinHandler) Register(e *gin.Engine, path, paramName string) {
	handler := h.HandlerFunc(paramName)
	e.GET(path, handler)
	e.HEAD(path, handler)
}
