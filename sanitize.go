package ipx

import (
	"bytes"
	"encoding/json"

	"github.com/microcosm-cc/bluemonday"
)

// htmlSanitizer strips markup that could be interpreted as script when a
// string body is later rendered by a browser. A single strict policy is
// reused across requests; bluemonday policies are safe for concurrent use.
var htmlSanitizer = bluemonday.StrictPolicy()

// stringifyStrip neutralizes embedded quotes and newlines in s by running
// it through JSON string encoding and then stripping the surrounding
// quotes. This is the "safe-string pass" referenced throughout the
// specification: it is applied to decoded URL fragments, status messages,
// and header values.
func stringifyStrip(s string) string {
	// HTML escaping is turned off so that '<' and '>' survive as-is and the
	// HTML sanitizer that follows can still recognize and strip markup.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return ""
	}
	encoded := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	// encoded is always `"..."`; drop the wrapping quotes.
	if len(encoded) >= 2 {
		return string(encoded[1 : len(encoded)-1])
	}
	return ""
}

// sanitizeBody runs the stringify-strip pass followed by HTML sanitization,
// as required of string response bodies by the response shaper.
func sanitizeBody(s string) string {
	return htmlSanitizer.Sanitize(stringifyStrip(s))
}
