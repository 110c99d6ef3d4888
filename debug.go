package ipx

// Debugf is called with trace-level detail about request handling: request
// outcomes, cache hits, SVG short-circuits. It defaults to a no-op; set it
// to log.Printf (or similar) to enable tracing.
var Debugf = func(format string, args ...interface{}) {}

// Errorf is called for uncaught errors mapped to a 500 response, mirroring
// the "log in non-production" clause of the failure-mapping design. It
// defaults to a no-op.
var Errorf = func(format string, args ...interface{}) {}
