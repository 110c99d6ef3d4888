package ipx

import "time"

// ReqOptions carries per-request options that influence how a source is
// resolved. BypassDomain, when true, allows the HTTP supplier to fetch from
// a host outside its configured allow-list.
type ReqOptions struct {
	BypassDomain bool
}

// SourceDescriptor is the opaque value returned by a supplier for one id.
// MTime and MaxAge are optional (a supplier that doesn't know an artifact's
// timestamp or freshness window leaves them unset); GetData is a memoized
// producer of the raw source bytes. The filesystem supplier defers the read
// until the first GetData call; the HTTP supplier has already buffered the
// response body inside Fetch.
type SourceDescriptor struct {
	MTime    time.Time
	HasMTime bool
	MaxAge   *int
	getData  *onceValue[[]byte]
}

// GetData returns the raw source bytes, fetching them at most once.
func (s *SourceDescriptor) GetData() ([]byte, error) {
	return s.getData.Get()
}

// newSourceDescriptor builds a descriptor whose GetData producer is fn,
// memoized via onceValue.
func newSourceDescriptor(mtime time.Time, hasMTime bool, maxAge *int, fn func() ([]byte, error)) *SourceDescriptor {
	return &SourceDescriptor{
		MTime:    mtime,
		HasMTime: hasMTime,
		MaxAge:   maxAge,
		getData:  newOnceValue(fn),
	}
}

// Supplier resolves an id to a SourceDescriptor. Filesystem and HTTP are
// the two variants provided; New registers each only when configured.
type Supplier interface {
	Fetch(id string, opts ReqOptions) (*SourceDescriptor, error)
}

// Registry owns the named suppliers available to the request engine and
// selects one based on the shape of an id: scheme-qualified ids use the
// "http" supplier, everything else uses "filesystem".
type Registry struct {
	suppliers map[string]Supplier
}

// NewRegistry builds an empty registry. Use Register to add suppliers.
func NewRegistry() *Registry {
	return &Registry{suppliers: make(map[string]Supplier)}
}

// Register binds a supplier to a name ("filesystem" or "http").
func (r *Registry) Register(name string, supplier Supplier) {
	r.suppliers[name] = supplier
}

// Select returns the supplier responsible for id.
func (r *Registry) Select(id string) (Supplier, error) {
	name := "filesystem"
	if hasScheme(id) {
		name = "http"
	}

	supplier, ok := r.suppliers[name]
	if !ok {
		return nil, BadRequest("Unknown source")
	}
	return supplier, nil
}
