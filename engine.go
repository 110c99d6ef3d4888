package ipx

import (
	"strings"
	"time"
)

// formatMimeTypes maps an output format name to its response Content-Type.
var formatMimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"avif": "image/avif",
	"tiff": "image/tiff",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
}

// Result is the materialized outcome of one Engine.Handle call: the
// response body together with everything the HTTP facade needs to shape
// headers.
type Result struct {
	Data     []byte
	MimeType string
	MTime    time.Time
	HasMTime bool
	MaxAge   int
}

// Engine is the request engine described by the design notes: it decodes
// a request path, resolves and fetches the source, runs the handler
// table against a freshly decoded pipeline, and materializes the result,
// consulting and populating Cache around the expensive steps.
type Engine struct {
	Registry       *Registry
	Codec          Codec
	Cache          Cache
	Aliases        []Alias
	DefaultQuality int
	// SharpOptions is merged verbatim into every pipeline this engine
	// constructs (Config.Sharp).
	SharpOptions map[string]string
}

// Handle runs the full request lifecycle for an incoming request path of
// the form "/<modifiers>/<id>".
func (e *Engine) Handle(path string, opts ReqOptions) (*Result, error) {
	id, modifiers, err := decodeRequest(path)
	if err != nil {
		return nil, err
	}
	id = normalizeID(id, e.Aliases)

	supplier, err := e.Registry.Select(id)
	if err != nil {
		return nil, err
	}

	src, err := supplier.Fetch(id, opts)
	if err != nil {
		return nil, err
	}

	maxAge := 0
	if src.MaxAge != nil {
		maxAge = *src.MaxAge
	}

	key, keyErr := cacheKey(id, modifiers)
	if keyErr == nil && e.Cache != nil {
		if entry, ok := e.Cache.Get(key); ok {
			Debugf("cache hit for %s", id)
			return &Result{
				Data:     entry.Data,
				MimeType: formatMimeTypeOf(entry.Format, entry.Meta),
				MTime:    src.MTime,
				HasMTime: src.HasMTime,
				MaxAge:   maxAge,
			}, nil
		}
	}

	raw, err := src.GetData()
	if err != nil {
		return nil, err
	}

	data, format, meta, err := e.render(raw, modifiers)
	if err != nil {
		return nil, err
	}

	if keyErr == nil && e.Cache != nil {
		e.Cache.Set(key, &CacheEntry{
			Data:      data,
			Format:    format,
			Meta:      meta,
			Timestamp: time.Now(),
			Expiry:    maxAge,
		}, time.Duration(maxAge)*time.Second)
	}

	return &Result{
		Data:     data,
		MimeType: formatMimeTypeOf(format, meta),
		MTime:    src.MTime,
		HasMTime: src.HasMTime,
		MaxAge:   maxAge,
	}, nil
}

// render runs the decode/transform/encode pipeline over raw source bytes.
// An SVG source with no explicit "f"/"format" modifier short-circuits
// straight past the codec: it is served untouched rather than rasterized.
// Animated decoding is enabled by an "a"/"animated" modifier or a GIF
// source.
func (e *Engine) render(raw []byte, modifiers Modifiers) (data []byte, format string, meta Meta, err error) {
	sniffed, isSVG := sniffMeta(raw)
	if isSVG && firstModifier(modifiers, "f", "format") == "" {
		Debugf("svg source served unmodified, pipeline skipped")
		return raw, "svg", sniffed, nil
	}

	_, hasA := modifiers["a"]
	_, hasAnimated := modifiers["animated"]
	animated := ((hasA || hasAnimated) && literalBool(firstModifier(modifiers, "a", "animated"))) ||
		sniffed.Type == "gif"

	pipeline, err := e.Codec.Decode(raw, PipelineOptions{Animated: animated, Extra: e.SharpOptions})
	if err != nil {
		return nil, "", Meta{}, err
	}

	meta = sniffed
	meta.Width = pipeline.Width()
	meta.Height = pipeline.Height()

	ctx := newHandlerContext(meta)
	handlers := resolveHandlers(modifiers)
	if err := applyHandlers(ctx, pipeline, handlers); err != nil {
		return nil, "", Meta{}, err
	}

	format = resolveFormat(modifiers, meta.Type)
	quality := e.DefaultQuality
	if ctx.HasQuality {
		quality = ctx.Quality
	}

	if err := pipeline.ToFormat(format, FormatOptions{
		Quality:     quality,
		Progressive: format == "jpeg",
	}); err != nil {
		return nil, "", Meta{}, err
	}

	data, err = pipeline.ToBuffer()
	if err != nil {
		return nil, "", Meta{}, err
	}

	return data, format, meta, nil
}

// resolveFormat determines the output format from the "f"/"format"
// modifier, normalizing the common "jpg" spelling to "jpeg" and falling
// back to the source's own format when no override was requested.
func resolveFormat(modifiers Modifiers, sourceType string) string {
	raw := firstModifier(modifiers, "f", "format")
	if raw == "" {
		raw = sourceType
	}
	format := strings.ToLower(raw)
	if format == "jpg" {
		format = "jpeg"
	}
	return format
}

// firstModifier returns the value of the first of names present in
// modifiers, or "" if none are set.
func firstModifier(modifiers Modifiers, names ...string) string {
	for _, name := range names {
		if v, ok := modifiers[name]; ok {
			return v
		}
	}
	return ""
}

// formatMimeTypeOf resolves the response Content-Type for format, falling
// back to the cached/decoded Meta's own sniffed MIME type when format
// isn't one of the known output formats (e.g. a codec-native passthrough).
func formatMimeTypeOf(format string, meta Meta) string {
	if mt, ok := formatMimeTypes[format]; ok {
		return mt
	}
	if meta.MimeType != "" {
		return meta.MimeType
	}
	return "application/octet-stream"
}
