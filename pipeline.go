package ipx

// Color is an 8-bit-per-channel RGB value used by operations that need a
// background or tint fill.
type Color struct {
	R, G, B uint8
}

// Edges describes a padding or cropping rectangle in pixels, used by
// Extend and Extract.
type Edges struct {
	Top, Right, Bottom, Left int
	Background               Color
}

// ResizeOptions configures Pipeline.Resize.
type ResizeOptions struct {
	Fit                string
	Position           string
	Background         Color
	WithoutEnlargement bool
}

// FormatOptions configures Pipeline.ToFormat.
type FormatOptions struct {
	Quality     int
	Progressive bool
}

// PipelineOptions configures the construction of a Pipeline from raw bytes.
type PipelineOptions struct {
	// Animated enables multi-frame decoding for formats that support it
	// (GIF, animated WebP).
	Animated bool
	// Extra carries the configured "sharp" options (Config.Sharp), merged
	// verbatim into pipeline construction. A codec may recognize any
	// subset of these keys and ignore the rest.
	Extra map[string]string
}

// Codec constructs a Pipeline from raw, encoded image bytes. It is the
// external collaborator the specification treats as out of scope: any
// library exposing the operation vocabulary below can be wrapped to
// satisfy this interface.
type Codec interface {
	Decode(buf []byte, opts PipelineOptions) (Pipeline, error)
}

// Pipeline is the incremental image-processing builder driven by the
// handler table. Every method mutates the pipeline in place and returns an
// error if the underlying codec cannot perform the operation; ToBuffer
// materializes the final encoded bytes.
//
// An implementation that cannot fulfill a given operation may treat it as
// a no-op rather than erroring, since the handler table already filters
// out modifiers that have no bound handler.
type Pipeline interface {
	Resize(w, h int, opts ResizeOptions) error
	Extend(edges Edges) error
	Extract(edges Edges) error
	Trim(threshold float64) error
	Rotate(angle int, background Color) error
	Flip() error
	Flop() error
	Sharpen(sigma, flat, jagged float64) error
	Median(size int) error
	Blur() error
	Flatten(background Color) error
	Gamma(in, out float64) error
	Negate() error
	Normalize() error
	Threshold(level float64) error
	Modulate(brightness, saturation, hue float64) error
	Tint(rgb Color) error
	Grayscale() error
	ToFormat(format string, opts FormatOptions) error
	ToBuffer() ([]byte, error)

	// Width and Height report the current pixel dimensions, needed by the
	// resize-clamping logic in the "s"/"resize" handler.
	Width() int
	Height() int
}

// outputFormats are the formats ToFormat is allowed to target; anything
// else is left as whatever the codec natively produces.
var outputFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"webp": true,
	"avif": true,
	"tiff": true,
	"gif":  true,
}
