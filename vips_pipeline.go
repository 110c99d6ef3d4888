package ipx

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
)

var vipsStartupOnce sync.Once

// ensureVips starts the libvips runtime exactly once per process. Shutdown
// is intentionally never called automatically: the process entrypoint owns
// that decision.
func ensureVips() {
	vipsStartupOnce.Do(func() {
		vips.Startup(nil)
	})
}

// VipsCodec is the default Codec, backed by libvips via govips. It is the
// concrete external collaborator for the operation vocabulary in the
// pipeline abstraction.
type VipsCodec struct{}

var _ Codec = VipsCodec{}

// Decode implements Codec.
func (VipsCodec) Decode(buf []byte, opts PipelineOptions) (Pipeline, error) {
	ensureVips()

	importParams := vips.NewImportParams()
	if opts.Animated {
		importParams.NumPages.Set(-1)
	}
	if density, ok := opts.Extra["density"]; ok {
		if d, err := strconv.ParseFloat(density, 64); err == nil {
			importParams.Density.Set(d)
		}
	}

	img, err := vips.LoadImageFromBuffer(buf, importParams)
	if err != nil {
		return nil, InternalError(fmt.Sprintf("decode failed: %v", err))
	}

	return &vipsPipeline{img: img}, nil
}

// vipsPipeline adapts a *vips.ImageRef to the Pipeline interface.
type vipsPipeline struct {
	img        *vips.ImageRef
	format     string
	formatOpts FormatOptions
}

var _ Pipeline = (*vipsPipeline)(nil)

func (p *vipsPipeline) Width() int  { return p.img.Width() }
func (p *vipsPipeline) Height() int { return p.img.Height() }

func (p *vipsPipeline) Resize(w, h int, opts ResizeOptions) error {
	if opts.WithoutEnlargement && w >= p.img.Width() && h >= p.img.Height() {
		return nil
	}
	crop := vips.InterestingNone
	switch opts.Fit {
	case "cover":
		crop = vips.InterestingCentre
	case "outside", "inside", "contain", "fill", "":
		crop = vips.InterestingNone
	}
	return p.img.Thumbnail(w, h, crop)
}

func (p *vipsPipeline) Extend(e Edges) error {
	bg := toVipsColor(e.Background)
	width := p.img.Width() + e.Left + e.Right
	height := p.img.Height() + e.Top + e.Bottom
	return p.img.EmbedBackground(e.Left, e.Top, width, height, bg)
}

func (p *vipsPipeline) Extract(e Edges) error {
	width := p.img.Width() - e.Left - e.Right
	height := p.img.Height() - e.Top - e.Bottom
	if width <= 0 || height <= 0 {
		return InternalError("extract region is empty")
	}
	return p.img.ExtractArea(e.Left, e.Top, width, height)
}

func (p *vipsPipeline) Trim(threshold float64) error {
	return p.img.Trim(threshold, false)
}

func (p *vipsPipeline) Rotate(angle int, background Color) error {
	switch angle % 360 {
	case 90:
		return p.img.Rotate(vips.Angle90)
	case 180:
		return p.img.Rotate(vips.Angle180)
	case 270:
		return p.img.Rotate(vips.Angle270)
	default:
		return p.img.Rotate(vips.Angle0)
	}
}

func (p *vipsPipeline) Flip() error { return p.img.Flip(vips.DirectionVertical) }
func (p *vipsPipeline) Flop() error { return p.img.Flip(vips.DirectionHorizontal) }

func (p *vipsPipeline) Sharpen(sigma, flat, jagged float64) error {
	return p.img.Sharpen(sigma, flat, jagged)
}

func (p *vipsPipeline) Median(size int) error {
	return p.img.Median(size)
}

func (p *vipsPipeline) Blur() error {
	return p.img.GaussianBlur(2)
}

func (p *vipsPipeline) Flatten(background Color) error {
	return p.img.Flatten(toVipsColor(background))
}

func (p *vipsPipeline) Gamma(in, out float64) error {
	if in == 0 {
		in = 1
	}
	return p.img.Gamma(out / in)
}

func (p *vipsPipeline) Negate() error {
	return p.img.Invert()
}

func (p *vipsPipeline) Normalize() error {
	return p.img.Normalize()
}

func (p *vipsPipeline) Threshold(level float64) error {
	return p.img.Linear([]float64{255}, []float64{-level * 255})
}

func (p *vipsPipeline) Modulate(brightness, saturation, hue float64) error {
	return p.img.Modulate(brightness, saturation, hue)
}

func (p *vipsPipeline) Tint(rgb Color) error {
	return p.img.Tint(toVipsColor(rgb))
}

func (p *vipsPipeline) Grayscale() error {
	return p.img.ToColorSpace(vips.InterpretationBW)
}

func (p *vipsPipeline) ToFormat(format string, opts FormatOptions) error {
	p.format = format
	p.formatOpts = opts
	return nil
}

func (p *vipsPipeline) ToBuffer() ([]byte, error) {
	defer p.img.Close()

	if !outputFormats[p.format] {
		buf, _, err := p.img.ExportNative()
		return buf, err
	}

	switch p.format {
	case "jpeg":
		buf, _, err := p.img.ExportJpeg(&vips.JpegExportParams{
			Quality:       p.formatOpts.Quality,
			Interlace:     p.formatOpts.Progressive,
			StripMetadata: true,
		})
		return buf, err
	case "png":
		buf, _, err := p.img.ExportPng(vips.NewPngExportParams())
		return buf, err
	case "webp":
		params := vips.NewWebpExportParams()
		params.Quality = p.formatOpts.Quality
		buf, _, err := p.img.ExportWebp(params)
		return buf, err
	case "tiff":
		buf, _, err := p.img.ExportTiff(vips.NewTiffExportParams())
		return buf, err
	case "avif":
		params := vips.NewHeifExportParams()
		params.Compression = vips.HeifCompressionAV1
		params.Quality = p.formatOpts.Quality
		buf, _, err := p.img.ExportHeif(params)
		return buf, err
	case "gif":
		buf, _, err := p.img.ExportGIF(vips.NewGifExportParams())
		return buf, err
	default:
		buf, _, err := p.img.ExportNative()
		return buf, err
	}
}

func toVipsColor(c Color) *vips.Color {
	return &vips.Color{R: c.R, G: c.G, B: c.B}
}
