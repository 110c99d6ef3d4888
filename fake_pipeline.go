package ipx

// FakeCodec is a Codec implementation that performs no real image
// decoding: it is a testing double for exercising the handler table,
// engine and HTTP facade without linking libvips. Width/Height are fixed
// at construction so resize-clamping logic has something real to compute
// against.
type FakeCodec struct {
	Width, Height int
}

var _ Codec = FakeCodec{}

// Decode implements Codec.
func (f FakeCodec) Decode(buf []byte, opts PipelineOptions) (Pipeline, error) {
	width, height := f.Width, f.Height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 100
	}
	return &FakePipeline{raw: buf, width: width, height: height}, nil
}

// FakePipeline is a Pipeline implementation that records every operation
// invoked on it instead of performing real image processing. ToBuffer
// returns the original source bytes unchanged, prefixed with the chosen
// output format, so a test can assert on both the call log and the
// format that was ultimately selected.
type FakePipeline struct {
	raw           []byte
	width, height int
	format        string
	formatOpts    FormatOptions
	Calls         []string
}

var _ Pipeline = (*FakePipeline)(nil)

func (p *FakePipeline) Width() int  { return p.width }
func (p *FakePipeline) Height() int { return p.height }

func (p *FakePipeline) Resize(w, h int, opts ResizeOptions) error {
	p.width, p.height = w, h
	p.Calls = append(p.Calls, "resize")
	return nil
}

func (p *FakePipeline) Extend(e Edges) error {
	p.Calls = append(p.Calls, "extend")
	return nil
}

func (p *FakePipeline) Extract(e Edges) error {
	p.Calls = append(p.Calls, "extract")
	return nil
}

func (p *FakePipeline) Trim(threshold float64) error {
	p.Calls = append(p.Calls, "trim")
	return nil
}

func (p *FakePipeline) Rotate(angle int, background Color) error {
	p.Calls = append(p.Calls, "rotate")
	return nil
}

func (p *FakePipeline) Flip() error {
	p.Calls = append(p.Calls, "flip")
	return nil
}

func (p *FakePipeline) Flop() error {
	p.Calls = append(p.Calls, "flop")
	return nil
}

func (p *FakePipeline) Sharpen(sigma, flat, jagged float64) error {
	p.Calls = append(p.Calls, "sharpen")
	return nil
}

func (p *FakePipeline) Median(size int) error {
	p.Calls = append(p.Calls, "median")
	return nil
}

func (p *FakePipeline) Blur() error {
	p.Calls = append(p.Calls, "blur")
	return nil
}

func (p *FakePipeline) Flatten(background Color) error {
	p.Calls = append(p.Calls, "flatten")
	return nil
}

func (p *FakePipeline) Gamma(in, out float64) error {
	p.Calls = append(p.Calls, "gamma")
	return nil
}

func (p *FakePipeline) Negate() error {
	p.Calls = append(p.Calls, "negate")
	return nil
}

func (p *FakePipeline) Normalize() error {
	p.Calls = append(p.Calls, "normalize")
	return nil
}

func (p *FakePipeline) Threshold(level float64) error {
	p.Calls = append(p.Calls, "threshold")
	return nil
}

func (p *FakePipeline) Modulate(brightness, saturation, hue float64) error {
	p.Calls = append(p.Calls, "modulate")
	return nil
}

func (p *FakePipeline) Tint(rgb Color) error {
	p.Calls = append(p.Calls, "tint")
	return nil
}

func (p *FakePipeline) Grayscale() error {
	p.Calls = append(p.Calls, "grayscale")
	return nil
}

func (p *FakePipeline) ToFormat(format string, opts FormatOptions) error {
	p.format = format
	p.formatOpts = opts
	return nil
}

func (p *FakePipeline) ToBuffer() ([]byte, error) {
	return append([]byte(p.format+":"), p.raw...), nil
}
