package ipx

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	setterOrder   = -1
	operationOrder = 0
)

// operation is the effect bound to a modifier name: it either mutates ctx
// (a context-setter) or transforms the pipeline (an operation handler).
// raw is the modifier's undecoded argument string.
type operation func(ctx *HandlerContext, p Pipeline, raw string) error

// handlerEntry is one row of the static handler table.
type handlerEntry struct {
	order int
	apply operation
}

// handlerTable maps every modifier name (including aliases) to its
// handler entry. The map value's identity (not the map's own iteration
// order) carries the tie-break order via tableIndex, set at init time, so
// dispatch is deterministic regardless of Go's randomized map iteration.
var handlerTable map[string]*indexedEntry

type indexedEntry struct {
	handlerEntry
	tableIndex int
}

func init() {
	type row struct {
		names []string
		entry handlerEntry
	}

	rows := []row{
		// Context-setters: order -1, run before any operation.
		{[]string{"q", "quality"}, handlerEntry{setterOrder, setQuality}},
		{[]string{"fit"}, handlerEntry{setterOrder, setFit}},
		{[]string{"pos", "position"}, handlerEntry{setterOrder, setPosition}},
		{[]string{"background", "b"}, handlerEntry{setterOrder, setBackground}},
		{[]string{"enlarge"}, handlerEntry{setterOrder, setEnlarge}},

		// Pipeline operations, in table declaration order.
		{[]string{"w", "width"}, handlerEntry{operationOrder, opWidth}},
		{[]string{"h", "height"}, handlerEntry{operationOrder, opHeight}},
		{[]string{"s", "resize"}, handlerEntry{operationOrder, opResize}},
		{[]string{"trim"}, handlerEntry{operationOrder, opTrim}},
		{[]string{"extend"}, handlerEntry{operationOrder, opExtend}},
		{[]string{"extract", "crop"}, handlerEntry{operationOrder, opExtract}},
		{[]string{"rotate"}, handlerEntry{operationOrder, opRotate}},
		{[]string{"flip"}, handlerEntry{operationOrder, opFlip}},
		{[]string{"flop"}, handlerEntry{operationOrder, opFlop}},
		{[]string{"sharpen"}, handlerEntry{operationOrder, opSharpen}},
		{[]string{"median"}, handlerEntry{operationOrder, opMedian}},
		{[]string{"blur"}, handlerEntry{operationOrder, opBlur}},
		{[]string{"flatten"}, handlerEntry{operationOrder, opFlatten}},
		{[]string{"gamma"}, handlerEntry{operationOrder, opGamma}},
		{[]string{"negate"}, handlerEntry{operationOrder, opNegate}},
		{[]string{"normalize"}, handlerEntry{operationOrder, opNormalize}},
		{[]string{"threshold"}, handlerEntry{operationOrder, opThreshold}},
		{[]string{"modulate"}, handlerEntry{operationOrder, opModulate}},
		{[]string{"tint"}, handlerEntry{operationOrder, opTint}},
		{[]string{"grayscale"}, handlerEntry{operationOrder, opGrayscale}},
	}

	handlerTable = make(map[string]*indexedEntry)
	for i, r := range rows {
		ie := &indexedEntry{handlerEntry: r.entry, tableIndex: i}
		for _, name := range r.names {
			handlerTable[name] = ie
		}
	}
}

// resolvedHandler pairs a handler table entry with the raw argument from
// one modifier map entry.
type resolvedHandler struct {
	entry *indexedEntry
	raw   string
}

// resolveHandlers filters modifiers to those with a bound handler and
// sorts them so that all context-setters run before all operations, and
// ties within a group break on static table declaration order (not on the
// unordered modifier map's iteration order).
func resolveHandlers(modifiers Modifiers) []resolvedHandler {
	resolved := make([]resolvedHandler, 0, len(modifiers))
	for name, raw := range modifiers {
		entry, ok := handlerTable[name]
		if !ok {
			continue
		}
		resolved = append(resolved, resolvedHandler{entry: entry, raw: raw})
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i].entry, resolved[j].entry
		if a.order != b.order {
			return a.order < b.order
		}
		return a.tableIndex < b.tableIndex
	})

	return resolved
}

// applyHandlers runs every resolved handler against ctx and the pipeline,
// in order. Setters run first (by construction of resolveHandlers) and
// mutate ctx only; operations run after and transform p.
func applyHandlers(ctx *HandlerContext, p Pipeline, handlers []resolvedHandler) error {
	for _, h := range handlers {
		if err := h.entry.apply(ctx, p, h.raw); err != nil {
			return err
		}
	}
	return nil
}

// --- context-setters ---

func setQuality(ctx *HandlerContext, _ Pipeline, raw string) error {
	ctx.Quality = literalInt(raw)
	ctx.HasQuality = true
	return nil
}

func setFit(ctx *HandlerContext, _ Pipeline, raw string) error {
	ctx.Fit = raw
	return nil
}

func setPosition(ctx *HandlerContext, _ Pipeline, raw string) error {
	ctx.Position = raw
	return nil
}

func setBackground(ctx *HandlerContext, _ Pipeline, raw string) error {
	ctx.Background = parseColor(raw)
	ctx.HasBackground = true
	return nil
}

func setEnlarge(ctx *HandlerContext, _ Pipeline, _ string) error {
	ctx.Enlarge = true
	return nil
}

// --- pipeline operations ---

func opWidth(ctx *HandlerContext, p Pipeline, raw string) error {
	return p.Resize(literalInt(raw), 0, ResizeOptions{WithoutEnlargement: !ctx.Enlarge})
}

func opHeight(ctx *HandlerContext, p Pipeline, raw string) error {
	return p.Resize(0, literalInt(raw), ResizeOptions{WithoutEnlargement: !ctx.Enlarge})
}

func opResize(ctx *HandlerContext, p Pipeline, raw string) error {
	w, h := parseDimensions(raw)
	if !ctx.Enlarge {
		w, h = clampToSource(w, h, ctx.Meta.Width, ctx.Meta.Height)
	}
	return p.Resize(w, h, ResizeOptions{
		Fit:        ctx.Fit,
		Position:   ctx.Position,
		Background: ctx.Background,
	})
}

// parseDimensions parses a "WxH" resize argument; a missing height defaults
// to the width, producing a square target.
func parseDimensions(raw string) (w, h int) {
	parts := strings.SplitN(strings.ToLower(raw), "x", 2)
	w = literalInt(parts[0])
	if len(parts) == 2 && parts[1] != "" {
		h = literalInt(parts[1])
	} else {
		h = w
	}
	return w, h
}

// clampToSource shrinks a requested (w, h) so neither dimension exceeds
// the source image, preserving the requested aspect ratio.
func clampToSource(w, h, srcW, srcH int) (int, int) {
	if w <= 0 || h <= 0 || srcW <= 0 || srcH <= 0 {
		return w, h
	}
	aspect := float64(w) / float64(h)
	if w > srcW {
		w = srcW
		h = int(math.Round(float64(srcW) / aspect))
	}
	if h > srcH {
		h = srcH
		w = int(math.Round(float64(srcH) * aspect))
	}
	return w, h
}

func opTrim(_ *HandlerContext, p Pipeline, raw string) error {
	return p.Trim(parseFloatArg(raw))
}

func opExtend(ctx *HandlerContext, p Pipeline, raw string) error {
	edges := parseEdges(raw)
	edges.Background = ctx.Background
	return p.Extend(edges)
}

func opExtract(ctx *HandlerContext, p Pipeline, raw string) error {
	edges := parseEdges(raw)
	edges.Background = ctx.Background
	return p.Extract(edges)
}

// parseEdges parses a comma-separated "top,right,bottom,left" argument.
func parseEdges(raw string) Edges {
	parts := strings.Split(raw, ",")
	get := func(i int) int {
		if i < len(parts) {
			return literalInt(strings.TrimSpace(parts[i]))
		}
		return 0
	}
	return Edges{Top: get(0), Right: get(1), Bottom: get(2), Left: get(3)}
}

func opRotate(ctx *HandlerContext, p Pipeline, raw string) error {
	return p.Rotate(literalInt(raw), ctx.Background)
}

func opFlip(_ *HandlerContext, p Pipeline, _ string) error { return p.Flip() }
func opFlop(_ *HandlerContext, p Pipeline, _ string) error { return p.Flop() }

func opSharpen(_ *HandlerContext, p Pipeline, raw string) error {
	sigma, flat, jagged := parseThreeFloats(raw)
	return p.Sharpen(sigma, flat, jagged)
}

func opMedian(_ *HandlerContext, p Pipeline, raw string) error {
	return p.Median(literalInt(raw))
}

func opBlur(_ *HandlerContext, p Pipeline, _ string) error { return p.Blur() }

func opFlatten(ctx *HandlerContext, p Pipeline, _ string) error {
	return p.Flatten(ctx.Background)
}

func opGamma(_ *HandlerContext, p Pipeline, raw string) error {
	in, out := parseTwoFloats(raw)
	return p.Gamma(in, out)
}

func opNegate(_ *HandlerContext, p Pipeline, _ string) error    { return p.Negate() }
func opNormalize(_ *HandlerContext, p Pipeline, _ string) error { return p.Normalize() }

func opThreshold(_ *HandlerContext, p Pipeline, raw string) error {
	return p.Threshold(parseFloatArg(raw))
}

func opModulate(_ *HandlerContext, p Pipeline, raw string) error {
	brightness, saturation, hue := parseThreeFloats(raw)
	return p.Modulate(brightness, saturation, hue)
}

func opTint(_ *HandlerContext, p Pipeline, raw string) error {
	return p.Tint(parseColor(raw))
}

func opGrayscale(_ *HandlerContext, p Pipeline, _ string) error { return p.Grayscale() }

// --- argument parsing helpers ---

func parseFloatArg(raw string) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return f
	}
	return 0
}

func parseTwoFloats(raw string) (a, b float64) {
	parts := strings.Split(raw, ",")
	if len(parts) > 0 {
		a = parseFloatArg(parts[0])
	}
	if len(parts) > 1 {
		b = parseFloatArg(parts[1])
	}
	return a, b
}

func parseThreeFloats(raw string) (a, b, c float64) {
	parts := strings.Split(raw, ",")
	get := func(i int) float64 {
		if i < len(parts) {
			return parseFloatArg(parts[i])
		}
		return 0
	}
	return get(0), get(1), get(2)
}

// hex3or6 reports whether raw is a bare 3- or 6-digit hex color with no
// leading '#'.
func hex3or6(raw string) bool {
	if len(raw) != 3 && len(raw) != 6 {
		return false
	}
	for _, r := range raw {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// parseColor parses a background/tint color argument. A bare 3- or
// 6-digit hex string is prefixed with '#' first, per the handler table's
// color-value rule.
func parseColor(raw string) Color {
	if hex3or6(raw) {
		raw = "#" + raw
	}
	raw = strings.TrimPrefix(raw, "#")

	if len(raw) == 3 {
		raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
	}
	if len(raw) != 6 {
		return Color{}
	}

	r, err1 := strconv.ParseUint(raw[0:2], 16, 8)
	g, err2 := strconv.ParseUint(raw[2:4], 16, 8)
	b, err3 := strconv.ParseUint(raw[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return Color{}
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b)}
}
