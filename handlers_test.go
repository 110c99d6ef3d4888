package ipx

import (
	"testing"

	"github.com/rickb777/expect"
)

func TestResolveHandlers_settersBeforeOperations(t *testing.T) {
	modifiers := Modifiers{
		"w":        "50",
		"h":        "50",
		"q":        "90",
		"fit":      "cover",
		"grayscale": "",
	}

	resolved := resolveHandlers(modifiers)
	expect.Number(len(resolved)).ToBe(t, 5)

	sawOperation := false
	for _, r := range resolved {
		if r.entry.order == setterOrder {
			expect.Any(sawOperation).Info("setter after operation").ToBe(t, false)
		} else {
			sawOperation = true
		}
	}
}

func TestResolveHandlers_operationOrderIsTableOrder(t *testing.T) {
	// Declared out of their handler-table order; Go randomizes map
	// iteration, so the order only holds reliably if dispatch sorts by
	// table index rather than by modifier-map iteration order.
	modifiers := Modifiers{"grayscale": "", "w": "10", "rotate": "90"}
	resolved := resolveHandlers(modifiers)

	expect.Number(len(resolved)).ToBe(t, 3)
	expect.Any(resolved[0].entry.tableIndex < resolved[1].entry.tableIndex).ToBe(t, true)
	expect.Any(resolved[1].entry.tableIndex < resolved[2].entry.tableIndex).ToBe(t, true)
}

func TestResolveHandlers_unknownModifierIgnored(t *testing.T) {
	resolved := resolveHandlers(Modifiers{"bogus": "1"})
	expect.Number(len(resolved)).ToBe(t, 0)
}

func TestApplyHandlers_contextThenOperation(t *testing.T) {
	ctx := newHandlerContext(Meta{Width: 400, Height: 300})
	pipeline := &FakePipeline{width: 400, height: 300}

	handlers := resolveHandlers(Modifiers{"q": "55", "grayscale": ""})
	err := applyHandlers(ctx, pipeline, handlers)
	expect.Error(err).Not().ToHaveOccurred(t)

	expect.Number(ctx.Quality).ToBe(t, 55)
	expect.Any(ctx.HasQuality).ToBe(t, true)
	expect.Number(len(pipeline.Calls)).ToBe(t, 1)
	expect.String(pipeline.Calls[0]).ToBe(t, "grayscale")
}

func TestClampToSource(t *testing.T) {
	w, h := clampToSource(800, 400, 400, 1000)
	expect.Number(w).ToBe(t, 400)
	expect.Number(h).ToBe(t, 200)

	w, h = clampToSource(100, 100, 400, 400)
	expect.Number(w).ToBe(t, 100)
	expect.Number(h).ToBe(t, 100)
}

func TestParseDimensions(t *testing.T) {
	w, h := parseDimensions("200x100")
	expect.Number(w).ToBe(t, 200)
	expect.Number(h).ToBe(t, 100)

	w, h = parseDimensions("200")
	expect.Number(w).ToBe(t, 200)
	expect.Number(h).ToBe(t, 200)
}

func TestParseEdges(t *testing.T) {
	e := parseEdges("1,2,3,4")
	expect.Number(e.Top).ToBe(t, 1)
	expect.Number(e.Right).ToBe(t, 2)
	expect.Number(e.Bottom).ToBe(t, 3)
	expect.Number(e.Left).ToBe(t, 4)
}

func TestParseColor(t *testing.T) {
	c := parseColor("ff0000")
	expect.Number(int(c.R)).ToBe(t, 255)
	expect.Number(int(c.G)).ToBe(t, 0)
	expect.Number(int(c.B)).ToBe(t, 0)

	c = parseColor("#00ff00")
	expect.Number(int(c.G)).ToBe(t, 255)

	c = parseColor("0f0")
	expect.Number(int(c.G)).ToBe(t, 255)

	c = parseColor("not-a-color")
	expect.Number(int(c.R)).ToBe(t, 0)
	expect.Number(int(c.G)).ToBe(t, 0)
	expect.Number(int(c.B)).ToBe(t, 0)
}
