package ipx

import (
	"testing"

	"github.com/rickb777/expect"
)

func TestDecodeRequest(t *testing.T) {
	cases := []struct {
		path      string
		wantID    string
		wantMods  Modifiers
		wantError bool
	}{
		{"/w_200,h_100/cat.jpg", "cat.jpg", Modifiers{"w": "200", "h": "100"}, false},
		{"/_/cat.jpg", "cat.jpg", Modifiers{}, false},
		{"/q_80/https://example.com/cat.jpg", "https://example.com/cat.jpg", Modifiers{"q": "80"}, false},
		{"//cat.jpg", "", nil, true},
		{"/w_200/", "", nil, true},
		{"", "", nil, true},
	}

	for _, tc := range cases {
		id, mods, err := decodeRequest(tc.path)
		if tc.wantError {
			expect.Error(err).Info(tc.path).ToHaveOccurred(t)
			continue
		}
		expect.Error(err).Info(tc.path).Not().ToHaveOccurred(t)
		expect.String(id).Info(tc.path).ToBe(t, tc.wantID)
		expect.Number(len(mods)).Info(tc.path).ToBe(t, len(tc.wantMods))
		for k, v := range tc.wantMods {
			expect.String(mods[k]).Info(tc.path + ":" + k).ToBe(t, v)
		}
	}
}

func TestDecodeModifiers_separators(t *testing.T) {
	mods, err := decodeModifiers("w=200&h:100,fit_cover")
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.String(mods["w"]).ToBe(t, "200")
	expect.String(mods["h"]).ToBe(t, "100")
	expect.String(mods["fit"]).ToBe(t, "cover")
}

func TestDecodeModifiers_identity(t *testing.T) {
	mods, err := decodeModifiers("_")
	expect.Error(err).Not().ToHaveOccurred(t)
	expect.Number(len(mods)).ToBe(t, 0)
}

func TestNormalizeID(t *testing.T) {
	aliases := []Alias{{Base: "/covers", Replacement: "/static/covers"}}

	expect.String(normalizeID("cat.jpg", nil)).ToBe(t, "/cat.jpg")
	expect.String(normalizeID("/cat.jpg", nil)).ToBe(t, "/cat.jpg")
	expect.String(normalizeID("https://example.com/cat.jpg", nil)).ToBe(t, "https://example.com/cat.jpg")
	expect.String(normalizeID("/covers/1.jpg", aliases)).ToBe(t, "/static/covers/1.jpg")
}

func TestHasScheme(t *testing.T) {
	expect.Any(hasScheme("https://example.com/x")).ToBe(t, true)
	expect.Any(hasScheme("http://example.com/x")).ToBe(t, true)
	expect.Any(hasScheme("/local/path")).ToBe(t, false)
	expect.Any(hasScheme("local/path")).ToBe(t, false)
}
