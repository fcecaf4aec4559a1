// Package theme provides the named color palettes a document can be rendered
// with. A Theme is a plain value handed to each render call.
package theme

import (
	"sort"
	"strings"

	"github.com/lvillar/invoicekit/canvas"
)

// DefaultKey is used whenever a requested theme is unknown.
const DefaultKey = "minimalist"

// Theme is a named palette plus the metadata layout style it prefers.
type Theme struct {
	Key        string             `json:"key"`
	Name       string             `json:"name"`
	Primary    canvas.Color       `json:"primaryColor"`
	Accent     canvas.Color       `json:"accentColor"`
	Background canvas.Color       `json:"backgroundColor"`
	Divider    canvas.Color       `json:"dividerColor"`
	Footer     canvas.Color       `json:"footerColor"`
	Style      canvas.LayoutStyle `json:"-"`
}

var builtin = map[string]Theme{
	"minimalist": {
		Key: "minimalist", Name: "Minimalist",
		Primary:    canvas.Color{R: 33, G: 33, B: 33},
		Accent:     canvas.Color{R: 117, G: 117, B: 117},
		Background: canvas.Color{R: 248, G: 248, B: 248},
		Divider:    canvas.Color{R: 224, G: 224, B: 224},
		Footer:     canvas.Color{R: 150, G: 150, B: 150},
	},
	"professional": {
		Key: "professional", Name: "Professional",
		Primary:    canvas.Color{R: 30, G: 58, B: 138},
		Accent:     canvas.Color{R: 59, G: 130, B: 246},
		Background: canvas.Color{R: 239, G: 246, B: 255},
		Divider:    canvas.Color{R: 191, G: 219, B: 254},
		Footer:     canvas.Color{R: 100, G: 116, B: 139},
		Style:      canvas.StyleBoxed,
	},
	"modern": {
		Key: "modern", Name: "Modern",
		Primary:    canvas.Color{R: 79, G: 70, B: 229},
		Accent:     canvas.Color{R: 236, G: 72, B: 153},
		Background: canvas.Color{R: 245, G: 243, B: 255},
		Divider:    canvas.Color{R: 221, G: 214, B: 254},
		Footer:     canvas.Color{R: 124, G: 58, B: 237},
	},
	"classic": {
		Key: "classic", Name: "Classic",
		Primary:    canvas.Color{R: 120, G: 53, B: 15},
		Accent:     canvas.Color{R: 180, G: 83, B: 9},
		Background: canvas.Color{R: 254, G: 252, B: 232},
		Divider:    canvas.Color{R: 214, G: 211, B: 209},
		Footer:     canvas.Color{R: 120, G: 113, B: 108},
	},
	"elegant": {
		Key: "elegant", Name: "Elegant",
		Primary:    canvas.Color{R: 17, G: 94, B: 89},
		Accent:     canvas.Color{R: 202, G: 138, B: 4},
		Background: canvas.Color{R: 240, G: 253, B: 250},
		Divider:    canvas.Color{R: 153, G: 246, B: 228},
		Footer:     canvas.Color{R: 71, G: 85, B: 105},
		Style:      canvas.StyleBoxed,
	},
	"bold": {
		Key: "bold", Name: "Bold",
		Primary:    canvas.Color{R: 220, G: 38, B: 38},
		Accent:     canvas.Color{R: 17, G: 24, B: 39},
		Background: canvas.Color{R: 254, G: 242, B: 242},
		Divider:    canvas.Color{R: 254, G: 202, B: 202},
		Footer:     canvas.Color{R: 107, G: 114, B: 128},
	},
}

// Lookup returns the theme registered under key. Unknown or empty keys
// resolve to the default theme; ok reports whether key itself was known.
func Lookup(key string) (t Theme, ok bool) {
	t, ok = builtin[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return builtin[DefaultKey], false
	}
	return t, true
}

// Get is Lookup without the found flag.
func Get(key string) Theme {
	t, _ := Lookup(key)
	return t
}

// Default returns the default theme.
func Default() Theme {
	return builtin[DefaultKey]
}

// All returns every built-in theme sorted by key.
func All() []Theme {
	out := make([]Theme, 0, len(builtin))
	for _, t := range builtin {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
