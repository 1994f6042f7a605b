// Package colors parses and generates bar palette colors.
//
// Colors are exchanged as [image/color.Color] so every sink can consume them
// directly; [github.com/lucasb-eyer/go-colorful] does the parsing and the
// color-space math.
package colors

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/bargroup/pkg/errors"
)

// Default palette saturation and value. Hues are spread evenly.
const (
	defaultSaturation = 0.62
	defaultValue      = 0.86
)

var named = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"purple": "#800080",
	"gray":   "#808080",
	"grey":   "#808080",
	"teal":   "#008080",
}

// Parse converts "#rrggbb", "#rgb" or a basic color name into an opaque color.
func Parse(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := named[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return toRGBA(c), nil
}

// ParseAll parses every entry of ss, stopping at the first invalid color.
func ParseAll(ss []string) ([]color.Color, error) {
	out := make([]color.Color, 0, len(ss))
	for _, s := range ss {
		c, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Hex formats c as "#rrggbb". Fully transparent colors format as "none".
func Hex(c color.Color) string {
	if c == nil {
		return "none"
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "none"
	}
	return cf.Clamped().Hex()
}

// RGB255 returns the 8-bit channels of c, ignoring alpha.
func RGB255(c color.Color) (r, g, b uint8) {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return 0, 0, 0
	}
	return cf.Clamped().RGB255()
}

// Default returns n visually distinct colors with evenly spaced hues.
func Default(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		h := 360 * float64(i) / float64(n)
		out[i] = toRGBA(colorful.Hsv(h, defaultSaturation, defaultValue))
	}
	return out
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
