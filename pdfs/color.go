package pdfs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Color is an opaque RGB color. Alpha in `#rrggbbaa` input is dropped.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0x00, 0x00, 0x00}
	White = Color{0xff, 0xff, 0xff}
)

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{6})([0-9a-fA-F]{2})?$`)

// ParseHexColor parses `#rrggbb` or `#rrggbbaa`
func ParseHexColor(s string) (Color, bool) {
	m := hexColorPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Color{}, false
	}
	v, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// MustHex is for package-level constants only
func MustHex(s string) Color {
	c, ok := ParseHexColor(s)
	if !ok {
		panic(fmt.Errorf("invalid hex color: %q", s))
	}
	return c
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
