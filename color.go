package sprig

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor parses a pixel color string to 8-bit RGBA. Accepted forms are
// #rgb, #rrggbb, #rrggbbaa hex and rgb(r, g, b) / rgba(r, g, b, a)
// functional strings, where hex alpha is 0-255 and rgba() alpha is a 0-1
// fraction. Unparseable strings fall back to opaque black; a bad color is a
// data problem, never a render failure.
func ParseColor(s string) (r, g, b, a uint8) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s[4:len(s)-1], false)
	}
	return 0, 0, 0, 255
}

func parseHex(h string) (r, g, b, a uint8) {
	switch len(h) {
	case 3:
		rv, okR := hexNibble(h[0])
		gv, okG := hexNibble(h[1])
		bv, okB := hexNibble(h[2])
		if !okR || !okG || !okB {
			return 0, 0, 0, 255
		}
		return rv * 17, gv * 17, bv * 17, 255
	case 6, 8:
		v, err := strconv.ParseUint(h, 16, 64)
		if err != nil {
			return 0, 0, 0, 255
		}
		if len(h) == 6 {
			return uint8(v >> 16), uint8(v >> 8), uint8(v), 255
		}
		return uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)
	}
	return 0, 0, 0, 255
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// parseFunctional parses the argument list of rgb()/rgba(). The alpha
// argument, when present, is a 0-1 fraction scaled to 0-255.
func parseFunctional(args string, hasAlpha bool) (r, g, b, a uint8) {
	parts := strings.Split(args, ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return 0, 0, 0, 255
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0, 0, 0, 255
		}
		ch[i] = clampChannel(v)
	}
	a = 255
	if hasAlpha {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return 0, 0, 0, 255
		}
		a = clampChannel(int(f*255 + 0.5))
	}
	return ch[0], ch[1], ch[2], a
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// FormatColor formats 8-bit RGBA as a hex color string: #rrggbb when fully
// opaque, #rrggbbaa otherwise. The complement of ParseColor, used by the
// editor's eyedropper.
func FormatColor(r, g, b, a uint8) string {
	if a == 255 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}
