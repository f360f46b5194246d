// Package palette converts host color strings and picks the arc color band.
package palette

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB holds 8-bit color channels.
type RGB struct {
	R, G, B int
}

// HexToRGB parses "#RRGGBB" as a 24-bit base-16 value and splits it into
// channels. Unparsable input yields zero channels; no error is reported.
func HexToRGB(hex string) RGB {
	v, _ := strconv.ParseInt(strings.ReplaceAll(hex, "#", ""), 16, 64)
	return RGB{
		R: int(v>>16) & 255,
		G: int(v>>8) & 255,
		B: int(v) & 255,
	}
}

// Hex formats the channels as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R&255, c.G&255, c.B&255)
}

// RGBA renders a CSS rgba() string with the given opacity fraction.
func RGBA(c RGB, opacity float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(opacity, 'f', -1, 64))
}
