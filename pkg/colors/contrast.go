// Package colors supplies tab bar palettes and picks readable text colors.
package colors

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Luminance is the WCAG relative luminance of a hex color, from 0 (black)
// to 1 (white). Invalid colors count as black.
func Luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio is the WCAG contrast ratio between two colors, from 1 to 21.
func ContrastRatio(fg, bg string) float64 {
	l1, l2 := Luminance(fg), Luminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// IsLight reports whether hex is closer to white than black.
func IsLight(hex string) bool {
	return Luminance(hex) > 0.5
}

// TextColorFor picks white or black text for a background. White wins
// whenever it reaches the 3:1 large-text ratio, which keeps saturated
// accent backgrounds white.
func TextColorFor(bg string) string {
	if ContrastRatio("#ffffff", bg) >= 3.0 {
		return "#ffffff"
	}
	if ContrastRatio("#000000", bg) >= 3.0 {
		return "#000000"
	}
	if IsLight(bg) {
		return "#000000"
	}
	return "#ffffff"
}
