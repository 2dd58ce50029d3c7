package markup

import (
	"regexp"
	"strings"
)

var hexColorRE = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// namedColors maps the color names scripts commonly use to hex values.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"gray":    "#808080",
	"grey":    "#808080",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
	"pink":    "#ffc0cb",
	"brown":   "#a52a2a",
}

// NormalizeColor returns c as a lowercase hex color. It accepts hex values
// and a fixed set of names.
func NormalizeColor(c string) (string, bool) {
	c = strings.ToLower(strings.TrimSpace(c))
	if hex, ok := namedColors[c]; ok {
		return hex, true
	}
	if hexColorRE.MatchString(c) {
		return c, true
	}
	return "", false
}
