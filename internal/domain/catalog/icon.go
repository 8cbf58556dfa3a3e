package catalog

import "strings"

// Icon is the closed set of glyphs a catalog entry can be drawn with.
type Icon int

const (
	IconScissors Icon = iota
	IconDroplet
	IconSparkles
)

var iconNames = [...]string{
	IconScissors: "scissors",
	IconDroplet:  "droplet",
	IconSparkles: "sparkles",
}

// glyphs maps each icon to the glyph id the clients render.
var glyphs = map[Icon]string{
	IconScissors: "lucide:scissors",
	IconDroplet:  "lucide:droplet",
	IconSparkles: "lucide:sparkles",
}

func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return iconNames[IconScissors]
	}
	return iconNames[i]
}

func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[IconScissors]
}

// ParseIcon never fails: unknown names fall back to scissors.
func ParseIcon(name string) Icon {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range iconNames {
		if n == name {
			return Icon(i)
		}
	}
	return IconScissors
}
