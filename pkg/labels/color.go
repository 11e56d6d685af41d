package labels

import (
	"fmt"
	"hash/fnv"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorFor derives a stable display color for a label name. The same name
// always maps to the same hue; chroma and lightness are fixed so every
// generated color reads on the dark theme.
func ColorFor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	hue := float64(h.Sum32() % 360)
	return colorful.Hcl(hue, 0.55, 0.72).Clamped().Hex()
}

// NormalizeColor validates a configured color and returns it as lowercase
// "#rrggbb". Short "#rgb" forms are expanded.
func NormalizeColor(s string) (string, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c.Hex(), nil
}
