package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	// maxDot bounds projected coordinates so far-away bodies do not
	// overflow the int conversion.
	maxDot      = 1 << 20
	maxDiameter = 48.0
)

// Projection maps world coordinates to canvas dots. The focus body sits at
// the centre of the view and one dot spans 10^Scale world units.
type Projection struct {
	Focus  physics.Vec2
	Center physics.Vec2
	Scale  float64
}

// ToScreen returns the dot for p. It reports false for non-finite or
// absurdly distant points.
func (p Projection) ToScreen(world physics.Vec2) (int, int, bool) {
	s := world.Sub(p.Focus).Scale(math.Pow(10, -p.Scale)).Add(p.Center)
	if !s.IsFinite() || math.Abs(s.X) > maxDot || math.Abs(s.Y) > maxDot {
		return 0, 0, false
	}
	return int(math.Round(s.X)), int(math.Round(s.Y)), true
}

// Diameter is the glyph size in dots for a body of the given mass. A disc
// of log10(mass)*10 pixels is shrunk by the four dots of a braille cell
// row; light bodies still get one dot.
func Diameter(mass float64) float64 {
	if !(mass > 1) || math.IsInf(mass, 1) {
		return 1
	}
	d := math.Log10(mass) * 10 / 4
	return math.Max(1, math.Min(d, maxDiameter))
}

// MassLabel formats a mass the way bodies are labelled on screen.
func MassLabel(mass float64) string {
	return fmt.Sprintf("Mass:%.0f", mass)
}
