package export

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/orbitsim/internal/analysis"
)

// TrackToSVG draws a track as a polyline around a marker for the focus
// body. Tracks with fewer than two points render empty.
func TrackToSVG(track *analysis.Track, width, height int, strokeColor string) string {
	if track == nil || len(track.Points) < 2 {
		return ""
	}

	lo, hi := track.Bounds()
	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	toSVG := func(x, y float64) (float64, float64) {
		return (x - lo.X) / rangeX * float64(width), (y - lo.Y) / rangeY * float64(height)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range track.Points {
		x, y := toSVG(p.X, p.Y)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
`)

	fx, fy := toSVG(0, 0)
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="#ffff00"/>
</svg>`, fx, fy))
	return sb.String()
}

// WriteTrackSVG writes TrackToSVG output to path.
func WriteTrackSVG(path string, track *analysis.Track, width, height int, strokeColor string) error {
	if track == nil {
		return errors.New("export: no track to write")
	}
	svg := TrackToSVG(track, width, height, strokeColor)
	if svg == "" {
		return fmt.Errorf("export: track of body %d has too few points", track.Body)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
