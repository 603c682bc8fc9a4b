package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/physics"
)

func square() *analysis.Track {
	tr := analysis.NewTrack(1, 0)
	tr.Points = []physics.Vec2{{X: 10, Y: 10}, {X: -10, Y: 10}, {X: -10, Y: -10}, {X: 10, Y: -10}}
	return tr
}

func TestTrackToSVG(t *testing.T) {
	if TrackToSVG(analysis.NewTrack(1, 0), 100, 100, "#fff") != "" {
		t.Error("empty track should render nothing")
	}

	svg := TrackToSVG(square(), 120, 120, "#00ffff")
	for _, want := range []string{`<svg`, `stroke="#00ffff"`, `d="M110.0,110.0 L10.0,110.0 L10.0,10.0 L110.0,10.0"`, `<circle cx="60.0" cy="60.0"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s:\n%s", want, svg)
		}
	}
}

func TestWriteTrackSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbit.svg")
	if err := WriteTrackSVG(path, square(), 120, 120, "#00ffff"); err != nil {
		t.Fatalf("WriteTrackSVG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "</svg>") {
		t.Error("file does not hold a complete svg")
	}

	if err := WriteTrackSVG(path, analysis.NewTrack(2, 0), 10, 10, "#fff"); err == nil {
		t.Error("expected error for an empty track")
	}
	if err := WriteTrackSVG(path, nil, 10, 10, "#fff"); err == nil {
		t.Error("expected error for a nil track")
	}
}
