package config

import "sort"

// Presets are named starting scenarios. Velocities are per tick at the
// default gravity constant and tick speed; the orbits are close to
// circular.
var Presets = map[string]*Config{
	"empty": scenario(DefaultScaleFactor),
	"binary": scenario(DefaultScaleFactor,
		BodyConfig{Mass: 10, Pos: [2]float64{-100, 0}, Vel: [2]float64{0, -1.224744871}},
		BodyConfig{Mass: 10, Pos: [2]float64{100, 0}, Vel: [2]float64{0, 1.224744871}},
	),
	"sun-planet": scenario(2.5,
		BodyConfig{Mass: 1000, Pos: [2]float64{0, 0}, Vel: [2]float64{0, -0.010954451}},
		BodyConfig{Mass: 1, Pos: [2]float64{500, 0}, Vel: [2]float64{0, 10.954451150}},
	),
	"trio": scenario(DefaultScaleFactor,
		BodyConfig{Mass: 10, Pos: [2]float64{0, 100}, Vel: [2]float64{-1.861209718, 0}},
		BodyConfig{Mass: 10, Pos: [2]float64{-86.602540378, -50}, Vel: [2]float64{0.930604859, -1.611855612}},
		BodyConfig{Mass: 10, Pos: [2]float64{86.602540378, -50}, Vel: [2]float64{0.930604859, 1.611855612}},
	),
	"ring": scenario(2.5,
		BodyConfig{Mass: 1000, Pos: [2]float64{0, 0}},
		BodyConfig{Mass: 0.1, Pos: [2]float64{300, 0}, Vel: [2]float64{0, 14.142135624}},
		BodyConfig{Mass: 0.1, Pos: [2]float64{0, 300}, Vel: [2]float64{-14.142135624, 0}},
		BodyConfig{Mass: 0.1, Pos: [2]float64{-300, 0}, Vel: [2]float64{0, -14.142135624}},
		BodyConfig{Mass: 0.1, Pos: [2]float64{0, -300}, Vel: [2]float64{14.142135624, 0}},
	),
}

func scenario(scale float64, bodies ...BodyConfig) *Config {
	cfg := DefaultConfig()
	cfg.ScaleFactor = scale
	cfg.Bodies = bodies
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bodies = append([]BodyConfig(nil), p.Bodies...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
