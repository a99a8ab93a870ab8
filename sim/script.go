package sim

import (
	"fmt"
	"math"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/gridcaster/prefabs"
)

// SpeedScript scales an enemy's chase speed from a Tengo script. Before each
// run the globals health, max_health, distance, sight and mode are set; the
// script assigns scale. An unassigned scale leaves the speed unchanged.
type SpeedScript struct {
	name     string
	compiled *tengo.Compiled
}

// CompileSpeedScript compiles src. name is only used in errors.
func CompileSpeedScript(name string, src []byte) (*SpeedScript, error) {
	script := tengo.NewScript(src)
	_ = script.Add("health", 0)
	_ = script.Add("max_health", 0)
	_ = script.Add("distance", 0.0)
	_ = script.Add("sight", 0.0)
	_ = script.Add("mode", "")
	_ = script.Add("scale", 1.0)
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &SpeedScript{name: name, compiled: compiled}, nil
}

// LoadSpeedScript reads a script from dir, falling back to the embedded
// prefabs.
func LoadSpeedScript(dir, name string) (*SpeedScript, error) {
	src, err := prefabs.Load(dir, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return CompileSpeedScript(name, src)
}

// Scale runs the script for e at distance from the player. Negative and
// non-finite results are clamped to zero.
func (s *SpeedScript) Scale(e *Enemy, distance float64) (float64, error) {
	c := s.compiled
	vars := []struct {
		name string
		v    any
	}{
		{"health", e.Health},
		{"max_health", e.MaxHealth},
		{"distance", distance},
		{"sight", e.SightTimer},
		{"mode", e.Mode.String()},
		{"scale", 1.0},
	}
	for _, kv := range vars {
		if err := c.Set(kv.name, kv.v); err != nil {
			return 1, fmt.Errorf("%s: set %s: %w", s.name, kv.name, err)
		}
	}
	if err := c.Run(); err != nil {
		return 1, fmt.Errorf("%s: %w", s.name, err)
	}

	scale := c.Get("scale").Float()
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < 0 {
		return 0, nil
	}
	return scale, nil
}
