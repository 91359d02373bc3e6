package config

import "fmt"

// GetPreset returns a ready-to-run configuration by name.
func GetPreset(name string) (*Config, error) {
	switch name {
	case "crystal":
		cfg := DefaultConfig()
		cfg.Particles = 27
		cfg.InitState = InitStateConfig{
			Shape:       "lattice",
			Spacing:     DefaultSpacing,
			Temperature: 0,
		}
		cfg.Steps = 5000
		return cfg, nil

	case "cloud":
		cfg := DefaultConfig()
		cfg.Cooling = CoolingConfig{
			Enabled:  true,
			Gamma:    1.32e8,     // 2π·21 MHz, Ca⁺ S→P
			HbarK:    1.66e-27,   // ħ·2π/397nm
			S0:       0.5,
			Detuning: -6.6e7,     // -Γ/2
		}
		return cfg, nil

	case "default":
		return DefaultConfig(), nil
	}
	return nil, fmt.Errorf("unknown preset %q", name)
}

func ListPresets() []string {
	return []string{"default", "crystal", "cloud"}
}
