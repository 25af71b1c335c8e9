package config

var Presets = map[string]map[string]*Config{
	"heater": {
		// Espresso-machine style group head: hold 830 counts
		// (~101 C on the default sensor span).
		"espresso": {
			Plant: "heater", Controller: "pid", Interval: 1.0, Duration: 900.0,
			Gains: GainsConfig{P: 4, I: 1, D: 16, Windup: 250, Divisor: 1, Target: 830},
		},
		// Softer gains, slower approach, less overshoot.
		"gentle": {
			Plant: "heater", Controller: "pid", Interval: 1.0, Duration: 1800.0,
			Gains: GainsConfig{P: 2, I: 1, D: 24, Windup: 220, Divisor: 1, Target: 830},
		},
		// Proportional-only with a divisor; settles below target.
		"p_only": {
			Plant: "heater", Controller: "pid", Interval: 1.0, Duration: 600.0,
			Gains: GainsConfig{P: 3, I: 0, D: 0, Windup: 0, Divisor: 1, Target: 830},
		},
		"thermostat": {
			Plant: "heater", Controller: "bangbang", Interval: 1.0, Duration: 1200.0,
			Gains: GainsConfig{Target: 830, Band: 8},
		},
	},
	"boiler": {
		"warmup": {
			Plant: "boiler", Controller: "pid", Interval: 2.0, Duration: 3600.0,
			Gains: GainsConfig{P: 6, I: 1, D: 32, Windup: 400, Divisor: 2, Target: 700},
		},
	},
}

func GetPreset(plant, preset string) *Config {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	cfg, ok := plantPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(plant string) []string {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(plantPresets))
	for name := range plantPresets {
		names = append(names, name)
	}
	return names
}
