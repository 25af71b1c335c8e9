package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval = 1.0
	DefaultDuration = 600.0
	DefaultPGain    = 4
	DefaultIGain    = 1
	DefaultDGain    = 16
	DefaultWindup   = 250
	DefaultDivisor  = 1
	DefaultTarget   = 830
	DefaultBand     = 8
)

type Config struct {
	Plant      string       `yaml:"plant"`
	Controller string       `yaml:"controller"`
	Interval   float64      `yaml:"interval"`
	Duration   float64      `yaml:"duration"`
	Seed       int64        `yaml:"seed"`
	Gains      GainsConfig  `yaml:"gains"`
	PlantParam PlantConfig  `yaml:"plant_params"`
	Sensor     SensorConfig `yaml:"sensor"`
}

// GainsConfig carries the integer controller parameters. All fields
// are ADC-count based; Band is only read by the bang-bang controller.
type GainsConfig struct {
	P       int `yaml:"p"`
	I       int `yaml:"i"`
	D       int `yaml:"d"`
	Windup  int `yaml:"windup"`
	Divisor int `yaml:"divisor"`
	Target  int `yaml:"target"`
	Band    int `yaml:"band"`
}

type PlantConfig struct {
	Ambient  float64 `yaml:"ambient"`
	Capacity float64 `yaml:"capacity"`
	Loss     float64 `yaml:"loss"`
	MaxPower float64 `yaml:"max_power"`
}

type SensorConfig struct {
	MinTemp float64 `yaml:"min_temp"`
	MaxTemp float64 `yaml:"max_temp"`
	Noise   int     `yaml:"noise"`
}

func DefaultConfig() *Config {
	return &Config{
		Plant:      "heater",
		Controller: "pid",
		Interval:   DefaultInterval,
		Duration:   DefaultDuration,
		Gains: GainsConfig{
			P:       DefaultPGain,
			I:       DefaultIGain,
			D:       DefaultDGain,
			Windup:  DefaultWindup,
			Divisor: DefaultDivisor,
			Target:  DefaultTarget,
			Band:    DefaultBand,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
