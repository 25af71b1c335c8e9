package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/heatsim/internal/sim"
)

type Config struct {
	Plant      string
	Controller string
	Interval   float64
	Duration   float64
	Seed       int64
	Params     ControllerParams
}

type Experiment struct {
	cfg  Config
	loop *sim.Loop
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(plant sim.Plant, sensor sim.Sensor, controller sim.Controller, metrics []sim.Metric) error {
	e.loop = sim.New(plant, sensor, controller)
	for _, m := range metrics {
		e.loop.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.loop == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Interval: e.cfg.Interval,
		Duration: e.cfg.Duration,
		Seed:     e.cfg.Seed,
	}

	return e.loop.Run(ctx, simCfg)
}

// Loop returns the underlying loop for adding observers.
func (e *Experiment) Loop() *sim.Loop {
	return e.loop
}
