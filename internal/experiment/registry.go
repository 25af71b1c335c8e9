package experiment

import (
	"fmt"

	"github.com/san-kum/heatsim/internal/adc"
	"github.com/san-kum/heatsim/internal/control"
	"github.com/san-kum/heatsim/internal/metrics"
	"github.com/san-kum/heatsim/internal/plant"
	"github.com/san-kum/heatsim/internal/sim"
)

// ControllerParams carries the integer parameters shared by the
// registered controllers. Band is only read by bangbang.
type ControllerParams struct {
	P       int
	I       int
	D       int
	Windup  int
	Divisor int
	Target  int
	Band    int
}

type Registry struct {
	plants      map[string]func() sim.Plant
	controllers map[string]func(ControllerParams) (sim.Controller, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		plants:      make(map[string]func() sim.Plant),
		controllers: make(map[string]func(ControllerParams) (sim.Controller, error)),
	}

	r.plants["heater"] = func() sim.Plant { return plant.NewHeater() }
	r.plants["boiler"] = func() sim.Plant {
		h := plant.NewHeater()
		h.Capacity = 500.0
		h.Loss = 2.0
		h.MaxPower = 400.0
		return h
	}

	r.controllers["pid"] = func(p ControllerParams) (sim.Controller, error) {
		pid, err := control.NewPID(p.P, p.I, p.D, p.Windup, p.Divisor)
		if err != nil {
			return nil, err
		}
		pid.SetTarget(p.Target)
		return pid, nil
	}
	r.controllers["bangbang"] = func(p ControllerParams) (sim.Controller, error) {
		bb := control.NewBangBang(p.Band)
		bb.SetTarget(p.Target)
		return bb, nil
	}

	return r
}

func (r *Registry) GetPlant(name string) (sim.Plant, error) {
	fn, ok := r.plants[name]
	if !ok {
		return nil, fmt.Errorf("unknown plant: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, params ControllerParams) (sim.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(params)
}

func (r *Registry) ListPlants() []string {
	names := make([]string, 0, len(r.plants))
	for name := range r.plants {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics builds the standard metric set around a target
// reading: mean drive, peak overshoot, settling time and in-band
// fraction with an 8-count band.
func (r *Registry) DefaultMetrics(target int) []sim.Metric {
	const band = 8
	return []sim.Metric{
		metrics.NewDriveEffort(),
		metrics.NewOvershoot(target),
		metrics.NewSettling(target, band),
		metrics.NewTracking(target, band),
	}
}

// NewSensor builds the default 10-bit converter with the given noise
// amplitude and seed.
func NewSensor(noise int, seed int64) sim.Sensor {
	c := adc.NewConverter(seed)
	c.Noise = noise
	return c
}
