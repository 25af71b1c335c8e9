package sim

import (
	"context"
	"fmt"
)

// Loop runs the fixed-interval sample/compute/actuate cycle: read the
// sensor, feed the reading to the controller, apply the resulting
// drive to the plant for one interval. The loop owns all timing; the
// controller never sees a clock.
type Loop struct {
	plant      Plant
	sensor     Sensor
	controller Controller
	metrics    []Metric
	observers  []Observer
}

func New(plant Plant, sensor Sensor, controller Controller) *Loop {
	return &Loop{
		plant:      plant,
		sensor:     sensor,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// Controller returns the controller driving the loop, for callers that
// adjust the target mid-run.
func (l *Loop) Controller() Controller { return l.controller }

func (l *Loop) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := l.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Interval)
	result := &Result{
		Samples: make([]Sample, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range l.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s := l.step(t, cfg.Interval)

		for _, m := range l.metrics {
			m.Observe(s)
		}
		for _, obs := range l.observers {
			obs.OnStep(s)
		}

		result.Samples = append(result.Samples, s)
		t += cfg.Interval
	}

	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback drives the loop step by step, handing each sample to
// the callback. Returning false from the callback stops the run.
func (l *Loop) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if err := l.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s := l.step(t, cfg.Interval)
		if !callback(s) {
			return nil
		}
		t += cfg.Interval
	}

	return nil
}

// Step performs one sample/compute/actuate cycle. Exposed for callers
// that own their own tick, such as the live view.
func (l *Loop) Step(t, interval float64) Sample {
	return l.step(t, interval)
}

func (l *Loop) step(t, interval float64) Sample {
	temp := l.plant.Temperature()
	reading := l.sensor.Read(temp)
	drive := l.controller.NextValue(reading)
	l.plant.Step(drive, interval)

	return Sample{Time: t, Temp: temp, Reading: reading, Drive: drive}
}

func (l *Loop) validateConfig(cfg Config) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %f", cfg.Interval)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
