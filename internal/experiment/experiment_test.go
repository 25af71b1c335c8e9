package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/heatsim/internal/control"
)

func defaultParams() ControllerParams {
	return ControllerParams{P: 4, I: 1, D: 16, Windup: 250, Divisor: 1, Target: 830, Band: 8}
}

func TestRegistryUnknownNames(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetPlant("toaster"); err == nil {
		t.Error("expected error for unknown plant")
	}
	if _, err := r.GetController("fuzzy", defaultParams()); err == nil {
		t.Error("expected error for unknown controller")
	}
}

func TestRegistryZeroDivisorSurfaces(t *testing.T) {
	r := NewRegistry()

	params := defaultParams()
	params.Divisor = 0
	if _, err := r.GetController("pid", params); err == nil {
		t.Error("expected construction error for zero divisor")
	}
}

func TestClosedLoopReachesTarget(t *testing.T) {
	r := NewRegistry()

	p, err := r.GetPlant("heater")
	if err != nil {
		t.Fatal(err)
	}
	ctrl, err := r.GetController("pid", defaultParams())
	if err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		Plant:      "heater",
		Controller: "pid",
		Interval:   1.0,
		Duration:   900.0,
		Params:     defaultParams(),
	}
	exp := New(cfg)
	if err := exp.Setup(p, NewSensor(0, cfg.Seed), ctrl, r.DefaultMetrics(830)); err != nil {
		t.Fatal(err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 900 {
		t.Fatalf("expected 900 samples, got %d", len(result.Samples))
	}

	// The loop should settle into a tight band around the target and
	// hold it for the rest of the run.
	for _, s := range result.Samples[850:] {
		if s.Reading < 820 || s.Reading > 840 {
			t.Fatalf("reading %d at t=%.0f outside settled band", s.Reading, s.Time)
		}
	}

	for _, s := range result.Samples {
		if s.Drive < 0 || s.Drive > control.MaxOutput {
			t.Fatalf("drive %d out of range at t=%.0f", s.Drive, s.Time)
		}
	}

	if result.Metrics["overshoot"] > 50 {
		t.Errorf("excessive overshoot: %f", result.Metrics["overshoot"])
	}
	if result.Metrics["tracking"] <= 0.5 {
		t.Errorf("poor tracking: %f", result.Metrics["tracking"])
	}
}

func TestClosedLoopDeterministic(t *testing.T) {
	run := func() []int {
		r := NewRegistry()
		p, _ := r.GetPlant("heater")
		ctrl, err := r.GetController("pid", defaultParams())
		if err != nil {
			t.Fatal(err)
		}

		exp := New(Config{Interval: 1.0, Duration: 120.0, Seed: 7})
		if err := exp.Setup(p, NewSensor(2, 7), ctrl, nil); err != nil {
			t.Fatal(err)
		}
		result, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		drives := make([]int, len(result.Samples))
		for i, s := range result.Samples {
			drives[i] = s.Drive
		}
		return drives
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs diverged at step %d: %d != %d", i, a[i], b[i])
		}
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp := New(Config{Interval: 1.0, Duration: 10.0})
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error for un-setup experiment")
	}
}
