package sim

import (
	"context"
	"testing"
)

// testPlant warms by a fixed amount per unit of drive-time.
type testPlant struct {
	temp float64
}

func (p *testPlant) Step(drive int, dt float64) {
	p.temp += float64(drive) * dt * 0.01
}

func (p *testPlant) Temperature() float64 { return p.temp }

type testSensor struct{}

func (s *testSensor) Read(temp float64) int { return int(temp) }

// testController always answers with a constant drive.
type testController struct {
	drive  int
	target int
	calls  []int
}

func (c *testController) NextValue(reading int) int {
	c.calls = append(c.calls, reading)
	return c.drive
}

func (c *testController) SetTarget(target int) { c.target = target }

func TestLoopRun(t *testing.T) {
	plant := &testPlant{temp: 20.0}
	ctrl := &testController{drive: 100}
	loop := New(plant, &testSensor{}, ctrl)

	cfg := Config{Interval: 1.0, Duration: 10.0}
	result, err := loop.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 10 {
		t.Errorf("expected 10 samples, got %d", len(result.Samples))
	}
	if len(ctrl.calls) != 10 {
		t.Errorf("expected 10 controller calls, got %d", len(ctrl.calls))
	}

	// Drive 100 for 10s at 0.01 degrees per drive-second.
	final := result.Samples[len(result.Samples)-1]
	if final.Temp <= 20.0 {
		t.Errorf("expected plant to warm, got %f", final.Temp)
	}
	if final.Drive != 100 {
		t.Errorf("expected drive 100, got %d", final.Drive)
	}
}

func TestLoopSampleOrder(t *testing.T) {
	plant := &testPlant{temp: 0.0}
	ctrl := &testController{drive: 100}
	loop := New(plant, &testSensor{}, ctrl)

	cfg := Config{Interval: 1.0, Duration: 5.0}
	if _, err := loop.Run(context.Background(), cfg); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Readings must be fed to the controller in temporal order: the
	// plant only warms, so readings are non-decreasing.
	for i := 1; i < len(ctrl.calls); i++ {
		if ctrl.calls[i] < ctrl.calls[i-1] {
			t.Errorf("readings out of order at %d: %v", i, ctrl.calls)
		}
	}
}

func TestLoopInvalidConfig(t *testing.T) {
	loop := New(&testPlant{}, &testSensor{}, &testController{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero interval", Config{Interval: 0, Duration: 1.0}},
		{"negative interval", Config{Interval: -0.1, Duration: 1.0}},
		{"zero duration", Config{Interval: 1.0, Duration: 0}},
		{"negative duration", Config{Interval: 1.0, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loop.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoopContextCanceled(t *testing.T) {
	loop := New(&testPlant{}, &testSensor{}, &testController{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loop.Run(ctx, Config{Interval: 1.0, Duration: 100.0})
	if err == nil {
		t.Error("expected context error")
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(s Sample) {
	m.count++
	m.sum += float64(s.Drive)
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestLoopMetrics(t *testing.T) {
	loop := New(&testPlant{}, &testSensor{}, &testController{drive: 42})

	metric := &testMetric{}
	loop.AddMetric(metric)

	result, err := loop.Run(context.Background(), Config{Interval: 1.0, Duration: 10.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if v, ok := result.Metrics["test"]; !ok || v != 42.0 {
		t.Errorf("expected metric value 42, got %v (present=%v)", v, ok)
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestLoopRunWithCallback(t *testing.T) {
	loop := New(&testPlant{}, &testSensor{}, &testController{drive: 10})

	seen := 0
	err := loop.RunWithCallback(context.Background(), Config{Interval: 1.0, Duration: 100.0}, func(s Sample) bool {
		seen++
		return seen < 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if seen != 5 {
		t.Errorf("expected callback to stop after 5 samples, got %d", seen)
	}
}

func TestEnsembleRun(t *testing.T) {
	build := func(seed int64) *Loop {
		return New(&testPlant{temp: float64(seed)}, &testSensor{}, &testController{drive: 1})
	}

	ens := NewEnsemble(build, 4, 100)
	results, err := ens.Run(context.Background(), Config{Interval: 1.0, Duration: 3.0})
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if len(r.Samples) != 3 {
			t.Errorf("run %d: expected 3 samples, got %d", i, len(r.Samples))
		}
	}
}
