package optim

import (
	"context"
	"testing"

	"github.com/san-kum/heatsim/internal/experiment"
)

func buildHeaterExperiment(params map[string]int) (*experiment.Experiment, error) {
	registry := experiment.NewRegistry()

	plant, err := registry.GetPlant("heater")
	if err != nil {
		return nil, err
	}

	cp := experiment.ControllerParams{
		P:       params["p"],
		I:       params["i"],
		D:       params["d"],
		Windup:  250,
		Divisor: 1,
		Target:  830,
	}
	ctrl, err := registry.GetController("pid", cp)
	if err != nil {
		return nil, err
	}

	cfg := experiment.Config{
		Plant:      "heater",
		Controller: "pid",
		Interval:   1.0,
		Duration:   300.0,
		Seed:       1,
	}
	exp := experiment.New(cfg)
	sensor := experiment.NewSensor(0, cfg.Seed)
	metrics := registry.DefaultMetrics(cp.Target)
	if err := exp.Setup(plant, sensor, ctrl, metrics); err != nil {
		return nil, err
	}
	return exp, nil
}

func TestGridSearchFindsBest(t *testing.T) {
	gs := NewGridSearch(
		[]string{"p", "i", "d"},
		[][]int{{2, 4}, {0, 1}, {16}},
	)

	params, best, err := gs.Search(context.Background(), buildHeaterExperiment, "settling_time")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if params == nil {
		t.Fatal("expected best params")
	}
	if best < 0 || best > 300 {
		t.Errorf("settling time out of range: %f", best)
	}
	if params["d"] != 16 {
		t.Errorf("single-value axis should be fixed at 16, got %d", params["d"])
	}
}

func TestGridSearchSkipsBadConfigs(t *testing.T) {
	gs := NewGridSearch([]string{"p"}, [][]int{{3}})

	failing := func(params map[string]int) (*experiment.Experiment, error) {
		registry := experiment.NewRegistry()
		_, err := registry.GetController("pid", experiment.ControllerParams{P: params["p"], Divisor: 0})
		return nil, err
	}

	params, _, err := gs.Search(context.Background(), failing, "tracking")
	if err != nil {
		t.Fatalf("search should not fail: %v", err)
	}
	if params != nil {
		t.Error("expected no params when every combination fails to build")
	}
}

func TestGridSearchCanceled(t *testing.T) {
	gs := NewGridSearch([]string{"p"}, [][]int{Range(1, 10, 1)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := gs.Search(ctx, buildHeaterExperiment, "tracking"); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestRange(t *testing.T) {
	got := Range(2, 10, 4)
	want := []int{2, 6, 10}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
