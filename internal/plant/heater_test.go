package plant

import "testing"

func TestHeaterHeatsUnderDrive(t *testing.T) {
	h := NewHeater()

	for i := 0; i < 100; i++ {
		h.Step(255, 1.0)
	}

	if h.Temperature() <= DefaultAmbient {
		t.Errorf("expected temperature above ambient, got %f", h.Temperature())
	}
}

func TestHeaterCoolsToAmbient(t *testing.T) {
	h := NewHeater()
	h.temp = 90.0

	for i := 0; i < 1000; i++ {
		h.Step(0, 1.0)
	}

	if h.Temperature() > DefaultAmbient+1.0 {
		t.Errorf("expected temperature near ambient, got %f", h.Temperature())
	}
	if h.Temperature() < DefaultAmbient-0.01 {
		t.Errorf("temperature fell below ambient: %f", h.Temperature())
	}
}

func TestHeaterSteadyState(t *testing.T) {
	h := NewHeater()

	// At full drive the balance point is ambient + maxPower/loss.
	expected := DefaultAmbient + DefaultMaxPower/DefaultLoss
	for i := 0; i < 5000; i++ {
		h.Step(255, 1.0)
	}

	if diff := h.Temperature() - expected; diff > 0.5 || diff < -0.5 {
		t.Errorf("expected steady state near %f, got %f", expected, h.Temperature())
	}
}

func TestHeaterDriveClamped(t *testing.T) {
	a := NewHeater()
	b := NewHeater()

	a.Step(500, 1.0)
	b.Step(255, 1.0)
	if a.Temperature() != b.Temperature() {
		t.Error("drive above 255 should behave as 255")
	}

	c := NewHeater()
	d := NewHeater()
	c.Step(-10, 1.0)
	d.Step(0, 1.0)
	if c.Temperature() != d.Temperature() {
		t.Error("negative drive should behave as 0")
	}
}

func TestHeaterReset(t *testing.T) {
	h := NewHeater()
	h.Step(255, 100.0)
	h.Reset()

	if h.Temperature() != DefaultAmbient {
		t.Errorf("expected ambient after reset, got %f", h.Temperature())
	}
}

func TestHeaterSetParam(t *testing.T) {
	h := NewHeater()

	if err := h.SetParam("loss", 2.0); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if h.Loss != 2.0 {
		t.Errorf("expected loss 2.0, got %f", h.Loss)
	}

	if err := h.SetParam("bogus", 1.0); err == nil {
		t.Error("expected error for unknown param")
	}
}
