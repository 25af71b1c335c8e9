package metrics

import "github.com/san-kum/heatsim/internal/sim"

// Tracking is the fraction of samples whose reading fell within a band
// around the target.
type Tracking struct {
	name    string
	target  int
	band    int
	inBand  int
	samples int
}

func NewTracking(target, band int) *Tracking {
	return &Tracking{
		name:   "tracking",
		target: target,
		band:   band,
	}
}

func (t *Tracking) Name() string {
	return t.name
}

func (t *Tracking) Observe(s sim.Sample) {
	t.samples++
	diff := s.Reading - t.target
	if diff <= t.band && diff >= -t.band {
		t.inBand++
	}
}

func (t *Tracking) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return float64(t.inBand) / float64(t.samples)
}

func (t *Tracking) Reset() {
	t.inBand = 0
	t.samples = 0
}
