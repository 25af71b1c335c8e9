package metrics

import "github.com/san-kum/heatsim/internal/sim"

// Settling reports the last time the reading was seen outside a band
// around the target. A run that never enters the band settles at its
// final sample time.
type Settling struct {
	name    string
	target  int
	band    int
	lastOut float64
}

func NewSettling(target, band int) *Settling {
	return &Settling{
		name:   "settling_time",
		target: target,
		band:   band,
	}
}

func (s *Settling) Name() string {
	return s.name
}

func (s *Settling) Observe(sample sim.Sample) {
	diff := sample.Reading - s.target
	if diff > s.band || diff < -s.band {
		s.lastOut = sample.Time
	}
}

func (s *Settling) Value() float64 {
	return s.lastOut
}

func (s *Settling) Reset() {
	s.lastOut = 0
}
