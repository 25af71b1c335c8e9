package metrics

import "github.com/san-kum/heatsim/internal/sim"

// Overshoot is the largest excursion of the reading above the target,
// in ADC counts.
type Overshoot struct {
	name   string
	target int
	max    int
}

func NewOvershoot(target int) *Overshoot {
	return &Overshoot{
		name:   "overshoot",
		target: target,
	}
}

func (o *Overshoot) Name() string {
	return o.name
}

func (o *Overshoot) Observe(s sim.Sample) {
	if over := s.Reading - o.target; over > o.max {
		o.max = over
	}
}

func (o *Overshoot) Value() float64 {
	return float64(o.max)
}

func (o *Overshoot) Reset() {
	o.max = 0
}
