package metrics

import "github.com/san-kum/heatsim/internal/sim"

// DriveEffort is the mean drive level over a run, a proxy for energy
// spent in the heating element.
type DriveEffort struct {
	name    string
	sum     float64
	samples int
}

func NewDriveEffort() *DriveEffort {
	return &DriveEffort{
		name: "drive_effort",
	}
}

func (d *DriveEffort) Name() string {
	return d.name
}

func (d *DriveEffort) Observe(s sim.Sample) {
	d.sum += float64(s.Drive)
	d.samples++
}

func (d *DriveEffort) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *DriveEffort) Reset() {
	d.sum = 0
	d.samples = 0
}
