package control

// BangBang is an on/off controller with hysteresis: full drive below
// target-band, zero drive above target+band, and no change inside the
// band. It shares the PID's default target so the two are
// interchangeable behind [Controller].
type BangBang struct {
	band   int
	target int
	drive  int
}

// NewBangBang constructs an on/off controller. band is the half-width
// of the hysteresis band in ADC counts; negative values are treated
// as 0.
func NewBangBang(band int) *BangBang {
	if band < 0 {
		band = 0
	}
	return &BangBang{
		band:   band,
		target: DefaultTarget,
		drive:  MaxOutput,
	}
}

func (b *BangBang) NextValue(reading int) int {
	if reading < b.target-b.band {
		b.drive = MaxOutput
	} else if reading > b.target+b.band {
		b.drive = 0
	}
	return b.drive
}

func (b *BangBang) SetTarget(target int) {
	b.target = target
}
