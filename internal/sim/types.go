package sim

// Sample is one step of the control loop: the plant temperature, the
// ADC reading taken from it, and the drive the controller answered
// with.
type Sample struct {
	Time    float64
	Temp    float64
	Reading int
	Drive   int
}

// Plant is the simulated device under control.
type Plant interface {
	Step(drive int, dt float64)
	Temperature() float64
}

// Sensor converts a plant temperature into an ADC reading.
type Sensor interface {
	Read(temp float64) int
}

// Controller produces the next drive level from the current reading.
// The loop calls NextValue once per sampling interval, in order.
type Controller interface {
	NextValue(reading int) int
	SetTarget(target int)
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Interval float64 // sampling interval, seconds
	Duration float64 // total simulated time, seconds
	Seed     int64
}

type Result struct {
	Samples []Sample
	Metrics map[string]float64
}
