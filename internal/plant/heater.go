package plant

import "fmt"

const (
	DefaultAmbient  = 20.0
	DefaultCapacity = 50.0
	DefaultLoss     = 1.0
	DefaultMaxPower = 100.0
)

// Heater is a first-order lumped thermal model of a heating element:
// a single thermal mass with linear loss to ambient. Drive levels in
// [0, 255] scale the element power linearly.
type Heater struct {
	Ambient  float64 // ambient temperature, degrees C
	Capacity float64 // heat capacity, J/K
	Loss     float64 // loss coefficient to ambient, W/K
	MaxPower float64 // element power at full drive, W

	temp float64
}

func NewHeater() *Heater {
	return &Heater{
		Ambient:  DefaultAmbient,
		Capacity: DefaultCapacity,
		Loss:     DefaultLoss,
		MaxPower: DefaultMaxPower,
		temp:     DefaultAmbient,
	}
}

// Temperature returns the current element temperature.
func (h *Heater) Temperature() float64 {
	return h.temp
}

// Step advances the model by dt seconds under the given drive level.
// Drive is clamped to [0, 255] before applying power.
func (h *Heater) Step(drive int, dt float64) {
	if drive < 0 {
		drive = 0
	} else if drive > 255 {
		drive = 255
	}
	power := h.MaxPower * float64(drive) / 255.0
	h.temp += dt * (power - h.Loss*(h.temp-h.Ambient)) / h.Capacity
}

// Reset returns the element to ambient temperature.
func (h *Heater) Reset() {
	h.temp = h.Ambient
}

func (h *Heater) GetParams() map[string]float64 {
	return map[string]float64{
		"ambient":   h.Ambient,
		"capacity":  h.Capacity,
		"loss":      h.Loss,
		"max_power": h.MaxPower,
	}
}

func (h *Heater) SetParam(name string, value float64) error {
	switch name {
	case "ambient":
		h.Ambient = value
	case "capacity":
		h.Capacity = value
	case "loss":
		h.Loss = value
	case "max_power":
		h.MaxPower = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
