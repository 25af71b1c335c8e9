// Package adc models a 10-bit analog-to-digital converter attached to
// the heater's temperature sensor.
package adc

import "math/rand"

const (
	MaxReading = 1023

	DefaultMinTemp = 0.0
	DefaultMaxTemp = 125.0
)

// Converter maps a temperature onto the 10-bit reading range. The
// configured span [MinTemp, MaxTemp] covers the full range linearly;
// temperatures outside it clamp to 0 or MaxReading. An optional noise
// amplitude adds uniform jitter in counts, drawn from a seeded source
// so runs are reproducible.
type Converter struct {
	MinTemp float64
	MaxTemp float64
	Noise   int

	rng *rand.Rand
}

func NewConverter(seed int64) *Converter {
	return &Converter{
		MinTemp: DefaultMinTemp,
		MaxTemp: DefaultMaxTemp,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Read converts a temperature to an ADC count in [0, MaxReading].
func (c *Converter) Read(temp float64) int {
	span := c.MaxTemp - c.MinTemp
	if span <= 0 {
		return 0
	}

	reading := int(float64(MaxReading)*(temp-c.MinTemp)/span + 0.5)
	if c.Noise > 0 {
		reading += c.rng.Intn(2*c.Noise+1) - c.Noise
	}

	if reading < 0 {
		return 0
	}
	if reading > MaxReading {
		return MaxReading
	}
	return reading
}

// Temperature converts an ADC count back to the temperature at the
// middle of its quantization step. Used for display only.
func (c *Converter) Temperature(reading int) float64 {
	return c.MinTemp + (c.MaxTemp-c.MinTemp)*float64(reading)/float64(MaxReading)
}
