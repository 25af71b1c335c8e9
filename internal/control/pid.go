package control

import "errors"

const (
	// MaxOutput is the largest drive level a controller may return.
	MaxOutput = 255

	// DefaultTarget is the target ADC value set at construction.
	DefaultTarget = 830

	// initialLastReading sits one past the maximum valid 10-bit
	// reading. The first derivative term is computed against it, a
	// fixed out-of-range prior rather than a real sample.
	initialLastReading = 1024
)

// ErrZeroDivisor is returned by NewPID when the output divisor is 0.
var ErrZeroDivisor = errors.New("control: invalid configuration: output divisor cannot be 0")

// Controller computes the next drive level from the current ADC
// reading. Drive levels are in [0, MaxOutput]; readings are 10-bit
// values in [0, 1023].
type Controller interface {
	NextValue(reading int) int
	SetTarget(target int)
}

// PID is an integer PID controller regulating a heater toward a target
// ADC reading. Gains, windup guard and divisor are fixed at
// construction; the target may be changed at runtime.
//
// Intermediate products use int arithmetic. With 10-bit readings the
// error magnitude stays near 1024, so any gain below ~2^50 is safe
// from overflow on 64-bit platforms; keep gains well under that.
type PID struct {
	pGain         int
	iGain         int
	dGain         int
	windupGuard   int
	outputDivisor int

	target      int
	iState      int
	lastReading int
}

// NewPID constructs a PID controller with the given gains, windup
// guard and output divisor. Gains may be zero or negative; the windup
// guard is the maximum absolute value of the accumulated integral
// state. The only invalid configuration is a zero divisor.
func NewPID(pGain, iGain, dGain, windupGuard, outputDivisor int) (*PID, error) {
	if outputDivisor == 0 {
		return nil, ErrZeroDivisor
	}
	return &PID{
		pGain:         pGain,
		iGain:         iGain,
		dGain:         dGain,
		windupGuard:   windupGuard,
		outputDivisor: outputDivisor,
		target:        DefaultTarget,
		lastReading:   initialLastReading,
	}, nil
}

// NextValue computes the drive level for the current reading. It
// mutates the integral accumulator and the stored last reading, so
// calls must arrive in sample order. The result is always in
// [0, MaxOutput]; the method cannot fail.
func (p *PID) NextValue(reading int) int {
	err := p.target - reading

	pTerm := p.pGain * err

	// Accumulate first, then clamp the stored state itself. The
	// clamped value persists to the next call.
	p.iState += err
	if p.iState > p.windupGuard {
		p.iState = p.windupGuard
	} else if p.iState < -p.windupGuard {
		p.iState = -p.windupGuard
	}
	iTerm := p.iGain * p.iState

	dTerm := p.dGain * (p.lastReading - reading)
	p.lastReading = reading

	// Go integer division truncates toward zero, so a small negative
	// sum divides to 0 rather than -1 before the clamp.
	result := (pTerm + iTerm + dTerm) / p.outputDivisor

	if result > MaxOutput {
		return MaxOutput
	}
	if result < 0 {
		return 0
	}
	return result
}

// SetTarget overwrites the target ADC value. It takes effect on the
// next NextValue call. The value is not validated.
func (p *PID) SetTarget(target int) {
	p.target = target
}

// Target returns the current target ADC value.
func (p *PID) Target() int {
	return p.target
}
