// Package osc provides a per-sample oscillator used by leaf
// generator nodes.
package osc

import "math"

const twoPi = 2 * math.Pi

// Shape is a waveform function of phase in [0, 2π).
type Shape func(phase float64) float64

// Sine is the default oscillator shape.
func Sine(phase float64) float64 {
	return math.Sin(phase)
}

// Oscillator advances a phase accumulator sample by sample and maps
// it through a waveform shape.
type Oscillator struct {
	shape     Shape
	frequency float64
	increment float64
	phase     float64
}

// New returns a new oscillator with provided shape and frequency.
func New(shape Shape, frequency float64) *Oscillator {
	return &Oscillator{
		shape:     shape,
		frequency: frequency,
	}
}

// Frequency returns the oscillator frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// Prepare calculates the per-sample phase increment for provided
// sample rate and resets the phase. Must be called before Sample.
func (o *Oscillator) Prepare(sampleRate int) {
	o.increment = twoPi * o.frequency / float64(sampleRate)
	o.phase = 0
}

// Sample returns the next sample and advances the phase. Phase wraps
// at 2π to keep precision over long runs.
func (o *Oscillator) Sample() float64 {
	v := o.shape(o.phase)
	o.phase += o.increment
	if o.phase >= twoPi {
		o.phase -= twoPi
	}
	return v
}
