package rack

import (
	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/osc"
	"github.com/dudk/rack/signal"
)

// Generator is a leaf node which synthesizes a signal sample by
// sample with an oscillator. It has no inputs and is always ready.
type Generator struct {
	Output
	osc         *osc.Oscillator
	numChannels int
}

// GeneratorOption provides a way to set optional generator parameters.
type GeneratorOption func(*Generator)

// WithShape sets the oscillator waveform. Default is a sine.
func WithShape(shape osc.Shape) GeneratorOption {
	return func(g *Generator) {
		g.osc = osc.New(shape, g.osc.Frequency())
	}
}

// WithChannels sets the number of output channels. Every channel
// carries the same signal. Default is one channel.
func WithChannels(numChannels int) GeneratorOption {
	return func(g *Generator) {
		g.numChannels = numChannels
	}
}

// NewGenerator returns a new generator of provided frequency.
func NewGenerator(frequency float64, options ...GeneratorOption) *Generator {
	g := &Generator{
		osc:         osc.New(osc.Sine, frequency),
		numChannels: 1,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// Properties returns the generator's fixed audio-only shape.
func (g *Generator) Properties() Properties {
	return Properties{
		Audio:    true,
		Channels: g.numChannels,
	}
}

// Inputs returns nil, generators are leaves.
func (g *Generator) Inputs() []Node {
	return nil
}

// Prepare configures the oscillator for the sample rate.
func (g *Generator) Prepare(sampleRate, blockSize int) error {
	g.osc.Prepare(sampleRate)
	return nil
}

// Ready is always true, generators depend on no other node.
func (g *Generator) Ready() bool {
	return true
}

// Produce synthesizes one block, advancing the oscillator once per
// frame and writing the same value to every channel.
func (g *Generator) Produce(out signal.Float64, events *midi.Buffer) {
	for i := 0; i < out.Size(); i++ {
		v := g.osc.Sample()
		for c := 0; c < out.NumChannels(); c++ {
			out[c][i] = v
		}
	}
}
