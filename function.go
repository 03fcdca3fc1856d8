package rack

import (
	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/signal"
)

// Function applies a pure per-sample function to the output of
// exactly one input node.
type Function struct {
	Output
	input Node
	fn    func(float64) float64
}

// NewFunction returns a new function node owning the provided input.
func NewFunction(input Node, fn func(float64) float64) *Function {
	return &Function{
		input: input,
		fn:    fn,
	}
}

// Properties passes the input's properties through unchanged.
func (f *Function) Properties() Properties {
	return f.input.Properties()
}

// Inputs returns the single owned input.
func (f *Function) Inputs() []Node {
	return []Node{f.input}
}

// Prepare does nothing, the input is prepared by the processor.
func (f *Function) Prepare(sampleRate, blockSize int) error {
	return nil
}

// Ready mirrors the input's produced state.
func (f *Function) Ready() bool {
	return f.input.Out().Produced()
}

// Produce applies the function independently to each channel, up to
// the narrower of input and destination. Events pass untouched.
func (f *Function) Produce(out signal.Float64, events *midi.Buffer) {
	in := f.input.Out().Audio()
	numChannels := min(out.NumChannels(), in.NumChannels())
	for c := 0; c < numChannels; c++ {
		for i := 0; i < out.Size(); i++ {
			out[c][i] = f.fn(in[c][i])
		}
	}
}
