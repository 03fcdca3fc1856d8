package rack

import (
	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/signal"
)

// Summer mixes multiple inputs additively into a single output. All
// inputs are assumed to report zero latency: aligning inputs with
// heterogeneous latency before summing is reserved future work.
type Summer struct {
	Output
	inputs []Node
}

// NewSummer returns a new summer owning the provided input nodes.
func NewSummer(inputs ...Node) *Summer {
	return &Summer{inputs: inputs}
}

// Properties aggregates the properties of all inputs: audio and midi
// flags are OR-ed, channel count is the widest input.
func (s *Summer) Properties() Properties {
	var props Properties
	for _, n := range s.inputs {
		props = props.Merge(n.Properties())
	}
	return props
}

// Inputs returns the owned input nodes.
func (s *Summer) Inputs() []Node {
	return s.inputs
}

// Prepare does nothing, inputs are prepared by the processor.
func (s *Summer) Prepare(sampleRate, blockSize int) error {
	return nil
}

// Ready is true once every input has produced.
func (s *Summer) Ready() bool {
	for _, n := range s.inputs {
		if !n.Out().Produced() {
			return false
		}
	}
	return true
}

// Produce accumulates every input's audio into the destination,
// channel by channel up to the narrower of input and destination.
// Inputs with fewer channels contribute only to their own channel
// range. Midi events of all inputs are merged ordered by offset.
func (s *Summer) Produce(out signal.Float64, events *midi.Buffer) {
	for _, n := range s.inputs {
		in := n.Out().Audio()
		numChannels := min(out.NumChannels(), in.NumChannels())
		for c := 0; c < numChannels; c++ {
			out.Add(c, 0, in, c, 0, out.Size())
		}
		events.Merge(n.Out().Midi())
	}
}
