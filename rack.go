// Package rack implements a block-based audio node graph. Nodes form
// a directed acyclic graph and produce audio and midi output for one
// fixed-size block at a time. A Processor executes the graph once per
// block, ordering nodes dynamically by data readiness instead of a
// precomputed schedule.
package rack

import (
	"sync/atomic"

	"github.com/rs/xid"

	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/signal"
)

// Properties describe the shape of a node's output.
type Properties struct {
	Audio    bool // node produces audio
	Midi     bool // node produces midi events
	Channels int  // number of audio channels
}

// Merge aggregates properties of an input into a composite node's
// properties: audio and midi flags are OR-ed, channel count is the
// maximum of both.
func (p Properties) Merge(source Properties) Properties {
	p.Audio = p.Audio || source.Audio
	p.Midi = p.Midi || source.Midi
	if source.Channels > p.Channels {
		p.Channels = source.Channels
	}
	return p
}

// Node is a unit of the graph. Implementations embed Output, which
// provides identity, owned buffers and the produced flag.
type Node interface {
	// Properties returns the shape of the node's output. It is a pure
	// function of the node's configuration and its inputs.
	Properties() Properties

	// Inputs returns the direct upstream nodes feeding this node,
	// ordered. Leaves return nil.
	Inputs() []Node

	// Prepare is one-time setup before the first block. The processor
	// prepares every node of the flattened graph directly, so
	// composite nodes must not recurse into their inputs.
	Prepare(sampleRate, blockSize int) error

	// Ready reports whether Produce may run now, usually because all
	// inputs have produced. It is polled repeatedly within a block
	// and must be cheap and free of side effects.
	Ready() bool

	// Produce fills the destinations in place. It must not change
	// their shape and is called at most once per block, only when
	// Ready is true.
	Produce(out signal.Float64, events *midi.Buffer)

	// Out returns the node's owned output state.
	Out() *Output
}

// Output holds the resources every node owns: a unique identity, the
// output buffers and the per-block produced flag. The flag is atomic
// because block processing typically runs on a real-time callback
// goroutine while preparation happens elsewhere.
type Output struct {
	uid      string
	produced int32
	audio    signal.Float64
	events   midi.Buffer
}

// ID returns the node's unique identifier. It is assigned on first
// use and never reused within a processor's lifetime.
func (o *Output) ID() string {
	if o.uid == "" {
		o.uid = xid.New().String()
	}
	return o.uid
}

// Out implements the Node interface for every type embedding Output.
func (o *Output) Out() *Output {
	return o
}

// Produced reports whether the node has produced output for the
// current block. Output buffers must only be read when it is true.
func (o *Output) Produced() bool {
	return atomic.LoadInt32(&o.produced) == 1
}

// Audio returns the produced audio output. Calling it before the
// node has produced is a contract violation and panics.
func (o *Output) Audio() signal.Float64 {
	if !o.Produced() {
		panic("rack: audio output of " + o.ID() + " read before produced")
	}
	return o.audio
}

// Midi returns the produced midi output. Calling it before the node
// has produced is a contract violation and panics.
func (o *Output) Midi() *midi.Buffer {
	if !o.Produced() {
		panic("rack: midi output of " + o.ID() + " read before produced")
	}
	return &o.events
}

func (o *Output) reset() {
	atomic.StoreInt32(&o.produced, 0)
}

func (o *Output) mark() {
	atomic.StoreInt32(&o.produced, 1)
}

// initialise sizes the node's owned audio buffer to the node's
// channel count and the block size, then delegates to Prepare.
// Buffer shape is fixed from here on.
func initialise(n Node, sampleRate, blockSize int) error {
	o := n.Out()
	o.audio = signal.EmptyFloat64(n.Properties().Channels, blockSize)
	o.events.Clear()
	return n.Prepare(sampleRate, blockSize)
}

// runBlock clears the node's owned buffers, produces the block into
// them and marks the node produced. Produce must leave the buffer
// shape unchanged.
func runBlock(n Node) {
	o := n.Out()
	o.audio.Clear()
	o.events.Clear()
	numChannels, size := o.audio.NumChannels(), o.audio.Size()
	n.Produce(o.audio, &o.events)
	if o.audio.NumChannels() != numChannels || o.audio.Size() != size {
		panic("rack: node " + o.ID() + " changed buffer shape during produce")
	}
	o.mark()
}

func min(l, r int) int {
	if l < r {
		return l
	}
	return r
}
