// Package mock provides controllable nodes to test graph scheduling.
package mock

import (
	"github.com/dudk/rack"
	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/signal"
)

// Leaf is a controllable leaf node. It fills every channel with a
// constant value, appends configured midi events and counts calls.
type Leaf struct {
	rack.Output
	NumChannels int
	Value       float64
	Events      []midi.Event

	PrepareError error

	PrepareCalls int
	ProduceCalls int
}

// Properties returns the configured shape.
func (l *Leaf) Properties() rack.Properties {
	return rack.Properties{
		Audio:    true,
		Midi:     len(l.Events) > 0,
		Channels: l.NumChannels,
	}
}

// Inputs returns nil, leaves have no inputs.
func (l *Leaf) Inputs() []rack.Node {
	return nil
}

// Prepare counts the call and returns the configured error.
func (l *Leaf) Prepare(sampleRate, blockSize int) error {
	l.PrepareCalls++
	return l.PrepareError
}

// Ready is always true.
func (l *Leaf) Ready() bool {
	return true
}

// Produce fills the block with the configured value and events.
func (l *Leaf) Produce(out signal.Float64, events *midi.Buffer) {
	l.ProduceCalls++
	for c := 0; c < out.NumChannels(); c++ {
		for i := 0; i < out.Size(); i++ {
			out[c][i] = l.Value
		}
	}
	for _, e := range l.Events {
		events.Append(e)
	}
}

// NeverReady is a node whose readiness never settles. Processing a
// graph containing it must stall.
type NeverReady struct {
	rack.Output
}

// Properties returns a single-channel audio shape.
func (n *NeverReady) Properties() rack.Properties {
	return rack.Properties{
		Audio:    true,
		Channels: 1,
	}
}

// Inputs returns nil.
func (n *NeverReady) Inputs() []rack.Node {
	return nil
}

// Prepare does nothing.
func (n *NeverReady) Prepare(sampleRate, blockSize int) error {
	return nil
}

// Ready is always false.
func (n *NeverReady) Ready() bool {
	return false
}

// Produce is never called.
func (n *NeverReady) Produce(out signal.Float64, events *midi.Buffer) {
}
