package rack_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/dudk/rack"
	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/mock"
	"github.com/dudk/rack/signal"
)

func TestSharedNodeProducedOnce(t *testing.T) {
	// one leaf reachable through two different parents
	shared := &mock.Leaf{NumChannels: 1, Value: 1}
	left := rack.NewSummer(shared)
	right := rack.NewSummer(shared)
	root := rack.NewSummer(left, right)

	p := rack.New(root)
	err := p.PrepareToPlay(sampleRate, 8)
	assert.Nil(t, err)
	assert.Equal(t, 1, shared.PrepareCalls)

	out := signal.EmptyFloat64(1, 8)
	events := &midi.Buffer{}
	err = p.Process(out, events)
	assert.Nil(t, err)
	assert.Equal(t, 1, shared.ProduceCalls)
	for _, v := range out[0] {
		assert.Equal(t, 2.0, v)
	}

	err = p.Process(out, events)
	assert.Nil(t, err)
	assert.Equal(t, 2, shared.ProduceCalls)

	goleak.VerifyNoLeaks(t)
}

func TestStallDetection(t *testing.T) {
	root := rack.NewSummer(&mock.Leaf{NumChannels: 1}, &mock.NeverReady{})
	p := rack.New(root)
	err := p.PrepareToPlay(sampleRate, 8)
	assert.Nil(t, err)

	out := signal.EmptyFloat64(1, 8)
	err = p.Process(out, &midi.Buffer{})
	assert.True(t, errors.Is(err, rack.ErrStalled))

	var stall *rack.StallError
	assert.True(t, errors.As(err, &stall))
	// the never-ready node and the summer depending on it
	assert.Equal(t, 2, len(stall.Stuck))
}

func TestChannelClamping(t *testing.T) {
	wide := &mock.Leaf{NumChannels: 2, Value: 0.5}
	narrow := &mock.Leaf{NumChannels: 1, Value: 0.25}
	root := rack.NewSummer(wide, narrow)

	assert.Equal(t, rack.Properties{Audio: true, Channels: 2}, root.Properties())

	p := rack.New(root)
	err := p.PrepareToPlay(sampleRate, 4)
	assert.Nil(t, err)

	// destination is wider than the root, extra channel is untouched
	out := signal.EmptyFloat64(3, 4)
	for i := range out[2] {
		out[2][i] = 0.123
	}
	err = p.Process(out, &midi.Buffer{})
	assert.Nil(t, err)
	for i := range out[0] {
		assert.Equal(t, 0.75, out[0][i])
		assert.Equal(t, 0.5, out[1][i])
		assert.Equal(t, 0.123, out[2][i])
	}
}

func TestMidiMerge(t *testing.T) {
	late := &mock.Leaf{NumChannels: 1, Events: []midi.Event{{Offset: 5, Status: 0x90, Data1: 64, Data2: 100}}}
	early := &mock.Leaf{NumChannels: 1, Events: []midi.Event{{Offset: 3, Status: 0x90, Data1: 60, Data2: 100}}}
	root := rack.NewSummer(late, early)

	assert.True(t, root.Properties().Midi)

	p := rack.New(root)
	err := p.PrepareToPlay(sampleRate, 8)
	assert.Nil(t, err)

	events := &midi.Buffer{}
	err = p.Process(signal.EmptyFloat64(1, 8), events)
	assert.Nil(t, err)

	merged := events.Events()
	assert.Equal(t, 2, len(merged))
	assert.Equal(t, 3, merged[0].Offset)
	assert.Equal(t, 5, merged[1].Offset)
}

func TestPrepareError(t *testing.T) {
	broken := errors.New("device gone")
	p := rack.New(rack.NewSummer(&mock.Leaf{NumChannels: 1, PrepareError: broken}))
	err := p.PrepareToPlay(sampleRate, 8)
	assert.True(t, errors.Is(err, broken))
}

func TestOutputReadBeforeProduced(t *testing.T) {
	leaf := &mock.Leaf{NumChannels: 1}
	assert.Panics(t, func() {
		leaf.Out().Audio()
	})
	assert.Panics(t, func() {
		leaf.Out().Midi()
	})
}

// shapeChanger resizes its own output buffer during produce, which
// violates the node contract.
type shapeChanger struct {
	rack.Output
}

func (s *shapeChanger) Properties() rack.Properties {
	return rack.Properties{Audio: true, Channels: 1}
}

func (s *shapeChanger) Inputs() []rack.Node {
	return nil
}

func (s *shapeChanger) Prepare(sampleRate, blockSize int) error {
	return nil
}

func (s *shapeChanger) Ready() bool {
	return true
}

func (s *shapeChanger) Produce(out signal.Float64, events *midi.Buffer) {
	out[0] = append(out[0], 0)
}

func TestShapePreserved(t *testing.T) {
	p := rack.New(&shapeChanger{})
	err := p.PrepareToPlay(sampleRate, 8)
	assert.Nil(t, err)

	assert.Panics(t, func() {
		p.Process(signal.EmptyFloat64(1, 8), &midi.Buffer{})
	})
}
