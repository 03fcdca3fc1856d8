package rack_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/rack"
	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/mock"
	"github.com/dudk/rack/osc"
	"github.com/dudk/rack/signal"
)

func TestGeneratorContinuity(t *testing.T) {
	const size = 64
	p := rack.New(rack.NewGenerator(220, rack.WithChannels(2)))
	err := p.PrepareToPlay(sampleRate, size)
	assert.Nil(t, err)

	out := signal.EmptyFloat64(2, size)
	events := &midi.Buffer{}
	var rendered signal.Float64
	for block := 0; block < 2; block++ {
		out.Clear()
		err = p.Process(out, events)
		assert.Nil(t, err)
		rendered = rendered.Append(out)
	}

	// the oscillator phase continues across block boundaries
	increment := 2 * math.Pi * 220 / sampleRate
	for i := 0; i < 2*size; i++ {
		expected := math.Sin(float64(i) * increment)
		assert.InDelta(t, expected, rendered[0][i], 1e-9)
		assert.Equal(t, rendered[0][i], rendered[1][i])
	}
}

func TestGeneratorShape(t *testing.T) {
	g := rack.NewGenerator(440, rack.WithShape(func(phase float64) float64 {
		return 1
	}))
	assert.Equal(t, rack.Properties{Audio: true, Channels: 1}, g.Properties())

	p := rack.New(g)
	err := p.PrepareToPlay(sampleRate, 8)
	assert.Nil(t, err)

	out := signal.EmptyFloat64(1, 8)
	err = p.Process(out, &midi.Buffer{})
	assert.Nil(t, err)
	for _, v := range out[0] {
		assert.Equal(t, 1.0, v)
	}
}

func TestGeneratorSineDefault(t *testing.T) {
	g := rack.NewGenerator(100, rack.WithShape(osc.Sine))
	assert.Equal(t, 1, g.Properties().Channels)
	assert.True(t, g.Ready())
	assert.Nil(t, g.Inputs())
}

func TestSummerProperties(t *testing.T) {
	assert.Equal(t, rack.Properties{}, rack.NewSummer().Properties())

	audio := &mock.Leaf{NumChannels: 2}
	withMidi := &mock.Leaf{NumChannels: 1, Events: []midi.Event{{Offset: 0, Status: 0x90}}}
	assert.Equal(t,
		rack.Properties{Audio: true, Midi: true, Channels: 2},
		rack.NewSummer(audio, withMidi).Properties(),
	)
}

func TestSummerWithoutInputs(t *testing.T) {
	// a summer with no inputs is trivially ready and produces silence
	p := rack.New(rack.NewSummer())
	err := p.PrepareToPlay(sampleRate, 8)
	assert.Nil(t, err)

	out := signal.EmptyFloat64(1, 8)
	err = p.Process(out, &midi.Buffer{})
	assert.Nil(t, err)
	for _, v := range out[0] {
		assert.Equal(t, 0.0, v)
	}
}

func TestFunctionPassThrough(t *testing.T) {
	leaf := &mock.Leaf{NumChannels: 2, Value: 0.5}
	f := rack.NewFunction(leaf, func(s float64) float64 {
		return s * 2
	})
	assert.Equal(t, leaf.Properties(), f.Properties())
	assert.Equal(t, []rack.Node{leaf}, f.Inputs())
	assert.False(t, f.Ready())

	p := rack.New(f)
	err := p.PrepareToPlay(sampleRate, 4)
	assert.Nil(t, err)

	out := signal.EmptyFloat64(2, 4)
	err = p.Process(out, &midi.Buffer{})
	assert.Nil(t, err)
	for c := range out {
		for _, v := range out[c] {
			assert.Equal(t, 1.0, v)
		}
	}
}
