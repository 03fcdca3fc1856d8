// Package portaudio provides a sink to play audio using the default
// portaudio device.
package portaudio

import (
	"github.com/gordonklaus/portaudio"

	"github.com/dudk/rack/signal"
)

// Sink represents a portaudio sink which allows to play audio using
// the default device.
type Sink struct {
	buf         []float32
	stream      *portaudio.Stream
	sampleRate  int
	bufferSize  int
	numChannels int
}

// NewSink returns a new initialized sink which allows to play audio blocks.
func NewSink(bufferSize, sampleRate, numChannels int) *Sink {
	return &Sink{
		bufferSize:  bufferSize,
		sampleRate:  sampleRate,
		numChannels: numChannels,
	}
}

// Open initializes the portaudio api with a default stream and
// starts it. Must be called once before the first Write.
func (s *Sink) Open() error {
	s.buf = make([]float32, s.bufferSize*s.numChannels)
	err := portaudio.Initialize()
	if err != nil {
		return err
	}
	s.stream, err = portaudio.OpenDefaultStream(0, s.numChannels, float64(s.sampleRate), s.bufferSize, &s.buf)
	if err != nil {
		return err
	}
	return s.stream.Start()
}

// Write interleaves the block into the stream buffer and writes it
// to the portaudio stream.
func (s *Sink) Write(b signal.Float64) error {
	for i := range b[0] {
		for j := range b {
			s.buf[i*s.numChannels+j] = float32(b[j][i])
		}
	}
	return s.stream.Write()
}

// Flush terminates portaudio structures.
func (s *Sink) Flush() error {
	err := s.stream.Stop()
	if err != nil {
		return err
	}
	err = s.stream.Close()
	if err != nil {
		return err
	}
	return portaudio.Terminate()
}
