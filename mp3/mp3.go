// Package mp3 provides a sink to write mp3 files.
package mp3

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/viert/lame"

	"github.com/dudk/rack/signal"
)

// Sink allows to send data to mp3 files.
type Sink struct {
	f  *os.File
	wr *lame.LameWriter
}

// NewSink creates new Sink.
func NewSink(path string, sampleRate, numChannels, bitRate, quality int) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := Sink{
		f:  f,
		wr: lame.NewWriter(f),
	}
	s.wr.Encoder.SetBitrate(bitRate)
	s.wr.Encoder.SetQuality(quality)
	s.wr.Encoder.SetNumChannels(numChannels)
	s.wr.Encoder.SetInSamplerate(sampleRate)
	s.wr.Encoder.SetMode(lame.JOINT_STEREO)
	s.wr.Encoder.SetVBR(lame.VBR_RH)
	s.wr.Encoder.InitParams()
	return &s, nil
}

// Write encodes one block.
func (s *Sink) Write(b signal.Float64) error {
	buf := new(bytes.Buffer)
	ints := b.AsInterInt(signal.BitDepth16)
	for i := range ints {
		if err := binary.Write(buf, binary.LittleEndian, int16(ints[i])); err != nil {
			return err
		}
	}
	_, err := s.wr.Write(buf.Bytes())
	return err
}

// Flush cleans up buffers and closes the file.
func (s *Sink) Flush() error {
	err := s.wr.Close()
	if err != nil {
		return err
	}
	return s.f.Close()
}
