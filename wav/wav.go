// Package wav provides a pump to read wav files and a sink to write
// them. It is used by verification harnesses to render a node graph
// to a playable artifact and read it back for analysis.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dudk/rack/signal"
)

type (
	// Pump reads from wav file.
	// This component cannot be reused for consequent runs.
	Pump struct {
		path    string
		file    *os.File
		decoder *wav.Decoder
	}

	// Sink saves audio to wav file.
	Sink struct {
		path     string
		bitDepth signal.BitDepth
		format   int
		file     *os.File
		encoder  *wav.Encoder
		ib       *audio.IntBuffer
	}
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")

// NewPump creates a new wav pump.
func NewPump(path string) *Pump {
	return &Pump{path: path}
}

// Pump opens the file and returns a function which reads one block
// per call, along with the file's sample rate and channel count.
// Read conventions:
//	- nil if a full block was read;
//	- io.EOF if no data was read;
//	- io.ErrUnexpectedEOF if a partial block was read.
func (p *Pump) Pump(bufferSize int) (func() ([][]float64, error), int, int, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, 0, 0, err
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		err = file.Close()
		if err != nil {
			return nil, 0, 0, fmt.Errorf("wav is not valid, failed to close the file %v", p.path)
		}
		return nil, 0, 0, errors.New("wav is not valid")
	}

	if signal.BitDepth(decoder.BitDepth) != signal.BitDepth16 && signal.BitDepth(decoder.BitDepth) != signal.BitDepth32 {
		return nil, 0, 0, ErrUnsupportedBitDepth
	}

	p.file = file
	p.decoder = decoder
	numChannels := decoder.Format().NumChannels
	sampleRate := int(decoder.SampleRate)
	bitDepth := int(decoder.BitDepth)

	ib := &audio.IntBuffer{
		Format:         decoder.Format(),
		Data:           make([]int, bufferSize*numChannels),
		SourceBitDepth: bitDepth,
	}

	return func() ([][]float64, error) {
		readSamples, err := p.decoder.PCMBuffer(ib)
		if err != nil {
			return nil, err
		}

		if readSamples == 0 {
			return nil, io.EOF
		}
		// prune buffer to actual size
		b := signal.InterInt{Data: ib.Data[:readSamples], NumChannels: numChannels, BitDepth: signal.BitDepth(bitDepth)}.AsFloat64()
		if b.Size() != bufferSize {
			return b, io.ErrUnexpectedEOF
		}
		return b, nil
	}, sampleRate, numChannels, nil
}

// Flush closes the file.
func (p *Pump) Flush() error {
	return p.file.Close()
}

// ReadAll reads the whole file into a single buffer. Used by
// harnesses which analyze a rendered file.
func ReadAll(path string, bufferSize int) (signal.Float64, int, error) {
	p := NewPump(path)
	pump, sampleRate, _, err := p.Pump(bufferSize)
	if err != nil {
		return nil, 0, err
	}
	var result signal.Float64
	for {
		b, err := pump()
		if err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				result = result.Append(b)
				break
			}
			return nil, 0, err
		}
		result = result.Append(b)
	}
	return result, sampleRate, p.Flush()
}

// NewSink creates new wav sink.
func NewSink(path string, bitDepth signal.BitDepth) (*Sink, error) {
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, ErrUnsupportedBitDepth
	}
	return &Sink{
		path:     path,
		bitDepth: bitDepth,
		format:   1,
	}, nil
}

// Open creates the file and the encoder for provided format. Must be
// called once before the first Write.
func (s *Sink) Open(sampleRate, numChannels int) error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	s.file = f
	s.encoder = wav.NewEncoder(f, sampleRate, int(s.bitDepth), numChannels, s.format)
	s.ib = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: int(s.bitDepth),
	}
	return nil
}

// Write encodes one block.
func (s *Sink) Write(b signal.Float64) error {
	s.ib.Data = b.AsInterInt(s.bitDepth)
	return s.encoder.Write(s.ib)
}

// Flush finalizes the encoder and closes the file.
func (s *Sink) Flush() error {
	err := s.encoder.Close()
	if err != nil {
		return err
	}
	return s.file.Close()
}
