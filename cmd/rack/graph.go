package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dudk/rack"
	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/signal"
)

// frequencyList is a flag value with semicolon separated frequencies.
type frequencyList []float64

func (l *frequencyList) String() string {
	s := make([]string, len(*l))
	for i, f := range *l {
		s[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Join(s, ";")
}

func (l *frequencyList) Set(value string) error {
	for _, s := range strings.Split(value, ";") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid frequency %q: %w", s, err)
		}
		*l = append(*l, f)
	}
	return nil
}

// buildGraph sums a generator per frequency and scales the mix down
// by the number of voices to keep it within full scale.
func buildGraph(frequencies []float64) rack.Node {
	if len(frequencies) == 1 {
		return rack.NewGenerator(frequencies[0])
	}
	nodes := make([]rack.Node, len(frequencies))
	for i, f := range frequencies {
		nodes[i] = rack.NewGenerator(f)
	}
	gain := 1 / float64(len(frequencies))
	return rack.NewFunction(rack.NewSummer(nodes...), func(s float64) float64 {
		return s * gain
	})
}

// blockWriter consumes rendered blocks.
type blockWriter interface {
	Write(signal.Float64) error
}

// render drives the processor block by block into the writer.
func render(p *rack.Processor, w blockWriter, numSamples int) error {
	out := signal.EmptyFloat64(1, p.BlockSize())
	var events midi.Buffer
	for done := 0; done < numSamples; done += p.BlockSize() {
		out.Clear()
		events.Clear()
		if err := p.Process(out, &events); err != nil {
			return err
		}
		if err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}
