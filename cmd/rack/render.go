package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/dudk/rack"
	"github.com/dudk/rack/mp3"
	"github.com/dudk/rack/signal"
	"github.com/dudk/rack/wav"
)

type renderCommand struct {
	out         string
	frequencies frequencyList
	duration    float64
	sampleRate  int
	blockSize   int
	bitRate     int
	quality     int
}

// Implement the command interface
func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render a generator graph to a wav or mp3 file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.out, "out", "", "output file, .wav or .mp3 (required)")
	fs.Var(&cmd.frequencies, "freq", "semicolon separated generator frequencies in Hz")
	fs.Float64Var(&cmd.duration, "dur", 5, "duration in seconds")
	fs.IntVar(&cmd.sampleRate, "rate", 44100, "sample rate in Hz")
	fs.IntVar(&cmd.blockSize, "block", 512, "block size in samples")
	fs.IntVar(&cmd.bitRate, "bitrate", 192, "mp3 bit rate")
	fs.IntVar(&cmd.quality, "quality", 2, "mp3 encoding quality")
}

func (cmd *renderCommand) Run() error {
	if cmd.out == "" {
		return fmt.Errorf("missing -out required flag")
	}
	if len(cmd.frequencies) == 0 {
		cmd.frequencies = frequencyList{220, 275, 330}
	}

	p := rack.New(buildGraph(cmd.frequencies))
	if err := p.PrepareToPlay(cmd.sampleRate, cmd.blockSize); err != nil {
		return err
	}
	numSamples := int(cmd.duration * float64(cmd.sampleRate))

	switch filepath.Ext(cmd.out) {
	case ".wav":
		sink, err := wav.NewSink(cmd.out, signal.BitDepth16)
		if err != nil {
			return err
		}
		if err = sink.Open(cmd.sampleRate, 1); err != nil {
			return err
		}
		if err = render(p, sink, numSamples); err != nil {
			return err
		}
		return sink.Flush()
	case ".mp3":
		sink, err := mp3.NewSink(cmd.out, cmd.sampleRate, 1, cmd.bitRate, cmd.quality)
		if err != nil {
			return err
		}
		if err = render(p, sink, numSamples); err != nil {
			return err
		}
		return sink.Flush()
	}
	return fmt.Errorf("unsupported output format: %v", cmd.out)
}
