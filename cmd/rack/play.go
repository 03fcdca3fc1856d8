package main

import (
	"flag"

	"github.com/dudk/rack"
	"github.com/dudk/rack/portaudio"
)

type playCommand struct {
	frequencies frequencyList
	duration    float64
	sampleRate  int
	blockSize   int
}

// Implement the command interface
func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play a generator graph through the default audio device"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	fs.Var(&cmd.frequencies, "freq", "semicolon separated generator frequencies in Hz")
	fs.Float64Var(&cmd.duration, "dur", 5, "duration in seconds")
	fs.IntVar(&cmd.sampleRate, "rate", 44100, "sample rate in Hz")
	fs.IntVar(&cmd.blockSize, "block", 512, "block size in samples")
}

func (cmd *playCommand) Run() error {
	if len(cmd.frequencies) == 0 {
		cmd.frequencies = frequencyList{220, 275, 330}
	}

	p := rack.New(buildGraph(cmd.frequencies))
	if err := p.PrepareToPlay(cmd.sampleRate, cmd.blockSize); err != nil {
		return err
	}

	sink := portaudio.NewSink(cmd.blockSize, cmd.sampleRate, 1)
	if err := sink.Open(); err != nil {
		return err
	}
	numSamples := int(cmd.duration * float64(cmd.sampleRate))
	if err := render(p, sink, numSamples); err != nil {
		return err
	}
	return sink.Flush()
}
