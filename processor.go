package rack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/xid"

	"github.com/dudk/rack/log"
	"github.com/dudk/rack/midi"
	"github.com/dudk/rack/signal"
)

// ErrStalled is returned when a block cannot be completed because a
// full pass over the graph advanced no node. It indicates a broken
// graph, a cycle or a node whose readiness never settles, not a
// transient runtime condition.
var ErrStalled = errors.New("node graph stalled")

// StallError reports the nodes left unproduced by a stalled block.
type StallError struct {
	Stuck []string
}

func (e *StallError) Error() string {
	return fmt.Sprintf("%v: nodes not produced: %v", ErrStalled, strings.Join(e.Stuck, ", "))
}

// Unwrap allows matching against ErrStalled with errors.Is.
func (e *StallError) Unwrap() error {
	return ErrStalled
}

// Processor owns a node graph and executes it block by block. The
// scheduling set is fixed at construction: the root plus every
// transitively reachable input, deduplicated, inputs before the
// nodes they feed.
type Processor struct {
	uid        string
	root       Node
	nodes      []Node
	sampleRate int
	blockSize  int
	log        log.Logger
}

// New returns a new processor for the graph rooted at provided node.
// The graph must be acyclic; this precondition is not verified here,
// a violation surfaces as a StallError during Process.
func New(root Node) *Processor {
	p := &Processor{
		uid:  xid.New().String(),
		root: root,
		log:  log.GetLogger(),
	}
	p.nodes = flatten(nil, root, make(map[*Output]bool))
	p.log.Debug(fmt.Sprintf("processor %s: graph flattened to %d nodes", p.uid, len(p.nodes)))
	return p
}

// flatten collects the node and its transitive inputs depth-first,
// inputs before the node itself, deduplicated by output identity so
// a node shared by multiple parents appears once.
func flatten(nodes []Node, n Node, visited map[*Output]bool) []Node {
	for _, input := range n.Inputs() {
		nodes = flatten(nodes, input, visited)
	}
	if !visited[n.Out()] {
		visited[n.Out()] = true
		nodes = append(nodes, n)
	}
	return nodes
}

// PrepareToPlay initialises buffers and prepares every node of the
// graph. Must be called once before the first Process.
func (p *Processor) PrepareToPlay(sampleRate, blockSize int) error {
	p.sampleRate = sampleRate
	p.blockSize = blockSize
	for _, n := range p.nodes {
		if err := initialise(n, sampleRate, blockSize); err != nil {
			return fmt.Errorf("prepare node %s: %w", n.Out().ID(), err)
		}
	}
	p.log.Debug(fmt.Sprintf("processor %s: prepared %d nodes at %d Hz, block size %d", p.uid, len(p.nodes), sampleRate, blockSize))
	return nil
}

// Process executes one block. Every node produces exactly once, in
// an order determined by readiness: the set is scanned repeatedly,
// running each unproduced node that reports ready, until a full pass
// advances nothing. The root's audio is then copied into the
// destination channel for channel up to the destination's channel
// count, destination channels beyond the root's count are left
// untouched, and the root's midi output is merged into the
// destination event buffer. Destination size must equal the block
// size passed to PrepareToPlay.
func (p *Processor) Process(out signal.Float64, events *midi.Buffer) error {
	for _, n := range p.nodes {
		n.Out().reset()
	}

	// A finite acyclic graph needs at most one pass per node, the
	// ceiling turns a violated precondition into an error instead of
	// an endless loop.
	for pass := 0; ; pass++ {
		if pass > len(p.nodes) {
			return p.stallError()
		}
		advanced := 0
		for _, n := range p.nodes {
			if !n.Out().Produced() && n.Ready() {
				runBlock(n)
				advanced++
			}
		}
		if advanced == 0 {
			if !p.root.Out().Produced() {
				return p.stallError()
			}
			break
		}
	}

	root := p.root.Out()
	numChannels := min(out.NumChannels(), root.Audio().NumChannels())
	for c := 0; c < numChannels; c++ {
		out.Copy(c, 0, root.Audio(), c, 0, out.Size())
	}
	events.Merge(root.Midi())
	return nil
}

// SampleRate returns the rate the processor was prepared with.
func (p *Processor) SampleRate() int {
	return p.sampleRate
}

// BlockSize returns the block size the processor was prepared with.
func (p *Processor) BlockSize() int {
	return p.blockSize
}

func (p *Processor) stallError() error {
	stuck := make([]string, 0, len(p.nodes))
	for _, n := range p.nodes {
		if !n.Out().Produced() {
			stuck = append(stuck, n.Out().ID())
		}
	}
	p.log.Info(fmt.Sprintf("processor %s: stalled with %d unproduced nodes", p.uid, len(stuck)))
	return &StallError{Stuck: stuck}
}
