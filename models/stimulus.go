package models

import (
	"fmt"

	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/stream"
)

// PayloadFactory creates the payload generator of an input port. The
// randomizer is seeded for that port.
type PayloadFactory func(
	port string,
	layout stream.Layout,
	r *stream.Randomizer,
) stream.Generator

// Stimulus describes how a model drives and observes its ports.
type Stimulus struct {
	Seed   int64
	Target uint64
	Valid  stream.RandomizerBuilder
	Ready  stream.RandomizerBuilder

	// Payloads creates the payload generators. Random payloads are sent if
	// it is nil.
	Payloads PayloadFactory
}

// DefaultStimulus returns drifting valid and ready randomizers and a target
// of 1000 transfers per output.
func DefaultStimulus(seed int64) Stimulus {
	return Stimulus{
		Seed:   seed,
		Target: stream.DefaultTarget,
		Valid:  stream.MakeRandomizerBuilder(),
		Ready:  stream.MakeRandomizerBuilder(),
	}
}

func (s Stimulus) randomizer(
	b stream.RandomizerBuilder,
	name string,
) *stream.Randomizer {
	return b.WithSeed(stream.DeriveSeed(s.Seed, name)).Build()
}

func (s Stimulus) generator(port string, layout stream.Layout) stream.Generator {
	r := s.randomizer(stream.MakeRandomizerBuilder(), port+".payload")

	if s.Payloads == nil {
		return stream.NewRandomGenerator(r, layout)
	}

	return s.Payloads(port, layout, r)
}

func (s Stimulus) newDriver(
	bag signal.Bag,
	prefix string,
	id int,
	layout stream.Layout,
	onAccept stream.Callback,
) (*stream.Driver, signal.StreamPort, error) {
	port, err := signal.ResolveStream(bag, prefix, layout.Names())
	if err != nil {
		return nil, port, err
	}

	d := stream.NewDriver(port, id,
		s.randomizer(s.Valid, prefix+".valid"),
		s.generator(prefix, layout),
		onAccept)

	return d, port, nil
}

func (s Stimulus) newFlowDriver(
	bag signal.Bag,
	prefix string,
	id int,
	layout stream.Layout,
	onAccept stream.Callback,
) (*stream.FlowDriver, signal.FlowPort, error) {
	port, err := signal.ResolveFlow(bag, prefix, layout.Names())
	if err != nil {
		return nil, port, err
	}

	d := stream.NewFlowDriver(port, id,
		s.randomizer(s.Valid, prefix+".valid"),
		s.generator(prefix, layout),
		onAccept)

	return d, port, nil
}

func (s Stimulus) newMonitor(
	bag signal.Bag,
	prefix string,
	id int,
	layout stream.Layout,
	onOutput stream.Callback,
) (*stream.Monitor, error) {
	port, err := signal.ResolveStream(bag, prefix, layout.Names())
	if err != nil {
		return nil, err
	}

	m := stream.NewMonitor(port, id,
		s.randomizer(s.Ready, prefix+".ready"),
		s.Target,
		onOutput)

	return m, nil
}

func (s Stimulus) newFlowMonitor(
	bag signal.Bag,
	prefix string,
	id int,
	layout stream.Layout,
	onOutput stream.Callback,
) (*stream.FlowMonitor, error) {
	port, err := signal.ResolveFlow(bag, prefix, layout.Names())
	if err != nil {
		return nil, err
	}

	return stream.NewFlowMonitor(port, id, s.Target, onOutput), nil
}

// IndexedPorts returns prefix_0, prefix_1, ... prefix_(n-1).
func IndexedPorts(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s_%d", prefix, i)
	}

	return names
}
