package harness

import (
	"errors"
	"fmt"

	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/signal"
)

// ErrUnknownModel is returned when a suite is asked for a model it does not
// have.
var ErrUnknownModel = errors.New("unknown model")

// Names of the models of the standard suite that are not arbiters.
const (
	ModelFifo        = "fifo"
	ModelFork        = "fork"
	ModelDispatcher  = "dispatcherInOrder"
	ModelFlowArbiter = "streamFlowArbiter"
)

// SuiteOptions configures a suite.
type SuiteOptions struct {
	Ports    int
	Stimulus models.Stimulus

	// Enabled selects models by name. All models are created if it is
	// empty.
	Enabled []string
}

// DefaultSuiteOptions returns 3 ports and the default stimulus.
func DefaultSuiteOptions(seed int64) SuiteOptions {
	return SuiteOptions{
		Ports:    3,
		Stimulus: models.DefaultStimulus(seed),
	}
}

// StandardModelNames lists the models of the standard suite in launch order.
func StandardModelNames() []string {
	names := []string{ModelFifo, ModelFork, ModelDispatcher, ModelFlowArbiter}
	for _, a := range models.StandardArbiters() {
		names = append(names, a.Name)
	}

	return names
}

// FifoModelNames lists the models of the FIFO suite.
func FifoModelNames() []string {
	var names []string
	for _, p := range models.StandardFifoPairs() {
		names = append(names, p.Name)
	}

	return names
}

// StandardSuite creates the reference models of the standard stream tester
// top level.
func StandardSuite(bag signal.Bag, opts SuiteOptions) ([]models.Model, error) {
	enabled, err := selectModels(StandardModelNames(), opts.Enabled)
	if err != nil {
		return nil, err
	}

	stim := opts.Stimulus
	n := opts.Ports

	var ms []models.Model

	add := func(m models.Model, err error) error {
		if err != nil {
			return err
		}

		ms = append(ms, m)

		return nil
	}

	for _, name := range StandardModelNames() {
		if !enabled[name] {
			continue
		}

		var err error

		switch name {
		case ModelFifo:
			err = add(models.NewFifo(name, bag,
				models.FifoInput, models.FifoOutput,
				models.BundleLayout, stim))
		case ModelFork:
			err = add(models.NewFork(name, bag, models.ForkInput,
				models.IndexedPorts(models.ForkOutputs, n),
				models.DataLayout, stim))
		case ModelDispatcher:
			err = add(models.NewDispatcher(name, bag, models.DispatcherInput,
				models.IndexedPorts(models.DispatcherOutputs, n),
				models.DataLayout, stim))
		case ModelFlowArbiter:
			err = add(models.NewFlowArbiter(name, bag,
				models.FlowArbiterStreamInput, models.FlowArbiterFlowInput,
				models.FlowArbiterOutput, models.DataLayout, stim))
		default:
			err = add(newStandardArbiter(name, bag, n, stim))
		}

		if err != nil {
			return nil, fmt.Errorf("creating model %s: %w", name, err)
		}
	}

	return ms, nil
}

func newStandardArbiter(
	name string,
	bag signal.Bag,
	n int,
	stim models.Stimulus,
) (*models.Arbiter, error) {
	for _, a := range models.StandardArbiters() {
		if a.Name != name {
			continue
		}

		return models.NewArbiter(name, bag, a.Inputs(n), a.Output(),
			a.Layout, a.Policy, stim)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
}

// FifoSuite creates the reference models of the FIFO tester top level.
func FifoSuite(bag signal.Bag, opts SuiteOptions) ([]models.Model, error) {
	enabled, err := selectModels(FifoModelNames(), opts.Enabled)
	if err != nil {
		return nil, err
	}

	var ms []models.Model

	for _, p := range models.StandardFifoPairs() {
		if !enabled[p.Name] {
			continue
		}

		m, err := models.NewFifo(p.Name, bag, p.Push, p.Pop,
			models.BundleLayout, opts.Stimulus)
		if err != nil {
			return nil, fmt.Errorf("creating model %s: %w", p.Name, err)
		}

		ms = append(ms, m)
	}

	return ms, nil
}

func selectModels(all, enabled []string) (map[string]bool, error) {
	known := make(map[string]bool, len(all))
	for _, n := range all {
		known[n] = true
	}

	if len(enabled) == 0 {
		return known, nil
	}

	selected := make(map[string]bool, len(enabled))

	for _, n := range enabled {
		if !known[n] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModel, n)
		}

		selected[n] = true
	}

	return selected, nil
}
