// Package harness runs reference models against a device under test.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/clock"
	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/sim/timing"
)

// DUT is the device under test as seen by the harness.
type DUT interface {
	signal.Bag
	clock.Device
	clock.Committer
}

// LivenessError reports that a run ended before every model reached its
// target.
type LivenessError struct {
	Cycles     uint64
	Cause      error
	Incomplete []models.Progress
}

func (e *LivenessError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "stopped at cycle %d", e.Cycles)

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}

	b.WriteString("; incomplete:")

	for _, p := range e.Incomplete {
		fmt.Fprintf(&b, " %s (%d/%d", p.Name, p.Outputs, p.Target)

		if len(p.Sources) > 0 {
			fmt.Fprintf(&b, ", by source %v", p.Sources)
		}

		b.WriteString(")")
	}

	return b.String()
}

// Unwrap returns the cause.
func (e *LivenessError) Unwrap() error {
	return e.Cause
}

// ErrMaxCycles is the cause of a LivenessError raised at the cycle limit.
var ErrMaxCycles = errors.New("max cycles reached")

// RunReport summarizes a run.
type RunReport struct {
	Passed          bool
	Cycles          uint64
	SimTime         timing.VTimeInSec
	WallTime        time.Duration
	CyclesPerSecond float64
	Models          []models.Progress
}

// Builder creates tests.
type Builder struct {
	freq        timing.Freq
	resetCycles uint64
	maxCycles   uint64
	models      []models.Model
	engineHooks []hooking.Hook
}

// MakeBuilder creates a Builder with a 1 GHz clock, 4 reset cycles, and a
// limit of one million cycles.
func MakeBuilder() Builder {
	return Builder{
		freq:        1 * timing.GHz,
		resetCycles: 4,
		maxCycles:   1_000_000,
	}
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(f timing.Freq) Builder {
	b.freq = f
	return b
}

// WithResetCycles sets the number of cycles the device is held in reset.
func (b Builder) WithResetCycles(n uint64) Builder {
	b.resetCycles = n
	return b
}

// WithMaxCycles sets the number of cycles after which the run fails.
func (b Builder) WithMaxCycles(n uint64) Builder {
	b.maxCycles = n
	return b
}

// WithModels adds models. Models are launched in the order they are added.
func (b Builder) WithModels(ms ...models.Model) Builder {
	b.models = append(append([]models.Model(nil), b.models...), ms...)
	return b
}

// WithEngineHook attaches a hook to the engine.
func (b Builder) WithEngineHook(h hooking.Hook) Builder {
	b.engineHooks = append(append([]hooking.Hook(nil), b.engineHooks...), h)
	return b
}

// Build creates a test of the device.
func (b Builder) Build(dut DUT) *Test {
	engine := timing.NewSerialEngine()
	for _, h := range b.engineHooks {
		engine.AcceptHook(h)
	}

	k := clock.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithResetCycles(b.resetCycles).
		Build("Clock", dut, dut)

	return &Test{
		engine:    engine,
		clock:     k,
		models:    b.models,
		maxCycles: b.maxCycles,
	}
}

// Test runs a set of models against one device.
type Test struct {
	engine    *timing.SerialEngine
	clock     *clock.Clock
	models    []models.Model
	maxCycles uint64
	ctx       context.Context
}

// Engine returns the engine that runs the test.
func (t *Test) Engine() timing.Engine {
	return t.engine
}

// Clock returns the clock of the device.
func (t *Test) Clock() *clock.Clock {
	return t.clock
}

// Models returns the models of the test.
func (t *Test) Models() []models.Model {
	return t.models
}

// Progress returns the progress of every model.
func (t *Test) Progress() []models.Progress {
	progress := make([]models.Progress, len(t.models))
	for i, m := range t.models {
		progress[i] = m.Progress()
	}

	return progress
}

// Run simulates until every model is done, a model detects a violation,
// the cycle limit is reached, or the context is cancelled. A test can only
// run once.
func (t *Test) Run(ctx context.Context) (*RunReport, error) {
	t.ctx = ctx

	for _, m := range t.models {
		log.Printf("launching %s", m.Name())
		m.Launch(t.clock)
	}

	t.clock.Subscribe(clock.Rising, clock.EdgeListenerFunc(t.supervise))
	t.clock.Start()

	start := time.Now()
	err := t.engine.Run()
	wall := time.Since(start)

	report := &RunReport{
		Passed:   err == nil,
		Cycles:   t.clock.Cycles(),
		SimTime:  t.engine.Now(),
		WallTime: wall,
		Models:   t.Progress(),
	}

	if wall > 0 {
		report.CyclesPerSecond = float64(report.Cycles) / wall.Seconds()
	}

	if err != nil {
		return report, err
	}

	log.Printf("all models done after %d cycles (%.0f cycles/s)",
		report.Cycles, report.CyclesPerSecond)

	return report, nil
}

func (t *Test) supervise(e clock.Edge) error {
	if err := t.ctx.Err(); err != nil {
		return t.livenessError(e.Cycle, err)
	}

	if t.allDone() {
		t.clock.Stop()
		return nil
	}

	if t.maxCycles > 0 && e.Cycle >= t.maxCycles {
		return t.livenessError(e.Cycle, ErrMaxCycles)
	}

	return nil
}

func (t *Test) allDone() bool {
	for _, m := range t.models {
		if !m.Done() {
			return false
		}
	}

	return true
}

func (t *Test) livenessError(cycle uint64, cause error) *LivenessError {
	err := &LivenessError{
		Cycles: cycle,
		Cause:  cause,
	}

	for _, m := range t.models {
		if !m.Done() {
			err.Incomplete = append(err.Incomplete, m.Progress())
		}
	}

	return err
}
