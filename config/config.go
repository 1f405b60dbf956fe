// Package config holds the settings of a conformance run. Settings come from
// a YAML file, then from STREAMCHECK_* environment variables (which may be
// set in a .env file), then from command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/streamcheck/devices"
	"github.com/sarchlab/streamcheck/harness"
	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/timing"
	"github.com/sarchlab/streamcheck/stream"
)

// Suites that can be run.
const (
	SuiteStandard = "standard"
	SuiteFifo     = "fifo"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Bias configures a valid or ready randomizer. A fixed bias wins over the
// drift settings.
type Bias struct {
	Fixed  *float64 `yaml:"fixed,omitempty"`
	Period int      `yaml:"period"`
	Low    float64  `yaml:"low"`
	High   float64  `yaml:"high"`
}

// Builder turns the bias into a randomizer builder.
func (b Bias) Builder() stream.RandomizerBuilder {
	builder := stream.MakeRandomizerBuilder()
	if b.Fixed != nil {
		return builder.WithFixedBias(*b.Fixed)
	}

	return builder.WithDrift(b.Period, b.Low, b.High)
}

func (b Bias) validate(name string) error {
	if b.Fixed != nil {
		if *b.Fixed < 0 || *b.Fixed > 1 {
			return fmt.Errorf("%w: %s bias %v out of [0, 1]",
				ErrInvalid, name, *b.Fixed)
		}

		return nil
	}

	if b.Period <= 0 {
		return fmt.Errorf("%w: %s drift period must be positive",
			ErrInvalid, name)
	}

	if b.Low < 0 || b.High > 1 || b.Low > b.High {
		return fmt.Errorf("%w: %s drift range [%v, %v]",
			ErrInvalid, name, b.Low, b.High)
	}

	return nil
}

// Fault injects errors into the FIFOs of the reference device.
type Fault struct {
	DropEvery    int `yaml:"drop_every"`
	CorruptEvery int `yaml:"corrupt_every"`
}

// Config holds the settings of a run.
type Config struct {
	Suite       string   `yaml:"suite"`
	Seed        int64    `yaml:"seed"`
	Target      uint64   `yaml:"target"`
	Ports       int      `yaml:"ports"`
	FreqMHz     float64  `yaml:"freq_mhz"`
	ResetCycles uint64   `yaml:"reset_cycles"`
	MaxCycles   uint64   `yaml:"max_cycles"`
	Models      []string `yaml:"models,omitempty"`

	Valid Bias `yaml:"valid"`
	Ready Bias `yaml:"ready"`

	FifoDepth int   `yaml:"fifo_depth"`
	Fault     Fault `yaml:"fault"`

	// Policies overrides the policies of the arbiters of the reference
	// device by name, for example to check that a wrong policy is caught.
	Policies map[string]models.Policy `yaml:"policies,omitempty"`

	// Script is a Lua payload script. Random payloads are sent if empty.
	Script string `yaml:"script,omitempty"`

	// Record is the path of the sqlite database, without the .sqlite3
	// extension. Nothing is recorded if empty.
	Record string `yaml:"record,omitempty"`

	// MonitorPort starts the monitoring server if not 0. Use -1 for a
	// random port.
	MonitorPort int `yaml:"monitor_port,omitempty"`
}

// Default returns 3 ports, 1000 transfers per output, and a 1 GHz clock.
func Default() Config {
	return Config{
		Suite:       SuiteStandard,
		Seed:        1,
		Target:      stream.DefaultTarget,
		Ports:       3,
		FreqMHz:     1000,
		ResetCycles: 4,
		MaxCycles:   1_000_000,
		Valid:       Bias{Period: 100, Low: 0.1, High: 0.9},
		Ready:       Bias{Period: 100, Low: 0.1, High: 0.9},
		FifoDepth:   16,
	}
}

// Load reads a YAML file over the default settings.
func Load(path string) (Config, error) {
	c := Default()

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("parsing %s: %w", path, err)
	}

	return c, nil
}

// Save writes the settings as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that a run can be built from the settings.
func (c Config) Validate() error {
	if c.Suite != SuiteStandard && c.Suite != SuiteFifo {
		return fmt.Errorf("%w: unknown suite %q", ErrInvalid, c.Suite)
	}

	if c.Target == 0 {
		return fmt.Errorf("%w: target must be positive", ErrInvalid)
	}

	if c.Ports < 1 {
		return fmt.Errorf("%w: ports must be positive", ErrInvalid)
	}

	if c.FreqMHz <= 0 {
		return fmt.Errorf("%w: frequency must be positive", ErrInvalid)
	}

	if c.MaxCycles == 0 {
		return fmt.Errorf("%w: max cycles must be positive", ErrInvalid)
	}

	if c.FifoDepth < 1 {
		return fmt.Errorf("%w: fifo depth must be positive", ErrInvalid)
	}

	if c.Fault.DropEvery < 0 || c.Fault.CorruptEvery < 0 {
		return fmt.Errorf("%w: fault periods must not be negative", ErrInvalid)
	}

	if err := c.Valid.validate("valid"); err != nil {
		return err
	}

	if err := c.Ready.validate("ready"); err != nil {
		return err
	}

	known := c.ModelNames()
	for _, m := range c.Models {
		if !slices.Contains(known, m) {
			return fmt.Errorf("%w: %w: %s", ErrInvalid, harness.ErrUnknownModel, m)
		}
	}

	for name := range c.Policies {
		if !isStandardArbiter(name) {
			return fmt.Errorf("%w: no arbiter named %s", ErrInvalid, name)
		}
	}

	return nil
}

func isStandardArbiter(name string) bool {
	for _, a := range models.StandardArbiters() {
		if a.Name == name {
			return true
		}
	}

	return false
}

// ModelNames lists the models of the selected suite.
func (c Config) ModelNames() []string {
	if c.Suite == SuiteFifo {
		return harness.FifoModelNames()
	}

	return harness.StandardModelNames()
}

// Freq returns the clock frequency.
func (c Config) Freq() timing.Freq {
	return timing.Freq(c.FreqMHz) * timing.MHz
}

// Stimulus returns how the models drive and observe the device.
func (c Config) Stimulus() models.Stimulus {
	stim := models.DefaultStimulus(c.Seed)
	stim.Target = c.Target
	stim.Valid = c.Valid.Builder()
	stim.Ready = c.Ready.Builder()

	return stim
}

// SuiteOptions returns the options to create the models.
func (c Config) SuiteOptions() harness.SuiteOptions {
	return harness.SuiteOptions{
		Ports:    c.Ports,
		Stimulus: c.Stimulus(),
		Enabled:  c.Models,
	}
}

// FifoFault returns the fault injected into the reference FIFOs.
func (c Config) FifoFault() devices.FifoFault {
	return devices.FifoFault{
		DropEvery:    c.Fault.DropEvery,
		CorruptEvery: c.Fault.CorruptEvery,
	}
}

// DeviceOptions returns the options of the standard reference device.
func (c Config) DeviceOptions() devices.StandardOptions {
	return devices.StandardOptions{
		Ports:     c.Ports,
		FifoDepth: c.FifoDepth,
		FifoFault: c.FifoFault(),
		Policies:  c.Policies,
	}
}

// HarnessBuilder returns a test builder with the clock settings.
func (c Config) HarnessBuilder() harness.Builder {
	return harness.MakeBuilder().
		WithFreq(c.Freq()).
		WithResetCycles(c.ResetCycles).
		WithMaxCycles(c.MaxCycles)
}
