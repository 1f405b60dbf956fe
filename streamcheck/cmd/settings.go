package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/streamcheck/config"
	"github.com/sarchlab/streamcheck/models"
)

func addSettingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("suite", config.SuiteStandard, "suite to run: standard or fifo")
	f.Int64("seed", 1, "master seed of all randomizers")
	f.Uint64("target", 0, "transfers to check per output")
	f.Int("ports", 0, "number of ports of forks, dispatchers, and arbiters")
	f.Uint64("max-cycles", 0, "cycles after which the run fails")
	f.StringSlice("models", nil, "models to run, all if empty")
	f.Float64("valid-bias", -1, "fixed probability of valid, drifting if < 0")
	f.Float64("ready-bias", -1, "fixed probability of ready, drifting if < 0")
	f.StringToString("policy", nil,
		"overrides arbiter policies of the device, e.g. "+
			"arbiterRoundRobin=lowIdFirst.transactionLock")
	f.Int("drop-every", 0, "drop every n-th payload in the device FIFOs")
	f.Int("corrupt-every", 0, "corrupt every n-th payload in the device FIFOs")
	f.String("script", "", "Lua payload script")
	f.String("record", "", "sqlite database to record transfers into")
	f.Int("monitor-port", 0, "start the monitoring server, -1 for any port")
}

// loadConfig reads the config file, then the environment, then the flags
// that were set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}

	envFiles, _ := cmd.Flags().GetStringSlice("env")
	if err := cfg.FromEnvironment(envFiles...); err != nil {
		return cfg, err
	}

	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	if f.Changed("suite") {
		cfg.Suite, _ = f.GetString("suite")
	}

	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}

	if f.Changed("target") {
		cfg.Target, _ = f.GetUint64("target")
	}

	if f.Changed("ports") {
		cfg.Ports, _ = f.GetInt("ports")
	}

	if f.Changed("max-cycles") {
		cfg.MaxCycles, _ = f.GetUint64("max-cycles")
	}

	if f.Changed("models") {
		cfg.Models, _ = f.GetStringSlice("models")
	}

	if f.Changed("valid-bias") {
		cfg.Valid.Fixed = fixedBias(f.GetFloat64("valid-bias"))
	}

	if f.Changed("ready-bias") {
		cfg.Ready.Fixed = fixedBias(f.GetFloat64("ready-bias"))
	}

	if f.Changed("policy") {
		policies, _ := f.GetStringToString("policy")
		if err := applyPolicies(cfg, policies); err != nil {
			return err
		}
	}

	if f.Changed("drop-every") {
		cfg.Fault.DropEvery, _ = f.GetInt("drop-every")
	}

	if f.Changed("corrupt-every") {
		cfg.Fault.CorruptEvery, _ = f.GetInt("corrupt-every")
	}

	if f.Changed("script") {
		cfg.Script, _ = f.GetString("script")
	}

	if f.Changed("record") {
		cfg.Record, _ = f.GetString("record")
	}

	if f.Changed("monitor-port") {
		cfg.MonitorPort, _ = f.GetInt("monitor-port")
	}

	return nil
}

func fixedBias(bias float64, _ error) *float64 {
	if bias < 0 {
		return nil
	}

	return &bias
}

func applyPolicies(cfg *config.Config, policies map[string]string) error {
	if cfg.Policies == nil {
		cfg.Policies = make(map[string]models.Policy)
	}

	for name, s := range policies {
		p, err := models.ParsePolicy(s)
		if err != nil {
			return fmt.Errorf("policy of %s: %w", name, err)
		}

		cfg.Policies[name] = p
	}

	return nil
}
