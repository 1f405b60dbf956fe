package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of the environment variables that override the
// settings.
const EnvPrefix = "STREAMCHECK_"

// LoadEnvFiles sets the variables of .env files that are not set yet. Missing
// files are skipped.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return nil
}

// ApplyEnv overrides the settings with STREAMCHECK_* variables. Lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, v := range []struct {
		name  string
		apply func(string) error
	}{
		{"SUITE", setString(&c.Suite)},
		{"SEED", setInt64(&c.Seed)},
		{"TARGET", setUint64(&c.Target)},
		{"PORTS", setInt(&c.Ports)},
		{"FREQ_MHZ", setFloat(&c.FreqMHz)},
		{"RESET_CYCLES", setUint64(&c.ResetCycles)},
		{"MAX_CYCLES", setUint64(&c.MaxCycles)},
		{"MODELS", setList(&c.Models)},
		{"FIFO_DEPTH", setInt(&c.FifoDepth)},
		{"SCRIPT", setString(&c.Script)},
		{"RECORD", setString(&c.Record)},
		{"MONITOR_PORT", setInt(&c.MonitorPort)},
	} {
		value, found := lookup(EnvPrefix + v.name)
		if !found {
			continue
		}

		if err := v.apply(value); err != nil {
			return fmt.Errorf("%w: %s%s: %w", ErrInvalid, EnvPrefix, v.name, err)
		}
	}

	return nil
}

// FromEnvironment loads the .env files and applies the process environment.
func (c *Config) FromEnvironment(files ...string) error {
	if err := LoadEnvFiles(files...); err != nil {
		return err
	}

	return c.ApplyEnv(os.LookupEnv)
}

func setString(dst *string) func(string) error {
	return func(s string) error {
		*dst = s
		return nil
	}
}

func setList(dst *[]string) func(string) error {
	return func(s string) error {
		*dst = nil

		for _, item := range strings.Split(s, ",") {
			item = strings.TrimSpace(item)
			if item != "" {
				*dst = append(*dst, item)
			}
		}

		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}

		*dst = v

		return nil
	}
}

func setInt64(dst *int64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return err
		}

		*dst = v

		return nil
	}
}

func setUint64(dst *uint64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return err
		}

		*dst = v

		return nil
	}
}

func setFloat(dst *float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}

		*dst = v

		return nil
	}
}
