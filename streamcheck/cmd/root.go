// Package cmd provides the command-line interface of streamcheck.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamcheck",
	Short: "Streamcheck checks valid/ready stream primitives against models.",
	Long: `Streamcheck drives the inputs of stream primitives with random ` +
		`traffic, watches their outputs, and compares every transfer with ` +
		`a reference model. It supports FIFOs, forks, in-order ` +
		`dispatchers, flow/stream arbiters, and N-way arbiters.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "",
		"YAML file with the settings of the run")
	rootCmd.PersistentFlags().StringSlice("env", []string{".env"},
		".env files that set STREAMCHECK_* variables")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits with status 1 if the command fails. Registered
// exit handlers, such as the flushing of recorders, run in both cases.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
