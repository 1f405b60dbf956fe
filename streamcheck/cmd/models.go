package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/streamcheck/config"
	"github.com/sarchlab/streamcheck/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models of the suites.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		listModels(cmd)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func listModels(cmd *cobra.Command) {
	policies := make(map[string]models.Policy)
	for _, a := range models.StandardArbiters() {
		policies[a.Name] = a.Policy
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUITE\tMODEL\tPOLICY")

	for _, suite := range []string{config.SuiteStandard, config.SuiteFifo} {
		cfg := config.Default()
		cfg.Suite = suite

		for _, name := range cfg.ModelNames() {
			policy := "-"
			if p, ok := policies[name]; ok {
				policy = p.String()
			}

			fmt.Fprintf(w, "%s\t%s\t%s\n", suite, name, policy)
		}
	}

	w.Flush()
}
