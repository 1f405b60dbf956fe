package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sarchlab/streamcheck/config"
	"github.com/sarchlab/streamcheck/datarecording"
	"github.com/sarchlab/streamcheck/devices"
	"github.com/sarchlab/streamcheck/harness"
	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/monitoring"
	"github.com/sarchlab/streamcheck/payloadgen"
	"github.com/sarchlab/streamcheck/sim/timing"
	"github.com/sarchlab/streamcheck/streamtrace"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a suite against the reference device.",
	Long: `Run builds the reference device and the models of a suite, and ` +
		`simulates until every model has checked its target number of ` +
		`transfers. It fails at the first transfer a model did not predict.`,
	Args: cobra.NoArgs,
	RunE: runSuite,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addSettingFlags(runCmd)
	runCmd.Flags().Bool("open", false, "open the monitoring page in a browser")
	runCmd.Flags().Bool("trace-events", false, "log every simulation event")
	runCmd.Flags().Bool("stats", false, "print transfer statistics per port")
	runCmd.Flags().String("trace-json", "",
		"write every transfer and grant into a JSON file")
}

func runSuite(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Printf("suite %s, seed %d, target %d, %d ports",
		cfg.Suite, cfg.Seed, cfg.Target, cfg.Ports)

	dut, ms, err := buildSuite(cfg)
	if err != nil {
		return err
	}

	builder := cfg.HarnessBuilder().WithModels(ms...)

	if trace, _ := cmd.Flags().GetBool("trace-events"); trace {
		builder = builder.WithEngineHook(
			timing.NewEventLogger(log.New(os.Stderr, "", 0)))
	}

	test := builder.Build(dut)

	var run *datarecording.RunRecorder

	if cfg.Record != "" {
		recorder := datarecording.NewDataRecorder(cfg.Record)
		defer recorder.Close()

		datarecording.NewTracer(recorder).Attach(ms...)

		run = datarecording.NewRunRecorder(recorder)
		run.Start()
	}

	var stats *streamtrace.StatsTracer
	if wantStats, _ := cmd.Flags().GetBool("stats"); wantStats {
		stats = streamtrace.NewStatsTracer()
		stats.Attach(ms...)
	}

	if path, _ := cmd.Flags().GetString("trace-json"); path != "" {
		streamtrace.NewJSONFileTracer(path).Attach(ms...)
	}

	if cfg.MonitorPort != 0 {
		open, _ := cmd.Flags().GetBool("open")
		startMonitor(cfg, test, open)
	}

	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	if isTerminal {
		test.Clock().AcceptHook(newProgressPrinter(os.Stderr, test, 10_000))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := test.Run(ctx)

	if isTerminal {
		fmt.Fprintln(os.Stderr)
	}

	printReport(cmd.OutOrStdout(), report, err)

	if stats != nil {
		printStats(cmd.OutOrStdout(), stats.Stats())
	}

	if run != nil {
		recordRun(run, cfg, report, err)
	}

	return err
}

func buildSuite(cfg config.Config) (harness.DUT, []models.Model, error) {
	opts := cfg.SuiteOptions()

	if cfg.Script != "" {
		script, err := payloadgen.LoadScript(cfg.Script)
		if err != nil {
			return nil, nil, err
		}

		opts.Stimulus.Payloads = script.Factory()
	}

	if cfg.Suite == config.SuiteFifo {
		top := devices.NewFifoTop(cfg.FifoDepth, cfg.FifoFault())
		ms, err := harness.FifoSuite(top, opts)

		return top, ms, err
	}

	top := devices.NewStandardTop(cfg.DeviceOptions())
	ms, err := harness.StandardSuite(top, opts)

	return top, ms, err
}

func startMonitor(cfg config.Config, test *harness.Test, open bool) {
	port := max(cfg.MonitorPort, 0)

	m := monitoring.NewMonitor().WithPortNumber(port)
	m.RegisterEngine(test.Engine())

	for _, model := range test.Models() {
		m.RegisterModel(model)
	}

	url := m.StartServer()

	if open {
		if err := m.OpenBrowser(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}
}

func printReport(w io.Writer, report *harness.RunReport, err error) {
	if err != nil {
		fmt.Fprintf(w, "FAILED after %d cycles: %v\n", report.Cycles, err)

		var liveness *harness.LivenessError
		if errors.As(err, &liveness) {
			for _, p := range liveness.Incomplete {
				fmt.Fprintf(w, "  %s: %d/%d outputs\n",
					p.Name, p.Outputs, p.Target)
			}
		}

		return
	}

	fmt.Fprintf(w, "PASSED after %d cycles (%.0f cycles/s, %s)\n",
		report.Cycles, report.CyclesPerSecond, report.WallTime)

	for _, p := range report.Models {
		fmt.Fprintf(w, "  %s: %d in, %d out\n", p.Name, p.Inputs, p.Outputs)
	}
}

func printStats(w io.Writer, stats []streamtrace.PortStats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tDIR\tPORT\tTRANSFERS\tGRANTS\tTHROUGHPUT")

	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.3f\n",
			s.Model, s.Direction, s.Port, s.Transfers, s.Grants,
			s.Throughput())
	}

	tw.Flush()
}

func recordRun(
	run *datarecording.RunRecorder,
	cfg config.Config,
	report *harness.RunReport,
	err error,
) {
	run.Set("Suite", cfg.Suite)
	run.Set("Seed", strconv.FormatInt(cfg.Seed, 10))
	run.Set("Target", strconv.FormatUint(cfg.Target, 10))
	run.Set("Cycles", strconv.FormatUint(report.Cycles, 10))
	run.Set("Passed", strconv.FormatBool(report.Passed))

	if err != nil && !errors.Is(err, context.Canceled) {
		run.Set("Error", err.Error())
	}

	run.End()
}
