package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/rectfit/internal/cache"
	"github.com/guimove/rectfit/internal/config"
	"github.com/guimove/rectfit/internal/export"
	"github.com/guimove/rectfit/internal/metrics"
	"github.com/guimove/rectfit/internal/orchestrator"
	"github.com/guimove/rectfit/internal/report"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Pack the shapes of an input document into its bin",
	Long: `Reads a JSON problem document:

  {"Bin": {"W": 100, "H": 100},
   "Settings": {"Mask": 7, "MaxTime": 2.5, "Seed": 42, "Evaluator": "Area"},
   "Shapes": [{"W": 10, "H": 20, "Count": 5, "Label": "door"}]}

Settings in the document override the configuration file; flags given on the
command line override both. Progress is written to stderr and the report to
stdout.`,
	RunE: runPack,
}

func init() {
	defaults := config.Default()

	f := packCmd.Flags()
	f.String("input", "", "path to the input JSON document (required)")
	f.Int("mask", defaults.Solver.Mask, "strategies to run: 1 skyline, 2 maxrect, 4 shelf, or a sum")
	f.Duration("time-budget", defaults.Solver.TimeBudget, "search time per strategy")
	f.Int64("seed", defaults.Solver.Seed, "random seed for shuffles")
	f.String("evaluator", defaults.Solver.Evaluator, "evaluator: Area, Perimeter, Width or Height")
	f.Bool("allow-rotate", defaults.Solver.AllowRotate, "allow quarter-turn rotation of shapes")
	f.String("output", defaults.Output.Format, "output format: table, json, markdown, svg")
	f.String("export", "", "also write the result to a file (.pdf, .png, .dxf, .xlsx, .svg, .json)")
	f.String("metrics-file", "", "write solver metrics in Prometheus text format to this file")
	f.String("pushgateway", "", "push solver metrics to this Prometheus Pushgateway URL")
	f.Bool("cache", defaults.Cache.Enabled, "reuse and improve the best packing from earlier runs")
	f.String("cache-dir", defaults.Cache.Dir, "directory for cached packings")

	_ = viper.BindPFlag("solver.mask", f.Lookup("mask"))
	_ = viper.BindPFlag("solver.time_budget", f.Lookup("time-budget"))
	_ = viper.BindPFlag("solver.seed", f.Lookup("seed"))
	_ = viper.BindPFlag("solver.evaluator", f.Lookup("evaluator"))
	_ = viper.BindPFlag("solver.allow_rotate", f.Lookup("allow-rotate"))
	_ = viper.BindPFlag("output.format", f.Lookup("output"))
	_ = viper.BindPFlag("output.file", f.Lookup("export"))
	_ = viper.BindPFlag("metrics.file", f.Lookup("metrics-file"))
	_ = viper.BindPFlag("metrics.pushgateway_url", f.Lookup("pushgateway"))
	_ = viper.BindPFlag("cache.enabled", f.Lookup("cache"))
	_ = viper.BindPFlag("cache.dir", f.Lookup("cache-dir"))

	_ = packCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	inputPath, _ := cmd.Flags().GetString("input")
	in, err := config.LoadInput(inputPath)
	if err != nil {
		return err
	}

	in.Apply(&cfg)
	applySolverFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	progress := os.Stderr
	orch := orchestrator.New(cfg.Solver, in.BinRect(), progress)
	orch.Logger = newLogger(progress)
	orch.Labels = in.Labels()

	var rec *metrics.Recorder
	if cfg.Metrics.File != "" || cfg.Metrics.PushgatewayURL != "" {
		rec = metrics.NewRecorder()
		orch.Recorder = rec
	}
	if cfg.Cache.Enabled {
		orch.Cache = cache.NewFileCache(cfg.Cache.Dir, cfg.Cache.TTL)
		orch.CacheKey = in.Key(cfg.Solver.AllowRotate)
	}

	res := orch.Execute(ctx, in.Rectangles())

	reporter := report.NewReporter(cfg.Output.Format, os.Stdout)
	if err := reporter.Report(ctx, res); err != nil {
		return err
	}

	if cfg.Output.File != "" {
		if err := export.Export(cfg.Output.File, res); err != nil {
			return err
		}
		fmt.Fprintf(progress, "Wrote %s\n", cfg.Output.File)
	}
	if cfg.Metrics.File != "" {
		if err := rec.WriteTextfile(cfg.Metrics.File); err != nil {
			return err
		}
	}
	if cfg.Metrics.PushgatewayURL != "" {
		if err := rec.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			return err
		}
	}
	return nil
}

// applySolverFlags restores solver flags given on the command line, which
// take precedence over the input document's settings.
func applySolverFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if v, _ := f.GetInt("mask"); f.Changed("mask") {
		cfg.Solver.Mask = v
	}
	if v, _ := f.GetDuration("time-budget"); f.Changed("time-budget") {
		cfg.Solver.TimeBudget = v
	}
	if v, _ := f.GetInt64("seed"); f.Changed("seed") {
		cfg.Solver.Seed = v
	}
	if v, _ := f.GetString("evaluator"); f.Changed("evaluator") {
		cfg.Solver.Evaluator = v
	}
}
