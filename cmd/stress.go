package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/rectfit/internal/config"
	"github.com/guimove/rectfit/internal/stress"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Pack random problems and check every result for overlaps",
	Long: `Generates random problems (by default a 200x200 bin with 10 shape sizes of
30 copies each), packs them with a random strategy mask and checks that every
placement lies inside the bin and overlaps no other. The first failing case
is printed as an input document that reproduces it with 'rectfit pack'.`,
	RunE: runStress,
}

func init() {
	defaults := config.Default().Stress

	f := stressCmd.Flags()
	f.Duration("duration", defaults.Duration, "total time to spend generating cases")
	f.Duration("case-budget", defaults.CaseBudget, "search time per strategy in each case")
	f.Int64("seed", 0, "seed for case generation (default: current time)")

	_ = viper.BindPFlag("stress.duration", f.Lookup("duration"))
	_ = viper.BindPFlag("stress.case_budget", f.Lookup("case-budget"))

	rootCmd.AddCommand(stressCmd)
}

func runStress(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetInt64("seed")
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	fmt.Fprintf(os.Stderr, "Stress seed %d, running for %v\n", seed, cfg.Stress.Duration)

	sum, err := stress.Run(cmd.Context(), cfg.Stress, seed, os.Stderr)
	var fail *stress.Failure
	if errors.As(err, &fail) {
		fmt.Fprintf(os.Stdout, "%s\n", fail.Document())
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d cases in %v, all valid (utilization min %.1f%%, mean %.1f%%)\n",
		sum.Cases, sum.Elapsed.Round(time.Millisecond), sum.MinUtil*100, sum.MeanUtil*100)
	return nil
}
