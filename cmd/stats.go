package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/spotify-history-tools/internal/analysis"
	"github.com/ademuri/spotify-history-tools/internal/stats"
)

var statsAlpha float64
var statsMinStreams int

var statsCmd = &cobra.Command{
	Use:   "stats [from] [to (optional)]",
	Short: "Runs the significance tests and skip analysis",
	Long: `Tests whether listening differs between weekends and weekdays and
across times of day, and ranks the most-skipped artists. Date strings look
like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printStats(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Float64Var(&statsAlpha, "alpha", 0.05, "significance level for the hypothesis tests")
	statsCmd.Flags().IntVar(&statsMinStreams, "min_streams", 20, "minimum streams for an artist to appear in the skip ranking")
}

func printStats(args []string) error {
	events, err := loadEvents()
	if err != nil {
		return err
	}
	events, err = applyDateArgs(events, args)
	if err != nil {
		return err
	}

	backend := stats.Gonum{}
	out := struct {
		Weekend   analysis.WeekendStats   `yaml:"weekend_vs_weekday"`
		TimeOfDay analysis.TimeOfDayStats `yaml:"time_of_day"`
		Skips     analysis.SkipStats      `yaml:"skip_analysis"`
	}{
		Weekend:   analysis.WeekendVsWeekday(events, statsAlpha, backend),
		TimeOfDay: analysis.TimeOfDay(events, statsAlpha, backend),
		Skips:     analysis.Skips(events, statsMinStreams, 10),
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	return encoder.Close()
}
