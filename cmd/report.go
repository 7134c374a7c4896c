package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/spotify-history-tools/internal/analysis"
	"github.com/ademuri/spotify-history-tools/internal/enrich"
	"github.com/ademuri/spotify-history-tools/internal/history"
)

var reportEnrich bool
var reportYear int

var reportCmd = &cobra.Command{
	Use:   "report [from] [to (optional)]",
	Short: "Generates the full listening report as YAML",
	Long: `Analyzes the whole export, or the given date range. Date strings look
like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'. With --enrich, release dates and
genres are resolved through the Spotify API (requires client_id and
client_secret); without it, genres come from the built-in map only.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runReport(cmd.OutOrStdout(), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportEnrich, "enrich", false, "Resolve release dates and genres via the Spotify API")
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "Year for the monthly breakdown (default: latest year in the data)")
}

func runReport(out io.Writer, args []string) error {
	events, err := loadEvents()
	if err != nil {
		return err
	}
	events, err = applyDateArgs(events, args)
	if err != nil {
		return err
	}

	opts := analysis.Options{Year: reportYear}
	if reportEnrich {
		opts.TrackYears, opts.ArtistGenres, err = enrichEvents(events)
		if err != nil {
			return err
		}
	} else {
		opts.ArtistGenres = enrich.OfflineGenres(events)
	}

	report := analysis.GenerateReport(events, opts)

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}

// applyDateArgs narrows the table to the optional date-range arguments.
func applyDateArgs(events []history.Event, args []string) ([]history.Event, error) {
	if len(args) == 0 {
		return events, nil
	}
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return nil, err
	}
	return filterRange(events, start, end), nil
}

// enrichEvents runs both enrichment passes against the cache and the API.
func enrichEvents(events []history.Event) (map[enrich.TrackKey]int, map[string][]string, error) {
	enricher, cleanup, err := newEnricher()
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	years, counters, err := enricher.TrackReleaseYears(ctx, events)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving release dates: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Release dates: %d cached, %d fetched, %d failed\n",
		counters.CacheHits, counters.Fetched, counters.Failed)

	genres, counters, err := enricher.ArtistGenres(ctx, events)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving genres: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Genres: %d cached, %d fetched, %d failed\n",
		counters.CacheHits, counters.Fetched, counters.Failed)

	return years, genres, nil
}
