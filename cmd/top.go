package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-history-tools/internal/analysis"
)

var topNumber int

var topCmd = &cobra.Command{
	Use:   "top <artists|tracks|albums> [from] [to (optional)]",
	Short: "Gets the most-played artists, tracks, or albums",
	Long: `Ranks by total listening hours. Optional date strings look like
'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'; without them the whole export is used.`,
	Args: cobra.RangeArgs(1, 3),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTop(args[0], args[1:])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().IntVarP(&topNumber, "number", "n", 10, "number of results to return")
}

func printTop(what string, dateArgs []string) error {
	var dim analysis.Dimension
	switch what {
	case "artists":
		dim = analysis.ByArtist
	case "tracks":
		dim = analysis.ByTrack
	case "albums":
		dim = analysis.ByAlbum
	default:
		return fmt.Errorf("Expected 'artists', 'tracks', or 'albums', got %q", what)
	}

	events, err := loadEvents()
	if err != nil {
		return err
	}
	events, err = applyDateArgs(events, dateArgs)
	if err != nil {
		return err
	}

	ranked := analysis.Top(events, dim, topNumber, 0)
	out, err := renderRanking(ranked)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func renderRanking(ranked []analysis.RankedItem) (string, error) {
	if len(ranked) == 0 {
		return "No listens found.", nil
	}

	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Rank", "Name", "Hours"})
	for i, item := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			item.Name,
			strconv.FormatFloat(item.Hours, 'f', 1, 64),
		}
		if err := table.Append(row); err != nil {
			return "", fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}
	return out.String(), nil
}
