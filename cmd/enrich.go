package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-history-tools/internal/enrich"
	"github.com/ademuri/spotify-history-tools/internal/metacache"
	"github.com/ademuri/spotify-history-tools/internal/spotify"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetches release dates and genres into the metadata cache",
	Long: `Resolves every distinct track and artist in the export through the
Spotify API and stores the results in the cache, so later report runs don't
need the network. Requires client_id and client_secret.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runEnrich()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich() error {
	events, err := loadEvents()
	if err != nil {
		return err
	}

	enricher, cleanup, err := newEnricher()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	_, counters, err := enricher.TrackReleaseYears(ctx, events)
	if err != nil {
		return fmt.Errorf("resolving release dates: %w", err)
	}
	fmt.Printf("Release dates: %d cached, %d fetched, %d failed\n",
		counters.CacheHits, counters.Fetched, counters.Failed)

	_, counters, err = enricher.ArtistGenres(ctx, events)
	if err != nil {
		return fmt.Errorf("resolving genres: %w", err)
	}
	fmt.Printf("Genres: %d cached, %d fetched, %d failed\n",
		counters.CacheHits, counters.Fetched, counters.Failed)

	tracks, artists, err := enricher.Cache.Counts()
	if err != nil {
		return fmt.Errorf("reading cache counts: %w", err)
	}
	fmt.Printf("Cache now holds %d tracks and %d artists\n", tracks, artists)
	return nil
}

// newEnricher opens the cache and builds an API-backed enricher. The cleanup
// closes the cache.
func newEnricher() (*enrich.Enricher, func(), error) {
	clientID := viper.GetString("client_id")
	clientSecret := viper.GetString("client_secret")
	if clientID == "" || clientSecret == "" {
		return nil, nil, fmt.Errorf("client_id and client_secret must be set to use the Spotify API")
	}

	cache, err := metacache.New(viper.GetString("cache"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}

	enricher := &enrich.Enricher{
		Cache:  cache,
		Client: spotify.New(clientID, clientSecret),
	}
	return enricher, func() { cache.Close() }, nil
}
