// Package enrich augments play events with release dates and genres,
// consulting the local cache before the Spotify API and falling back to the
// curated genre map. Enrichment never mutates the event table; it returns
// lookup maps keyed by track and artist identity.
package enrich

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ademuri/spotify-history-tools/internal/genremap"
	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/metacache"
	"github.com/ademuri/spotify-history-tools/internal/spotify"
)

// fetchBatchSize bounds how many cache misses are fetched and persisted per
// round, so a crash mid-run loses at most one batch of lookups.
const fetchBatchSize = 50

// Client is the slice of the Spotify client enrichment needs, kept narrow so
// tests can substitute a fake.
type Client interface {
	TrackReleaseYears(ctx context.Context, ids []string) (map[string]int, error)
	ArtistGenres(ctx context.Context, name string) ([]string, error)
}

// Counters reports how a run split between cache and network.
type Counters struct {
	CacheHits int
	Fetched   int
	Failed    int
}

type Enricher struct {
	Cache  *metacache.Cache
	Client Client

	// Log receives per-item failure notices; defaults to stderr.
	Log io.Writer
}

func (e *Enricher) logf(format string, args ...interface{}) {
	out := e.Log
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, format, args...)
}

// TrackKey identifies a track for release-date lookups.
type TrackKey struct {
	Artist string
	Track  string
}

// NormalizedTrackKey builds the cache key for an event's track identity.
func NormalizedTrackKey(artist, track string) TrackKey {
	return TrackKey{Artist: metacache.Key(artist), Track: metacache.Key(track)}
}

// TrackReleaseYears resolves a release year for every distinct track in the
// table that has a track URI. Cache first; misses are fetched in batches and
// written back before returning. A failed batch leaves its items absent and
// the run continues.
func (e *Enricher) TrackReleaseYears(ctx context.Context, events []history.Event) (map[TrackKey]int, Counters, error) {
	years := make(map[TrackKey]int)
	var counters Counters

	// Distinct tracks, first URI seen wins.
	type pending struct {
		key TrackKey
		id  string
	}
	seen := make(map[TrackKey]bool)
	var misses []pending

	for _, ev := range events {
		if !ev.HasTrack() {
			continue
		}
		key := NormalizedTrackKey(ev.Artist, ev.Track)
		if seen[key] {
			continue
		}
		seen[key] = true

		year, found, err := e.Cache.GetTrack(ev.Artist, ev.Track)
		if err != nil {
			return nil, counters, fmt.Errorf("cache lookup: %w", err)
		}
		if found {
			counters.CacheHits++
			if year > 0 {
				years[key] = year
			}
			continue
		}

		id := spotify.TrackID(ev.TrackURI)
		if id == "" {
			continue
		}
		misses = append(misses, pending{key: key, id: id})
	}

	for start := 0; start < len(misses); start += fetchBatchSize {
		end := start + fetchBatchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		ids := make([]string, len(batch))
		byID := make(map[string]TrackKey, len(batch))
		for i, p := range batch {
			ids[i] = p.id
			byID[p.id] = p.key
		}

		fetched, err := e.Client.TrackReleaseYears(ctx, ids)
		if err != nil {
			counters.Failed += len(batch) - len(fetched)
			e.logf("fetching release years (%d tracks): %v\n", len(batch), err)
		}

		var releases []metacache.TrackRelease
		for id, year := range fetched {
			key, ok := byID[id]
			if !ok {
				continue
			}
			counters.Fetched++
			if year > 0 {
				years[key] = year
			}
			releases = append(releases, metacache.TrackRelease{
				Artist: key.Artist,
				Track:  key.Track,
				Year:   year,
			})
		}

		// Persist after each batch so progress survives interruption.
		if len(releases) > 0 {
			if err := e.Cache.PutTracks(releases); err != nil {
				return years, counters, fmt.Errorf("writing cache: %w", err)
			}
		}
	}

	return years, counters, nil
}

// ArtistGenres resolves genres for every distinct artist in the table,
// applying the precedence chain: curated override, then API data (cached or
// fetched), then the curated map as fallback, then absent.
func (e *Enricher) ArtistGenres(ctx context.Context, events []history.Event) (map[string][]string, Counters, error) {
	genres := make(map[string][]string)
	var counters Counters

	seen := make(map[string]bool)
	for _, ev := range events {
		if ev.Artist == "" {
			continue
		}
		key := metacache.Key(ev.Artist)
		if seen[key] {
			continue
		}
		seen[key] = true

		if genremap.Overridden(ev.Artist) {
			genres[key] = genremap.Lookup(ev.Artist)
			continue
		}

		cached, found, err := e.Cache.GetArtist(ev.Artist)
		if err != nil {
			return nil, counters, fmt.Errorf("cache lookup: %w", err)
		}
		if found {
			counters.CacheHits++
			genres[key] = withFallback(ev.Artist, cached)
			continue
		}

		fetched, err := e.Client.ArtistGenres(ctx, ev.Artist)
		if err != nil {
			// Per-item failure: log, fall back to the map, keep going.
			counters.Failed++
			e.logf("fetching genres for %q: %v\n", ev.Artist, err)
			genres[key] = withFallback(ev.Artist, nil)
			continue
		}
		counters.Fetched++

		if err := e.Cache.PutArtists([]metacache.ArtistGenres{{Artist: ev.Artist, Genres: fetched}}); err != nil {
			return genres, counters, fmt.Errorf("writing cache: %w", err)
		}
		genres[key] = withFallback(ev.Artist, fetched)
	}

	return genres, counters, nil
}

// OfflineGenres resolves genres from the curated map alone, for runs without
// API credentials. Keys match ArtistGenres.
func OfflineGenres(events []history.Event) map[string][]string {
	genres := make(map[string][]string)
	for _, ev := range events {
		if ev.Artist == "" {
			continue
		}
		key := metacache.Key(ev.Artist)
		if _, ok := genres[key]; ok {
			continue
		}
		if gs := genremap.Lookup(ev.Artist); len(gs) > 0 {
			genres[key] = gs
		}
	}
	return genres
}

func withFallback(artist string, apiGenres []string) []string {
	if len(apiGenres) > 0 {
		return apiGenres
	}
	return genremap.Lookup(artist)
}
