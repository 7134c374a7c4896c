package enrich

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/metacache"
)

type fakeClient struct {
	years       map[string]int
	genres      map[string][]string
	trackCalls  [][]string
	genreCalls  []string
	failTracks  bool
	failArtists bool
}

func (f *fakeClient) TrackReleaseYears(ctx context.Context, ids []string) (map[string]int, error) {
	f.trackCalls = append(f.trackCalls, ids)
	if f.failTracks {
		return nil, fmt.Errorf("api unavailable")
	}
	results := make(map[string]int)
	for _, id := range ids {
		if year, ok := f.years[id]; ok {
			results[id] = year
		}
	}
	return results, nil
}

func (f *fakeClient) ArtistGenres(ctx context.Context, name string) ([]string, error) {
	f.genreCalls = append(f.genreCalls, name)
	if f.failArtists {
		return nil, fmt.Errorf("api unavailable")
	}
	return f.genres[name], nil
}

func createTestEnricher(t *testing.T, client *fakeClient) *Enricher {
	t.Helper()
	cache, err := metacache.New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("metacache.New: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return &Enricher{Cache: cache, Client: client, Log: &bytes.Buffer{}}
}

func trackEvent(artist, track, id string) history.Event {
	return history.Event{
		Artist:   artist,
		Track:    track,
		TrackURI: "spotify:track:" + id,
	}
}

func TestTrackReleaseYearsCacheFirst(t *testing.T) {
	client := &fakeClient{years: map[string]int{}}
	enricher := createTestEnricher(t, client)

	// 10 distinct tracks, 7 already cached.
	var events []history.Event
	var cached []metacache.TrackRelease
	for i := 0; i < 10; i++ {
		artist := fmt.Sprintf("Artist %d", i)
		track := fmt.Sprintf("Track %d", i)
		id := fmt.Sprintf("id%d", i)
		events = append(events, trackEvent(artist, track, id))
		if i < 7 {
			cached = append(cached, metacache.TrackRelease{Artist: artist, Track: track, Year: 2000 + i})
		} else {
			client.years[id] = 2010 + i
		}
	}
	if err := enricher.Cache.PutTracks(cached); err != nil {
		t.Fatalf("PutTracks: %v", err)
	}

	years, counters, err := enricher.TrackReleaseYears(context.Background(), events)
	if err != nil {
		t.Fatalf("TrackReleaseYears: %v", err)
	}

	if counters.CacheHits != 7 {
		t.Errorf("Expected 7 cache hits, got %d", counters.CacheHits)
	}
	if counters.Fetched != 3 {
		t.Errorf("Expected 3 fetched, got %d", counters.Fetched)
	}
	if len(client.trackCalls) != 1 {
		t.Fatalf("Expected 1 batch call, got %d", len(client.trackCalls))
	}
	if len(client.trackCalls[0]) != 3 {
		t.Errorf("Expected only the 3 misses to be fetched, got %v", client.trackCalls[0])
	}
	if len(years) != 10 {
		t.Errorf("Expected all 10 tracks resolved, got %d", len(years))
	}
}

func TestTrackReleaseYearsSecondRunAllCached(t *testing.T) {
	client := &fakeClient{years: map[string]int{"id0": 2015}}
	enricher := createTestEnricher(t, client)
	events := []history.Event{trackEvent("Zedd", "Clarity", "id0")}

	if _, _, err := enricher.TrackReleaseYears(context.Background(), events); err != nil {
		t.Fatalf("First run: %v", err)
	}

	_, counters, err := enricher.TrackReleaseYears(context.Background(), events)
	if err != nil {
		t.Fatalf("Second run: %v", err)
	}
	if counters.CacheHits != 1 || counters.Fetched != 0 {
		t.Errorf("Expected second run to be fully cached, got %+v", counters)
	}
	if len(client.trackCalls) != 1 {
		t.Errorf("Expected no new API calls on second run, got %d", len(client.trackCalls))
	}
}

func TestTrackReleaseYearsFailureContinues(t *testing.T) {
	client := &fakeClient{failTracks: true}
	enricher := createTestEnricher(t, client)
	events := []history.Event{
		trackEvent("Zedd", "Clarity", "id0"),
		trackEvent("Sia", "Titanium", "id1"),
	}

	years, counters, err := enricher.TrackReleaseYears(context.Background(), events)
	if err != nil {
		t.Fatalf("Expected run to survive API failure, got %v", err)
	}
	if counters.Failed != 2 {
		t.Errorf("Expected 2 failures, got %d", counters.Failed)
	}
	if len(years) != 0 {
		t.Errorf("Expected no years, got %v", years)
	}
}

func TestTrackReleaseYearsDuplicateEvents(t *testing.T) {
	client := &fakeClient{years: map[string]int{"id0": 2015}}
	enricher := createTestEnricher(t, client)
	events := []history.Event{
		trackEvent("Zedd", "Clarity", "id0"),
		trackEvent("Zedd", "Clarity", "id0"),
		trackEvent("zedd", "clarity", "id0"),
	}

	_, counters, err := enricher.TrackReleaseYears(context.Background(), events)
	if err != nil {
		t.Fatalf("TrackReleaseYears: %v", err)
	}
	if counters.Fetched != 1 {
		t.Errorf("Expected 1 fetch for repeated track, got %d", counters.Fetched)
	}
}

func TestArtistGenresOverrideWins(t *testing.T) {
	// Fela Kuti is overridden in the curated map; the API must not be asked.
	client := &fakeClient{genres: map[string][]string{"Fela Kuti": {"world"}}}
	enricher := createTestEnricher(t, client)
	events := []history.Event{{Artist: "Fela Kuti", Track: "Zombie"}}

	genres, _, err := enricher.ArtistGenres(context.Background(), events)
	if err != nil {
		t.Fatalf("ArtistGenres: %v", err)
	}
	if len(client.genreCalls) != 0 {
		t.Errorf("Expected no API calls for overridden artist, got %v", client.genreCalls)
	}
	got := genres[metacache.Key("Fela Kuti")]
	if len(got) == 0 || got[0] != "afrobeats" {
		t.Errorf("Expected curated genres, got %v", got)
	}
}

func TestArtistGenresAPIWins(t *testing.T) {
	// Eminem is curated but not overridden, so API data takes precedence.
	client := &fakeClient{genres: map[string][]string{"Eminem": {"detroit hip hop"}}}
	enricher := createTestEnricher(t, client)
	events := []history.Event{{Artist: "Eminem", Track: "Stan"}}

	genres, _, err := enricher.ArtistGenres(context.Background(), events)
	if err != nil {
		t.Fatalf("ArtistGenres: %v", err)
	}
	got := genres[metacache.Key("Eminem")]
	if len(got) != 1 || got[0] != "detroit hip hop" {
		t.Errorf("Expected API genres to win, got %v", got)
	}
}

func TestArtistGenresEmptyAPIFallsBack(t *testing.T) {
	client := &fakeClient{}
	enricher := createTestEnricher(t, client)
	events := []history.Event{{Artist: "Eminem", Track: "Stan"}}

	genres, _, err := enricher.ArtistGenres(context.Background(), events)
	if err != nil {
		t.Fatalf("ArtistGenres: %v", err)
	}
	got := genres[metacache.Key("Eminem")]
	if len(got) == 0 || got[0] != "hip hop" {
		t.Errorf("Expected curated fallback for empty API result, got %v", got)
	}
}

func TestArtistGenresFailureFallsBack(t *testing.T) {
	client := &fakeClient{failArtists: true}
	enricher := createTestEnricher(t, client)
	events := []history.Event{
		{Artist: "Eminem", Track: "Stan"},
		{Artist: "Completely Unknown Artist", Track: "Mystery"},
	}

	genres, counters, err := enricher.ArtistGenres(context.Background(), events)
	if err != nil {
		t.Fatalf("Expected run to survive API failure, got %v", err)
	}
	if counters.Failed != 2 {
		t.Errorf("Expected 2 failures, got %d", counters.Failed)
	}
	if len(genres[metacache.Key("Eminem")]) == 0 {
		t.Error("Expected curated fallback for Eminem")
	}
	if _, ok := genres[metacache.Key("Completely Unknown Artist")]; ok {
		// withFallback returns nil for unknown artists; the key maps to an
		// empty entry.
		if len(genres[metacache.Key("Completely Unknown Artist")]) != 0 {
			t.Error("Expected no genres for unknown artist")
		}
	}
}

func TestArtistGenresCached(t *testing.T) {
	client := &fakeClient{genres: map[string][]string{"Zedd": {"edm"}}}
	enricher := createTestEnricher(t, client)
	events := []history.Event{{Artist: "Zedd", Track: "Clarity"}}

	if _, _, err := enricher.ArtistGenres(context.Background(), events); err != nil {
		t.Fatalf("First run: %v", err)
	}
	_, counters, err := enricher.ArtistGenres(context.Background(), events)
	if err != nil {
		t.Fatalf("Second run: %v", err)
	}
	if counters.CacheHits != 1 {
		t.Errorf("Expected cache hit on second run, got %+v", counters)
	}
	if len(client.genreCalls) != 1 {
		t.Errorf("Expected 1 API call total, got %d", len(client.genreCalls))
	}
}

func TestOfflineGenres(t *testing.T) {
	events := []history.Event{
		{Artist: "Eminem", Track: "Stan"},
		{Artist: "Completely Unknown Artist", Track: "Mystery"},
		{Artist: "", Track: ""},
	}

	genres := OfflineGenres(events)
	if len(genres[metacache.Key("Eminem")]) == 0 {
		t.Error("Expected curated genres for Eminem")
	}
	if _, ok := genres[metacache.Key("Completely Unknown Artist")]; ok {
		t.Error("Expected no entry for unknown artist")
	}
	if len(genres) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(genres))
	}
}
