// Package history loads Spotify extended streaming history exports into a
// normalized, analysis-ready table of play events.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Event is one normalized streaming record. Events are built once during
// loading and treated as read-only afterwards.
type Event struct {
	Timestamp time.Time
	Track     string
	Artist    string
	Album     string
	TrackURI  string
	Platform  string
	Category  string
	MsPlayed  int64
	Skipped   bool

	// Calendar fields, derived once at load time.
	Date    string
	Year    int
	Month   time.Month
	Weekday time.Weekday
	Hour    int
}

// Minutes returns the play duration in minutes.
func (e Event) Minutes() float64 {
	return float64(e.MsPlayed) / 60000
}

// Hours returns the play duration in hours.
func (e Event) Hours() float64 {
	return float64(e.MsPlayed) / 3600000
}

// HasTrack reports whether the event carries a track identity. Podcast and
// audiobook remnants in the export have neither track nor artist.
func (e Event) HasTrack() bool {
	return e.Track != "" || e.Artist != ""
}

// LoadReport summarizes what the loader did with the raw records, so callers
// can surface drops instead of silently discarding them.
type LoadReport struct {
	Files      int
	RawRecords int
	Dropped    int // missing/invalid timestamp or negative ms_played
	Duplicates int
	NonMusic   int // retained rows with no track identity
}

// rawRecord matches the field names in Streaming_History_Audio*.json files.
// Null string fields decode to "".
type rawRecord struct {
	Timestamp string `json:"ts"`
	Platform  string `json:"platform"`
	MsPlayed  int64  `json:"ms_played"`
	Track     string `json:"master_metadata_track_name"`
	Artist    string `json:"master_metadata_album_artist_name"`
	Album     string `json:"master_metadata_album_album_name"`
	TrackURI  string `json:"spotify_track_uri"`
	Skipped   bool   `json:"skipped"`
}

// LoadDir loads every Streaming_History_Audio*.json file in dir.
func LoadDir(dir string) ([]Event, LoadReport, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("data directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, LoadReport{}, fmt.Errorf("data path %q is not a directory", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "Streaming_History_Audio*.json"))
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("globbing %q: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, LoadReport{}, fmt.Errorf("no streaming history files found in %q", dir)
	}
	sort.Strings(paths)

	return LoadFiles(paths...)
}

// LoadFiles parses and cleans one or more export documents into a single
// table, sorted ascending by timestamp. A document that is not a JSON array
// of records is a fatal error; invalid individual rows are dropped and
// counted in the report.
func LoadFiles(paths ...string) ([]Event, LoadReport, error) {
	var raw []rawRecord
	report := LoadReport{Files: len(paths)}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, report, fmt.Errorf("reading %q: %w", path, err)
		}
		var records []rawRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, report, fmt.Errorf("parsing %q: %w", path, err)
		}
		raw = append(raw, records...)
	}

	report.RawRecords = len(raw)
	events := clean(raw, &report)
	return events, report, nil
}

func clean(raw []rawRecord, report *LoadReport) []Event {
	events := make([]Event, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, r := range raw {
		if r.MsPlayed < 0 {
			report.Dropped++
			continue
		}
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			report.Dropped++
			continue
		}
		ts = ts.UTC()

		platform := strings.ToLower(strings.TrimSpace(r.Platform))

		// Exact duplicates: same timestamp, track, and platform.
		key := r.Timestamp + "\x00" + r.Track + "\x00" + platform
		if seen[key] {
			report.Duplicates++
			continue
		}
		seen[key] = true

		e := Event{
			Timestamp: ts,
			Track:     r.Track,
			Artist:    r.Artist,
			Album:     r.Album,
			TrackURI:  r.TrackURI,
			Platform:  platform,
			Category:  CategorizePlatform(platform),
			MsPlayed:  r.MsPlayed,
			Skipped:   r.Skipped,
			Date:      ts.Format("2006-01-02"),
			Year:      ts.Year(),
			Month:     ts.Month(),
			Weekday:   ts.Weekday(),
			Hour:      ts.Hour(),
		}
		if !e.HasTrack() {
			report.NonMusic++
		}
		events = append(events, e)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events
}

// CategorizePlatform maps the export's inconsistent platform strings into a
// small set of device categories. Unrecognized strings bucket into "other".
func CategorizePlatform(platform string) string {
	p := strings.ToLower(platform)

	switch {
	case containsAny(p, "android", "ios", "iphone", "mobile"):
		return "mobile"
	case containsAny(p, "windows", "mac", "linux", "desktop"):
		return "desktop"
	case strings.Contains(p, "web"):
		return "web"
	case containsAny(p, "cast", "tv", "speaker"):
		return "smart device"
	default:
		return "other"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
