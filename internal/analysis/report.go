package analysis

import (
	"time"

	"github.com/ademuri/spotify-history-tools/internal/enrich"
	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/stats"
)

const (
	defaultTopN       = 10
	defaultMinStreams = 20
	defaultAlpha      = 0.05
)

// Options configures report generation. The zero value produces a full
// report with defaults; TrackYears and ArtistGenres are optional enrichment
// and their sections are omitted or empty when absent.
type Options struct {
	// Year selects the monthly breakdown; zero means the latest year in
	// the data.
	Year int

	// MinStreams is the floor for the skip ranking; zero means 20.
	MinStreams int

	// Alpha is the significance level for the hypothesis tests; zero
	// means 0.05.
	Alpha float64

	Backend      stats.Backend
	TrackYears   map[enrich.TrackKey]int
	ArtistGenres map[string][]string

	// Now anchors the current-streak calculation; zero means time.Now().
	Now time.Time
}

// GenerateReport runs every analysis over the event table.
func GenerateReport(events []history.Event, opts Options) Report {
	if opts.MinStreams == 0 {
		opts.MinStreams = defaultMinStreams
	}
	if opts.Alpha == 0 {
		opts.Alpha = defaultAlpha
	}
	if opts.Backend == nil {
		opts.Backend = stats.Gonum{}
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Year == 0 && len(events) > 0 {
		opts.Year = events[len(events)-1].Year
	}

	report := Report{
		Overview:    Overview(events),
		Streak:      Streak(events, opts.Now),
		BiggestDay:  BiggestDay(events),
		YearlyTrend: YearlyTrend(events, true),
		Loyalty:     LoyaltyTimeline(events),
		Monthly:     MonthlyBreakdown(events, opts.Year),
		TopArtists:  Top(events, ByArtist, defaultTopN, 0),
		TopTracks:   Top(events, ByTrack, defaultTopN, 0),
		TopAlbums:   Top(events, ByAlbum, defaultTopN, 0),
		Heatmap:     Heatmap(events),
		Skips:       Skips(events, opts.MinStreams, defaultTopN),
		Platforms:   Platforms(events),
		Weekend:     WeekendVsWeekday(events, opts.Alpha, opts.Backend),
		TimeOfDay:   TimeOfDay(events, opts.Alpha, opts.Backend),
		Personality: Personality(events),
	}

	if opts.TrackYears != nil {
		report.Age = ListeningAge(events, opts.TrackYears)
	}
	if opts.ArtistGenres != nil {
		report.Genres = Genres(events, opts.ArtistGenres, defaultTopN)
	}
	return report
}
