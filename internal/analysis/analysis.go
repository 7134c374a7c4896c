// Package analysis computes listening statistics over a normalized play
// event table. Every function is pure: table in, metric out, no mutation of
// the input, and absent optional data degrades the result instead of
// failing.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ademuri/spotify-history-tools/internal/enrich"
	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/metacache"
)

// days is the heatmap row order.
var days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// dayIndex maps time.Weekday (Sunday-first) onto Monday-first rows.
func dayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Overview computes the high-level summary. An empty table yields zero
// values, not an error.
func Overview(events []history.Event) OverviewStats {
	var stats OverviewStats
	if len(events) == 0 {
		return stats
	}

	artists := make(map[string]bool)
	tracks := make(map[string]bool)
	albums := make(map[string]bool)
	yearStreams := make(map[int]int)
	var totalMs int64

	for _, e := range events {
		totalMs += e.MsPlayed
		yearStreams[e.Year]++
		if e.Artist != "" {
			artists[e.Artist] = true
		}
		if e.Track != "" {
			tracks[e.Track+"\x00"+e.Artist] = true
		}
		if e.Album != "" {
			albums[e.Album+"\x00"+e.Artist] = true
		}
	}

	stats.TotalHours = round1(float64(totalMs) / 3600000)
	stats.TotalDays = round1(float64(totalMs) / 86400000)
	stats.TotalStreams = len(events)
	stats.UniqueArtists = len(artists)
	stats.UniqueTracks = len(tracks)
	stats.UniqueAlbums = len(albums)
	stats.DateRangeStart = events[0].Date
	stats.DateRangeEnd = events[len(events)-1].Date

	for year, count := range yearStreams {
		best := yearStreams[stats.MostActiveYear]
		if count > best || (count == best && (stats.MostActiveYear == 0 || year < stats.MostActiveYear)) {
			stats.MostActiveYear = year
		}
	}
	return stats
}

// Streak finds the longest run of consecutive calendar days with at least
// one play. Ties are broken by the earliest occurrence. The current streak
// is counted back from today.
func Streak(events []history.Event, today time.Time) StreakStats {
	dates := activeDates(events)
	if len(dates) == 0 {
		return StreakStats{}
	}

	longest, current := 1, 1
	bestStart, bestEnd := dates[0], dates[0]
	runStart := dates[0]

	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
				bestStart = runStart
				bestEnd = dates[i]
			}
		} else {
			current = 1
			runStart = dates[i]
		}
	}

	stats := StreakStats{
		LongestDays: longest,
		Start:       bestStart.Format("2006-01-02"),
		End:         bestEnd.Format("2006-01-02"),
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for i := len(dates) - 1; i >= 0; i-- {
		if !dates[i].Equal(day) {
			break
		}
		stats.CurrentDays++
		day = day.AddDate(0, 0, -1)
	}
	return stats
}

// activeDates returns the distinct play dates as UTC midnights, ascending.
func activeDates(events []history.Event) []time.Time {
	seen := make(map[string]bool)
	var dates []time.Time
	for _, e := range events {
		if seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// YearlyTrend returns total hours per year, ascending. Years without plays
// are absent unless fill is set, which zero-fills the interior of the range.
func YearlyTrend(events []history.Event, fill bool) []YearHours {
	hours := make(map[int]float64)
	for _, e := range events {
		hours[e.Year] += e.Hours()
	}
	if len(hours) == 0 {
		return nil
	}

	var years []int
	for y := range hours {
		years = append(years, y)
	}
	sort.Ints(years)

	var trend []YearHours
	if fill {
		for y := years[0]; y <= years[len(years)-1]; y++ {
			trend = append(trend, YearHours{Year: y, Hours: round1(hours[y])})
		}
		return trend
	}
	for _, y := range years {
		trend = append(trend, YearHours{Year: y, Hours: round1(hours[y])})
	}
	return trend
}

// LoyaltyTimeline returns the top artist per year by hours, ties broken
// alphabetically, ordered by year ascending.
func LoyaltyTimeline(events []history.Event) []LoyaltyYear {
	perYear := make(map[int]map[string]float64)
	for _, e := range events {
		if e.Artist == "" {
			continue
		}
		if perYear[e.Year] == nil {
			perYear[e.Year] = make(map[string]float64)
		}
		perYear[e.Year][e.Artist] += e.Hours()
	}

	var years []int
	for y := range perYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var timeline []LoyaltyYear
	for _, y := range years {
		var top string
		var topHours float64
		for artist, h := range perYear[y] {
			if h > topHours || (h == topHours && (top == "" || artist < top)) {
				top = artist
				topHours = h
			}
		}
		timeline = append(timeline, LoyaltyYear{Year: y, Artist: top, Hours: round1(topHours)})
	}
	return timeline
}

// MonthlyBreakdown returns hours per month for one year. All twelve months
// are present; silent months report zero.
func MonthlyBreakdown(events []history.Event, year int) MonthlyStats {
	var byMonth [13]float64
	for _, e := range events {
		if e.Year == year {
			byMonth[int(e.Month)] += e.Hours()
		}
	}

	stats := MonthlyStats{Year: year}
	for m := time.January; m <= time.December; m++ {
		stats.Months = append(stats.Months, MonthHours{
			Month: m.String(),
			Hours: round1(byMonth[int(m)]),
		})
	}
	return stats
}

// Dimension selects what Top ranks over.
type Dimension int

const (
	ByArtist Dimension = iota
	ByTrack
	ByAlbum
)

// Top ranks the top n items of a dimension by total hours, descending, ties
// broken by name ascending. year filters the table when non-zero.
func Top(events []history.Event, dim Dimension, n int, year int) []RankedItem {
	hours := make(map[string]float64)
	for _, e := range events {
		if year != 0 && e.Year != year {
			continue
		}
		var name string
		switch dim {
		case ByArtist:
			name = e.Artist
		case ByTrack:
			name = e.Track
		case ByAlbum:
			name = e.Album
		}
		if name == "" {
			continue
		}
		hours[name] += e.Hours()
	}

	ranked := make([]RankedItem, 0, len(hours))
	for name, h := range hours {
		ranked = append(ranked, RankedItem{Name: name, Hours: h})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Hours != ranked[j].Hours {
			return ranked[i].Hours > ranked[j].Hours
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Hours = round1(ranked[i].Hours)
	}
	return ranked
}

// Heatmap builds the 7x24 hours-per-cell matrix. All 168 cells are always
// present, zero where nothing was played.
func Heatmap(events []history.Event) HeatmapStats {
	stats := HeatmapStats{Days: days}
	for _, e := range events {
		stats.Cells[dayIndex(e.Weekday)][e.Hour] += e.Hours()
	}
	for d := range stats.Cells {
		for h := range stats.Cells[d] {
			stats.Cells[d][h] = round2(stats.Cells[d][h])
		}
	}
	return stats
}

// Skips summarizes skip behavior per artist. Artists with fewer than
// minStreams plays are excluded from the ranking to avoid noise; rates are
// in [0,1] and never NaN.
func Skips(events []history.Event, minStreams int, n int) SkipStats {
	type tally struct {
		streams int
		skips   int
	}
	byArtist := make(map[string]*tally)
	var totalSkips int

	for _, e := range events {
		if e.Skipped {
			totalSkips++
		}
		if e.Artist == "" {
			continue
		}
		t := byArtist[e.Artist]
		if t == nil {
			t = &tally{}
			byArtist[e.Artist] = t
		}
		t.streams++
		if e.Skipped {
			t.skips++
		}
	}

	stats := SkipStats{MinStreams: minStreams}
	if len(events) > 0 {
		stats.OverallRate = round2(float64(totalSkips) / float64(len(events)))
	}

	for artist, t := range byArtist {
		if t.streams < minStreams {
			continue
		}
		stats.MostSkipped = append(stats.MostSkipped, ArtistSkips{
			Artist:  artist,
			Streams: t.streams,
			Skips:   t.skips,
			Rate:    round2(float64(t.skips) / float64(t.streams)),
		})
	}
	sort.Slice(stats.MostSkipped, func(i, j int) bool {
		if stats.MostSkipped[i].Rate != stats.MostSkipped[j].Rate {
			return stats.MostSkipped[i].Rate > stats.MostSkipped[j].Rate
		}
		return stats.MostSkipped[i].Artist < stats.MostSkipped[j].Artist
	})
	if n > 0 && len(stats.MostSkipped) > n {
		stats.MostSkipped = stats.MostSkipped[:n]
	}
	return stats
}

// Platforms groups hours and streams by device category, descending by
// hours.
func Platforms(events []history.Event) []PlatformHours {
	hours := make(map[string]float64)
	streams := make(map[string]int)
	for _, e := range events {
		hours[e.Category] += e.Hours()
		streams[e.Category]++
	}

	var breakdown []PlatformHours
	for category, h := range hours {
		breakdown = append(breakdown, PlatformHours{
			Category: category,
			Hours:    round1(h),
			Streams:  streams[category],
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Hours != breakdown[j].Hours {
			return breakdown[i].Hours > breakdown[j].Hours
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

// BiggestDay finds the single date with the most listening time and what
// was playing.
func BiggestDay(events []history.Event) BiggestDayStats {
	dayHours := make(map[string]float64)
	for _, e := range events {
		dayHours[e.Date] += e.Hours()
	}

	var best string
	var bestHours float64
	for date, h := range dayHours {
		if h > bestHours || (h == bestHours && (best == "" || date < best)) {
			best = date
			bestHours = h
		}
	}
	if best == "" {
		return BiggestDayStats{}
	}

	stats := BiggestDayStats{Date: best, Hours: round1(bestHours)}
	trackHours := make(map[string]float64)
	for _, e := range events {
		if e.Date != best {
			continue
		}
		stats.Streams++
		if e.Track != "" {
			trackHours[e.Track] += e.Hours()
		}
	}

	var tracks []RankedItem
	for track, h := range trackHours {
		tracks = append(tracks, RankedItem{Name: track, Hours: h})
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Hours != tracks[j].Hours {
			return tracks[i].Hours > tracks[j].Hours
		}
		return tracks[i].Name < tracks[j].Name
	})
	for i, t := range tracks {
		if i == 3 {
			break
		}
		stats.TopTracks = append(stats.TopTracks, t.Name)
	}
	return stats
}

// ListeningAge computes the play-time-weighted mean age of the music at the
// moment it was played. Rows without a release year are excluded from the
// weighting, not treated as age zero. Returns nil when nothing is covered.
func ListeningAge(events []history.Event, years map[enrich.TrackKey]int) *AgeStats {
	var weightedAge, weightedYear, totalWeight float64
	stats := &AgeStats{}

	for _, e := range events {
		if !e.HasTrack() {
			continue
		}
		year, ok := years[enrich.NormalizedTrackKey(e.Artist, e.Track)]
		if !ok || year <= 0 {
			stats.Skipped++
			continue
		}
		stats.Covered++

		weight := e.Minutes()
		weightedAge += float64(e.Year-year) * weight
		weightedYear += float64(year) * weight
		totalWeight += weight

		if stats.Oldest.Year == 0 || year < stats.Oldest.Year {
			stats.Oldest = TrackRef{Track: e.Track, Artist: e.Artist, Year: year}
		}
		if year > stats.Newest.Year {
			stats.Newest = TrackRef{Track: e.Track, Artist: e.Artist, Year: year}
		}
	}

	if totalWeight == 0 {
		return nil
	}
	stats.WeightedAgeYears = round1(weightedAge / totalWeight)
	stats.WeightedReleaseYear = round1(weightedYear / totalWeight)
	return stats
}

// Genres distributes each play's hours evenly across its artist's genres
// and returns the top n genres by total hours. Artists with no genre data
// contribute nothing.
func Genres(events []history.Event, genres map[string][]string, n int) []GenreHours {
	hours := make(map[string]float64)
	for _, e := range events {
		if e.Artist == "" {
			continue
		}
		gs := genres[metacache.Key(e.Artist)]
		if len(gs) == 0 {
			continue
		}
		share := e.Hours() / float64(len(gs))
		for _, g := range gs {
			hours[g] += share
		}
	}

	var ranked []GenreHours
	for g, h := range hours {
		ranked = append(ranked, GenreHours{Genre: g, Hours: h})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Hours != ranked[j].Hours {
			return ranked[i].Hours > ranked[j].Hours
		}
		return ranked[i].Genre < ranked[j].Genre
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Hours = round1(ranked[i].Hours)
	}
	return ranked
}

// Personality composes a summary from the other metrics; it introduces no
// new statistical method.
func Personality(events []history.Event) PersonalityStats {
	var stats PersonalityStats
	if len(events) == 0 {
		return stats
	}

	artistStreams := make(map[string]int)
	hourStreams := make(map[int]int)
	monthStreams := make(map[time.Month]int)
	var nightStreams, skips int

	for _, e := range events {
		if e.Artist != "" {
			artistStreams[e.Artist]++
		}
		hourStreams[e.Hour]++
		monthStreams[e.Month]++
		if e.Hour >= 22 || e.Hour < 4 {
			nightStreams++
		}
		if e.Skipped {
			skips++
		}
	}

	for artist, count := range artistStreams {
		if count > artistStreams[stats.MostLoyalArtist] ||
			(count == artistStreams[stats.MostLoyalArtist] && (stats.MostLoyalArtist == "" || artist < stats.MostLoyalArtist)) {
			stats.MostLoyalArtist = artist
		}
	}

	peakHour := 0
	for hour, count := range hourStreams {
		if count > hourStreams[peakHour] || (count == hourStreams[peakHour] && hour < peakHour) {
			peakHour = hour
		}
	}
	stats.PeakHour = fmt.Sprintf("%d:00 - %d:00", peakHour, peakHour+1)

	var peakMonth time.Month
	for month, count := range monthStreams {
		if count > monthStreams[peakMonth] || (count == monthStreams[peakMonth] && (peakMonth == 0 || month < peakMonth)) {
			peakMonth = month
		}
	}
	stats.MostActiveMonth = peakMonth.String()

	stats.NightOwlScore = round1(float64(nightStreams) / float64(len(events)) * 100)
	stats.OverallSkipRate = round2(float64(skips) / float64(len(events)))

	switch {
	case stats.NightOwlScore > 20:
		stats.Style = "Night Owl"
	case peakHour < 10:
		stats.Style = "Early Bird"
	default:
		stats.Style = "Daytime Listener"
	}
	return stats
}
