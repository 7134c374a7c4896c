package analysis

// Report is the top-level structure assembled from a listening history,
// encoded as YAML by the report command and rendered as HTML by the email
// command.
type Report struct {
	Overview    OverviewStats    `yaml:"overview"`
	Streak      StreakStats      `yaml:"streak"`
	BiggestDay  BiggestDayStats  `yaml:"biggest_day"`
	YearlyTrend []YearHours      `yaml:"yearly_trend"`
	Loyalty     []LoyaltyYear    `yaml:"artist_loyalty_timeline"`
	Monthly     MonthlyStats     `yaml:"monthly_breakdown"`
	TopArtists  []RankedItem     `yaml:"top_artists"`
	TopTracks   []RankedItem     `yaml:"top_tracks"`
	TopAlbums   []RankedItem     `yaml:"top_albums"`
	Heatmap     HeatmapStats     `yaml:"heatmap"`
	Skips       SkipStats        `yaml:"skip_analysis"`
	Platforms   []PlatformHours  `yaml:"platform_breakdown"`
	Age         *AgeStats        `yaml:"listening_age,omitempty"`
	Genres      []GenreHours     `yaml:"top_genres,omitempty"`
	Weekend     WeekendStats     `yaml:"weekend_vs_weekday"`
	TimeOfDay   TimeOfDayStats   `yaml:"time_of_day"`
	Personality PersonalityStats `yaml:"personality"`
}

type OverviewStats struct {
	TotalHours     float64 `yaml:"total_hours"`
	TotalDays      float64 `yaml:"total_days"`
	TotalStreams   int     `yaml:"total_streams"`
	UniqueArtists  int     `yaml:"unique_artists"`
	UniqueTracks   int     `yaml:"unique_tracks"`
	UniqueAlbums   int     `yaml:"unique_albums"`
	DateRangeStart string  `yaml:"date_range_start,omitempty"`
	DateRangeEnd   string  `yaml:"date_range_end,omitempty"`
	MostActiveYear int     `yaml:"most_active_year,omitempty"`
}

type StreakStats struct {
	LongestDays int    `yaml:"longest_days"`
	Start       string `yaml:"start,omitempty"`
	End         string `yaml:"end,omitempty"`
	CurrentDays int    `yaml:"current_days"`
}

type BiggestDayStats struct {
	Date      string   `yaml:"date,omitempty"`
	Hours     float64  `yaml:"hours"`
	Streams   int      `yaml:"streams"`
	TopTracks []string `yaml:"top_tracks,omitempty"`
}

type YearHours struct {
	Year  int     `yaml:"year"`
	Hours float64 `yaml:"hours"`
}

type LoyaltyYear struct {
	Year   int     `yaml:"year"`
	Artist string  `yaml:"artist"`
	Hours  float64 `yaml:"hours"`
}

type MonthHours struct {
	Month string  `yaml:"month"`
	Hours float64 `yaml:"hours"`
}

// MonthlyStats always carries all twelve months of the selected year,
// zero-valued where nothing was played.
type MonthlyStats struct {
	Year   int          `yaml:"year"`
	Months []MonthHours `yaml:"months"`
}

type RankedItem struct {
	Name  string  `yaml:"name"`
	Hours float64 `yaml:"hours"`
}

// HeatmapStats is a 7x24 matrix of listening hours, Monday-first.
type HeatmapStats struct {
	Days  []string       `yaml:"days,flow"`
	Cells [7][24]float64 `yaml:"cells,flow"`
}

type ArtistSkips struct {
	Artist  string  `yaml:"artist"`
	Streams int     `yaml:"streams"`
	Skips   int     `yaml:"skips"`
	Rate    float64 `yaml:"rate"`
}

type SkipStats struct {
	OverallRate float64       `yaml:"overall_rate"`
	MinStreams  int           `yaml:"min_streams"`
	MostSkipped []ArtistSkips `yaml:"most_skipped,omitempty"`
}

type PlatformHours struct {
	Category string  `yaml:"category"`
	Hours    float64 `yaml:"hours"`
	Streams  int     `yaml:"streams"`
}

type TrackRef struct {
	Track  string `yaml:"track"`
	Artist string `yaml:"artist"`
	Year   int    `yaml:"year"`
}

// AgeStats is the play-time-weighted age of the music listened to. Rows
// without release data are excluded from the weighting; Covered and Skipped
// report how much of the table contributed.
type AgeStats struct {
	WeightedAgeYears    float64  `yaml:"weighted_age_years"`
	WeightedReleaseYear float64  `yaml:"weighted_release_year"`
	Oldest              TrackRef `yaml:"oldest"`
	Newest              TrackRef `yaml:"newest"`
	Covered             int      `yaml:"streams_covered"`
	Skipped             int      `yaml:"streams_without_release_date"`
}

type GenreHours struct {
	Genre string  `yaml:"genre"`
	Hours float64 `yaml:"hours"`
}

type WeekendStats struct {
	WeekdayMeanMinutes float64 `yaml:"weekday_mean_minutes"`
	WeekendMeanMinutes float64 `yaml:"weekend_mean_minutes"`
	TStat              float64 `yaml:"t_statistic"`
	PValue             float64 `yaml:"p_value"`
	DF                 float64 `yaml:"degrees_of_freedom"`
	Welch              bool    `yaml:"welch_correction"`
	Alpha              float64 `yaml:"alpha"`
	Significant        bool    `yaml:"significant"`
	Inconclusive       bool    `yaml:"inconclusive"`
	Interpretation     string  `yaml:"interpretation"`
}

type BucketMinutes struct {
	Bucket      string  `yaml:"bucket"`
	MeanMinutes float64 `yaml:"mean_minutes_per_day"`
}

type TimeOfDayStats struct {
	Buckets        []BucketMinutes `yaml:"buckets"`
	Dominant       string          `yaml:"dominant,omitempty"`
	FStat          float64         `yaml:"f_statistic"`
	PValue         float64         `yaml:"p_value"`
	Alpha          float64         `yaml:"alpha"`
	Significant    bool            `yaml:"significant"`
	Inconclusive   bool            `yaml:"inconclusive"`
	Interpretation string          `yaml:"interpretation"`
}

type PersonalityStats struct {
	MostLoyalArtist string  `yaml:"most_loyal_artist,omitempty"`
	PeakHour        string  `yaml:"peak_hour,omitempty"`
	NightOwlScore   float64 `yaml:"night_owl_score"`
	MostActiveMonth string  `yaml:"most_active_month,omitempty"`
	OverallSkipRate float64 `yaml:"overall_skip_rate"`
	Style           string  `yaml:"listening_style,omitempty"`
}
