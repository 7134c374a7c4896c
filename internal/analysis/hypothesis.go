package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/stats"
)

// buckets is the fixed time-of-day partition, in report order. Night wraps
// around midnight.
var buckets = []struct {
	name     string
	from, to int
}{
	{"morning", 5, 11},
	{"afternoon", 12, 16},
	{"evening", 17, 20},
	{"night", 21, 4},
}

func bucketFor(hour int) string {
	for _, b := range buckets {
		if b.from <= b.to {
			if hour >= b.from && hour <= b.to {
				return b.name
			}
		} else if hour >= b.from || hour <= b.to {
			return b.name
		}
	}
	return "night"
}

// dailyMinutes sums listening minutes per calendar day. The unit of
// observation for both hypothesis tests is a day, not a stream.
func dailyMinutes(events []history.Event) map[string]float64 {
	minutes := make(map[string]float64)
	for _, e := range events {
		minutes[e.Date] += e.Minutes()
	}
	return minutes
}

// WeekendVsWeekday tests whether daily listening time differs between
// weekends and weekdays, at significance level alpha.
func WeekendVsWeekday(events []history.Event, alpha float64, backend stats.Backend) WeekendStats {
	report := WeekendStats{Alpha: alpha}

	var weekday, weekend []float64
	for date, minutes := range dailyMinutes(events) {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			weekend = append(weekend, minutes)
		} else {
			weekday = append(weekday, minutes)
		}
	}

	result, err := backend.TwoSampleTTest(weekday, weekend)
	if err != nil {
		report.Inconclusive = true
		report.Interpretation = "not enough listening days to compare weekends against weekdays"
		return report
	}

	report.WeekdayMeanMinutes = round1(result.MeanA)
	report.WeekendMeanMinutes = round1(result.MeanB)
	report.TStat = round2(result.TStat)
	report.PValue = result.PValue
	report.DF = round1(result.DF)
	report.Welch = result.Welch
	report.Significant = result.PValue < alpha

	more, less := "weekends", "weekdays"
	if result.MeanA > result.MeanB {
		more, less = "weekdays", "weekends"
	}
	if report.Significant {
		report.Interpretation = fmt.Sprintf(
			"you listen significantly more on %s than on %s (p=%.4f)", more, less, result.PValue)
	} else {
		report.Interpretation = fmt.Sprintf(
			"no significant difference between weekend and weekday listening (p=%.4f)", result.PValue)
	}
	return report
}

// TimeOfDay tests whether daily listening minutes differ across the four
// fixed time-of-day buckets, using a one-way ANOVA at level alpha.
func TimeOfDay(events []history.Event, alpha float64, backend stats.Backend) TimeOfDayStats {
	report := TimeOfDayStats{Alpha: alpha}

	// Per-day minutes within each bucket. A day contributes an observation
	// to a bucket only if it has plays in that bucket.
	perBucket := make(map[string]map[string]float64)
	for _, e := range events {
		b := bucketFor(e.Hour)
		if perBucket[b] == nil {
			perBucket[b] = make(map[string]float64)
		}
		perBucket[b][e.Date] += e.Minutes()
	}

	groups := make([][]float64, 0, len(buckets))
	var bestMean float64
	for _, b := range buckets {
		var sample []float64
		var dates []string
		for date := range perBucket[b.name] {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		var total float64
		for _, date := range dates {
			minutes := perBucket[b.name][date]
			sample = append(sample, minutes)
			total += minutes
		}

		var mean float64
		if len(sample) > 0 {
			mean = total / float64(len(sample))
		}
		report.Buckets = append(report.Buckets, BucketMinutes{
			Bucket:      b.name,
			MeanMinutes: round1(mean),
		})
		if report.Dominant == "" || mean > bestMean {
			report.Dominant = b.name
			bestMean = mean
		}
		groups = append(groups, sample)
	}

	result, err := backend.OneWayANOVA(groups...)
	if err != nil {
		report.Inconclusive = true
		report.Interpretation = "not enough listening days to compare times of day"
		return report
	}

	report.FStat = round2(result.FStat)
	report.PValue = result.PValue
	report.Significant = result.PValue < alpha
	if report.Significant {
		report.Interpretation = fmt.Sprintf(
			"listening time differs significantly across times of day, peaking in the %s (p=%.4f)",
			report.Dominant, result.PValue)
	} else {
		report.Interpretation = fmt.Sprintf(
			"listening time is spread evenly across times of day (p=%.4f)", result.PValue)
	}
	return report
}
