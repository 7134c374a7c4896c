package analysis

import (
	"fmt"
	"testing"

	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/stats"
)

func TestBucketFor(t *testing.T) {
	cases := map[int]string{
		5:  "morning",
		11: "morning",
		12: "afternoon",
		16: "afternoon",
		17: "evening",
		20: "evening",
		21: "night",
		23: "night",
		0:  "night",
		4:  "night",
	}
	for hour, want := range cases {
		if got := bucketFor(hour); got != want {
			t.Errorf("bucketFor(%d) = %q, want %q", hour, got, want)
		}
	}
}

func TestWeekendVsWeekdaySignificant(t *testing.T) {
	// January 2023: heavy weekend listening, light weekday listening,
	// across four weeks.
	var events []history.Event
	for day := 1; day <= 28; day++ {
		ts := fmt.Sprintf("2023-01-%02dT12:00:00Z", day)
		e := makeEvent(t, ts, "Zedd", "Clarity", hourMs)
		if e.Weekday.String() == "Saturday" || e.Weekday.String() == "Sunday" {
			e.MsPlayed = 4 * hourMs
		}
		// Small per-day jitter so variances are non-zero.
		e.MsPlayed += int64(day * 60000)
		events = append(events, e)
	}

	report := WeekendVsWeekday(events, 0.05, stats.Gonum{})
	if report.Inconclusive {
		t.Fatal("Expected a conclusive result")
	}
	if !report.Significant {
		t.Errorf("Expected significance, got p=%f", report.PValue)
	}
	if report.WeekendMeanMinutes <= report.WeekdayMeanMinutes {
		t.Errorf("Expected weekend mean above weekday mean, got %f and %f",
			report.WeekendMeanMinutes, report.WeekdayMeanMinutes)
	}
	if report.Interpretation == "" {
		t.Error("Expected a non-empty interpretation")
	}
}

func TestWeekendVsWeekdayInconclusive(t *testing.T) {
	// A single listening day cannot support the test.
	events := []history.Event{
		makeEvent(t, "2023-01-02T12:00:00Z", "Zedd", "Clarity", hourMs),
	}

	report := WeekendVsWeekday(events, 0.05, stats.Gonum{})
	if !report.Inconclusive {
		t.Error("Expected inconclusive result")
	}
	if report.Significant {
		t.Error("Inconclusive result must not be significant")
	}
	if report.Interpretation == "" {
		t.Error("Expected an interpretation even when inconclusive")
	}
}

func TestWeekendVsWeekdayEmpty(t *testing.T) {
	report := WeekendVsWeekday(nil, 0.05, stats.Gonum{})
	if !report.Inconclusive {
		t.Error("Expected inconclusive result for empty input")
	}
}

func TestTimeOfDaySignificant(t *testing.T) {
	// Evenings dominate: every day has a long evening session and a short
	// morning one.
	var events []history.Event
	for day := 1; day <= 14; day++ {
		morning := makeEvent(t, fmt.Sprintf("2023-01-%02dT08:00:00Z", day), "Zedd", "Clarity", 10*60000)
		evening := makeEvent(t, fmt.Sprintf("2023-01-%02dT19:00:00Z", day), "Zedd", "Clarity", 3*hourMs)
		morning.MsPlayed += int64(day * 1000)
		evening.MsPlayed += int64(day * 1000)
		events = append(events, morning, evening)
	}

	report := TimeOfDay(events, 0.05, stats.Gonum{})
	if report.Inconclusive {
		t.Fatal("Expected a conclusive result")
	}
	if !report.Significant {
		t.Errorf("Expected significance, got p=%f", report.PValue)
	}
	if report.Dominant != "evening" {
		t.Errorf("Expected evening dominant, got %q", report.Dominant)
	}
	if len(report.Buckets) != 4 {
		t.Fatalf("Expected all 4 buckets reported, got %d", len(report.Buckets))
	}
	for _, b := range report.Buckets {
		if b.Bucket == "night" && b.MeanMinutes != 0 {
			t.Errorf("Expected empty night bucket, got %f", b.MeanMinutes)
		}
	}
}

func TestTimeOfDayInconclusive(t *testing.T) {
	// Only one bucket has data.
	events := []history.Event{
		makeEvent(t, "2023-01-01T08:00:00Z", "Zedd", "Clarity", hourMs),
		makeEvent(t, "2023-01-02T08:00:00Z", "Zedd", "Clarity", hourMs),
	}

	report := TimeOfDay(events, 0.05, stats.Gonum{})
	if !report.Inconclusive {
		t.Error("Expected inconclusive result with a single populated bucket")
	}
	if len(report.Buckets) != 4 {
		t.Errorf("Expected all 4 buckets even when inconclusive, got %d", len(report.Buckets))
	}
}

func TestTimeOfDayEmpty(t *testing.T) {
	report := TimeOfDay(nil, 0.05, stats.Gonum{})
	if !report.Inconclusive {
		t.Error("Expected inconclusive result for empty input")
	}
}
