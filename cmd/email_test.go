package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/ademuri/spotify-history-tools/internal/analysis"
)

func TestGenerateEmailContent(t *testing.T) {
	config := SendEmailConfig{
		From:  "tools@example.com",
		To:    "user@example.com",
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	report := analysis.Report{
		Overview: analysis.OverviewStats{
			TotalHours:    42.5,
			TotalStreams:  100,
			UniqueArtists: 10,
			UniqueTracks:  50,
		},
		TopArtists: []analysis.RankedItem{{Name: "Zedd", Hours: 12.5}},
		TopTracks:  []analysis.RankedItem{{Name: "Clarity", Hours: 6.0}},
		Personality: analysis.PersonalityStats{
			Style:    "Daytime Listener",
			PeakHour: "14:00 - 15:00",
		},
	}

	subject, body := generateEmailContent(config, report)
	if !strings.Contains(subject, "2023-01-01") || !strings.Contains(subject, "2023-02-01") {
		t.Errorf("Expected date range in subject, got %q", subject)
	}
	if !strings.Contains(body, "<html>") {
		t.Error("Expected HTML body")
	}
	if !strings.Contains(body, "Zedd") {
		t.Errorf("Expected top artist in body:\n%s", body)
	}
	if !strings.Contains(body, "Daytime Listener") {
		t.Errorf("Expected listening style in body:\n%s", body)
	}
}

func TestGenerateEmailContentEmpty(t *testing.T) {
	config := SendEmailConfig{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	_, body := generateEmailContent(config, analysis.Report{})
	if !strings.Contains(body, "No listens found") {
		t.Errorf("Expected empty-result message:\n%s", body)
	}
}
