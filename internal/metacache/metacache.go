// Package metacache is a local memo of metadata fetched from the Spotify
// API, so repeated runs don't re-fetch tracks and artists already seen.
// Entries never expire.
package metacache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const create = `
CREATE TABLE IF NOT EXISTS TrackMeta (
  artist TEXT NOT NULL,
  track TEXT NOT NULL,
  release_year INTEGER,
  fetched DATETIME,
  PRIMARY KEY (artist, track)
);

CREATE TABLE IF NOT EXISTS Artist (
  name TEXT PRIMARY KEY,
  fetched DATETIME
);

CREATE TABLE IF NOT EXISTS ArtistGenre (
  artist TEXT NOT NULL,
  genre TEXT NOT NULL,
  FOREIGN KEY (artist) REFERENCES Artist(name),
  PRIMARY KEY (artist, genre)
);
`

type Cache struct {
	db *sql.DB
}

// TrackRelease is one cached track lookup. Year 0 means the API had no
// usable release date; the row still counts as fetched.
type TrackRelease struct {
	Artist string
	Track  string
	Year   int
}

// ArtistGenres is one cached artist lookup. An empty genre list still counts
// as fetched, so the artist isn't searched again next run.
type ArtistGenres struct {
	Artist string
	Genres []string
}

func New(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	if _, err := db.Exec(create); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache tables: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key normalizes an identity component for cache lookups, shared with the
// enrichment layer so hits don't depend on export casing.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GetTrack returns the cached release year for a track and whether the track
// has been fetched before.
func (c *Cache) GetTrack(artist, track string) (int, bool, error) {
	var year sql.NullInt64
	err := c.db.QueryRow(
		"SELECT release_year FROM TrackMeta WHERE artist = ? AND track = ?",
		Key(artist), Key(track),
	).Scan(&year)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading track %q - %q: %w", artist, track, err)
	}
	return int(year.Int64), true, nil
}

// PutTracks stores a batch of track lookups transactionally. Repeated keys
// overwrite: values are idempotent fetches, so last writer wins.
func (c *Cache) PutTracks(releases []TrackRelease) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, r := range releases {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO TrackMeta (artist, track, release_year, fetched) VALUES (?, ?, ?, ?)",
			Key(r.Artist), Key(r.Track), r.Year, now,
		)
		if err != nil {
			return fmt.Errorf("caching track %q - %q: %w", r.Artist, r.Track, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing track batch: %w", err)
	}
	return nil
}

// GetArtist returns the cached genres for an artist and whether the artist
// has been fetched before.
func (c *Cache) GetArtist(artist string) ([]string, bool, error) {
	var fetched sql.NullTime
	err := c.db.QueryRow("SELECT fetched FROM Artist WHERE name = ?", Key(artist)).Scan(&fetched)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading artist %q: %w", artist, err)
	}

	rows, err := c.db.Query("SELECT genre FROM ArtistGenre WHERE artist = ? ORDER BY genre", Key(artist))
	if err != nil {
		return nil, false, fmt.Errorf("reading genres for %q: %w", artist, err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, false, fmt.Errorf("scanning genre for %q: %w", artist, err)
		}
		genres = append(genres, g)
	}
	return genres, true, rows.Err()
}

// PutArtists stores a batch of artist genre lookups transactionally,
// replacing any previous genre rows for each artist.
func (c *Cache) PutArtists(results []ArtistGenres) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, r := range results {
		key := Key(r.Artist)
		if _, err := tx.Exec("INSERT OR REPLACE INTO Artist (name, fetched) VALUES (?, ?)", key, now); err != nil {
			return fmt.Errorf("caching artist %q: %w", r.Artist, err)
		}
		if _, err := tx.Exec("DELETE FROM ArtistGenre WHERE artist = ?", key); err != nil {
			return fmt.Errorf("clearing genres for %q: %w", r.Artist, err)
		}
		for _, g := range r.Genres {
			if _, err := tx.Exec("INSERT OR IGNORE INTO ArtistGenre (artist, genre) VALUES (?, ?)", key, g); err != nil {
				return fmt.Errorf("caching genre %q for %q: %w", g, r.Artist, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing artist batch: %w", err)
	}
	return nil
}

// Counts returns the number of cached tracks and artists, for run summaries.
func (c *Cache) Counts() (tracks int, artists int, err error) {
	if err = c.db.QueryRow("SELECT COUNT(*) FROM TrackMeta").Scan(&tracks); err != nil {
		return 0, 0, fmt.Errorf("counting tracks: %w", err)
	}
	if err = c.db.QueryRow("SELECT COUNT(*) FROM Artist").Scan(&artists); err != nil {
		return 0, 0, fmt.Errorf("counting artists: %w", err)
	}
	return tracks, artists, nil
}
