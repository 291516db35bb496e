// Package store persists theme documents as JSON files.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avoronkov/pairrank/internal/model"
)

const (
	itemsSuffix   = "_items.json"
	ratingsSuffix = "_ratings.json"
)

// MaxItemLen bounds the length of a single item in characters.
const MaxItemLen = 100

// ErrDuplicateItem rejects an item already present in a theme.
var ErrDuplicateItem = errors.New("item already exists")

// ErrItemTooLong rejects an item over MaxItemLen characters.
var ErrItemTooLong = fmt.Errorf("item too long (max %d characters)", MaxItemLen)

// CheckItem validates a candidate item against the current item list.
// Matching is case-sensitive; an item's identity is its exact string value.
func CheckItem(items []string, item string) error {
	if utf8.RuneCountInString(item) > MaxItemLen {
		return ErrItemTooLong
	}
	for _, existing := range items {
		if existing == item {
			return ErrDuplicateItem
		}
	}
	return nil
}

// Store reads and writes per-theme item lists and rating tables.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// ListThemes returns all theme keys, sorted lexicographically.
// A missing data directory yields an empty list.
func (s *Store) ListThemes() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}
	var themes []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, itemsSuffix) {
			continue
		}
		themes = append(themes, strings.TrimSuffix(name, itemsSuffix))
	}
	sort.Strings(themes)
	return themes, nil
}

// LoadItems returns the item list for a theme, in insertion order.
// A missing document yields an empty list.
func (s *Store) LoadItems(key Key) ([]string, error) {
	data, err := os.ReadFile(s.itemsPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read items for theme %q: %w", key, err)
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse items for theme %q: %w", key, err)
	}
	return items, nil
}

// SaveItems overwrites the item list document for a theme.
func (s *Store) SaveItems(key Key, items []string) error {
	if items == nil {
		items = []string{}
	}
	return s.writeDocument(s.itemsPath(key), items)
}

// LoadRatings returns the rating table for a theme.
// A missing document yields an empty table.
func (s *Store) LoadRatings(key Key) (map[string]model.RatingRecord, error) {
	data, err := os.ReadFile(s.ratingsPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.RatingRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read ratings for theme %q: %w", key, err)
	}
	var raw map[string]ratingDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse ratings for theme %q: %w", key, err)
	}
	ratings := make(map[string]model.RatingRecord, len(raw))
	for item, doc := range raw {
		record, err := doc.toRecord()
		if err != nil {
			return nil, fmt.Errorf("malformed rating record for item %q in theme %q: %w", item, key, err)
		}
		ratings[item] = record
	}
	return ratings, nil
}

// SaveRatings overwrites the rating table document for a theme.
func (s *Store) SaveRatings(key Key, ratings map[string]model.RatingRecord) error {
	if ratings == nil {
		ratings = map[string]model.RatingRecord{}
	}
	return s.writeDocument(s.ratingsPath(key), ratings)
}

func (s *Store) itemsPath(key Key) string {
	return filepath.Join(s.dir, key.String()+itemsSuffix)
}

func (s *Store) ratingsPath(key Key) string {
	return filepath.Join(s.dir, key.String()+ratingsSuffix)
}

// writeDocument replaces a document atomically via temp file and rename, so
// readers never observe a partial write.
func (s *Store) writeDocument(path string, doc any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	tmpFile, err := os.CreateTemp(s.dir, "pairrank-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

// ratingDoc mirrors RatingRecord with a pointer rating so a record missing
// its required field can be told apart from a zero value.
type ratingDoc struct {
	Rating     *float64 `json:"rating"`
	Plays      int      `json:"plays"`
	Wins       int      `json:"wins"`
	Losses     int      `json:"losses"`
	DateAdded  string   `json:"date_added"`
	BiggestWin float64  `json:"biggest_win"`
	WorstLoss  float64  `json:"lowest_loss"`
}

func (d ratingDoc) toRecord() (model.RatingRecord, error) {
	if d.Rating == nil {
		return model.RatingRecord{}, fmt.Errorf("missing rating field")
	}
	if d.Plays < 0 || d.Wins < 0 || d.Losses < 0 {
		return model.RatingRecord{}, fmt.Errorf("negative counter")
	}
	added, err := parseDateAdded(d.DateAdded)
	if err != nil {
		return model.RatingRecord{}, err
	}
	return model.RatingRecord{
		Rating:     *d.Rating,
		Plays:      d.Plays,
		Wins:       d.Wins,
		Losses:     d.Losses,
		DateAdded:  added,
		BiggestWin: d.BiggestWin,
		WorstLoss:  d.WorstLoss,
	}, nil
}

// parseDateAdded accepts RFC3339 timestamps as well as the zone-less ISO-8601
// form written by older documents. An absent value stays the zero time.
func parseDateAdded(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date_added %q", value)
	}
	return parsed, nil
}
