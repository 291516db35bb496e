// Package rank derives sorted rankings and their text representation.
package rank

import (
	"sort"

	"github.com/avoronkov/pairrank/internal/model"
	"github.com/avoronkov/pairrank/internal/rating"
)

// MaxIntensity is the upper bound of the intensity bar scale.
const MaxIntensity = 50

// Entry is one ranked item with its rating state.
type Entry struct {
	Item      string
	Rating    float64
	Intensity int
	Plays     int
	Wins      int
	Losses    int
}

// Compute orders items by rating, highest first. Items without a rating
// record rank with the default initial rating; ties keep item-list order.
func Compute(items []string, ratings map[string]model.RatingRecord) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entry := Entry{Item: item, Rating: rating.InitialRating}
		if record, ok := ratings[item]; ok {
			entry.Rating = record.Rating
			entry.Plays = record.Plays
			entry.Wins = record.Wins
			entry.Losses = record.Losses
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return entries
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rating > entries[j].Rating
	})

	maxRating := entries[0].Rating
	minRating := entries[len(entries)-1].Rating
	for i := range entries {
		entries[i].Intensity = intensity(entries[i].Rating, minRating, maxRating)
	}
	return entries
}

// intensity maps a rating onto the 1..MaxIntensity bar scale. All ratings
// equal is the degenerate single-bucket case and maps to 1.
func intensity(r, minRating, maxRating float64) int {
	if maxRating == minRating {
		return 1
	}
	return int(1 + float64(MaxIntensity-1)*(r-minRating)/(maxRating-minRating))
}
