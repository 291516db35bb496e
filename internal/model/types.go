// Package model defines shared data structures.
package model

import "time"

// Config defines resolved runtime settings.
type Config struct {
	K       float64
	DataDir string
	History bool
}

// RatingRecord tracks one item's rating state within a theme.
// The JSON field names are the on-disk document format and must stay stable;
// WorstLoss keeps its historical "lowest_loss" wire name even though it
// tracks the largest loss, not the smallest.
type RatingRecord struct {
	Rating     float64   `json:"rating"`
	Plays      int       `json:"plays"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	DateAdded  time.Time `json:"date_added"`
	BiggestWin float64   `json:"biggest_win"`
	WorstLoss  float64   `json:"lowest_loss"`
}

// Outcome reports the rating changes applied by one recorded duel.
type Outcome struct {
	Winner      string
	Loser       string
	WinnerDelta float64
	LoserDelta  float64
	PlayedAt    time.Time
}

// Match is one logged duel outcome.
type Match struct {
	ID          int64
	Theme       string
	Winner      string
	Loser       string
	WinnerDelta float64
	LoserDelta  float64
	PlayedAt    time.Time
}
