package rating

import (
	"math"
	"time"

	"github.com/avoronkov/pairrank/internal/model"
	"github.com/avoronkov/pairrank/internal/store"
)

// Engine applies duel outcomes to a theme's rating table.
type Engine struct {
	store *store.Store
	k     float64
	now   func() time.Time
}

// NewEngine returns an Engine writing through the given store. A k of zero
// or less falls back to DefaultK.
func NewEngine(st *store.Store, k float64) *Engine {
	if k <= 0 {
		k = DefaultK
	}
	return &Engine{store: st, k: k, now: time.Now}
}

// Initialize creates default rating records for items that lack one and
// returns the full table. The table is persisted only when a record was
// added, so repeated calls with the same item set leave the document
// untouched.
func (e *Engine) Initialize(key store.Key, items []string) (map[string]model.RatingRecord, error) {
	ratings, err := e.store.LoadRatings(key)
	if err != nil {
		return nil, err
	}
	added := false
	for _, item := range items {
		if _, ok := ratings[item]; ok {
			continue
		}
		ratings[item] = model.RatingRecord{
			Rating:    InitialRating,
			DateAdded: e.now(),
		}
		added = true
	}
	if added {
		if err := e.store.SaveRatings(key, ratings); err != nil {
			return nil, err
		}
	}
	return ratings, nil
}

// RecordOutcome applies a single duel result and persists the full rating
// table. Both items must already have rating records; a missing record
// yields an UnknownItemError.
func (e *Engine) RecordOutcome(key store.Key, winner, loser string) (model.Outcome, error) {
	ratings, err := e.store.LoadRatings(key)
	if err != nil {
		return model.Outcome{}, err
	}
	winRec, ok := ratings[winner]
	if !ok {
		return model.Outcome{}, UnknownItemError{Theme: key.String(), Item: winner}
	}
	loseRec, ok := ratings[loser]
	if !ok {
		return model.Outcome{}, UnknownItemError{Theme: key.String(), Item: loser}
	}

	winnerDelta, loserDelta := Delta(winRec.Rating, loseRec.Rating, e.k)

	winRec.Rating += winnerDelta
	winRec.Plays++
	winRec.Wins++
	if winnerDelta > winRec.BiggestWin {
		winRec.BiggestWin = winnerDelta
	}

	loseRec.Rating += loserDelta
	loseRec.Plays++
	loseRec.Losses++
	if loss := math.Abs(loserDelta); loss > loseRec.WorstLoss {
		loseRec.WorstLoss = loss
	}

	ratings[winner] = winRec
	ratings[loser] = loseRec

	if err := e.store.SaveRatings(key, ratings); err != nil {
		return model.Outcome{}, err
	}
	return model.Outcome{
		Winner:      winner,
		Loser:       loser,
		WinnerDelta: winnerDelta,
		LoserDelta:  loserDelta,
		PlayedAt:    e.now(),
	}, nil
}
