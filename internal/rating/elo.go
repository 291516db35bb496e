// Package rating implements the Elo update rule for pairwise duels.
package rating

import "math"

const (
	// DefaultK is the Elo k-factor applied to each duel.
	DefaultK = 32.0

	// InitialRating seeds every new rating record.
	InitialRating = 1000.0
)

// Delta returns the rating changes for the winner and loser of a duel.
// winnerDelta is always positive and loserDelta always negative. The two
// expectations are computed independently on purpose: persisted values
// depend on this exact floating-point arithmetic, so the second must not be
// folded into 1 - expectedWinner.
func Delta(winnerRating, loserRating, k float64) (winnerDelta, loserDelta float64) {
	expectedWinner := 1 / (1 + math.Pow(10, (loserRating-winnerRating)/400))
	expectedLoser := 1 / (1 + math.Pow(10, (winnerRating-loserRating)/400))

	winnerDelta = k * (1 - expectedWinner)
	loserDelta = k * (0 - expectedLoser)
	return winnerDelta, loserDelta
}
