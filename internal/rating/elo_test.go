package rating

import (
	"math"
	"testing"
)

func TestDeltaEqualRatings(t *testing.T) {
	winnerDelta, loserDelta := Delta(1000, 1000, DefaultK)
	if winnerDelta != 16.0 {
		t.Fatalf("expected winner delta 16, got %v", winnerDelta)
	}
	if loserDelta != -16.0 {
		t.Fatalf("expected loser delta -16, got %v", loserDelta)
	}
}

func TestDeltaSignsAndBalance(t *testing.T) {
	pairs := [][2]float64{
		{1200, 800},
		{800, 1200},
		{1000, 1000},
		{1500, 1499},
		{0, 3000},
	}
	for _, pair := range pairs {
		winnerDelta, loserDelta := Delta(pair[0], pair[1], DefaultK)
		if winnerDelta <= 0 {
			t.Fatalf("winner delta not positive for %v: %v", pair, winnerDelta)
		}
		if loserDelta >= 0 {
			t.Fatalf("loser delta not negative for %v: %v", pair, loserDelta)
		}
		if sum := winnerDelta + loserDelta; math.Abs(sum) > 1e-9 {
			t.Fatalf("deltas do not balance for %v: %v", pair, sum)
		}
	}
}

func TestDeltaMonotonicInGap(t *testing.T) {
	underdog, _ := Delta(1000, 1200, DefaultK)
	even, _ := Delta(1000, 1000, DefaultK)
	favorite, _ := Delta(1200, 1000, DefaultK)
	if !(underdog > even && even > favorite) {
		t.Fatalf("expected underdog > even > favorite, got %v, %v, %v", underdog, even, favorite)
	}
	if underdog >= DefaultK {
		t.Fatalf("winner delta must stay below k, got %v", underdog)
	}
	if favorite <= 0 {
		t.Fatalf("winner delta must stay positive, got %v", favorite)
	}
}

func TestDeltaMirrorsOnSwap(t *testing.T) {
	winnerDelta, loserDelta := Delta(1200, 1000, DefaultK)
	if math.Abs(winnerDelta+loserDelta) > 1e-9 {
		t.Fatalf("deltas are not mirror images: %v vs %v", winnerDelta, loserDelta)
	}
	swappedWinner, swappedLoser := Delta(1000, 1200, DefaultK)
	if math.Abs(swappedWinner+swappedLoser) > 1e-9 {
		t.Fatalf("swapped deltas are not mirror images: %v vs %v", swappedWinner, swappedLoser)
	}
	if swappedWinner <= winnerDelta {
		t.Fatalf("underdog win should pay more than favorite win: %v vs %v", swappedWinner, winnerDelta)
	}
}
