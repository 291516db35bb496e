package rating

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/avoronkov/pairrank/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store, store.Key) {
	t.Helper()
	st := store.New(t.TempDir())
	key, err := store.NormalizeKey("movies")
	if err != nil {
		t.Fatalf("failed to normalize key: %v", err)
	}
	return NewEngine(st, DefaultK), st, key
}

func TestInitializeCreatesDefaults(t *testing.T) {
	engine, st, key := newTestEngine(t)
	ratings, err := engine.Initialize(key, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	for _, item := range []string{"alpha", "beta"} {
		record, ok := ratings[item]
		if !ok {
			t.Fatalf("missing record for %q", item)
		}
		if record.Rating != InitialRating {
			t.Fatalf("expected rating %v for %q, got %v", InitialRating, item, record.Rating)
		}
		if record.Plays != 0 || record.Wins != 0 || record.Losses != 0 {
			t.Fatalf("expected zero counters for %q, got %+v", item, record)
		}
		if record.BiggestWin != 0 || record.WorstLoss != 0 {
			t.Fatalf("expected zero extremes for %q, got %+v", item, record)
		}
		if record.DateAdded.IsZero() {
			t.Fatalf("expected date added for %q", item)
		}
	}

	persisted, err := st.LoadRatings(key)
	if err != nil {
		t.Fatalf("load after initialize failed: %v", err)
	}
	if len(persisted) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(persisted))
	}
}

func TestInitializeIdempotent(t *testing.T) {
	engine, _, key := newTestEngine(t)
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return first }
	if _, err := engine.Initialize(key, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	engine.now = func() time.Time { return first.Add(time.Hour) }
	ratings, err := engine.Initialize(key, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("second initialize failed: %v", err)
	}
	for item, record := range ratings {
		if !record.DateAdded.Equal(first) {
			t.Fatalf("record for %q was rewritten: %v", item, record.DateAdded)
		}
	}
}

func TestInitializeDoesNotResetPlayedRatings(t *testing.T) {
	engine, st, key := newTestEngine(t)
	if _, err := engine.Initialize(key, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if _, err := engine.RecordOutcome(key, "alpha", "beta"); err != nil {
		t.Fatalf("record outcome failed: %v", err)
	}
	if _, err := engine.Initialize(key, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("re-initialize failed: %v", err)
	}
	ratings, err := st.LoadRatings(key)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if ratings["alpha"].Rating != 1016.0 {
		t.Fatalf("re-initialize reset alpha's rating: %v", ratings["alpha"].Rating)
	}
}

func TestRecordOutcomeEqualRatings(t *testing.T) {
	engine, st, key := newTestEngine(t)
	if _, err := engine.Initialize(key, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	out, err := engine.RecordOutcome(key, "alpha", "beta")
	if err != nil {
		t.Fatalf("record outcome failed: %v", err)
	}
	if out.WinnerDelta != 16.0 || out.LoserDelta != -16.0 {
		t.Fatalf("unexpected deltas: %+v", out)
	}

	ratings, err := st.LoadRatings(key)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	alpha := ratings["alpha"]
	beta := ratings["beta"]
	if alpha.Rating != 1016.0 {
		t.Fatalf("expected alpha at 1016, got %v", alpha.Rating)
	}
	if beta.Rating != 984.0 {
		t.Fatalf("expected beta at 984, got %v", beta.Rating)
	}
	if alpha.Plays != 1 || alpha.Wins != 1 || alpha.Losses != 0 {
		t.Fatalf("unexpected alpha counters: %+v", alpha)
	}
	if beta.Plays != 1 || beta.Wins != 0 || beta.Losses != 1 {
		t.Fatalf("unexpected beta counters: %+v", beta)
	}
	if alpha.BiggestWin != 16.0 {
		t.Fatalf("expected biggest win 16, got %v", alpha.BiggestWin)
	}
	if beta.WorstLoss != 16.0 {
		t.Fatalf("expected worst loss 16, got %v", beta.WorstLoss)
	}
}

func TestRecordOutcomeUnknownItem(t *testing.T) {
	engine, _, key := newTestEngine(t)
	if _, err := engine.Initialize(key, []string{"alpha"}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	_, err := engine.RecordOutcome(key, "alpha", "ghost")
	if err == nil {
		t.Fatalf("expected error for unknown item")
	}
	var unknown UnknownItemError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownItemError, got %T: %v", err, err)
	}
	if unknown.Item != "ghost" {
		t.Fatalf("unexpected item in error: %q", unknown.Item)
	}
}

func TestExtremesAreMonotonic(t *testing.T) {
	engine, st, key := newTestEngine(t)
	if _, err := engine.Initialize(key, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	first, err := engine.RecordOutcome(key, "alpha", "beta")
	if err != nil {
		t.Fatalf("first outcome failed: %v", err)
	}
	second, err := engine.RecordOutcome(key, "alpha", "beta")
	if err != nil {
		t.Fatalf("second outcome failed: %v", err)
	}
	if second.WinnerDelta >= first.WinnerDelta {
		t.Fatalf("repeat win against a weaker opponent should pay less: %v vs %v", second.WinnerDelta, first.WinnerDelta)
	}

	ratings, err := st.LoadRatings(key)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if ratings["alpha"].BiggestWin != first.WinnerDelta {
		t.Fatalf("biggest win regressed: %v", ratings["alpha"].BiggestWin)
	}
	if got := ratings["beta"].WorstLoss; got != math.Abs(first.LoserDelta) {
		t.Fatalf("worst loss regressed: %v", got)
	}
}
