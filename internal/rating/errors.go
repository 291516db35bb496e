package rating

import "fmt"

// UnknownItemError indicates a duel outcome was recorded for an item without
// a rating record. The caller must initialize ratings before recording duels,
// so this is a programming error rather than a user mistake.
type UnknownItemError struct {
	Theme string
	Item  string
}

func (e UnknownItemError) Error() string {
	return fmt.Sprintf("no rating record for item %q in theme %q", e.Item, e.Theme)
}
