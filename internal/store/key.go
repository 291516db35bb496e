package store

import (
	"fmt"
	"strings"
)

// Key identifies a theme. Keys are always normalized: trimmed, lowercased,
// and restricted to characters that are safe in file names.
type Key string

// NormalizeKey builds a Key from raw user input.
func NormalizeKey(raw string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", fmt.Errorf("theme name must not be empty")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == ' ' || r == '-' || r == '_':
		default:
			return "", fmt.Errorf("theme name contains unsupported character %q", r)
		}
	}
	return Key(name), nil
}

func (k Key) String() string { return string(k) }
