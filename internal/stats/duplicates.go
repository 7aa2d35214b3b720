package stats

import (
	"strings"

	"github.com/example/wedding-planner/internal/persistence"
)

// DuplicatePair flags two guests sharing the same email address. Original is
// always the guest seen first in input order.
type DuplicatePair struct {
	Original  persistence.Guest `json:"original"`
	Duplicate persistence.Guest `json:"duplicate"`
}

// Duplicates scans the guest list left to right and reports every guest
// whose lower-cased email was already seen. Guests with an empty email are
// never indexed or flagged. The result is advisory only: nothing is merged,
// blocked, or resolved.
func Duplicates(guests []persistence.Guest) []DuplicatePair {
	seen := make(map[string]persistence.Guest, len(guests))
	var pairs []DuplicatePair

	for _, guest := range guests {
		email := strings.ToLower(strings.TrimSpace(guest.Email))
		if email == "" {
			continue
		}
		if original, ok := seen[email]; ok {
			pairs = append(pairs, DuplicatePair{Original: original, Duplicate: guest})
			continue
		}
		seen[email] = guest
	}

	return pairs
}
