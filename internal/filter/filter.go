// Package filter implements the free-text and categorical narrowing applied
// to admin list views. Filters never mutate their input and preserve the
// relative order of the source list; results are recomputed in full on each
// change.
package filter

import (
	"strings"

	"github.com/example/wedding-planner/internal/persistence"
)

// All is the reserved categorical value meaning "no filter applied". The
// sentinel is compared case-insensitively, so a category value literally
// named "All" (any casing) cannot be selected as a filter.
const All = "all"

// Guests narrows the guest list to records matching the free-text query
// (email plus "first last" concatenation) and the relationship filter.
func Guests(guests []persistence.Guest, query, relationship string) []persistence.Guest {
	out := make([]persistence.Guest, 0, len(guests))
	for _, guest := range guests {
		if !matchesQuery(query, guest.Email, guest.FirstName+" "+guest.LastName) {
			continue
		}
		if !matchesCategory(string(guest.Relationship), relationship) {
			continue
		}
		out = append(out, guest)
	}
	return out
}

// RSVPs narrows the RSVP list to records matching the free-text query
// (profile email plus "first last") and the status filter.
func RSVPs(rsvps []persistence.RSVP, query, status string) []persistence.RSVP {
	out := make([]persistence.RSVP, 0, len(rsvps))
	for _, rsvp := range rsvps {
		if !matchesQuery(query, rsvp.Profile.Email, rsvp.Profile.FirstName+" "+rsvp.Profile.LastName) {
			continue
		}
		if !matchesCategory(string(rsvp.Status), status) {
			continue
		}
		out = append(out, rsvp)
	}
	return out
}

// FAQItems narrows FAQ items by question/answer text and category id.
func FAQItems(items []persistence.FAQItem, query, categoryID string) []persistence.FAQItem {
	out := make([]persistence.FAQItem, 0, len(items))
	for _, item := range items {
		if !matchesQuery(query, item.Question, item.Answer) {
			continue
		}
		if !matchesCategory(item.CategoryID, categoryID) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Communications narrows the message log by content, subject, and profile
// fields, combined with type and direction filters.
func Communications(communications []persistence.Communication, query, commType, direction string) []persistence.Communication {
	out := make([]persistence.Communication, 0, len(communications))
	for _, communication := range communications {
		if !matchesQuery(query,
			communication.Content,
			communication.Subject,
			communication.Profile.Email,
			communication.Profile.FirstName+" "+communication.Profile.LastName,
		) {
			continue
		}
		if !matchesCategory(string(communication.Type), commType) {
			continue
		}
		if !matchesCategory(string(communication.Direction), direction) {
			continue
		}
		out = append(out, communication)
	}
	return out
}

// matchesQuery reports whether any searchable field contains the query as a
// case-insensitive substring. An empty query matches everything.
func matchesQuery(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// matchesCategory applies an exact-match predicate. An empty selection or
// any casing of the All sentinel means no filtering; actual values are
// matched case-sensitively.
func matchesCategory(value, selected string) bool {
	selected = strings.TrimSpace(selected)
	if selected == "" || strings.EqualFold(selected, All) {
		return true
	}
	return value == selected
}
