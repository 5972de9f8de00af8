// Package filter narrows an in-memory event collection by free-text search
// and tag selection. Everything here is pure: inputs are never mutated and
// input order is preserved.
package filter

import (
	"strings"

	"github.com/thoas/go-funk"

	"github.com/calendario-tech/review-console/internal/models"
)

// Apply returns the events whose name or organization contains search
// (case-insensitive, empty matches all) and whose tags intersect the selected
// set (OR across selected tags, empty set matches all).
func Apply(events []models.Event, search string, selectedTags []string) []models.Event {
	needle := strings.ToLower(search)
	out := make([]models.Event, 0, len(events))
	for _, event := range events {
		if !matchesSearch(event, needle) || !matchesTags(event, selectedTags) {
			continue
		}
		out = append(out, event)
	}
	return out
}

func matchesSearch(event models.Event, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(event.EventName), needle) ||
		strings.Contains(strings.ToLower(event.OrganizationName), needle)
}

func matchesTags(event models.Event, selectedTags []string) bool {
	if len(selectedTags) == 0 {
		return true
	}
	for _, tag := range selectedTags {
		if funk.ContainsString(event.Tags, tag) {
			return true
		}
	}
	return false
}

// TagVocabulary collects the distinct tags of a collection in first-seen
// order. Each loaded collection yields its own vocabulary; there is no global
// tag registry.
func TagVocabulary(events []models.Event) []string {
	all := []string{}
	for _, event := range events {
		all = append(all, event.Tags...)
	}
	return funk.UniqString(all)
}
