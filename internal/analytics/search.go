package analytics

import (
	"slices"
	"strings"

	"personad/internal/models"
)

// FilterPersonas keeps personas whose name, specialty, type or any tag contains
// query, ignoring case. A blank query keeps everything.
func FilterPersonas(personas []models.Persona, query string) []models.Persona {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return personas
	}
	matched := make([]models.Persona, 0)
	for _, p := range personas {
		if matches(p, q) {
			matched = append(matched, p)
		}
	}
	return matched
}

func matches(p models.Persona, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Specialty), q) ||
		strings.Contains(strings.ToLower(string(p.Type)), q) {
		return true
	}
	return slices.ContainsFunc(p.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}
