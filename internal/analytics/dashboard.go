// Package analytics derives dashboard statistics from persona and usage
// collections. Every function is pure: it never reads or writes durable state
// and returns the same output for the same input.
package analytics

import (
	"cmp"
	"math"
	"slices"

	"personad/internal/models"
)

// TopRatedLimit is how many personas the dashboard ranks by rating.
const TopRatedLimit = 3

func ComputeDashboardStats(personas []models.Persona) models.DashboardStats {
	stats := models.DashboardStats{
		TotalPersonas:      len(personas),
		MostPopularPersona: mostPopular(personas),
		RecentActivity:     []models.UsageEvent{},
		TopRatedPersonas:   topRated(personas, TopRatedLimit),
	}

	for _, p := range personas {
		if p.Status == models.StatusActive {
			stats.ActivePersonas++
		}
		stats.TotalChats += p.TotalChats
		stats.TotalMessages += p.TotalMessages
	}

	if stats.TotalChats > 0 {
		stats.AvgMessagesPerChat = roundTenth(float64(stats.TotalMessages) / float64(stats.TotalChats))
	}
	return stats
}

// BuildDashboard is ComputeDashboardStats with the last recent usage events attached.
func BuildDashboard(personas []models.Persona, events []models.UsageEvent, recent int) models.DashboardStats {
	stats := ComputeDashboardStats(personas)
	stats.RecentActivity = slices.Clone(WindowLast(events, recent))
	if stats.RecentActivity == nil {
		stats.RecentActivity = []models.UsageEvent{}
	}
	return stats
}

// mostPopular is positional: the first persona of the collection as stored.
func mostPopular(personas []models.Persona) string {
	if len(personas) == 0 || personas[0].Name == "" {
		return models.NoPersona
	}
	return personas[0].Name
}

// topRated orders by rating, highest first; equal ratings keep collection order.
func topRated(personas []models.Persona, limit int) []models.Persona {
	ranked := models.ClonePersonas(personas)
	if ranked == nil {
		ranked = []models.Persona{}
	}
	slices.SortStableFunc(ranked, func(a, b models.Persona) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// CountByType returns one share per persona type in display order, zero counts included.
func CountByType(personas []models.Persona) []models.TypeShare {
	counts := make(map[models.PersonaType]int, len(models.PersonaTypes))
	for _, p := range personas {
		counts[p.Type]++
	}
	shares := make([]models.TypeShare, 0, len(models.PersonaTypes))
	for _, t := range models.PersonaTypes {
		shares = append(shares, models.TypeShare{Type: t, Count: counts[t]})
	}
	return shares
}
