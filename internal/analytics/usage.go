package analytics

import "personad/internal/models"

// AggregateUsageByDate sums chats and messages per calendar date across all
// personas. Dates appear in the order they are first seen, not sorted.
func AggregateUsageByDate(events []models.UsageEvent) []models.DailyUsage {
	daily := make([]models.DailyUsage, 0)
	index := make(map[string]int)
	for _, e := range events {
		if e.Date == "" {
			continue
		}
		if i, ok := index[e.Date]; ok {
			daily[i].Chats += e.Chats
			daily[i].Messages += e.Messages
			continue
		}
		index[e.Date] = len(daily)
		daily = append(daily, models.DailyUsage{Date: e.Date, Chats: e.Chats, Messages: e.Messages})
	}
	return daily
}

// WindowLastNDays returns the last n entries of series. It slices by position,
// it does not filter by date.
func WindowLastNDays(series []models.DailyUsage, n int) []models.DailyUsage {
	return WindowLast(series, n)
}

// WindowLast returns the trailing n elements of series, all of them when
// there are fewer, and an empty slice when n is not positive.
func WindowLast[T any](series []T, n int) []T {
	if n <= 0 {
		return series[:0:0]
	}
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}
