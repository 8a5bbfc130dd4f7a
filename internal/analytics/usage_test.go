package analytics

import (
	"personad/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateUsageByDate_SumsSameDay(t *testing.T) {
	events := []models.UsageEvent{
		{Date: "2024-01-01", Chats: 2, Messages: 5, PersonaID: "a", PersonaName: "A"},
		{Date: "2024-01-01", Chats: 1, Messages: 2, PersonaID: "b", PersonaName: "B"},
	}

	daily := AggregateUsageByDate(events)

	assert.Equal(t, []models.DailyUsage{{Date: "2024-01-01", Chats: 3, Messages: 7}}, daily)
}

func TestAggregateUsageByDate_FirstSeenOrder(t *testing.T) {
	events := []models.UsageEvent{
		{Date: "2024-01-03", Chats: 1, Messages: 1},
		{Date: "2024-01-01", Chats: 1, Messages: 1},
		{Date: "2024-01-03", Chats: 2, Messages: 4},
		{Date: "2024-01-02", Chats: 1, Messages: 3},
	}

	daily := AggregateUsageByDate(events)

	require.Len(t, daily, 3)
	assert.Equal(t, "2024-01-03", daily[0].Date)
	assert.Equal(t, 3, daily[0].Chats)
	assert.Equal(t, 5, daily[0].Messages)
	assert.Equal(t, "2024-01-01", daily[1].Date)
	assert.Equal(t, "2024-01-02", daily[2].Date)
}

func TestAggregateUsageByDate_EmptyOrMalformed(t *testing.T) {
	assert.NotNil(t, AggregateUsageByDate(nil))
	assert.Empty(t, AggregateUsageByDate(nil))
	assert.Empty(t, AggregateUsageByDate([]models.UsageEvent{}))
	assert.Empty(t, AggregateUsageByDate([]models.UsageEvent{{Chats: 4}}))
}

func TestWindowLastNDays(t *testing.T) {
	series := []models.DailyUsage{{Date: "d1"}, {Date: "d2"}, {Date: "d3"}, {Date: "d4"}}

	assert.Equal(t, []models.DailyUsage{{Date: "d3"}, {Date: "d4"}}, WindowLastNDays(series, 2))
	assert.Equal(t, series, WindowLastNDays(series, 4))
	assert.Equal(t, series, WindowLastNDays(series, 10))
	assert.Empty(t, WindowLastNDays(series, 0))
	assert.Empty(t, WindowLastNDays(series, -1))
	assert.Empty(t, WindowLastNDays(nil, 3))
}

func TestWindowLastNDays_PositionalNotByDate(t *testing.T) {
	series := []models.DailyUsage{{Date: "2024-03-01"}, {Date: "2023-01-01"}}
	assert.Equal(t, []models.DailyUsage{{Date: "2023-01-01"}}, WindowLastNDays(series, 1))
}
