package persistence

import (
	"errors"
	"personad/internal/models"
	"personad/internal/structures"
	"personad/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schedulerConfig() *structures.Config {
	return &structures.Config{Usage: structures.UsageConfig{RecentActivity: 2}}
}

func TestScheduler_Restore(t *testing.T) {
	store := &testutil.MockStore{Personas: []models.Persona{{ID: "a", Name: "Ada"}}}
	logger := &testutil.MockLogger{}

	require.NoError(t, NewScheduler(schedulerConfig(), logger, store).Restore())
	assert.Equal(t, 1, logger.Count("info"))
}

func TestScheduler_RestoreError(t *testing.T) {
	store := &testutil.MockStore{Err: errors.New("boom")}
	assert.Error(t, NewScheduler(schedulerConfig(), &testutil.MockLogger{}, store).Restore())
}

func TestScheduler_PersistSavesSnapshot(t *testing.T) {
	store := &testutil.MockStore{
		Personas: []models.Persona{
			{ID: "a", Name: "Ada", Status: models.StatusActive, TotalChats: 2, TotalMessages: 9, Rating: 4},
		},
		Usage: []models.UsageEvent{
			{Date: "2024-01-01", Chats: 1}, {Date: "2024-01-02", Chats: 2}, {Date: "2024-01-03", Chats: 3},
		},
	}

	require.NoError(t, NewScheduler(schedulerConfig(), &testutil.MockLogger{}, store).Persist())

	require.Len(t, store.Saved, 1)
	stats := store.Saved[0]
	assert.Equal(t, 1, stats.TotalPersonas)
	assert.Equal(t, 4.5, stats.AvgMessagesPerChat)
	assert.Equal(t, "Ada", stats.MostPopularPersona)
	require.Len(t, stats.RecentActivity, 2)
	assert.Equal(t, "2024-01-02", stats.RecentActivity[0].Date)
}

func TestScheduler_PersistWriteError(t *testing.T) {
	store := &testutil.MockStore{SnapshotErr: errors.New("disk full")}
	logger := &testutil.MockLogger{}

	err := NewScheduler(schedulerConfig(), logger, store).Persist()

	assert.Error(t, err)
	assert.Equal(t, 1, logger.Count("error"))
}
