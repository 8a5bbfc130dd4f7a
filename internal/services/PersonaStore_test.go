package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"personad/internal/models"
	"personad/internal/seed"
	"personad/internal/structures"
	"personad/internal/testutil"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func testConfig() *structures.Config {
	return &structures.Config{
		Usage: structures.UsageConfig{MessagesPerChat: 5, RecentActivity: 7, DefaultWindow: 7},
		Chat:  structures.ChatConfig{MinMessages: 3, MaxMessages: 12, FavoriteChance: 0.2},
	}
}

type storeFixture struct {
	store   *PersonaStore
	medium  *testutil.MockMedium
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
}

func newFixture(t *testing.T, conf *structures.Config) *storeFixture {
	t.Helper()
	f := &storeFixture{
		medium:  testutil.NewMockMedium(),
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
	}
	f.store = newPersonaStore(f.medium, f.logger, f.metrics, conf)
	f.store.now = func() time.Time { return fixedNow }
	seq := 0
	f.store.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	f.store.rng = rand.New(rand.NewPCG(1, 2))
	return f
}

func (f *storeFixture) put(t *testing.T, key string, value any) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	f.medium.Items[key] = data
}

func (f *storeFixture) stored(t *testing.T) []models.Persona {
	t.Helper()
	var personas []models.Persona
	require.NoError(t, json.Unmarshal(f.medium.Items[KeyPersonas], &personas))
	return personas
}

func samplePersonas() []models.Persona {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []models.Persona{
		{ID: "a", Name: "Ada", Type: models.TypeMentor, Status: models.StatusActive, Rating: 4, TotalChats: 2, TotalMessages: 10, Tags: []string{"x"}, CreatedAt: created, LastUsed: created},
		{ID: "b", Name: "Bo", Type: models.TypeFriend, Status: models.StatusInactive, Rating: 5, CreatedAt: created, LastUsed: created},
	}
}

func TestGetPersonas_InitializesFromSeed(t *testing.T) {
	f := newFixture(t, testConfig())

	personas, err := f.store.GetPersonas()

	require.NoError(t, err)
	assert.Equal(t, seed.Personas(), personas)
	assert.Equal(t, 1, f.medium.WriteCount(KeyPersonas))
	assert.Equal(t, seed.Personas(), f.stored(t))
	assert.Equal(t, uint64(1), f.store.Revision())
	assert.Equal(t, len(personas), f.metrics.Personas)

	again, err := f.store.GetPersonas()
	require.NoError(t, err)
	assert.Equal(t, personas, again)
	assert.Equal(t, 1, f.medium.WriteCount(KeyPersonas))
}

func TestSetPersonas_RoundTrip(t *testing.T) {
	f := newFixture(t, testConfig())

	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	got, err := f.store.GetPersonas()

	require.NoError(t, err)
	assert.Equal(t, samplePersonas(), got)

	require.NoError(t, f.store.SetPersonas(got))
	again, err := f.store.GetPersonas()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSetPersonas_EmptyCollectionIsKept(t *testing.T) {
	f := newFixture(t, testConfig())

	require.NoError(t, f.store.SetPersonas([]models.Persona{}))
	got, err := f.store.GetPersonas()

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetPersonas_NullPayloadIsEmpty(t *testing.T) {
	f := newFixture(t, testConfig())
	f.medium.Items[KeyPersonas] = []byte("null")

	got, err := f.store.GetPersonas()

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetPersonas_CorruptPayloadFallsBackToSeed(t *testing.T) {
	f := newFixture(t, testConfig())
	f.medium.Items[KeyPersonas] = []byte("{not json")

	got, err := f.store.GetPersonas()

	require.NoError(t, err)
	assert.Equal(t, seed.Personas(), got)
	assert.Equal(t, "{not json", string(f.medium.Items[KeyPersonas]))
	assert.Empty(t, f.medium.Writes)
	assert.Equal(t, 1, f.logger.Count("error"))
	assert.Equal(t, 1, f.metrics.Fallbacks[KeyPersonas])
}

func TestGetPersonas_ReadErrorFallsBackToSeed(t *testing.T) {
	f := newFixture(t, testConfig())
	f.medium.GetErr = errors.New("disk gone")

	got, err := f.store.GetPersonas()

	require.NoError(t, err)
	assert.Equal(t, seed.Personas(), got)
	assert.Empty(t, f.medium.Writes)
	assert.Equal(t, 1, f.metrics.Fallbacks[KeyPersonas])
}

func TestLoad_WrapsCorruptPayload(t *testing.T) {
	medium := testutil.NewMockMedium()
	medium.Items[KeyUsageData] = []byte(`[{"date": 5}]`)

	_, found, err := load[[]models.UsageEvent](medium, KeyUsageData)

	assert.True(t, found)
	assert.ErrorIs(t, err, ErrCorruptPayload)

	_, found, err = load[[]models.UsageEvent](medium, "missing")
	assert.False(t, found)
	assert.NoError(t, err)
}

func TestUnavailableMedium_ServesSeedAndNeverWrites(t *testing.T) {
	f := newFixture(t, testConfig())
	f.medium.Unavailable = true

	personas, err := f.store.GetPersonas()
	require.NoError(t, err)
	assert.Equal(t, seed.Personas(), personas)

	events, err := f.store.GetUsageData()
	require.NoError(t, err)
	assert.Equal(t, seed.UsageData(), events)

	stats, err := f.store.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, seed.DashboardStats(), stats)

	assert.NoError(t, f.store.SetPersonas(samplePersonas()))
	assert.NoError(t, f.store.AddUsageEntry(models.UsageEvent{Date: "2024-01-01", Chats: 1}))
	_, err = f.store.IncrementPersonaUsage("seed-aria")
	assert.NoError(t, err)

	assert.Empty(t, f.medium.Writes)
	assert.False(t, f.store.Durable())
	assert.Equal(t, uint64(0), f.store.Revision())

	again, err := f.store.GetPersonas()
	require.NoError(t, err)
	assert.Equal(t, seed.Personas(), again)
}

func TestWriteFailure_PropagatesAndKeepsPriorState(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	before := string(f.medium.Items[KeyPersonas])
	rev := f.store.Revision()

	f.medium.SetErr = errors.New("quota exceeded")
	_, err := f.store.AddPersona(models.Persona{ID: "c", Name: "Cy"})

	require.Error(t, err)
	assert.ErrorIs(t, err, f.medium.SetErr)
	assert.Equal(t, before, string(f.medium.Items[KeyPersonas]))
	assert.Equal(t, rev, f.store.Revision())
	assert.Equal(t, 1, f.logger.Count("error"))

	f.medium.SetErr = nil
	got, err := f.store.GetPersonas()
	require.NoError(t, err)
	assert.Equal(t, samplePersonas(), got)
}

func TestAddPersona(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))

	got, err := f.store.AddPersona(models.Persona{ID: "c", Name: "Cy"})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[2].ID)
	assert.Equal(t, got, f.stored(t))
}

func TestAddPersona_ReassignsMissingOrDuplicateID(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))

	got, err := f.store.AddPersona(models.Persona{ID: "a", Name: "Clone"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", got[2].ID)

	got, err = f.store.AddPersona(models.Persona{Name: "Anon"})
	require.NoError(t, err)
	assert.Equal(t, "id-2", got[3].ID)
}

func TestCreatePersona(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))

	input := models.PersonaInput{Name: "Nova", Type: models.TypeExpert, ResponseStyle: models.StyleCasual}
	input.Normalize()
	created, all, err := f.store.CreatePersona(input)

	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "Nova", created.Name)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.Equal(t, fixedNow, created.LastUsed)
	assert.Equal(t, 0, created.TotalChats)
	assert.Equal(t, models.StatusActive, created.Status)
	require.Len(t, all, 3)
	assert.Equal(t, created, all[2])
}

func TestUpdatePersona(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))

	name := "Ada Lovelace"
	got, err := f.store.UpdatePersona("a", models.PersonaPatch{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got[0].Name)
	assert.Equal(t, 2, got[0].TotalChats)
	assert.Equal(t, "Bo", got[1].Name)
	assert.Equal(t, got, f.stored(t))
}

func TestUpdatePersona_EmptyPatchStillWrites(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	writes := f.medium.WriteCount(KeyPersonas)

	got, err := f.store.UpdatePersona("b", models.PersonaPatch{})

	require.NoError(t, err)
	assert.Equal(t, samplePersonas(), got)
	assert.Equal(t, writes+1, f.medium.WriteCount(KeyPersonas))
}

func TestUpdateAndDelete_UnknownIDIsNoop(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	writes := len(f.medium.Writes)
	rev := f.store.Revision()

	name := "Ghost"
	got, err := f.store.UpdatePersona("nope", models.PersonaPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, samplePersonas(), got)

	got, err = f.store.DeletePersona("nope")
	require.NoError(t, err)
	assert.Equal(t, samplePersonas(), got)

	got, err = f.store.IncrementPersonaUsage("nope")
	require.NoError(t, err)
	assert.Equal(t, samplePersonas(), got)

	assert.Len(t, f.medium.Writes, writes)
	assert.Equal(t, rev, f.store.Revision())
}

func TestDeletePersona(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))

	got, err := f.store.DeletePersona("a")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, got, f.stored(t))
	assert.Equal(t, 1, f.metrics.Personas)
}

func TestIncrementPersonaUsage(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	require.NoError(t, f.store.SetUsageData([]models.UsageEvent{}))

	got, err := f.store.IncrementPersonaUsage("a")

	require.NoError(t, err)
	assert.Equal(t, 3, got[0].TotalChats)
	assert.Equal(t, 15, got[0].TotalMessages)
	assert.Equal(t, fixedNow, got[0].LastUsed)
	assert.Equal(t, 0, got[1].TotalChats)
	assert.Equal(t, got, f.stored(t))

	events, err := f.store.GetUsageData()
	require.NoError(t, err)
	assert.Equal(t, []models.UsageEvent{
		{Date: "2024-03-15", Chats: 1, Messages: 5, PersonaID: "a", PersonaName: "Ada"},
	}, events)
}

func TestIncrementPersonaUsage_InitializesBothCollections(t *testing.T) {
	f := newFixture(t, testConfig())

	got, err := f.store.IncrementPersonaUsage("seed-aria")

	require.NoError(t, err)
	assert.Equal(t, seed.Personas()[0].TotalChats+1, got[0].TotalChats)
	events, err := f.store.GetUsageData()
	require.NoError(t, err)
	assert.Len(t, events, len(seed.UsageData())+1)
	assert.Equal(t, "seed-aria", events[len(events)-1].PersonaID)
}

func TestRecordChat_UsageFailureIsReported(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	failing := &usageFailingMedium{MockMedium: f.medium}
	f.store.medium = failing

	_, err := f.store.RecordChat("a", models.ChatOutcome{Messages: 4})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage entry lost")
	assert.Equal(t, 3, f.stored(t)[0].TotalChats)
}

func TestRecordChat_NegativeMessagesClamped(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))

	got, err := f.store.RecordChat("b", models.ChatOutcome{Messages: -7, Favorited: true})

	require.NoError(t, err)
	assert.Equal(t, 1, got[1].TotalChats)
	assert.Equal(t, 0, got[1].TotalMessages)
	assert.Equal(t, 1, got[1].FavoriteCount)
}

func TestSimulateChat_MessagesWithinRange(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	require.NoError(t, f.store.SetUsageData([]models.UsageEvent{}))

	for i := 0; i < 50; i++ {
		_, err := f.store.SimulateChat("b")
		require.NoError(t, err)
	}

	events, err := f.store.GetUsageData()
	require.NoError(t, err)
	require.Len(t, events, 50)
	total := 0
	for _, e := range events {
		assert.GreaterOrEqual(t, e.Messages, 3)
		assert.LessOrEqual(t, e.Messages, 12)
		total += e.Messages
	}
	got := f.stored(t)
	assert.Equal(t, 50, got[1].TotalChats)
	assert.Equal(t, total, got[1].TotalMessages)
}

func TestSimulateChat_FavoriteChance(t *testing.T) {
	conf := testConfig()
	conf.Chat.FavoriteChance = 1
	f := newFixture(t, conf)
	require.NoError(t, f.store.SetPersonas(samplePersonas()))

	got, err := f.store.SimulateChat("a")
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].FavoriteCount)

	f.store.chat.FavoriteChance = 0
	got, err = f.store.SimulateChat("a")
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].FavoriteCount)
}

func TestNewPersonaStore_ChatDefaults(t *testing.T) {
	s := newPersonaStore(testutil.NewMockMedium(), &testutil.MockLogger{}, &testutil.MockMetrics{}, &structures.Config{})
	assert.Equal(t, structures.DefaultMessagesPerChat, s.usage.MessagesPerChat)
	assert.Equal(t, structures.DefaultMinMessages, s.chat.MinMessages)
	assert.Equal(t, structures.DefaultMaxMessages, s.chat.MaxMessages)

	conf := testConfig()
	conf.Chat.MinMessages, conf.Chat.MaxMessages = 9, 4
	s = newPersonaStore(testutil.NewMockMedium(), &testutil.MockLogger{}, &testutil.MockMetrics{}, conf)
	assert.Equal(t, 9, s.chat.MaxMessages)
}

func TestUsageData_InitializesAndAppends(t *testing.T) {
	f := newFixture(t, testConfig())

	events, err := f.store.GetUsageData()
	require.NoError(t, err)
	assert.Equal(t, seed.UsageData(), events)
	assert.Equal(t, 1, f.medium.WriteCount(KeyUsageData))

	entry := models.UsageEvent{Date: "2024-03-15", Chats: 2, Messages: 9, PersonaID: "x", PersonaName: "X"}
	require.NoError(t, f.store.AddUsageEntry(entry))

	events, err = f.store.GetUsageData()
	require.NoError(t, err)
	assert.Len(t, events, len(seed.UsageData())+1)
	assert.Equal(t, entry, events[len(events)-1])
}

func TestUsageData_SanitizedOnReadAndWrite(t *testing.T) {
	f := newFixture(t, testConfig())
	f.put(t, KeyUsageData, []models.UsageEvent{{Date: "", Chats: 1}, {Date: "2024-01-01", Chats: -2, Messages: 3}})

	events, err := f.store.GetUsageData()
	require.NoError(t, err)
	assert.Equal(t, []models.UsageEvent{{Date: "2024-01-01", Chats: 0, Messages: 3}}, events)

	require.NoError(t, f.store.SetUsageData([]models.UsageEvent{{Date: "", Chats: 4}}))
	assert.JSONEq(t, "[]", string(f.medium.Items[KeyUsageData]))
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t, testConfig())

	stats, err := f.store.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, seed.DashboardStats(), stats)
	assert.Equal(t, 1, f.medium.WriteCount(KeyDashboardStats))

	custom := models.DashboardStats{TotalPersonas: 2, MostPopularPersona: "Ada", RecentActivity: []models.UsageEvent{}, TopRatedPersonas: []models.Persona{}}
	require.NoError(t, f.store.SetDashboardStats(custom))

	stats, err = f.store.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, custom, stats)
	assert.Equal(t, uint64(0), f.store.Revision())
}

func TestDashboardStats_CorruptFallsBackToSeed(t *testing.T) {
	f := newFixture(t, testConfig())
	f.medium.Items[KeyDashboardStats] = []byte("garbage")

	stats, err := f.store.GetDashboardStats()

	require.NoError(t, err)
	assert.Equal(t, seed.DashboardStats(), stats)
	assert.Equal(t, 1, f.metrics.Fallbacks[KeyDashboardStats])
}

func TestRevision_AdvancesOnSourceWrites(t *testing.T) {
	f := newFixture(t, testConfig())

	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	assert.Equal(t, uint64(1), f.store.Revision())
	require.NoError(t, f.store.SetUsageData(nil))
	assert.Equal(t, uint64(2), f.store.Revision())
	require.NoError(t, f.store.SetDashboardStats(models.DashboardStats{}))
	assert.Equal(t, uint64(2), f.store.Revision())
	_, err := f.store.IncrementPersonaUsage("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), f.store.Revision())
}

func TestConcurrentChatsAreSerialized(t *testing.T) {
	f := newFixture(t, testConfig())
	require.NoError(t, f.store.SetPersonas(samplePersonas()))
	require.NoError(t, f.store.SetUsageData([]models.UsageEvent{}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.store.IncrementPersonaUsage("a")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.store.GetPersonas()
	require.NoError(t, err)
	assert.Equal(t, 22, got[0].TotalChats)
	assert.Equal(t, 110, got[0].TotalMessages)
	events, err := f.store.GetUsageData()
	require.NoError(t, err)
	assert.Len(t, events, 20)
}

func TestGenerateID(t *testing.T) {
	s := newPersonaStore(testutil.NewMockMedium(), &testutil.MockLogger{}, &testutil.MockMetrics{}, testConfig())

	a, b := s.GenerateID(), s.GenerateID()

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
	assert.Equal(t, byte('7'), a[14], "expected a version 7 uuid")
}

// usageFailingMedium rejects writes to the usage log only.
type usageFailingMedium struct {
	*testutil.MockMedium
}

func (m *usageFailingMedium) SetItem(key string, value []byte) error {
	if key == KeyUsageData {
		return errors.New("usage write failed")
	}
	return m.MockMedium.SetItem(key, value)
}
