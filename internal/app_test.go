package internal

import (
	"net/http"
	"net/http/httptest"
	"personad/internal/controllers"
	"personad/internal/models"
	"personad/internal/persistence"
	"personad/internal/seed"
	"personad/internal/services"
	"personad/internal/structures"
	"personad/internal/testutil"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPersona(id string) models.Persona {
	return models.Persona{ID: id, Name: "Aria", Type: models.TypeAssistant, ResponseStyle: models.StyleFormal, Status: models.StatusActive, Rating: 4.8}
}

func newTestHandler(t *testing.T) (http.Handler, services.PersonaStoreInterface) {
	t.Helper()
	conf := &structures.Config{
		Storage: structures.StorageConfig{Driver: persistence.DriverMemory},
		Cache:   structures.CacheConfig{Enabled: true, Size: 1},
	}
	conf.ApplyDefaults()

	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	store := services.NewPersonaStore(persistence.NewMemoryMedium(), logger, metrics, conf)
	cache := testutil.NewMockCache()

	router := InitRoutes(
		controllers.NewPersonaController(logger, store),
		controllers.NewAnalyticsController(logger, store, cache, conf),
	)
	return NewHandler(controllers.NewHealthController(store, conf), conf, router, metrics), store
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Health(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := serve(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"storage":"memory"`)
}

func TestHandler_MetricsDisabled(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := serve(t, h, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_SeedThenChatThenStats(t *testing.T) {
	h, store := newTestHandler(t)

	rr := serve(t, h, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var before models.DashboardStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &before))
	assert.Equal(t, len(seed.Personas()), before.TotalPersonas)
	assert.Equal(t, "Aria Chen", before.MostPopularPersona)

	rr = serve(t, h, http.MethodPost, "/personas/seed-aria/usage", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(t, h, http.MethodGet, "/stats", "")
	var after models.DashboardStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &after))
	assert.Equal(t, before.TotalChats+1, after.TotalChats)
	assert.Equal(t, before.TotalMessages+structures.DefaultMessagesPerChat, after.TotalMessages)

	events, err := store.GetUsageData()
	require.NoError(t, err)
	assert.Len(t, events, len(seed.UsageData())+1)
}

func TestHandler_CreateUpdateDelete(t *testing.T) {
	h, store := newTestHandler(t)

	rr := serve(t, h, http.MethodPost, "/personas", `{"name":"Nova","type":"expert","responseStyle":"professional"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created models.Persona
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	rr = serve(t, h, http.MethodPatch, "/personas/"+created.ID, `{"status":"archived"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"archived"`)

	rr = serve(t, h, http.MethodDelete, "/personas/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	personas, err := store.GetPersonas()
	require.NoError(t, err)
	assert.Len(t, personas, len(seed.Personas()))
	assert.Equal(t, -1, models.IndexOf(personas, created.ID))
}
