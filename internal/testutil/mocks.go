package testutil

import (
	"fmt"
	"personad/internal/models"
	"personad/internal/providers"
	"slices"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts fallbacks.
type MockMetrics struct {
	mu        sync.Mutex
	Fallbacks map[string]int
	Personas  int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                    {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration)    {}
func (m *MockMetrics) IncCacheHits()                                       {}
func (m *MockMetrics) IncCacheMisses()                                     {}
func (m *MockMetrics) ObserveStorageDuration(_, _ string, _ time.Duration) {}

func (m *MockMetrics) IncStorageFallbacks(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fallbacks == nil {
		m.Fallbacks = make(map[string]int)
	}
	m.Fallbacks[key]++
}

func (m *MockMetrics) SetPersonasTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Personas = count
}

// MockMedium implements interfaces.MediumInterface over a map, with an
// injectable write failure.
type MockMedium struct {
	mu          sync.Mutex
	Items       map[string][]byte
	Unavailable bool
	SetErr      error
	GetErr      error
	Writes      []string
}

func NewMockMedium() *MockMedium {
	return &MockMedium{Items: make(map[string][]byte)}
}

func (m *MockMedium) Available() bool { return !m.Unavailable }

func (m *MockMedium) GetItem(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	val, ok := m.Items[key]
	return slices.Clone(val), ok, nil
}

func (m *MockMedium) SetItem(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Items[key] = slices.Clone(value)
	m.Writes = append(m.Writes, key)
	return nil
}

func (m *MockMedium) Close() error { return nil }

// WriteCount returns how many successful writes hit key.
func (m *MockMedium) WriteCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, k := range m.Writes {
		if k == key {
			n++
		}
	}
	return n
}

// MockStore implements services.PersonaStoreInterface over in-memory slices.
type MockStore struct {
	mu          sync.Mutex
	Personas    []models.Persona
	Usage       []models.UsageEvent
	Snapshot    models.DashboardStats
	Err         error
	SnapshotErr error
	Rev         uint64
	Chats       []string
	Saved       []models.DashboardStats
	NotDurable  bool
	idSeq       int
}

func (m *MockStore) GetPersonas() ([]models.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return models.ClonePersonas(m.Personas), nil
}

func (m *MockStore) SetPersonas(personas []models.Persona) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Personas = models.ClonePersonas(personas)
	m.Rev++
	return nil
}

func (m *MockStore) AddPersona(persona models.Persona) ([]models.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Personas = append(m.Personas, persona)
	m.Rev++
	return models.ClonePersonas(m.Personas), nil
}

func (m *MockStore) CreatePersona(input models.PersonaInput) (models.Persona, []models.Persona, error) {
	p := input.Persona()
	p.ID = m.GenerateID()
	personas, err := m.AddPersona(p)
	if err != nil {
		return models.Persona{}, nil, err
	}
	return p, personas, nil
}

func (m *MockStore) UpdatePersona(id string, patch models.PersonaPatch) ([]models.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if i := models.IndexOf(m.Personas, id); i >= 0 {
		m.Personas[i] = patch.Apply(m.Personas[i])
		m.Rev++
	}
	return models.ClonePersonas(m.Personas), nil
}

func (m *MockStore) DeletePersona(id string) ([]models.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if i := models.IndexOf(m.Personas, id); i >= 0 {
		m.Personas = append(m.Personas[:i], m.Personas[i+1:]...)
		m.Rev++
	}
	return models.ClonePersonas(m.Personas), nil
}

func (m *MockStore) GetUsageData() ([]models.UsageEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return slices.Clone(m.Usage), nil
}

func (m *MockStore) SetUsageData(events []models.UsageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Usage = slices.Clone(events)
	m.Rev++
	return m.Err
}

func (m *MockStore) AddUsageEntry(event models.UsageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Usage = append(m.Usage, event)
	m.Rev++
	return m.Err
}

func (m *MockStore) GetDashboardStats() (models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snapshot, m.Err
}

func (m *MockStore) SetDashboardStats(stats models.DashboardStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotErr != nil {
		return m.SnapshotErr
	}
	m.Snapshot = stats
	m.Saved = append(m.Saved, stats)
	return nil
}

func (m *MockStore) IncrementPersonaUsage(id string) ([]models.Persona, error) {
	return m.RecordChat(id, models.ChatOutcome{Messages: 5})
}

func (m *MockStore) SimulateChat(id string) ([]models.Persona, error) {
	return m.RecordChat(id, models.ChatOutcome{Messages: 3})
}

func (m *MockStore) RecordChat(id string, outcome models.ChatOutcome) ([]models.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Chats = append(m.Chats, id)
	if i := models.IndexOf(m.Personas, id); i >= 0 {
		m.Personas[i].TotalChats++
		m.Personas[i].TotalMessages += outcome.Messages
		m.Rev++
	}
	return models.ClonePersonas(m.Personas), nil
}

func (m *MockStore) GenerateID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idSeq++
	return fmt.Sprintf("mock-%d", m.idSeq)
}

func (m *MockStore) Revision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Rev
}

func (m *MockStore) Durable() bool { return !m.NotDurable }

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }
