package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"personad/internal/models"
	"personad/internal/persistence/interfaces"
	"personad/internal/providers"
	"personad/internal/seed"
	"personad/internal/structures"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Durable keys, one JSON document each.
const (
	KeyPersonas       = "personas"
	KeyUsageData      = "personaUsageData"
	KeyDashboardStats = "dashboardStats"
)

// ErrCorruptPayload marks a stored value that exists but cannot be decoded.
var ErrCorruptPayload = errors.New("corrupt stored payload")

type PersonaStoreInterface interface {
	GetPersonas() ([]models.Persona, error)
	SetPersonas(personas []models.Persona) error
	AddPersona(persona models.Persona) ([]models.Persona, error)
	CreatePersona(input models.PersonaInput) (models.Persona, []models.Persona, error)
	UpdatePersona(id string, patch models.PersonaPatch) ([]models.Persona, error)
	DeletePersona(id string) ([]models.Persona, error)

	GetUsageData() ([]models.UsageEvent, error)
	SetUsageData(events []models.UsageEvent) error
	AddUsageEntry(event models.UsageEvent) error

	GetDashboardStats() (models.DashboardStats, error)
	SetDashboardStats(stats models.DashboardStats) error

	IncrementPersonaUsage(id string) ([]models.Persona, error)
	RecordChat(id string, outcome models.ChatOutcome) ([]models.Persona, error)
	SimulateChat(id string) ([]models.Persona, error)

	GenerateID() string
	Revision() uint64
	Durable() bool
}

// PersonaStore is the only writer of durable state. Every public method holds
// mu for its whole read-modify-write cycle.
type PersonaStore struct {
	mu       sync.Mutex
	medium   interfaces.MediumInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	usage    structures.UsageConfig
	chat     structures.ChatConfig
	now      func() time.Time
	newID    func() string
	rng      *rand.Rand
	revision uint64
}

func NewPersonaStore(medium interfaces.MediumInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, conf *structures.Config) PersonaStoreInterface {
	return newPersonaStore(medium, logger, metrics, conf)
}

func newPersonaStore(medium interfaces.MediumInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, conf *structures.Config) *PersonaStore {
	usage := conf.Usage
	if usage.MessagesPerChat <= 0 {
		usage.MessagesPerChat = structures.DefaultMessagesPerChat
	}
	chat := conf.Chat
	if chat.MinMessages == 0 && chat.MaxMessages == 0 {
		chat.MinMessages = structures.DefaultMinMessages
		chat.MaxMessages = structures.DefaultMaxMessages
	}
	if chat.MaxMessages < chat.MinMessages {
		chat.MaxMessages = chat.MinMessages
	}

	return &PersonaStore{
		medium:  medium,
		logger:  logger,
		metrics: metrics,
		usage:   usage,
		chat:    chat,
		now:     time.Now,
		newID:   newUUIDv7,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
}

// newUUIDv7 yields a time-ordered id: a millisecond timestamp followed by random bits.
func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *PersonaStore) GenerateID() string {
	return s.newID()
}

func (s *PersonaStore) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *PersonaStore) Durable() bool {
	return s.medium.Available()
}

// --- personas ---

func (s *PersonaStore) GetPersonas() ([]models.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getPersonas()
}

func (s *PersonaStore) getPersonas() ([]models.Persona, error) {
	if !s.medium.Available() {
		return seed.Personas(), nil
	}

	personas, found, err := load[[]models.Persona](s.medium, KeyPersonas)
	if err != nil {
		s.reportFallback(KeyPersonas, err)
		return seed.Personas(), nil
	}
	if found {
		if personas == nil {
			personas = []models.Persona{}
		}
		return personas, nil
	}

	s.logger.Infof(providers.TypeStore, "No stored personas, initializing from seed data")
	personas = seed.Personas()
	if err := s.setPersonas(personas); err != nil {
		return nil, err
	}
	return personas, nil
}

func (s *PersonaStore) SetPersonas(personas []models.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setPersonas(personas)
}

func (s *PersonaStore) setPersonas(personas []models.Persona) error {
	if err := s.save(KeyPersonas, personas, true); err != nil {
		return err
	}
	s.metrics.SetPersonasTotal(len(personas))
	return nil
}

// AddPersona appends persona. An empty id, or one already taken, is replaced
// with a freshly generated id so ids stay unique.
func (s *PersonaStore) AddPersona(persona models.Persona) ([]models.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPersona(persona)
}

func (s *PersonaStore) addPersona(persona models.Persona) ([]models.Persona, error) {
	personas, err := s.getPersonas()
	if err != nil {
		return nil, err
	}
	if persona.ID == "" || models.IndexOf(personas, persona.ID) >= 0 {
		persona.ID = s.newID()
	}
	personas = append(personas, persona)
	if err := s.setPersonas(personas); err != nil {
		return nil, err
	}
	return personas, nil
}

// CreatePersona turns validated form input into a new record owned by the
// store: fresh id, creation and last-used time now, zero counters.
func (s *PersonaStore) CreatePersona(input models.PersonaInput) (models.Persona, []models.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	persona := input.Persona()
	persona.ID = s.newID()
	persona.CreatedAt = now
	persona.LastUsed = now

	personas, err := s.addPersona(persona)
	if err != nil {
		return models.Persona{}, nil, err
	}
	return personas[len(personas)-1], personas, nil
}

// UpdatePersona merges patch over the persona with the given id. An unknown id
// is a no-op and nothing is written.
func (s *PersonaStore) UpdatePersona(id string, patch models.PersonaPatch) ([]models.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	personas, err := s.getPersonas()
	if err != nil {
		return nil, err
	}
	idx := models.IndexOf(personas, id)
	if idx < 0 {
		s.logger.Debugf(providers.TypeStore, "Update skipped, persona %s not found", id)
		return personas, nil
	}
	personas[idx] = patch.Apply(personas[idx])
	if err := s.setPersonas(personas); err != nil {
		return nil, err
	}
	return personas, nil
}

// DeletePersona removes the persona with the given id. An unknown id is a
// no-op and nothing is written.
func (s *PersonaStore) DeletePersona(id string) ([]models.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	personas, err := s.getPersonas()
	if err != nil {
		return nil, err
	}
	idx := models.IndexOf(personas, id)
	if idx < 0 {
		s.logger.Debugf(providers.TypeStore, "Delete skipped, persona %s not found", id)
		return personas, nil
	}
	personas = append(personas[:idx], personas[idx+1:]...)
	if err := s.setPersonas(personas); err != nil {
		return nil, err
	}
	return personas, nil
}

// --- usage log ---

func (s *PersonaStore) GetUsageData() ([]models.UsageEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUsageData()
}

func (s *PersonaStore) getUsageData() ([]models.UsageEvent, error) {
	if !s.medium.Available() {
		return seed.UsageData(), nil
	}

	events, found, err := load[[]models.UsageEvent](s.medium, KeyUsageData)
	if err != nil {
		s.reportFallback(KeyUsageData, err)
		return seed.UsageData(), nil
	}
	if found {
		return models.SanitizeUsage(events), nil
	}

	s.logger.Infof(providers.TypeStore, "No stored usage data, initializing from seed data")
	events = seed.UsageData()
	if err := s.setUsageData(events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *PersonaStore) SetUsageData(events []models.UsageEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setUsageData(events)
}

func (s *PersonaStore) setUsageData(events []models.UsageEvent) error {
	return s.save(KeyUsageData, models.SanitizeUsage(events), true)
}

func (s *PersonaStore) AddUsageEntry(event models.UsageEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUsageEntry(event)
}

func (s *PersonaStore) addUsageEntry(event models.UsageEvent) error {
	events, err := s.getUsageData()
	if err != nil {
		return err
	}
	return s.setUsageData(append(events, event))
}

// --- dashboard snapshot ---

// GetDashboardStats returns the last saved snapshot. It is a convenience
// cache and may lag behind the persona collection.
func (s *PersonaStore) GetDashboardStats() (models.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.medium.Available() {
		return seed.DashboardStats(), nil
	}

	stats, found, err := load[models.DashboardStats](s.medium, KeyDashboardStats)
	if err != nil {
		s.reportFallback(KeyDashboardStats, err)
		return seed.DashboardStats(), nil
	}
	if found {
		return stats, nil
	}

	stats = seed.DashboardStats()
	if err := s.save(KeyDashboardStats, stats, false); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}

func (s *PersonaStore) SetDashboardStats(stats models.DashboardStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(KeyDashboardStats, stats, false)
}

// --- chats ---

// IncrementPersonaUsage records one chat with the configured placeholder
// message count.
func (s *PersonaStore) IncrementPersonaUsage(id string) ([]models.Persona, error) {
	return s.RecordChat(id, models.ChatOutcome{Messages: s.usage.MessagesPerChat})
}

// SimulateChat records one chat with a random message count and a random
// chance of the persona being favorited.
func (s *PersonaStore) SimulateChat(id string) ([]models.Persona, error) {
	s.mu.Lock()
	outcome := models.ChatOutcome{
		Messages:  s.chat.MinMessages + s.rng.IntN(s.chat.MaxMessages-s.chat.MinMessages+1),
		Favorited: s.rng.Float64() < s.chat.FavoriteChance,
	}
	s.mu.Unlock()
	return s.RecordChat(id, outcome)
}

// RecordChat is the single path that bumps chat counters: it adds one chat and
// outcome.Messages messages to the persona, marks it used now, persists the
// collection, then appends one usage event for today. An unknown id is a no-op.
func (s *PersonaStore) RecordChat(id string, outcome models.ChatOutcome) ([]models.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	personas, err := s.getPersonas()
	if err != nil {
		return nil, err
	}
	idx := models.IndexOf(personas, id)
	if idx < 0 {
		s.logger.Debugf(providers.TypeStore, "Chat not recorded, persona %s not found", id)
		return personas, nil
	}

	messages := max(outcome.Messages, 0)
	now := s.now().UTC()
	p := &personas[idx]
	p.TotalChats++
	p.TotalMessages += messages
	if outcome.Favorited {
		p.FavoriteCount++
	}
	p.LastUsed = now

	if err := s.setPersonas(personas); err != nil {
		return nil, err
	}

	err = s.addUsageEntry(models.UsageEvent{
		Date:        now.Format(time.DateOnly),
		Chats:       1,
		Messages:    messages,
		PersonaID:   p.ID,
		PersonaName: p.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("chat recorded but usage entry lost: %w", err)
	}
	return personas, nil
}

// --- durable plumbing ---

// load decodes the value stored under key. found is false when the key has
// never been written; a value that cannot be read or decoded is an
// ErrCorruptPayload.
func load[T any](medium interfaces.MediumInterface, key string) (value T, found bool, err error) {
	data, found, err := medium.GetItem(key)
	if err != nil {
		return value, found, fmt.Errorf("%w: %s: %w", ErrCorruptPayload, key, err)
	}
	if !found {
		return value, false, nil
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, true, fmt.Errorf("%w: %s: %w", ErrCorruptPayload, key, err)
	}
	return value, true, nil
}

// save writes value under key in one SetItem call. It is a silent no-op when
// the medium is unavailable. Source-of-truth writes advance the revision.
func (s *PersonaStore) save(key string, value any, authoritative bool) error {
	if !s.medium.Available() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.medium.SetItem(key, data); err != nil {
		s.logger.Errorf(providers.TypeStore, "Error writing %s to storage: %s", key, err)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	if authoritative {
		s.revision++
	}
	return nil
}

func (s *PersonaStore) reportFallback(key string, err error) {
	s.logger.Errorf(providers.TypeStore, "Error parsing %s from storage, serving seed data: %s", key, err)
	s.metrics.IncStorageFallbacks(key)
}
