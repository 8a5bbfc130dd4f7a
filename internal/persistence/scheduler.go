package persistence

import (
	"personad/internal/analytics"
	"personad/internal/persistence/interfaces"
	"personad/internal/providers"
	"personad/internal/services"
	"personad/internal/structures"
	"sync"
)

// Scheduler runs the store's start-up and shutdown hooks. It starts no
// background work: every store write already happens synchronously.
type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	store  services.PersonaStoreInterface
	opsMu  sync.Mutex
}

// Restore loads both collections once so an empty medium is initialized from
// seed data before the first request arrives.
func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	personas, err := s.store.GetPersonas()
	if err != nil {
		return err
	}
	events, err := s.store.GetUsageData()
	if err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Restored %d personas and %d usage events (durable=%t)", len(personas), len(events), s.store.Durable())
	return nil
}

// Persist saves a fresh dashboard snapshot computed from the current collections.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting dashboard snapshot...")
	personas, err := s.store.GetPersonas()
	if err != nil {
		return err
	}
	events, err := s.store.GetUsageData()
	if err != nil {
		return err
	}

	stats := analytics.BuildDashboard(personas, events, s.config.Usage.RecentActivity)
	if err := s.store.SetDashboardStats(stats); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting dashboard snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store services.PersonaStoreInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		store:  store,
	}
}
