package controllers

import (
	"fmt"
	"net/http"
	"personad/internal/analytics"
	"personad/internal/providers"
	"personad/internal/services"
	"personad/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

type AnalyticsController struct {
	logger providers.Logger
	store  services.PersonaStoreInterface
	cache  providers.CacheProviderInterface
	usage  structures.UsageConfig
}

func NewAnalyticsController(logger providers.Logger, store services.PersonaStoreInterface, cache providers.CacheProviderInterface, conf *structures.Config) *AnalyticsController {
	return &AnalyticsController{
		logger: logger,
		store:  store,
		cache:  cache,
		usage:  conf.Usage,
	}
}

// serveFromCacheOrCompute keys entries by store revision, so any write to the
// personas or the usage log makes older entries unreachable.
func (ac *AnalyticsController) serveFromCacheOrCompute(w http.ResponseWriter, name string, compute func() (any, error)) {
	cacheKey := fmt.Sprintf("%s:%d", name, ac.store.Revision())
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Error computing %s: %s", name, err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

// GetStats recomputes the dashboard from the live collections and saves it as
// the advisory snapshot. A failed snapshot write is logged, not returned.
func (ac *AnalyticsController) GetStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "stats", func() (any, error) {
		personas, err := ac.store.GetPersonas()
		if err != nil {
			return nil, err
		}
		events, err := ac.store.GetUsageData()
		if err != nil {
			return nil, err
		}
		stats := analytics.BuildDashboard(personas, events, ac.usage.RecentActivity)
		if err := ac.store.SetDashboardStats(stats); err != nil {
			ac.logger.Warnf(providers.TypeGet, "Dashboard snapshot not saved: %s", err)
		}
		return stats, nil
	})
}

func (ac *AnalyticsController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	stats, err := ac.store.GetDashboardStats()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Error reading dashboard snapshot: %s", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (ac *AnalyticsController) GetTypes(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "types", func() (any, error) {
		personas, err := ac.store.GetPersonas()
		if err != nil {
			return nil, err
		}
		return analytics.CountByType(personas), nil
	})
}

func (ac *AnalyticsController) GetUsage(w http.ResponseWriter, r *http.Request) {
	events, err := ac.store.GetUsageData()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Error reading usage data: %s", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetDailyUsage returns per-date totals, trimmed to the last `days` dates.
func (ac *AnalyticsController) GetDailyUsage(w http.ResponseWriter, r *http.Request) {
	days := ac.usage.DefaultWindow
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := cast.ToIntE(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	ac.serveFromCacheOrCompute(w, fmt.Sprintf("daily:%d", days), func() (any, error) {
		events, err := ac.store.GetUsageData()
		if err != nil {
			return nil, err
		}
		return analytics.WindowLastNDays(analytics.AggregateUsageByDate(events), days), nil
	})
}
