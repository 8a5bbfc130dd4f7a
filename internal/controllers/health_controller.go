package controllers

import (
	"fmt"
	"net/http"
	"personad/internal/services"
	"personad/internal/structures"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	store     services.PersonaStoreInterface
	driver    string
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Storage       string  `json:"storage"`
	Durable       bool    `json:"durable"`
	Personas      int     `json:"personas"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Storage:       hc.driver,
		Durable:       hc.store.Durable(),
	}

	status := http.StatusOK
	personas, err := hc.store.GetPersonas()
	if err != nil {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	} else {
		resp.Personas = len(personas)
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store services.PersonaStoreInterface, conf *structures.Config) *HealthController {
	return &HealthController{
		store:     store,
		driver:    conf.Storage.Driver,
		startTime: time.Now(),
	}
}
