// Package seed holds the bundled dataset the store falls back to when the
// durable medium is empty, unreadable or unavailable.
package seed

import (
	_ "embed"
	"fmt"

	"personad/internal/models"

	json "github.com/goccy/go-json"
)

//go:embed seed.json
var raw []byte

type dataset struct {
	Personas       []models.Persona      `json:"personas"`
	Usage          []models.UsageEvent   `json:"usage"`
	DashboardStats models.DashboardStats `json:"dashboardStats"`
}

// decode parses the embedded file on every call so each caller owns its copy.
func decode() dataset {
	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		panic(fmt.Sprintf("seed: embedded dataset is invalid: %s", err))
	}
	return ds
}

func Personas() []models.Persona {
	return decode().Personas
}

func UsageData() []models.UsageEvent {
	return decode().Usage
}

func DashboardStats() models.DashboardStats {
	return decode().DashboardStats
}
