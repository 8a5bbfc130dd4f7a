//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"personad/internal"
	"personad/internal/controllers"
	"personad/internal/persistence"
	"personad/internal/providers"
	"personad/internal/services"
	"personad/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		persistence.NewZstdCompressor,
		persistence.NewMediumProvider,
		services.NewPersonaStore,
		persistence.NewScheduler,
		controllers.NewPersonaController,
		controllers.NewAnalyticsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
