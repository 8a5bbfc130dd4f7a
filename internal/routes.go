package internal

import (
	"net/http"
	"personad/internal/controllers"
	"personad/internal/providers"
)

func InitRoutes(personaController *controllers.PersonaController, analyticsController *controllers.AnalyticsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/personas", http.HandlerFunc(personaController.List))
	routers.Post("/personas", http.HandlerFunc(personaController.Create))
	routers.Get("/personas/{id}", http.HandlerFunc(personaController.Get))
	routers.Patch("/personas/{id}", http.HandlerFunc(personaController.Update))
	routers.Delete("/personas/{id}", http.HandlerFunc(personaController.Delete))
	routers.Post("/personas/{id}/chat", http.HandlerFunc(personaController.Chat))
	routers.Post("/personas/{id}/usage", http.HandlerFunc(personaController.IncrementUsage))

	routers.Get("/usage", http.HandlerFunc(analyticsController.GetUsage))
	routers.Get("/usage/daily", http.HandlerFunc(analyticsController.GetDailyUsage))
	routers.Get("/stats", http.HandlerFunc(analyticsController.GetStats))
	routers.Get("/stats/snapshot", http.HandlerFunc(analyticsController.GetSnapshot))
	routers.Get("/stats/types", http.HandlerFunc(analyticsController.GetTypes))
	return routers
}
