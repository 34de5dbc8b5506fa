package internal

import (
	"net/http"

	"babylog/internal/controllers"
	"babylog/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, healthController *controllers.HealthController, staticController *controllers.StaticController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/health", http.HandlerFunc(healthController.Health))
	routers.Get("/api/export", http.HandlerFunc(apiController.Export))
	routers.Post("/api/import", http.HandlerFunc(apiController.Import))
	routers.Get("/api/{collection}", http.HandlerFunc(apiController.List))
	routers.Post("/api/{collection}", http.HandlerFunc(apiController.Insert))
	routers.Put("/api/{collection}/{id}", http.HandlerFunc(apiController.Update))
	routers.Delete("/api/{collection}/{id}", http.HandlerFunc(apiController.Delete))
	routers.NotFound(staticController)
	return routers
}
