package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/zanloc/rental-backend/handlers"
	"github.com/zanloc/rental-backend/middleware"
)

func ResidenceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	residences := api.Group("/residences")
	residences.Get("", handlers.ListResidences)
	residences.Get("/:residenceId", handlers.GetResidence)
	residences.Get("/:residenceId/availability", handlers.CheckResidenceAvailability)
	residences.Get("/:residenceId/unavailable-dates", handlers.GetResidenceUnavailableDates)

	owned := api.Group("/owner/residences", middleware.Protected(), middleware.OwnerRequired())
	owned.Get("", handlers.GetMyResidences)
	owned.Post("", handlers.CreateResidence)
	owned.Put("/:residenceId", handlers.UpdateResidence)
	owned.Delete("/:residenceId", handlers.DeactivateResidence)
}
