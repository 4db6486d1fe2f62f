package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/zanloc/rental-backend/handlers"
	"github.com/zanloc/rental-backend/middleware"
)

func VehicleRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	vehicles := api.Group("/vehicles")
	vehicles.Get("", handlers.ListVehicles)
	vehicles.Get("/:vehicleId", handlers.GetVehicle)
	vehicles.Get("/:vehicleId/availability", handlers.CheckVehicleAvailability)
	vehicles.Get("/:vehicleId/unavailable-dates", handlers.GetVehicleUnavailableDates)

	owned := api.Group("/owner/vehicles", middleware.Protected(), middleware.OwnerRequired())
	owned.Get("", handlers.GetMyVehicles)
	owned.Post("", handlers.CreateVehicle)
	owned.Put("/:vehicleId", handlers.UpdateVehicle)
	owned.Delete("/:vehicleId", handlers.DeactivateVehicle)
}
