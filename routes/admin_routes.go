package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/zanloc/rental-backend/handlers"
	"github.com/zanloc/rental-backend/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/bookings", handlers.AdminGetAllBookings)

	admin.Get("/payments", handlers.AdminGetPayments)
	admin.Get("/payments/pending", handlers.ListPendingPayments)
	admin.Post("/payments/:paymentId/verify", handlers.VerifyPayment)

	admin.Get("/refunds", handlers.AdminListRefunds)
	admin.Post("/refunds/:refundId/process", handlers.AdminProcessRefund)

	admin.Get("/payouts", handlers.AdminListPayouts)
	admin.Post("/payouts/:payoutId/process", handlers.AdminProcessPayout)

	users := admin.Group("/users")
	users.Get("", handlers.AdminGetAllUsers)
	users.Put("/:userId/status", handlers.AdminToggleUserStatus)
}
