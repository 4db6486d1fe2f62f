package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/zanloc/rental-backend/handlers"
	"github.com/zanloc/rental-backend/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected())
	payments.Get("/me", handlers.GetMyPayments)
	payments.Post("", handlers.CreatePayment)
	payments.Post("/:paymentId/proof", handlers.SubmitPaymentProof)

	payouts := api.Group("/owner/payouts", middleware.Protected(), middleware.OwnerRequired())
	payouts.Post("", handlers.RequestPayout)
}
