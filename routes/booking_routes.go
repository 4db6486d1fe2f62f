package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/zanloc/rental-backend/handlers"
	"github.com/zanloc/rental-backend/middleware"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Post("/:bookingId/cancel", handlers.CancelBooking)
	booking.Post("/:bookingId/transaction", handlers.AttachTransactionNumber)
	booking.Get("/:bookingId/refund-preview", handlers.GetRefundPreview)
	booking.Post("/:bookingId/review", handlers.CreateBookingReview)

	ownerBooking := api.Group("/owner/bookings", middleware.Protected(), middleware.OwnerRequired())
	ownerBooking.Get("/received", handlers.GetReceivedBookings)
	ownerBooking.Get("/stats", handlers.GetOwnerStats)
	ownerBooking.Post("/:bookingId/confirm", handlers.ConfirmBooking)
	ownerBooking.Post("/:bookingId/reject", handlers.RejectBooking)
}
