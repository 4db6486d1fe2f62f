package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/zanloc/rental-backend/handlers"
	"github.com/zanloc/rental-backend/middleware"
)

func FavoriteRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	favorites := api.Group("/favorites", middleware.Protected())
	favorites.Get("", handlers.GetMyFavorites)
	favorites.Post("", handlers.AddFavorite)
	favorites.Delete("/:favoriteId", handlers.RemoveFavorite)
}
