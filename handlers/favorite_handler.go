package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/zanloc/rental-backend/database"
	"github.com/zanloc/rental-backend/models"
)

type FavoriteRequest struct {
	AssetKind string `json:"asset_kind" validate:"required,oneof=vehicle residence"`
	AssetID   string `json:"asset_id" validate:"required,uuid"`
}

func AddFavorite(c *fiber.Ctx) error {
	var req FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	assetID, _ := uuid.Parse(req.AssetID)
	favorite := models.Favorite{
		UserID:    currentUserID(c),
		AssetKind: models.AssetKind(req.AssetKind),
		AssetID:   assetID,
	}
	if err := database.DB.Create(&favorite).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already in favorites"})
	}
	return c.Status(fiber.StatusCreated).JSON(favorite)
}

func RemoveFavorite(c *fiber.Ctx) error {
	result := database.DB.
		Where("id = ? AND user_id = ?", c.Params("favoriteId"), currentUserID(c)).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Favorite not found"})
	}
	return c.JSON(fiber.Map{"message": "Removed from favorites"})
}

func GetMyFavorites(c *fiber.Ctx) error {
	var favorites []models.Favorite
	err := database.DB.
		Where("user_id = ?", currentUserID(c)).
		Order("created_at desc").
		Find(&favorites).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(favorites)
}
