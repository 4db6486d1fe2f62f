package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/zanloc/rental-backend/database"
	"github.com/zanloc/rental-backend/models"
)

type ResidenceRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required,oneof=appartement villa maison studio duplex"`

	City         string `json:"city" validate:"required"`
	Neighborhood string `json:"neighborhood"`
	Address      string `json:"address"`

	Bedrooms    int  `json:"bedrooms"`
	Bathrooms   int  `json:"bathrooms"`
	Capacity    int  `json:"capacity"`
	SurfaceArea *int `json:"surface_area"`

	PricePerNight decimal.Decimal `json:"price_per_night" validate:"required"`
	CleaningFee   decimal.Decimal `json:"cleaning_fee"`

	HasWifi     bool `json:"has_wifi"`
	HasAC       bool `json:"has_ac"`
	HasTV       bool `json:"has_tv"`
	HasKitchen  bool `json:"has_kitchen"`
	HasParking  bool `json:"has_parking"`
	HasPool     bool `json:"has_pool"`
	HasSecurity bool `json:"has_security"`

	AllowPets    bool `json:"allow_pets"`
	AllowSmoking bool `json:"allow_smoking"`
	MinNights    int  `json:"min_nights"`
}

func CreateResidence(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if !user.CanCreateResidences() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only owners can list residences"})
	}

	var req ResidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	residence := models.Residence{
		OwnerID:       user.ID,
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		City:          req.City,
		Neighborhood:  req.Neighborhood,
		Address:       req.Address,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Capacity:      req.Capacity,
		SurfaceArea:   req.SurfaceArea,
		PricePerNight: req.PricePerNight,
		CleaningFee:   req.CleaningFee,
		HasWifi:       req.HasWifi,
		HasAC:         req.HasAC,
		HasTV:         req.HasTV,
		HasKitchen:    req.HasKitchen,
		HasParking:    req.HasParking,
		HasPool:       req.HasPool,
		HasSecurity:   req.HasSecurity,
		AllowPets:     req.AllowPets,
		AllowSmoking:  req.AllowSmoking,
		MinNights:     req.MinNights,
		IsActive:      true,
	}

	if err := database.DB.Create(&residence).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(residence)
}

func ListResidences(c *fiber.Ctx) error {
	query := database.DB.Where("is_active = ?", true)
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if residenceType := c.Query("type"); residenceType != "" {
		query = query.Where("type = ?", residenceType)
	}
	if capacity := c.QueryInt("capacity", 0); capacity > 0 {
		query = query.Where("capacity >= ?", capacity)
	}

	var residences []models.Residence
	if err := query.Order("created_at desc").Find(&residences).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(residences)
}

func GetResidence(c *fiber.Ctx) error {
	var residence models.Residence
	if err := database.DB.Preload("Owner").First(&residence, "id = ?", c.Params("residenceId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Residence not found"})
	}

	database.DB.Model(&residence).Update("views_count", residence.ViewsCount+1)
	return c.JSON(residence)
}

func UpdateResidence(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var residence models.Residence
	if err := database.DB.First(&residence, "id = ?", c.Params("residenceId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Residence not found"})
	}
	if residence.OwnerID != user.ID && !user.IsStaff() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the owner of this residence"})
	}

	var req ResidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	residence.Title = req.Title
	residence.Description = req.Description
	residence.Type = req.Type
	residence.City = req.City
	residence.Neighborhood = req.Neighborhood
	residence.Address = req.Address
	residence.Bedrooms = req.Bedrooms
	residence.Bathrooms = req.Bathrooms
	residence.Capacity = req.Capacity
	residence.SurfaceArea = req.SurfaceArea
	residence.PricePerNight = req.PricePerNight
	residence.CleaningFee = req.CleaningFee
	residence.MinNights = req.MinNights

	if err := database.DB.Save(&residence).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update residence"})
	}
	return c.JSON(residence)
}

func DeactivateResidence(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var residence models.Residence
	if err := database.DB.First(&residence, "id = ?", c.Params("residenceId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Residence not found"})
	}
	if residence.OwnerID != user.ID && !user.IsStaff() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the owner of this residence"})
	}

	residence.IsActive = false
	if err := database.DB.Save(&residence).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate residence"})
	}
	return c.JSON(fiber.Map{"message": "Residence deactivated"})
}

func GetMyResidences(c *fiber.Ctx) error {
	var residences []models.Residence
	if err := database.DB.Where("owner_id = ?", currentUserID(c)).Order("created_at desc").Find(&residences).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(residences)
}

func CheckResidenceAvailability(c *fiber.Ctx) error {
	return assetAvailability(c, models.AssetResidence, "residenceId")
}

func GetResidenceUnavailableDates(c *fiber.Ctx) error {
	return assetUnavailableDates(c, models.AssetResidence, "residenceId")
}
