package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zanloc/rental-backend/database"
	"github.com/zanloc/rental-backend/models"
	"github.com/zanloc/rental-backend/services"
	"gorm.io/gorm"
)

type VehicleRequest struct {
	Title        string `json:"title" validate:"required,min=3"`
	Description  string `json:"description"`
	Brand        string `json:"brand" validate:"required"`
	Model        string `json:"model" validate:"required"`
	Year         int    `json:"year" validate:"required,min=1980"`
	Type         string `json:"type" validate:"required,oneof=citadine berline suv minibus pickup moto"`
	Transmission string `json:"transmission" validate:"required,oneof=manuelle automatique"`
	FuelType     string `json:"fuel_type" validate:"required,oneof=essence diesel hybride electrique"`

	Seats       int    `json:"seats"`
	Doors       int    `json:"doors"`
	Color       string `json:"color"`
	PlateNumber string `json:"plate_number" validate:"required"`

	City           string `json:"city" validate:"required"`
	PickupLocation string `json:"pickup_location"`

	PricePerDay decimal.Decimal `json:"price_per_day" validate:"required"`
	Deposit     decimal.Decimal `json:"deposit"`

	DriverAvailable bool `json:"driver_available"`
}

func CreateVehicle(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if !user.CanCreateVehicles() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only owners can list vehicles"})
	}

	var req VehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vehicle := models.Vehicle{
		ID:              uuid.New(),
		OwnerID:         user.ID,
		Title:           req.Title,
		Description:     req.Description,
		Brand:           req.Brand,
		Model:           req.Model,
		Year:            req.Year,
		Type:            req.Type,
		Transmission:    req.Transmission,
		FuelType:        req.FuelType,
		Seats:           req.Seats,
		Doors:           req.Doors,
		Color:           req.Color,
		PlateNumber:     req.PlateNumber,
		City:            req.City,
		PickupLocation:  req.PickupLocation,
		PricePerDay:     req.PricePerDay,
		Deposit:         req.Deposit,
		DriverAvailable: req.DriverAvailable,
		IsActive:        true,
	}
	vehicle.PlatformFeePercentage = decimal.NewFromInt(10)
	vehicle.ComputeDerivedPricing()
	vehicle.ComputeSlug()

	if err := database.DB.Create(&vehicle).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

func ListVehicles(c *fiber.Ctx) error {
	query := database.DB.Where("is_active = ?", true)
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if vehicleType := c.Query("type"); vehicleType != "" {
		query = query.Where("type = ?", vehicleType)
	}

	var vehicles []models.Vehicle
	if err := query.Order("created_at desc").Find(&vehicles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(vehicles)
}

func GetVehicle(c *fiber.Ctx) error {
	var vehicle models.Vehicle
	if err := database.DB.Preload("Owner").First(&vehicle, "id = ?", c.Params("vehicleId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}
	return c.JSON(vehicle)
}

func UpdateVehicle(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, "id = ?", c.Params("vehicleId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}
	if vehicle.OwnerID != user.ID && !user.IsStaff() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the owner of this vehicle"})
	}

	var req VehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vehicle.Title = req.Title
	vehicle.Description = req.Description
	vehicle.Brand = req.Brand
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.Type = req.Type
	vehicle.Transmission = req.Transmission
	vehicle.FuelType = req.FuelType
	vehicle.City = req.City
	vehicle.PickupLocation = req.PickupLocation
	vehicle.PricePerDay = req.PricePerDay
	vehicle.Deposit = req.Deposit
	vehicle.DriverAvailable = req.DriverAvailable
	vehicle.ComputeDerivedPricing()
	vehicle.ComputeSlug()

	if err := database.DB.Save(&vehicle).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update vehicle"})
	}
	return c.JSON(vehicle)
}

func DeactivateVehicle(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, "id = ?", c.Params("vehicleId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}
	if vehicle.OwnerID != user.ID && !user.IsStaff() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the owner of this vehicle"})
	}

	vehicle.IsActive = false
	if err := database.DB.Save(&vehicle).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate vehicle"})
	}
	return c.JSON(fiber.Map{"message": "Vehicle deactivated"})
}

func GetMyVehicles(c *fiber.Ctx) error {
	var vehicles []models.Vehicle
	if err := database.DB.Where("owner_id = ?", currentUserID(c)).Order("created_at desc").Find(&vehicles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(vehicles)
}

// assetAvailability is shared by the vehicle and residence availability
// endpoints: ?start=2006-01-02&end=2006-01-02.
func assetAvailability(c *fiber.Ctx, kind models.AssetKind, idParam string) error {
	assetID, err := uuid.Parse(c.Params(idParam))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid asset ID"})
	}

	start, end, err := parseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	available, err := services.IsAvailable(database.DB, models.AssetRef{Kind: kind, ID: assetID}, start, end, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"available": available})
}

func assetUnavailableDates(c *fiber.Ctx, kind models.AssetKind, idParam string) error {
	assetID, err := uuid.Parse(c.Params(idParam))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid asset ID"})
	}

	horizon := c.QueryInt("days_ahead", services.DefaultUnavailableHorizonDays)
	dates, err := services.UnavailableDates(database.DB, models.AssetRef{Kind: kind, ID: assetID}, horizon)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"unavailable_dates": dates})
}

func CheckVehicleAvailability(c *fiber.Ctx) error {
	return assetAvailability(c, models.AssetVehicle, "vehicleId")
}

func GetVehicleUnavailableDates(c *fiber.Ctx) error {
	return assetUnavailableDates(c, models.AssetVehicle, "vehicleId")
}

func notFoundOrServerError(c *fiber.Ctx, err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundMsg})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
}
