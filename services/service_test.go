package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zanloc/rental-backend/models"
	"github.com/zanloc/rental-backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Residence{},
		&models.Booking{},
		&models.Payment{},
		&models.Refund{},
		&models.Payout{},
		&models.Favorite{},
		&models.BookingReview{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{
		FullName: "Test " + role,
		Email:    fmt.Sprintf("%s-%s@test.local", role, uuid.New().String()[:8]),
		Password: "x",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createTestVehicle(t *testing.T, db *gorm.DB, ownerID uuid.UUID, pricePerDay int64) *models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        "Toyota Corolla",
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2021,
		Type:         "berline",
		Transmission: "automatique",
		FuelType:     "essence",
		PlateNumber:  uuid.New().String()[:10],
		City:         "abidjan",
		PricePerDay:  decimal.NewFromInt(pricePerDay),
		IsActive:     true,
	}
	vehicle.PlatformFeePercentage = decimal.NewFromInt(10)
	vehicle.ComputeDerivedPricing()
	vehicle.ComputeSlug()
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	return &vehicle
}

func createTestResidence(t *testing.T, db *gorm.DB, ownerID uuid.UUID, pricePerNight, cleaningFee int64) *models.Residence {
	t.Helper()
	residence := models.Residence{
		OwnerID:       ownerID,
		Title:         "Villa Cocody",
		Type:          "villa",
		City:          "abidjan",
		PricePerNight: decimal.NewFromInt(pricePerNight),
		CleaningFee:   decimal.NewFromInt(cleaningFee),
		IsActive:      true,
	}
	if err := db.Create(&residence).Error; err != nil {
		t.Fatalf("create residence: %v", err)
	}
	return &residence
}

// dateFromNow returns midnight UTC, days ahead of today.
func dateFromNow(days int) time.Time {
	return models.Today().AddDate(0, 0, days)
}

func createTestBooking(t *testing.T, db *gorm.DB, clientID uuid.UUID, ref models.AssetRef, startOffset, endOffset int, status string, total int64) *models.Booking {
	t.Helper()
	subtotal := decimal.NewFromInt(total)
	booking := models.Booking{
		BookingNumber: utils.GenerateBookingNumber(),
		ClientID:      clientID,
		AssetKind:     ref.Kind,
		AssetID:       ref.ID,
		StartDate:     dateFromNow(startOffset),
		EndDate:       dateFromNow(endOffset),
		Duration:      endOffset - startOffset,
		Subtotal:      subtotal,
		Fees:          decimal.Zero,
		TotalPrice:    subtotal,
		Status:        status,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return &booking
}
