package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zanloc/rental-backend/models"
)

func TestCreateBookingPricesVehicleServerSide(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)

	booking, err := CreateBooking(db, client.ID, CreateBookingInput{
		VehicleID: &vehicle.ID,
		StartDate: dateFromNow(5),
		EndDate:   dateFromNow(8),
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, 3, booking.Duration)
	assert.True(t, booking.Subtotal.Equal(decimal.NewFromInt(30000)), "subtotal = %s", booking.Subtotal)
	assert.True(t, booking.Fees.Equal(decimal.NewFromInt(3000)), "fees = %s", booking.Fees)
	assert.True(t, booking.TotalPrice.Equal(decimal.NewFromInt(33000)), "total = %s", booking.TotalPrice)
	assert.Regexp(t, `^ZAN-`, booking.BookingNumber)
	assert.Equal(t, models.AssetVehicle, booking.AssetKind)
	assert.Equal(t, vehicle.ID, booking.AssetID)
}

func TestCreateBookingPricesResidenceServerSide(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	residence := createTestResidence(t, db, owner.ID, 20000, 5000)

	booking, err := CreateBooking(db, client.ID, CreateBookingInput{
		ResidenceID: &residence.ID,
		StartDate:   dateFromNow(5),
		EndDate:     dateFromNow(7),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, booking.Duration)
	assert.True(t, booking.Subtotal.Equal(decimal.NewFromInt(40000)))
	assert.True(t, booking.Fees.Equal(decimal.NewFromInt(5000)))
	assert.True(t, booking.TotalPrice.Equal(decimal.NewFromInt(45000)))
}

func TestCreateBookingValidation(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	residence := createTestResidence(t, db, owner.ID, 20000, 5000)

	cases := []struct {
		name  string
		input CreateBookingInput
	}{
		{"both assets", CreateBookingInput{VehicleID: &vehicle.ID, ResidenceID: &residence.ID, StartDate: dateFromNow(5), EndDate: dateFromNow(8)}},
		{"no asset", CreateBookingInput{StartDate: dateFromNow(5), EndDate: dateFromNow(8)}},
		{"end before start", CreateBookingInput{VehicleID: &vehicle.ID, StartDate: dateFromNow(8), EndDate: dateFromNow(5)}},
		{"end equals start", CreateBookingInput{VehicleID: &vehicle.ID, StartDate: dateFromNow(5), EndDate: dateFromNow(5)}},
		{"start in past", CreateBookingInput{VehicleID: &vehicle.ID, StartDate: dateFromNow(-2), EndDate: dateFromNow(3)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateBooking(db, client.ID, tc.input)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestCreateBookingRejectsUnknownAndInactiveAssets(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")

	missing := uuid.New()
	_, err := CreateBooking(db, client.ID, CreateBookingInput{
		VehicleID: &missing,
		StartDate: dateFromNow(5),
		EndDate:   dateFromNow(8),
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	require.NoError(t, db.Model(vehicle).Update("is_active", false).Error)

	_, err = CreateBooking(db, client.ID, CreateBookingInput{
		VehicleID: &vehicle.ID,
		StartDate: dateFromNow(5),
		EndDate:   dateFromNow(8),
	})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "not active")
}

func TestCreateBookingRefusesOverlappingDates(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	other := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)

	_, err := CreateBooking(db, client.ID, CreateBookingInput{
		VehicleID: &vehicle.ID,
		StartDate: dateFromNow(10),
		EndDate:   dateFromNow(15),
	})
	require.NoError(t, err)

	_, err = CreateBooking(db, other.ID, CreateBookingInput{
		VehicleID: &vehicle.ID,
		StartDate: dateFromNow(14),
		EndDate:   dateFromNow(18),
	})
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)

	// Back to back is fine.
	_, err = CreateBooking(db, other.ID, CreateBookingInput{
		VehicleID: &vehicle.ID,
		StartDate: dateFromNow(15),
		EndDate:   dateFromNow(18),
	})
	require.NoError(t, err)
}

func TestCancelBookingAppliesRefundLadder(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}

	// Confirmed, starts in 10 days, total 33000: the ladder grants 50%.
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	cancelled, refundAmount, refund, err := CancelBooking(db, booking.ID, client.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "Cancelled by client", cancelled.CancellationReason)
	assert.True(t, refundAmount.Equal(decimal.NewFromInt(16500)), "refund = %s", refundAmount)
	// No completed payment exists, so no refund record is opened.
	assert.Nil(t, refund)

	// The slot is released for new bookings.
	free, err := IsAvailable(db, ref, dateFromNow(10), dateFromNow(13), nil)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestCancelBookingGuards(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	stranger := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}

	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	_, _, _, err := CancelBooking(db, booking.ID, stranger.ID, "")
	var pErr *PermissionError
	require.ErrorAs(t, err, &pErr)

	completed := createTestBooking(t, db, client.ID, ref, 20, 22, models.BookingCompleted, 20000)
	_, _, _, err = CancelBooking(db, completed.ID, client.ID, "")
	var sErr *StateError
	require.ErrorAs(t, err, &sErr)

	// Already started: the start date guard refuses it.
	started := createTestBooking(t, db, client.ID, ref, 0, 3, models.BookingOngoing, 30000)
	_, _, _, err = CancelBooking(db, started.ID, client.ID, "")
	require.ErrorAs(t, err, &sErr)
}

func TestConfirmAndRejectBooking(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	otherOwner := createTestUser(t, db, "owner")
	admin := createTestUser(t, db, "admin")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}

	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingPending, 33000)

	// Someone else's owner account cannot decide.
	_, err := ConfirmBooking(db, booking.ID, otherOwner)
	var pErr *PermissionError
	require.ErrorAs(t, err, &pErr)

	confirmed, err := ConfirmBooking(db, booking.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	// Confirming twice trips the pending guard.
	_, err = ConfirmBooking(db, booking.ID, owner)
	var sErr *StateError
	require.ErrorAs(t, err, &sErr)

	// Admins can decide on any listing; rejection records the reason.
	second := createTestBooking(t, db, client.ID, ref, 20, 23, models.BookingPending, 33000)
	rejected, err := RejectBooking(db, second.ID, admin, "vehicle in maintenance")
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, rejected.Status)
	assert.NotNil(t, rejected.RejectedAt)
	assert.Equal(t, "vehicle in maintenance", rejected.RejectionReason)

	_, err = RejectBooking(db, second.ID, admin, "")
	require.ErrorAs(t, err, &sErr)
}

func TestAttachTransactionNumber(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}

	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	_, err := AttachTransactionNumber(db, booking.ID, client.ID, "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	updated, err := AttachTransactionNumber(db, booking.ID, client.ID, "OM-12345")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPendingPaymentVal, updated.Status)
	require.NotNil(t, updated.TransactionNumber)
	assert.Equal(t, "OM-12345", *updated.TransactionNumber)

	cancelled := createTestBooking(t, db, client.ID, ref, 20, 22, models.BookingCancelled, 20000)
	_, err = AttachTransactionNumber(db, cancelled.ID, client.ID, "OM-67890")
	var sErr *StateError
	require.ErrorAs(t, err, &sErr)
}

func TestGetOwnerStatsAggregatesAcrossListings(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	otherOwner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	residence := createTestResidence(t, db, owner.ID, 20000, 5000)
	otherVehicle := createTestVehicle(t, db, otherOwner.ID, 8000)

	vehicleRef := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	residenceRef := models.AssetRef{Kind: models.AssetResidence, ID: residence.ID}
	otherRef := models.AssetRef{Kind: models.AssetVehicle, ID: otherVehicle.ID}

	createTestBooking(t, db, client.ID, vehicleRef, 5, 8, models.BookingPending, 33000)
	createTestBooking(t, db, client.ID, vehicleRef, 10, 13, models.BookingConfirmed, 33000)
	createTestBooking(t, db, client.ID, residenceRef, 5, 7, models.BookingCompleted, 45000)
	createTestBooking(t, db, client.ID, residenceRef, 10, 12, models.BookingCancelled, 45000)
	// Other owner's bookings never leak into the stats.
	createTestBooking(t, db, client.ID, otherRef, 5, 8, models.BookingConfirmed, 24000)

	stats, err := GetOwnerStats(db, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(0), stats.Rejected)
	// Revenue counts confirmed, paid and completed bookings.
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(78000)), "revenue = %s", stats.TotalRevenue)
}

func TestListReceivedBookings(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}

	createTestBooking(t, db, client.ID, ref, 5, 8, models.BookingPending, 33000)
	createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	bookings, err := ListReceivedBookings(db, owner.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, client.ID, bookings[0].Client.ID)
}
