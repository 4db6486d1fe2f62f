package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zanloc/rental-backend/models"
)

var testCommissionRate = decimal.RequireFromString("0.10")

func TestCreatePaymentDerivesCommissionSplit(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 10000)

	payment, message, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Equal(t, "mobile_money", payment.PaymentMethod)
	assert.Regexp(t, `^PAY-`, payment.TransactionID)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(10000)), "amount = %s", payment.Amount)
	assert.True(t, payment.PlatformCommission.Equal(decimal.NewFromInt(1000)), "commission = %s", payment.PlatformCommission)
	assert.True(t, payment.OwnerAmount.Equal(decimal.NewFromInt(9000)), "owner amount = %s", payment.OwnerAmount)
	assert.Contains(t, message, "proof")
}

func TestCreatePaymentGuards(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	stranger := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}

	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)
	_, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, stranger.ID, booking.ID, "")
	var pErr *PermissionError
	require.ErrorAs(t, err, &pErr)

	cancelled := createTestBooking(t, db, client.ID, ref, 20, 22, models.BookingCancelled, 20000)
	_, _, err = CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, cancelled.ID, "")
	var sErr *StateError
	require.ErrorAs(t, err, &sErr)
}

func TestSubmitProofMovesPaymentToReview(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	payment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)

	_, err = SubmitProof(db, payment.ID, client.ID, "", "OM-111")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	stranger := createTestUser(t, db, "client")
	_, err = SubmitProof(db, payment.ID, stranger.ID, "https://proofs/1.png", "OM-111")
	var pErr *PermissionError
	require.ErrorAs(t, err, &pErr)

	updated, err := SubmitProof(db, payment.ID, client.ID, "https://proofs/1.png", "OM-111")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProcessing, updated.Status)
	require.NotNil(t, updated.PaymentProofURL)
	assert.Equal(t, "https://proofs/1.png", *updated.PaymentProofURL)
	assert.Equal(t, "OM-111", updated.PaymentReference)
}

func TestSubmitProofRefusedOnCompletedPayment(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	payment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)
	_, err = SubmitProof(db, payment.ID, client.ID, "https://proofs/1.png", "OM-111")
	require.NoError(t, err)
	_, err = ApprovePayment(db, payment.ID, admin)
	require.NoError(t, err)

	_, err = SubmitProof(db, payment.ID, client.ID, "https://proofs/2.png", "OM-222")
	var sErr *StateError
	require.ErrorAs(t, err, &sErr)

	// The completed payment keeps its original proof.
	var reloaded models.Payment
	require.NoError(t, db.First(&reloaded, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentCompleted, reloaded.Status)
	require.NotNil(t, reloaded.PaymentProofURL)
	assert.Equal(t, "https://proofs/1.png", *reloaded.PaymentProofURL)
}

func TestApprovePaymentCompletesAndMarksBookingPaid(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	payment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)
	_, err = SubmitProof(db, payment.ID, client.ID, "https://proofs/1.png", "OM-111")
	require.NoError(t, err)

	approved, err := ApprovePayment(db, payment.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, approved.Status)
	require.NotNil(t, approved.VerifiedByID)
	assert.Equal(t, admin.ID, *approved.VerifiedByID)
	assert.NotNil(t, approved.VerifiedAt)
	assert.NotNil(t, approved.CompletedAt)

	var reloadedBooking models.Booking
	require.NoError(t, db.First(&reloadedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingPaid, reloadedBooking.Status)
}

func TestApprovePaymentAcceptsOfflinePayments(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	// Cash and offline transfers never get a proof submitted; the admin can
	// complete them straight from PENDING.
	payment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "cash")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Nil(t, payment.PaymentProofURL)

	approved, err := ApprovePayment(db, payment.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, approved.Status)
}

func TestApprovePaymentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	payment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)
	first, err := ApprovePayment(db, payment.ID, admin)
	require.NoError(t, err)

	// A second approval is refused and nothing is re-applied.
	_, err = ApprovePayment(db, payment.ID, admin)
	var sErr *StateError
	require.ErrorAs(t, err, &sErr)

	var reloaded models.Payment
	require.NoError(t, db.First(&reloaded, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentCompleted, reloaded.Status)
	require.NotNil(t, reloaded.CompletedAt)
	assert.True(t, reloaded.CompletedAt.Equal(*first.CompletedAt))
	assert.True(t, reloaded.PlatformCommission.Equal(first.PlatformCommission))
}

func TestBookingNeverGetsTwoCompletedPayments(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	first, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)
	second, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)

	_, err = ApprovePayment(db, first.ID, admin)
	require.NoError(t, err)

	_, err = ApprovePayment(db, second.ID, admin)
	var sErr *StateError
	require.ErrorAs(t, err, &sErr)

	var completed int64
	require.NoError(t, db.Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCompleted).
		Count(&completed).Error)
	assert.Equal(t, int64(1), completed)
}

func TestRejectPaymentLeavesBookingUntouched(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	payment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)
	_, err = SubmitProof(db, payment.ID, client.ID, "https://proofs/1.png", "OM-111")
	require.NoError(t, err)

	rejected, err := RejectPayment(db, payment.ID, admin, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, rejected.Status)
	assert.Contains(t, rejected.ErrorMessage, admin.FullName)
	assert.Contains(t, rejected.ErrorMessage, "Invalid payment proof")

	var reloadedBooking models.Booking
	require.NoError(t, db.First(&reloadedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingConfirmed, reloadedBooking.Status)

	// The client can resubmit on the failed payment and try again.
	resubmitted, err := SubmitProof(db, payment.ID, client.ID, "https://proofs/2.png", "OM-222")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProcessing, resubmitted.Status)
}

func TestListPendingVerifications(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 33000)

	waiting, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)
	_, err = SubmitProof(db, waiting.ID, client.ID, "https://proofs/1.png", "OM-111")
	require.NoError(t, err)

	// Still PENDING, not yet submitted for review.
	_, _, err = CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)

	pending, err := ListPendingVerifications(db)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, waiting.ID, pending[0].ID)
	assert.Equal(t, client.ID, pending[0].User.ID)
}

func TestCancellationRefundFlow(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}

	// No completed payment to refund against: cancellation still computes the
	// amount but opens no refund record.
	unpaid := createTestBooking(t, db, client.ID, ref, 40, 43, models.BookingConfirmed, 33000)
	_, amount, refund, err := CancelBooking(db, unpaid.ID, client.ID, "")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(33000)))
	assert.Nil(t, refund)

	// Inside the no-refund window nothing is owed, so nothing is opened even
	// with a completed payment on file.
	soon := createTestBooking(t, db, client.ID, ref, 5, 8, models.BookingPaid, 33000)
	soonPayment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, soon.ID, "")
	require.NoError(t, err)
	_, err = ApprovePayment(db, soonPayment.ID, admin)
	require.NoError(t, err)
	_, amount, refund, err = CancelBooking(db, soon.ID, client.ID, "")
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
	assert.Nil(t, refund)

	// Paid and far out: cancellation and the refund record are one unit.
	booking := createTestBooking(t, db, client.ID, ref, 40, 43, models.BookingPaid, 33000)
	payment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)
	_, err = ApprovePayment(db, payment.ID, admin)
	require.NoError(t, err)

	cancelled, amount, refund, err := CancelBooking(db, booking.ID, client.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	require.NotNil(t, refund)
	assert.Regexp(t, `^REF-`, refund.RefundID)
	assert.Equal(t, models.RefundPending, refund.Status)
	assert.Equal(t, "cancellation", refund.Reason)
	assert.Equal(t, payment.ID, refund.PaymentID)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(33000)))
	assert.True(t, amount.Equal(refund.Amount))

	processed, err := ProcessRefund(db, refund.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.RefundCompleted, processed.Status)
	assert.NotNil(t, processed.CompletedAt)

	var reloadedBooking models.Booking
	require.NoError(t, db.First(&reloadedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingRefunded, reloadedBooking.Status)

	// Processing twice is refused.
	_, err = ProcessRefund(db, refund.ID, true)
	var sErr *StateError
	require.ErrorAs(t, err, &sErr)
}

func TestProcessRefundDecline(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}
	booking := createTestBooking(t, db, client.ID, ref, 40, 43, models.BookingPaid, 33000)

	payment, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, booking.ID, "")
	require.NoError(t, err)
	_, err = ApprovePayment(db, payment.ID, admin)
	require.NoError(t, err)

	_, _, refund, err := CancelBooking(db, booking.ID, client.ID, "")
	require.NoError(t, err)
	require.NotNil(t, refund)

	declined, err := ProcessRefund(db, refund.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.RefundFailed, declined.Status)

	// A declined refund leaves the booking cancelled, not refunded.
	var reloadedBooking models.Booking
	require.NoError(t, db.First(&reloadedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingCancelled, reloadedBooking.Status)
}

func TestCreatePayoutBundlesOwnerShares(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	client := createTestUser(t, db, "client")
	admin := createTestUser(t, db, "admin")
	vehicle := createTestVehicle(t, db, owner.ID, 10000)
	ref := models.AssetRef{Kind: models.AssetVehicle, ID: vehicle.ID}

	// Nothing completed yet.
	_, err := CreatePayout(db, owner.ID, "mobile_money", "+225 07 00 00 00")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	bookingA := createTestBooking(t, db, client.ID, ref, 10, 13, models.BookingConfirmed, 10000)
	bookingB := createTestBooking(t, db, client.ID, ref, 20, 23, models.BookingConfirmed, 20000)

	payA, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, bookingA.ID, "")
	require.NoError(t, err)
	_, err = ApprovePayment(db, payA.ID, admin)
	require.NoError(t, err)

	payB, _, err := CreatePayment(db, ManualProvider{}, testCommissionRate, client.ID, bookingB.ID, "")
	require.NoError(t, err)
	_, err = ApprovePayment(db, payB.ID, admin)
	require.NoError(t, err)

	payout, err := CreatePayout(db, owner.ID, "mobile_money", "+225 07 00 00 00")
	require.NoError(t, err)
	assert.Regexp(t, `^OUT-`, payout.PayoutID)
	assert.Equal(t, models.PayoutPending, payout.Status)
	assert.Len(t, payout.Payments, 2)
	// Owner shares: 9000 + 18000.
	assert.True(t, payout.Amount.Equal(decimal.NewFromInt(27000)), "amount = %s", payout.Amount)

	// Already paid out payments are not bundled again.
	_, err = CreatePayout(db, owner.ID, "mobile_money", "+225 07 00 00 00")
	require.ErrorAs(t, err, &vErr)
}
