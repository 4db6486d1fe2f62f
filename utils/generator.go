package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Reference numbers are an opaque prefix plus random hex, generated once at
// creation and never changed.
func newReference(prefix string, hexLen int) string {
	buf := make([]byte, (hexLen+1)/2)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(buf)[:hexLen])
}

func GenerateBookingNumber() string {
	return newReference("ZAN", 8)
}

func GenerateTransactionID() string {
	return newReference("PAY", 12)
}

func GenerateRefundID() string {
	return newReference("REF", 12)
}

func GeneratePayoutID() string {
	return newReference("OUT", 12)
}
