package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// CommissionRate returns the platform commission rate applied to payments,
// defaulting to 10% when unset or malformed.
func CommissionRate() decimal.Decimal {
	raw := Config("PLATFORM_COMMISSION_RATE")
	if raw == "" {
		return decimal.RequireFromString("0.10")
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		log.Printf("⚠️ Invalid PLATFORM_COMMISSION_RATE %q, falling back to 0.10", raw)
		return decimal.RequireFromString("0.10")
	}
	return rate
}

// PaymentProviderName selects the payment provider strategy at startup.
// "manual" (proof upload + admin verification) is the default; anything else
// is treated as an external gateway identifier.
func PaymentProviderName() string {
	name := Config("PAYMENT_PROVIDER")
	if name == "" {
		return "manual"
	}
	return name
}
