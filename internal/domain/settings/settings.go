package settings

import (
	"context"

	"github.com/shopspring/decimal"
)

// Well-known setting keys
const (
	KeyStoreName      = "store_name"
	KeySellerID       = "seller_id"
	KeyCurrencySymbol = "currency_symbol"
	KeyDefaultVATRate = "default_vat_rate"
)

// Setting is one persisted key/value pair
type Setting struct {
	Key   string
	Value string
}

// StoreProfile is the seller identity frozen into every invoice at
// creation time. It is passed into the assembler explicitly so the hash
// computation stays pure and reproducible under test.
type StoreProfile struct {
	StoreName      string
	SellerID       string
	CurrencySymbol string
	DefaultVATRate decimal.Decimal
}

// Repository persists settings
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) ([]Setting, error)
}
