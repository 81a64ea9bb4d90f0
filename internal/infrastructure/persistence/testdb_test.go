package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/openinvoice/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database with the full
// schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.InvoiceModel{},
		&models.InvoiceItemModel{},
		&models.ProductModel{},
		&models.AuditEntryModel{},
		&models.SettingModel{},
	))

	return db
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// buildInvoice assembles a valid invoice for persistence tests
func buildInvoice(t *testing.T, number, previousHash string, createdAt time.Time) *ledger.Invoice {
	t.Helper()

	item, err := ledger.NewInvoiceItem("prod-1", "Espresso Beans", 2, mustDecimal(t, "2.50"), mustDecimal(t, "21"))
	require.NoError(t, err)

	inv, err := ledger.NewInvoice(number, "SELLER-42", "Corner Shop",
		[]*ledger.InvoiceItem{item}, ledger.PaymentCash, "", previousHash, createdAt)
	require.NoError(t, err)
	return inv
}

// appendChain appends n linked invoices starting from the genesis hash
func appendChain(t *testing.T, repo *GormInvoiceRepository, n int, start time.Time) []*ledger.Invoice {
	t.Helper()

	ctx := context.Background()
	previous := ledger.GenesisHash
	invoices := make([]*ledger.Invoice, 0, n)
	for i := 0; i < n; i++ {
		inv := buildInvoice(t,
			ledger.FormatInvoiceNumber(start.Year(), i+1),
			previous,
			start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Append(ctx, inv))
		previous = inv.CurrentHash
		invoices = append(invoices, inv)
	}
	return invoices
}
