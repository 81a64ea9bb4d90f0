package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/openinvoice/backend/internal/infrastructure/csvimport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImportService(repo *memProductRepo, t *testing.T) *ProductImportService {
	return NewProductImportService(repo, relaxedAudit(), mustDecimal(t, "21"), testLogger())
}

func TestProductImport(t *testing.T) {
	ctx := context.Background()

	t.Run("creates products from rows", func(t *testing.T) {
		repo := newMemProductRepo()
		svc := newTestImportService(repo, t)

		csv := "barcode,name,price,vat_rate,stock\n" +
			"8710000000017,Espresso Beans,12.50,21,10\n" +
			"8710000000024,Filter Paper,3.20,9,40\n"
		result, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)

		assert.Equal(t, 2, result.Created)
		assert.Equal(t, 0, result.Updated)
		assert.Equal(t, 0, result.Skipped)
		assert.Empty(t, result.Errors)
		assert.Equal(t, 2, repo.count())

		stored, err := repo.FindByBarcode(ctx, "8710000000024")
		require.NoError(t, err)
		assert.Equal(t, "Filter Paper", stored.Name)
		assert.Equal(t, "9", stored.VATRate.String())
		assert.Equal(t, 40, stored.Stock)
	})

	t.Run("updates existing products by barcode", func(t *testing.T) {
		repo := newMemProductRepo()
		svc := newTestImportService(repo, t)

		first := "barcode,name,price\n8710000000017,Espresso Beans,12.50\n"
		_, err := svc.Import(ctx, strings.NewReader(first))
		require.NoError(t, err)

		second := "barcode,name,price,stock\n8710000000017,Espresso Beans 1kg,11.95,25\n"
		result, err := svc.Import(ctx, strings.NewReader(second))
		require.NoError(t, err)

		assert.Equal(t, 0, result.Created)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, repo.count())

		stored, err := repo.FindByBarcode(ctx, "8710000000017")
		require.NoError(t, err)
		assert.Equal(t, "Espresso Beans 1kg", stored.Name)
		assert.Equal(t, "11.95", stored.Price.StringFixed(2))
		assert.Equal(t, 25, stored.Stock)
	})

	t.Run("applies default VAT rate when column is absent", func(t *testing.T) {
		repo := newMemProductRepo()
		svc := newTestImportService(repo, t)

		_, err := svc.Import(ctx, strings.NewReader("name,price\nLoose Tea,4.00\n"))
		require.NoError(t, err)

		page, _, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "21", page[0].VATRate.String())
	})

	t.Run("accepts comma decimal separator", func(t *testing.T) {
		repo := newMemProductRepo()
		svc := newTestImportService(repo, t)

		csv := "name,price\nEspresso Beans,\"12,50\"\n"
		result, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Equal(t, 1, result.Created)

		page, _, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, "12.50", page[0].Price.StringFixed(2))
	})

	t.Run("skips bad rows but keeps going", func(t *testing.T) {
		repo := newMemProductRepo()
		svc := newTestImportService(repo, t)

		csv := "name,price,stock\n" +
			"Espresso Beans,12.50,10\n" +
			",3.20,5\n" +
			"Filter Paper,not-a-price,5\n" +
			"Grinder Brush,2.10,-3\n" +
			"Loose Tea,4.00,0\n"
		result, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)

		assert.Equal(t, 2, result.Created)
		assert.Equal(t, 3, result.Skipped)
		require.Len(t, result.Errors, 3)
		assert.Equal(t, 3, result.Errors[0].Row)
		assert.Equal(t, "name", result.Errors[0].Field)
		assert.Equal(t, "price", result.Errors[1].Field)
		assert.Equal(t, "stock", result.Errors[2].Field)
	})

	t.Run("missing required column aborts", func(t *testing.T) {
		svc := newTestImportService(newMemProductRepo(), t)

		_, err := svc.Import(ctx, strings.NewReader("barcode,name\n123,Beans\n"))
		var missing *csvimport.MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "price", missing.Column)
	})

	t.Run("empty file aborts", func(t *testing.T) {
		svc := newTestImportService(newMemProductRepo(), t)

		_, err := svc.Import(ctx, strings.NewReader(""))
		assert.ErrorIs(t, err, csvimport.ErrEmptyFile)
	})
}
