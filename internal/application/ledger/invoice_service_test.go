package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestInvoiceService(t *testing.T, repo *memInvoiceRepo, products *MockProductRepository) *InvoiceService {
	t.Helper()
	auditRepo := new(MockAuditRepository)
	auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := NewInvoiceService(repo, products, testProfile(), auditRepo, testLogger())
	svc.SetClock(func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	})
	return svc
}

func TestInvoiceServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("first sale on an empty ledger", func(t *testing.T) {
		repo := newMemInvoiceRepo()
		products := new(MockProductRepository)
		product := testProduct("Espresso Beans", "2.50", "21", 10)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		products.On("Save", mock.Anything, product).Return(nil)

		svc := newTestInvoiceService(t, repo, products)

		resp, err := svc.Create(ctx, CreateInvoiceRequest{
			Lines:         []CreateInvoiceLineInput{{ProductID: product.ID.String(), Quantity: 2}},
			PaymentMethod: "cash",
		})
		require.NoError(t, err)

		assert.Equal(t, "INV-2026-0001", resp.InvoiceNumber)
		assert.Equal(t, "5.00", resp.Subtotal.StringFixed(2))
		assert.Equal(t, "1.05", resp.VATAmount.StringFixed(2))
		assert.Equal(t, "6.05", resp.Total.StringFixed(2))
		assert.Equal(t, ledger.GenesisHash, resp.PreviousHash)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, "SELLER-42", resp.SellerID)
		assert.Equal(t, "Corner Shop", resp.StoreName)
		assert.NotEmpty(t, resp.QRData)

		// Stock was decremented after the append
		assert.Equal(t, 8, product.Stock)
		products.AssertExpectations(t)
	})

	t.Run("second sale links to the first", func(t *testing.T) {
		repo := newMemInvoiceRepo()
		products := new(MockProductRepository)
		product := testProduct("Espresso Beans", "2.50", "21", 10)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		products.On("Save", mock.Anything, product).Return(nil)

		svc := newTestInvoiceService(t, repo, products)
		req := CreateInvoiceRequest{
			Lines:         []CreateInvoiceLineInput{{ProductID: product.ID.String(), Quantity: 1}},
			PaymentMethod: "card",
		}

		first, err := svc.Create(ctx, req)
		require.NoError(t, err)
		second, err := svc.Create(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, "INV-2026-0002", second.InvoiceNumber)
		assert.Equal(t, first.CurrentHash, second.PreviousHash)

		chain, err := repo.FindAllAscending(ctx)
		require.NoError(t, err)
		result := ledger.VerifyChain(chain)
		assert.True(t, result.Valid)
		assert.Equal(t, 2, result.CheckedCount)
	})

	t.Run("unknown product aborts before any persistence", func(t *testing.T) {
		repo := newMemInvoiceRepo()
		products := new(MockProductRepository)
		known := testProduct("Espresso Beans", "2.50", "21", 10)
		products.On("FindByID", mock.Anything, known.ID).Return(known, nil)
		products.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		svc := newTestInvoiceService(t, repo, products)

		_, err := svc.Create(ctx, CreateInvoiceRequest{
			Lines: []CreateInvoiceLineInput{
				{ProductID: known.ID.String(), Quantity: 1},
				{ProductID: "0e7b1d9c-2f64-4f5a-9f27-5d41c8a10a11", Quantity: 1},
			},
			PaymentMethod: "cash",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_PRODUCT", domainErr.Code)

		// Nothing was appended and no stock moved
		_, err = repo.FindLatest(ctx)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, 10, known.Stock)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unsupported payment method", func(t *testing.T) {
		repo := newMemInvoiceRepo()
		svc := newTestInvoiceService(t, repo, new(MockProductRepository))

		_, err := svc.Create(ctx, CreateInvoiceRequest{
			Lines:         []CreateInvoiceLineInput{{ProductID: "0e7b1d9c-2f64-4f5a-9f27-5d41c8a10a11", Quantity: 1}},
			PaymentMethod: "barter",
		})
		assert.Error(t, err)
	})

	t.Run("counter seeds from the highest stored sequence", func(t *testing.T) {
		repo := newMemInvoiceRepo()
		products := new(MockProductRepository)
		product := testProduct("Espresso Beans", "2.50", "21", 10)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		products.On("Save", mock.Anything, product).Return(nil)

		// Pre-existing ledger from an earlier process lifetime
		item, err := ledger.NewInvoiceItem(product.ID.String(), product.Name, 1, product.Price, product.VATRate)
		require.NoError(t, err)
		existing, err := ledger.NewInvoice("INV-2026-0041", "SELLER-42", "Corner Shop",
			[]*ledger.InvoiceItem{item}, ledger.PaymentCash, "", ledger.GenesisHash,
			time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, existing))

		svc := newTestInvoiceService(t, repo, products)
		resp, err := svc.Create(ctx, CreateInvoiceRequest{
			Lines:         []CreateInvoiceLineInput{{ProductID: product.ID.String(), Quantity: 1}},
			PaymentMethod: "cash",
		})
		require.NoError(t, err)

		assert.Equal(t, "INV-2026-0042", resp.InvoiceNumber)
		assert.Equal(t, existing.CurrentHash, resp.PreviousHash)
	})

	t.Run("concurrent sales never fork the chain", func(t *testing.T) {
		repo := newMemInvoiceRepo()
		products := new(MockProductRepository)
		product := testProduct("Espresso Beans", "2.50", "21", 1000)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		products.On("Save", mock.Anything, product).Return(nil)

		svc := newTestInvoiceService(t, repo, products)
		req := CreateInvoiceRequest{
			Lines:         []CreateInvoiceLineInput{{ProductID: product.ID.String(), Quantity: 1}},
			PaymentMethod: "cash",
		}

		const workers = 20
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.Create(ctx, req); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("concurrent create failed: %v", err)
		}

		chain, err := repo.FindAllAscending(ctx)
		require.NoError(t, err)
		require.Len(t, chain, workers)

		result := ledger.VerifyChain(chain)
		assert.True(t, result.Valid)
		assert.Equal(t, workers, result.CheckedCount)

		numbers := make(map[string]bool, workers)
		for _, inv := range chain {
			numbers[inv.InvoiceNumber] = true
		}
		assert.Len(t, numbers, workers)
	})
}

func TestInvoiceServiceGetByNumber(t *testing.T) {
	ctx := context.Background()
	repo := newMemInvoiceRepo()
	products := new(MockProductRepository)
	product := testProduct("Espresso Beans", "2.50", "21", 10)
	products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)

	svc := newTestInvoiceService(t, repo, products)
	created, err := svc.Create(ctx, CreateInvoiceRequest{
		Lines:         []CreateInvoiceLineInput{{ProductID: product.ID.String(), Quantity: 2}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	resp, err := svc.GetByNumber(ctx, created.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, resp.InvoiceNumber)
	assert.Equal(t, created.CurrentHash, resp.CurrentHash)

	_, err = svc.GetByNumber(ctx, "INV-2026-9999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
