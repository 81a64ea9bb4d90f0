package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/openinvoice/backend/internal/application/catalog"
	ledgerapp "github.com/openinvoice/backend/internal/application/ledger"
	reportapp "github.com/openinvoice/backend/internal/application/report"
	settingsapp "github.com/openinvoice/backend/internal/application/settings"
	"github.com/openinvoice/backend/internal/domain/report"
	"github.com/openinvoice/backend/internal/interfaces/http/dto"
	"github.com/openinvoice/backend/internal/interfaces/http/middleware"
	"github.com/openinvoice/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer wires the full handler stack onto in-memory stores
type testServer struct {
	engine   *gin.Engine
	invoices *memInvoiceRepo
	products *memProductRepo
	auditLog *memAuditRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	invoiceRepo := newMemInvoiceRepo()
	productRepo := newMemProductRepo()
	settingsRepo := newMemSettingsRepo()
	auditRepo := newMemAuditRepo()

	settingsService := settingsapp.NewService(settingsRepo, auditRepo, logger)
	require.NoError(t, settingsService.EnsureDefaults(context.Background(), settingsapp.Defaults{
		StoreName:      "Test Store",
		SellerID:       "SELLER-1",
		CurrencySymbol: "€",
		DefaultVATRate: "21",
	}))

	invoiceService := ledgerapp.NewInvoiceService(invoiceRepo, productRepo, settingsService, auditRepo, logger)
	returnService := ledgerapp.NewReturnService(invoiceRepo, productRepo, auditRepo, logger)
	verificationService := ledgerapp.NewVerificationService(invoiceRepo, auditRepo, logger)
	productService := catalogapp.NewProductService(productRepo, logger)
	importService := catalogapp.NewProductImportService(productRepo, auditRepo, decimal.NewFromInt(21), logger)
	reportService := reportapp.NewService(&stubReportRepo{summary: report.PeriodSummary{
		InvoiceCount: 2,
		GrossTotal:   decimal.RequireFromString("12.10"),
		VATTotal:     decimal.RequireFromString("2.10"),
	}}, logger)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.NewRouter(engine).Register(
		NewInvoiceHandler(invoiceService, returnService),
		NewVerificationHandler(verificationService),
		NewProductHandler(productService, importService),
		NewReportHandler(reportService),
		NewSettingsHandler(settingsService),
		NewAuditHandler(auditRepo),
		NewSystemHandler(nil, "test"),
	).Setup()

	return &testServer{
		engine:   engine,
		invoices: invoiceRepo,
		products: productRepo,
		auditLog: auditRepo,
	}
}

// do performs a JSON request against the test server
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

// envelope mirrors the response wrapper with the data left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

// decode unmarshals the response envelope and its data payload
func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// createProduct adds a catalog product through the API and returns it
func (ts *testServer) createProduct(t *testing.T, name, barcode, price string, stock int) catalogapp.ProductResponse {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/products", catalogapp.CreateProductRequest{
		Barcode: barcode,
		Name:    name,
		Price:   decimal.RequireFromString(price),
		VATRate: decimal.NewFromInt(21),
		Stock:   stock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product catalogapp.ProductResponse
	decode(t, w, &product)
	return product
}

// createInvoice rings up a one-line sale through the API and returns it
func (ts *testServer) createInvoice(t *testing.T, productID string, quantity int) ledgerapp.InvoiceResponse {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/invoices", ledgerapp.CreateInvoiceRequest{
		Lines:         []ledgerapp.CreateInvoiceLineInput{{ProductID: productID, Quantity: quantity}},
		PaymentMethod: "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var invoice ledgerapp.InvoiceResponse
	decode(t, w, &invoice)
	return invoice
}
