package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/condorsoft/facturador-api/internal/application/render"
	"github.com/condorsoft/facturador-api/internal/application/service"
	"github.com/condorsoft/facturador-api/internal/domain/entity"
	"github.com/condorsoft/facturador-api/internal/domain/repository"
	"github.com/condorsoft/facturador-api/internal/presentation/http/handler"
	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/condorsoft/facturador-api/pkg/padron"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*entity.Invoice
}

func (s *stubInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error { return nil }

func (s *stubInvoiceRepo) GetByToken(ctx context.Context, token uuid.UUID) (*entity.Invoice, error) {
	return s.invoices[token], nil
}

func (s *stubInvoiceRepo) GetByNumber(ctx context.Context, issuerID uuid.UUID, billTypeID, salePointID, billNumber int) (*entity.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceRepo) GetWithDetails(ctx context.Context, token uuid.UUID) (*entity.Invoice, error) {
	return s.invoices[token], nil
}

func (s *stubInvoiceRepo) List(ctx context.Context, issuerID uuid.UUID, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return nil, 0, nil
}

type stubIssuerRepo struct {
	issuer *entity.Issuer
}

func (s *stubIssuerRepo) Create(ctx context.Context, issuer *entity.Issuer) error { return nil }

func (s *stubIssuerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Issuer, error) {
	return s.issuer, nil
}

func (s *stubIssuerRepo) GetByCUIT(ctx context.Context, cuit string) (*entity.Issuer, error) {
	return s.issuer, nil
}

func testIssuer() *entity.Issuer {
	return &entity.Issuer{
		ID:                uuid.New(),
		Name:              "Condorsoft S.A.",
		CUIT:              "30-71234567-8",
		GrossIncomeNumber: "901-123456-7",
		IvaCondition:      "Responsable Inscripto",
		Address:           "Calle 50 N° 876",
		City:              "La Plata",
		State:             "Buenos Aires",
	}
}

func storedInvoice(issuer *entity.Issuer) *entity.Invoice {
	caeExpiry := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	return &entity.Invoice{
		ID:              uuid.New(),
		Token:           uuid.New(),
		IssuerID:        issuer.ID,
		BillTypeID:      1,
		SalePointID:     3,
		BillNumber:      1234,
		BillDate:        time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		SaleCondition:   "Contado",
		RecipientTypeID: "80",
		RecipientNumber: "20304050607",
		NetAmount:       decimal.RequireFromString("1000"),
		IvaAmount:       decimal.RequireFromString("210"),
		TotalAmount:     decimal.RequireFromString("1210"),
		CAE:             "71234567890123",
		CAEExpiry:       &caeExpiry,
		Issuer:          *issuer,
		Recipient: &entity.Recipient{
			Name:        "Cliente S.R.L.",
			Address:     "Av. 7 N° 1154",
			City:        "La Plata",
			State:       "Buenos Aires",
			IvaCategory: "Responsable Inscripto",
		},
		Items: []entity.InvoiceItem{{
			Description: "Servicio de consultoría",
			Quantity:    decimal.RequireFromString("2"),
			UnitPrice:   decimal.RequireFromString("500"),
			IvaAmount:   decimal.RequireFromString("105"),
			AliquotID:   5,
		}},
		IvaDetails: []entity.InvoiceIvaDetail{{
			AliquotID:  5,
			BaseAmount: decimal.RequireFromString("1000"),
			Amount:     decimal.RequireFromString("210"),
		}},
	}
}

func testRouter(t *testing.T, invoices ...*entity.Invoice) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubInvoiceRepo{invoices: map[uuid.UUID]*entity.Invoice{}}
	issuer := testIssuer()
	for _, inv := range invoices {
		repo.invoices[inv.Token] = inv
	}

	resolver := &render.RecipientResolver{Lookup: padron.NewNullLookup()}
	svc := service.NewInvoiceService(repo, &stubIssuerRepo{issuer: issuer}, resolver, afip.NewStaticTables(), "", "")
	h := handler.NewInvoiceHandler(svc)

	router := gin.New()
	router.GET("/invoices/test-preview", h.TestPreview)
	router.GET("/invoices/details", func(c *gin.Context) {
		c.Set("issuer_id", issuer.ID)
		h.GetByNumber(c)
	})
	router.GET("/invoices/:token/export", h.Export)
	router.POST("/invoices/preview/export", func(c *gin.Context) {
		c.Set("issuer_id", issuer.ID)
		h.ExportPreview(c)
	})
	return router
}

func TestInvoiceHandler_ExportUnknownToken(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/"+uuid.NewString()+"/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Invoice not found")
}

func TestInvoiceHandler_ExportInvalidToken(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/not-a-uuid/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_ExportStoredInvoice(t *testing.T) {
	inv := storedInvoice(testIssuer())
	router := testRouter(t, inv)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/"+inv.Token.String()+"/export", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), service.FilenameSingle)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestInvoiceHandler_ExportCombinedFilename(t *testing.T) {
	inv := storedInvoice(testIssuer())
	router := testRouter(t, inv)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/"+inv.Token.String()+"/export?copy_type=duplicate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Header().Get("Content-Disposition"), service.FilenameCombined))
}

func TestInvoiceHandler_PreviewExportCombinedFilename(t *testing.T) {
	router := testRouter(t)

	body := `{
		"bill_type_id": 6,
		"sale_point_id": 3,
		"bill_number": 99,
		"recipient_type_id": "96",
		"recipient_number": "30405060",
		"items": [{"description": "Servicio de consultoría", "quantity": "1", "unit_price": "100", "aliquot_id": 5}]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoices/preview/export?copy_type=duplicate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), service.FilenameCombined)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestInvoiceHandler_GetByNumberNotFound(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/details?bill_type_id=1&sale_point_id=3&bill_number=99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceHandler_GetByNumberRejectsMissingParams(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/details?bill_type_id=1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_TestPreview(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/test-preview?seed=42", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), service.FilenameTest)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestInvoiceHandler_TestPreviewRejectsBadSeed(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/test-preview?seed=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
