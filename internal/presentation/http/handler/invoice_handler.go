package handler

import (
	"strconv"
	"time"

	"github.com/condorsoft/facturador-api/internal/application/service"
	"github.com/condorsoft/facturador-api/internal/domain/enum"
	"github.com/condorsoft/facturador-api/internal/domain/repository"
	"github.com/condorsoft/facturador-api/internal/presentation/http/dto/request"
	"github.com/condorsoft/facturador-api/internal/presentation/http/dto/response"
	"github.com/condorsoft/facturador-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice listing and PDF export requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List returns a page of the authenticated issuer's invoices
// GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	issuerID := GetIssuerID(c)
	if issuerID == nil {
		response.Unauthorized(c, "Issuer context required")
		return
	}

	var pag pagination.PaginationParams
	if err := c.ShouldBindQuery(&pag); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pag,
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if v := c.Query("bill_type_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			params.BillTypeID = &id
		}
	}
	if v := c.Query("sale_point_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			params.SalePointID = &id
		}
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			params.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			params.EndDate = &t
		}
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), *issuerID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get returns a single invoice by its public token
// GET /api/v1/invoices/:token
func (h *InvoiceHandler) Get(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice token")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// GetDetails returns an invoice with items, tributes and the IVA breakdown
// GET /api/v1/invoices/:token/details
func (h *InvoiceHandler) GetDetails(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice token")
		return
	}

	invoice, err := h.invoiceService.GetInvoiceDetails(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice details retrieved successfully", invoice)
}

// GetByNumber looks an invoice up by its fiscal number
// GET /api/v1/invoices/details?bill_type_id=1&sale_point_id=3&bill_number=1234
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	issuerID := GetIssuerID(c)
	if issuerID == nil {
		response.Unauthorized(c, "Issuer context required")
		return
	}

	billTypeID, err1 := strconv.Atoi(c.Query("bill_type_id"))
	salePointID, err2 := strconv.Atoi(c.Query("sale_point_id"))
	billNumber, err3 := strconv.Atoi(c.Query("bill_number"))
	if err1 != nil || err2 != nil || err3 != nil {
		response.BadRequest(c, "bill_type_id, sale_point_id and bill_number are required")
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), *issuerID, billTypeID, salePointID, billNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Export renders the invoice PDF with the requested fiscal copies.
// The token works as a capability: knowing it grants access to the
// document, so the endpoint needs no session.
// GET /api/v1/invoices/:token/export?copy_type=duplicate
func (h *InvoiceHandler) Export(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice token")
		return
	}

	copyType := enum.ParseCopyType(c.Query("copy_type"))

	out, filename, err := h.invoiceService.ExportInvoice(c.Request.Context(), token, copyType)
	if err != nil {
		response.Error(c, err)
		return
	}

	servePDF(c, out, filename)
}

// ExportPreview renders an unsaved document
// POST /api/v1/invoices/preview/export
func (h *InvoiceHandler) ExportPreview(c *gin.Context) {
	issuerID := GetIssuerID(c)
	if issuerID == nil {
		response.Unauthorized(c, "Issuer context required")
		return
	}

	var req request.PreviewExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid preview payload: "+err.Error())
		return
	}

	input := &service.PreviewInput{
		IssuerID:        *issuerID,
		BillTypeID:      req.BillTypeID,
		SalePointID:     req.SalePointID,
		BillNumber:      req.BillNumber,
		SaleCondition:   req.SaleCondition,
		RecipientTypeID: req.RecipientTypeID,
		RecipientNumber: req.RecipientNumber,
		Note:            req.Note,
	}
	if req.BillDate != "" {
		t, err := time.Parse("2006-01-02", req.BillDate)
		if err != nil {
			response.BadRequest(c, "Invalid bill_date, expected YYYY-MM-DD")
			return
		}
		input.BillDate = t
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.PreviewItemInput{
			Code:            it.Code,
			Description:     it.Description,
			Quantity:        it.Quantity,
			MetricUnit:      it.MetricUnit,
			UnitPrice:       it.UnitPrice,
			IvaAmount:       it.IvaAmount,
			BonusPercentage: it.BonusPercentage,
			AliquotID:       it.AliquotID,
		})
	}
	for _, t := range req.Taxes {
		input.Taxes = append(input.Taxes, service.PreviewTaxInput{
			TaxTypeID:   t.TaxTypeID,
			Description: t.Description,
			BaseAmount:  t.BaseAmount,
			Rate:        t.Rate,
			TotalAmount: t.TotalAmount,
		})
	}

	copyType := enum.ParseCopyType(c.Query("copy_type"))

	out, filename, err := h.invoiceService.ExportPreview(c.Request.Context(), input, copyType)
	if err != nil {
		response.Error(c, err)
		return
	}

	servePDF(c, out, filename)
}

// TestPreview renders a synthetic document for layout verification
// GET /api/v1/invoices/test-preview?seed=42&items_count=30&copy_type=triplicate
func (h *InvoiceHandler) TestPreview(c *gin.Context) {
	seed := time.Now().UnixNano()
	if v := c.Query("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "Invalid seed")
			return
		}
		seed = parsed
	}

	opts := service.TestDataOptions{
		HasTaxes:      c.DefaultQuery("has_taxes", "true") == "true",
		HasAssociated: c.Query("has_associated_invoices") == "true",
		FinalConsumer: c.Query("recipient_type") == "final_consumer",
	}
	if v := c.Query("items_count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.ItemsCount = n
		}
	}
	if v := c.Query("bill_type_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			opts.BillTypeID = id
		}
	}

	copyType := enum.ParseCopyType(c.Query("copy_type"))

	out, filename, err := h.invoiceService.TestPreview(c.Request.Context(), seed, opts, copyType)
	if err != nil {
		response.Error(c, err)
		return
	}

	servePDF(c, out, filename)
}

// servePDF writes the rendered bytes inline so browsers open the viewer
// instead of downloading.
func servePDF(c *gin.Context, out []byte, filename string) {
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(200, "application/pdf", out)
}
