package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/condorsoft/facturador-api/internal/application/render"
	"github.com/condorsoft/facturador-api/internal/domain/entity"
	"github.com/condorsoft/facturador-api/internal/domain/enum"
	"github.com/condorsoft/facturador-api/internal/domain/repository"
	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/condorsoft/facturador-api/pkg/apperror"
	"github.com/condorsoft/facturador-api/pkg/fiscal"
	"github.com/condorsoft/facturador-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Export filenames, kept stable because downstream systems key on them.
const (
	FilenameSingle   = "factura.pdf"
	FilenameCombined = "factura_completa.pdf"
	FilenameTest     = "factura_test.pdf"
)

// InvoiceService handles invoice listing and PDF export
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	issuerRepo  repository.IssuerRepository
	resolver    *render.RecipientResolver
	tables      afip.ReferenceTables
	qrBaseURL   string
	logoDir     string
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	issuerRepo repository.IssuerRepository,
	resolver *render.RecipientResolver,
	tables afip.ReferenceTables,
	qrBaseURL string,
	logoDir string,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		issuerRepo:  issuerRepo,
		resolver:    resolver,
		tables:      tables,
		qrBaseURL:   qrBaseURL,
		logoDir:     logoDir,
	}
}

// ListInvoices returns a page of invoices for an issuer
func (s *InvoiceService) ListInvoices(ctx context.Context, issuerID uuid.UUID, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	invoices, total, err := s.invoiceRepo.List(ctx, issuerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// GetInvoice returns an invoice by its public token
func (s *InvoiceService) GetInvoice(ctx context.Context, token uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoiceDetails returns an invoice with items, taxes and the IVA
// breakdown loaded
func (s *InvoiceService) GetInvoiceDetails(ctx context.Context, token uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithDetails(ctx, token)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoiceByNumber looks an invoice up by its fiscal identity: bill
// type, sale point and number, scoped to the issuer.
func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, issuerID uuid.UUID, billTypeID, salePointID, billNumber int) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByNumber(ctx, issuerID, billTypeID, salePointID, billNumber)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ExportInvoice renders the requested fiscal copies of a stored invoice
// and returns the document bytes with the download filename.
func (s *InvoiceService) ExportInvoice(ctx context.Context, token uuid.UUID, copyType enum.CopyType) ([]byte, string, error) {
	invoice, err := s.GetInvoiceDetails(ctx, token)
	if err != nil {
		return nil, "", err
	}

	input, err := s.buildInput(ctx, invoice)
	if err != nil {
		return nil, "", err
	}

	out, err := render.GenerateCombined(input, copyType)
	if err != nil {
		return nil, "", err
	}

	if copyType.Combined() {
		return out, FilenameCombined, nil
	}
	return out, FilenameSingle, nil
}

// PreviewItemInput is one line of an unsaved document
type PreviewItemInput struct {
	Code            string
	Description     string
	Quantity        decimal.Decimal
	MetricUnit      string
	UnitPrice       decimal.Decimal
	IvaAmount       decimal.Decimal
	BonusPercentage decimal.Decimal
	AliquotID       int
}

// PreviewTaxInput is one non-IVA tribute of an unsaved document
type PreviewTaxInput struct {
	TaxTypeID   int
	Description string
	BaseAmount  decimal.Decimal
	Rate        decimal.Decimal
	TotalAmount decimal.Decimal
}

// PreviewInput represents a document that only exists in the caller's
// editor: it is rendered without being persisted or authorized.
type PreviewInput struct {
	IssuerID        uuid.UUID
	BillTypeID      int
	SalePointID     int
	BillNumber      int
	BillDate        time.Time
	SaleCondition   string
	RecipientTypeID string
	RecipientNumber string
	Note            string
	Items           []PreviewItemInput
	Taxes           []PreviewTaxInput
}

// ExportPreview renders an unsaved document. Unknown aliquot ids fall
// back to the standard rate so a draft never aborts the preview; the
// document carries no authorization block.
func (s *InvoiceService) ExportPreview(ctx context.Context, in *PreviewInput, copyType enum.CopyType) ([]byte, string, error) {
	issuer, err := s.issuerRepo.GetByID(ctx, in.IssuerID)
	if err != nil {
		return nil, "", err
	}
	if issuer == nil {
		return nil, "", apperror.NewNotFoundError("Issuer")
	}

	items := make([]fiscal.Item, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, fiscal.Item{
			Code:            it.Code,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			IvaAmount:       it.IvaAmount,
			BonusPercentage: it.BonusPercentage,
			MetricUnit:      it.MetricUnit,
			AliquotID:       it.AliquotID,
		})
	}

	taxes := make([]fiscal.TaxLine, 0, len(in.Taxes))
	for _, t := range in.Taxes {
		taxes = append(taxes, fiscal.TaxLine{
			ID:          t.TaxTypeID,
			Description: t.Description,
			NetAmount:   t.BaseAmount,
			Rate:        t.Rate,
			TotalAmount: t.TotalAmount,
		})
	}

	rates := fiscal.BestEffort(s.tables, decimal.NewFromInt(21))
	totals, details, err := fiscal.Compute(items, taxes, rates)
	if err != nil {
		return nil, "", apperror.NewUnprocessableError(err.Error())
	}

	recipient, err := s.resolver.Resolve(ctx, in.RecipientTypeID, in.RecipientNumber, nil)
	if err != nil {
		return nil, "", apperror.NewUnprocessableError(err.Error())
	}

	billDate := in.BillDate
	if billDate.IsZero() {
		billDate = time.Now()
	}

	input := &render.Input{
		Issuer:        s.issuerBlock(issuer),
		Recipient:     recipient,
		BillTypeID:    in.BillTypeID,
		BillTypeName:  afip.BillTypeDisplayName(s.tables.BillTypeName(in.BillTypeID)),
		ShortCode:     s.tables.BillTypeShortCode(in.BillTypeID),
		SalePointID:   in.SalePointID,
		BillNumber:    in.BillNumber,
		BillDate:      billDate,
		SaleCondition: in.SaleCondition,
		Items:         items,
		Taxes:         taxes,
		IvaDetails:    details,
		Totals:        totals,
		Note:          in.Note,
		QRBaseURL:     s.qrBaseURL,
		Tables:        s.tables,
	}

	out, err := render.GenerateCombined(input, copyType)
	if err != nil {
		return nil, "", err
	}

	if copyType.Combined() {
		return out, FilenameCombined, nil
	}
	return out, FilenameSingle, nil
}

// buildInput assembles the render input from a stored invoice. Amounts
// the authorization workflow recorded are authoritative; when absent the
// engine derives them from the line items.
func (s *InvoiceService) buildInput(ctx context.Context, invoice *entity.Invoice) (*render.Input, error) {
	items := make([]fiscal.Item, 0, len(invoice.Items))
	for _, it := range invoice.Items {
		items = append(items, fiscal.Item{
			Code:            it.Code,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			IvaAmount:       it.IvaAmount,
			BonusPercentage: it.BonusPercentage,
			MetricUnit:      it.MetricUnit,
			AliquotID:       it.AliquotID,
		})
	}

	taxes := make([]fiscal.TaxLine, 0, len(invoice.Taxes))
	for _, t := range invoice.Taxes {
		taxes = append(taxes, fiscal.TaxLine{
			ID:          t.TaxTypeID,
			Description: t.Description,
			NetAmount:   t.BaseAmount,
			Rate:        t.Rate,
			TotalAmount: t.TotalAmount,
		})
	}

	var totals fiscal.Totals
	var details []fiscal.IvaDetail

	if invoice.TotalAmount.IsZero() {
		var err error
		totals, details, err = fiscal.Compute(items, taxes, s.tables)
		if err != nil {
			return nil, apperror.NewUnprocessableError(err.Error())
		}
	} else {
		totals = fiscal.Totals{
			Net:     invoice.NetAmount,
			Iva:     invoice.IvaAmount,
			Untaxed: invoice.UntaxedAmount,
			Exempt:  invoice.ExemptAmount,
			Tax:     invoice.TaxAmount,
			Total:   invoice.TotalAmount,
		}
		for _, d := range invoice.IvaDetails {
			details = append(details, fiscal.IvaDetail{
				AliquotID:   d.AliquotID,
				NetAmount:   d.BaseAmount,
				TotalAmount: d.Amount,
			})
		}
		if len(details) == 0 {
			_, details, _ = fiscal.Compute(items, nil, fiscal.BestEffort(s.tables, decimal.NewFromInt(21)))
		}
	}

	recipient, err := s.resolver.Resolve(ctx, invoice.RecipientTypeID, invoice.RecipientNumber, invoice.Recipient)
	if err != nil {
		return nil, apperror.NewUnprocessableError(err.Error())
	}

	refs := make([]string, 0, len(invoice.AssociatedInvoices))
	for _, a := range invoice.AssociatedInvoices {
		refs = append(refs, a.Reference())
	}

	return &render.Input{
		Issuer:         s.issuerBlock(&invoice.Issuer),
		Recipient:      recipient,
		BillTypeID:     invoice.BillTypeID,
		BillTypeName:   afip.BillTypeDisplayName(s.tables.BillTypeName(invoice.BillTypeID)),
		ShortCode:      s.tables.BillTypeShortCode(invoice.BillTypeID),
		SalePointID:    invoice.SalePointID,
		BillNumber:     invoice.BillNumber,
		BillDate:       invoice.BillDate,
		DueDate:        invoice.DueDate,
		ServiceFrom:    invoice.ServiceFrom,
		ServiceTo:      invoice.ServiceTo,
		SaleCondition:  invoice.SaleCondition,
		CBU:            invoice.CBU,
		Alias:          invoice.Alias,
		Items:          items,
		Taxes:          taxes,
		IvaDetails:     details,
		Totals:         totals,
		AssociatedRefs: refs,
		Note:           strings.TrimSpace(invoice.Note),
		CAE:            invoice.CAE,
		CAEExpiry:      invoice.CAEExpiry,
		QRBaseURL:      s.qrBaseURL,
		Tables:         s.tables,
	}, nil
}

// issuerBlock maps the stored issuer onto the header block, resolving
// relative logo paths against the configured logo directory.
func (s *InvoiceService) issuerBlock(issuer *entity.Issuer) render.Issuer {
	logo := issuer.LogoPath
	if logo != "" && !filepath.IsAbs(logo) {
		logo = filepath.Join(s.logoDir, logo)
	}

	return render.Issuer{
		Name:              issuer.Name,
		CUIT:              issuer.CUIT,
		GrossIncomeNumber: issuer.GrossIncomeNumber,
		IvaCondition:      issuer.IvaCondition,
		Address:           issuer.Address,
		FullAddress:       issuer.FullAddress(),
		ActivityStartDate: issuer.ActivityStartDate,
		LogoPath:          logo,
	}
}
