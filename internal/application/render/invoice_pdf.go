package render

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/condorsoft/facturador-api/internal/domain/enum"
	"github.com/condorsoft/facturador-api/pkg/apperror"
	"github.com/condorsoft/facturador-api/pkg/pdf"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Layout constants, in points. The repeating bands are drawn at fixed
// positions; flowing content (items, note, totals) uses the cursor.
const (
	bannerY      = 36.0
	bannerH      = 22.0
	headerBlockH = 126.0
	fceBandH     = 22.0
	customerH    = 68.0
	bandLineH    = 14.0
	tableHeadH   = 18.0
	itemRowH     = 16.0
	totalsBoxH   = 100.0

	// Clearance required below the cursor before starting each section.
	rowClearance    = 150.0
	noteClearance   = 130.0
	totalsClearance = 300.0

	footerQRY    = 652.0
	footerQRSize = 65.0
)

// Item table column widths; they sum to the content width.
var itemColWidths = [7]float64{50, 170, 50, 60, 80, 50, 80}

var itemColTitles = [7]string{
	"Cód.", "Producto / Servicio", "Cant.", "Uni. Med.",
	"Precio Unit.", "% Bonif.", "Subtotal",
}

// InvoicePDF lays out one fiscal copy of a document.
type InvoicePDF struct {
	in       *Input
	copyType enum.CopyType
	doc      *pdf.Document
	qrURL    string
}

// NewInvoicePDF creates a renderer for one copy of the document.
func NewInvoicePDF(in *Input, copyType enum.CopyType) *InvoicePDF {
	return &InvoicePDF{in: in, copyType: copyType}
}

// Render lays the document out and returns its bytes with the page
// count. Authorized documents fail the render when the QR payload cannot
// be assembled; identity data is never defaulted.
func (p *InvoicePDF) Render() (pdf.Rendered, error) {
	if p.in.Authorized() {
		payload, err := p.in.QRPayload()
		if err != nil {
			return pdf.Rendered{}, apperror.NewRenderError("QR payload", err)
		}
		url, err := payload.EncodeURL(p.in.QRBaseURL)
		if err != nil {
			return pdf.Rendered{}, apperror.NewRenderError("QR payload", err)
		}
		p.qrURL = url
	}

	p.doc = pdf.NewDocument()
	p.doc.SetContentTop(p.contentTop())
	p.doc.SetRepeatingHeader(p.drawHeader)
	p.doc.SetRepeatingFooter(p.drawFooter)
	p.doc.AddPage()

	p.drawItems()
	p.drawNote()
	p.drawTotals()

	out, err := p.doc.Output()
	if err != nil {
		return pdf.Rendered{}, apperror.NewRenderError("document", err)
	}
	return pdf.Rendered{Bytes: out, Pages: p.doc.PageCount()}, nil
}

// bandsBottom returns the Y where the repeating bands end; the heights
// mirror the draw order in drawHeader.
func (p *InvoicePDF) bandsBottom() float64 {
	y := bannerY + bannerH + 6 + headerBlockH + 4
	if p.in.FCE() {
		y += fceBandH
	}
	y += customerH + 4
	if p.in.ServiceFrom != nil || p.in.ServiceTo != nil {
		y += bandLineH
	}
	if len(p.in.AssociatedRefs) > 0 {
		y += bandLineH
	}
	return y
}

func (p *InvoicePDF) contentTop() float64 {
	return p.bandsBottom() + tableHeadH + 2
}

func (p *InvoicePDF) drawHeader() {
	f := p.doc.Fpdf()
	t := p.doc.T

	// Copy banner
	f.SetXY(pdf.MarginLeft, bannerY)
	f.SetFont("Helvetica", "B", 12)
	f.CellFormat(pdf.ContentWidth, bannerH, t(p.copyType.Label()), "1", 0, "C", false, 0, "")

	// Header block: issuer on the left, document identity on the right,
	// fiscal letter box straddling the middle.
	top := bannerY + bannerH + 6
	mid := pdf.MarginLeft + pdf.ContentWidth/2
	f.Rect(pdf.MarginLeft, top, pdf.ContentWidth, headerBlockH, "D")
	f.Line(mid, top, mid, top+headerBlockH)

	p.drawIssuerHalf(top)
	p.drawDocumentHalf(top, mid)
	p.drawShortCodeBox(top, mid)

	y := top + headerBlockH + 4
	if p.in.FCE() {
		y = p.drawFCEBand(y)
	}
	y = p.drawCustomerBand(y)
	if p.in.ServiceFrom != nil || p.in.ServiceTo != nil {
		y = p.drawPeriodLine(y)
	}
	if len(p.in.AssociatedRefs) > 0 {
		y = p.drawAssociatedLine(y)
	}
	p.drawTableHead(y)
}

func (p *InvoicePDF) drawIssuerHalf(top float64) {
	f := p.doc.Fpdf()
	in := p.in

	x := pdf.MarginLeft + 8
	y := top + 8

	if logo := in.Issuer.LogoPath; logo != "" {
		if _, err := os.Stat(logo); err == nil {
			f.ImageOptions(logo, x, y, 120, 0, false, gofpdf.ImageOptions{}, 0, "")
			y += 44
		} else {
			y = p.drawIssuerName(x, y)
		}
	} else {
		y = p.drawIssuerName(x, y)
	}

	f.SetXY(x, y)
	p.doc.Field("Razón Social", in.Issuer.Name, 8)
	f.SetX(x)
	p.doc.Field("Domicilio Comercial", in.Issuer.FullAddress, 8)
	f.SetX(x)
	p.doc.Field("Condición frente al IVA", in.Issuer.IvaCondition, 8)
}

func (p *InvoicePDF) drawIssuerName(x, y float64) float64 {
	f := p.doc.Fpdf()
	f.SetXY(x, y)
	f.SetFont("Helvetica", "B", 14)
	f.CellFormat(pdf.ContentWidth/2-16, 18, p.doc.T(p.in.Issuer.Name), "", 1, "L", false, 0, "")
	return y + 22
}

func (p *InvoicePDF) drawDocumentHalf(top, mid float64) {
	f := p.doc.Fpdf()
	t := p.doc.T
	in := p.in

	x := mid + 36
	y := top + 8

	f.SetXY(x, y)
	f.SetFont("Helvetica", "B", 15)
	f.CellFormat(pdf.ContentWidth/2-44, 18, t(in.BillTypeName), "", 1, "L", false, 0, "")

	f.SetXY(x, y+22)
	f.SetFont("Helvetica", "B", 9)
	f.CellFormat(0, 12, t(fmt.Sprintf("Punto de Venta: %04d    Comp. Nro: %08d", in.SalePointID, in.BillNumber)), "", 1, "L", false, 0, "")

	f.SetXY(x, y+38)
	p.doc.Field("Fecha de Emisión", fmtDate(in.BillDate), 8)
	f.SetX(x)
	p.doc.Field("CUIT", in.Issuer.CUIT, 8)
	f.SetX(x)
	p.doc.Field("Ingresos Brutos", in.Issuer.GrossIncomeNumber, 8)
	if in.Issuer.ActivityStartDate != nil {
		f.SetX(x)
		p.doc.Field("Fecha de Inicio de Actividades", fmtDate(*in.Issuer.ActivityStartDate), 8)
	}
}

func (p *InvoicePDF) drawShortCodeBox(top, mid float64) {
	f := p.doc.Fpdf()

	const box = 50.0
	x := mid - box/2
	f.SetFillColor(255, 255, 255)
	f.Rect(x, top, box, box, "FD")

	f.SetXY(x, top+4)
	f.SetFont("Helvetica", "B", 24)
	f.CellFormat(box, 26, p.in.ShortCode, "", 1, "C", false, 0, "")

	f.SetXY(x, top+32)
	f.SetFont("Helvetica", "", 7)
	f.CellFormat(box, 10, fmt.Sprintf("COD. %02d", p.in.BillTypeID), "", 1, "C", false, 0, "")
}

// drawFCEBand prints the banking band electronic credit invoices carry.
func (p *InvoicePDF) drawFCEBand(y float64) float64 {
	f := p.doc.Fpdf()
	t := p.doc.T

	f.SetXY(pdf.MarginLeft, y)
	f.SetFont("Helvetica", "B", 8)
	text := fmt.Sprintf("CBU: %s    Alias: %s", p.in.CBU, p.in.Alias)
	f.CellFormat(pdf.ContentWidth, fceBandH-4, t(text), "1", 1, "L", false, 0, "")
	return y + fceBandH
}

func (p *InvoicePDF) drawCustomerBand(y float64) float64 {
	f := p.doc.Fpdf()
	in := p.in

	f.Rect(pdf.MarginLeft, y, pdf.ContentWidth, customerH, "D")

	x := pdf.MarginLeft + 8
	f.SetXY(x, y+6)
	p.doc.Field(docLabel(in.Recipient.DocNumber), in.Recipient.DocNumber, 8)
	f.SetX(x)
	p.doc.Field("Apellido y Nombre / Razón Social", in.Recipient.Name, 8)
	f.SetX(x)
	p.doc.Field("Condición frente al IVA", in.Recipient.IvaCategory, 8)
	f.SetX(x)
	p.doc.Field("Domicilio", in.Recipient.FullAddress, 8)
	f.SetX(x)
	p.doc.Field("Condición de venta", in.SaleCondition, 8)

	return y + customerH + 4
}

func (p *InvoicePDF) drawPeriodLine(y float64) float64 {
	f := p.doc.Fpdf()
	t := p.doc.T
	in := p.in

	var parts []string
	if in.ServiceFrom != nil {
		parts = append(parts, "Período Facturado Desde: "+fmtDate(*in.ServiceFrom))
	}
	if in.ServiceTo != nil {
		parts = append(parts, "Hasta: "+fmtDate(*in.ServiceTo))
	}
	if in.DueDate != nil {
		parts = append(parts, "Fecha de Vto. para el pago: "+fmtDate(*in.DueDate))
	}

	f.SetXY(pdf.MarginLeft, y)
	f.SetFont("Helvetica", "", 8)
	f.CellFormat(pdf.ContentWidth, bandLineH-2, t(strings.Join(parts, "    ")), "", 1, "L", false, 0, "")
	return y + bandLineH
}

// drawAssociatedLine lists the documents a credit or debit note amends.
func (p *InvoicePDF) drawAssociatedLine(y float64) float64 {
	f := p.doc.Fpdf()
	t := p.doc.T

	f.SetXY(pdf.MarginLeft, y)
	f.SetFont("Helvetica", "B", 8)
	label := "Comprobantes Asociados: "
	f.CellFormat(f.GetStringWidth(t(label))+2, bandLineH-2, t(label), "", 0, "L", false, 0, "")
	f.SetFont("Helvetica", "", 8)
	f.CellFormat(0, bandLineH-2, t(strings.Join(p.in.AssociatedRefs, ", ")), "", 1, "L", false, 0, "")
	return y + bandLineH
}

func (p *InvoicePDF) drawTableHead(y float64) {
	f := p.doc.Fpdf()
	t := p.doc.T

	f.SetXY(pdf.MarginLeft, y)
	f.SetFillColor(227, 221, 220)
	f.SetFont("Helvetica", "B", 8)
	for i, title := range itemColTitles {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		f.CellFormat(itemColWidths[i], tableHeadH, t(title), "1", 0, align, true, 0, "")
	}
	f.Ln(-1)
}

func (p *InvoicePDF) drawItems() {
	f := p.doc.Fpdf()
	t := p.doc.T

	f.SetFont("Helvetica", "", 8)
	for _, it := range p.in.Items {
		p.doc.Reserve(rowClearance)
		f.SetX(pdf.MarginLeft)
		f.SetFont("Helvetica", "", 8)

		cells := [7]string{
			it.Code,
			it.Description,
			fmtQuantity(it.Quantity),
			it.MetricUnit,
			fmtAmount(it.UnitPriceWithIva()),
			fmtAmount(it.BonusPercentage),
			fmtAmount(it.Subtotal()),
		}
		for i, cell := range cells {
			align := "L"
			if i >= 2 {
				align = "R"
			}
			f.CellFormat(itemColWidths[i], itemRowH, t(cell), "LR", 0, align, false, 0, "")
		}
		f.Ln(-1)
	}

	// Close the table bottom
	f.SetX(pdf.MarginLeft)
	f.CellFormat(pdf.ContentWidth, 0, "", "T", 1, "L", false, 0, "")
}

func (p *InvoicePDF) drawNote() {
	if p.in.Note == "" {
		return
	}
	f := p.doc.Fpdf()
	t := p.doc.T

	p.doc.Reserve(noteClearance)
	f.Ln(12)
	f.SetX(pdf.MarginLeft)
	f.SetFont("Helvetica", "BI", 7)
	f.MultiCell(370, 10, t("Nota: "+p.in.Note), "", "L", false)
}

// drawTotals renders the framed totals block: the per-tax breakdown on
// the left, the per-aliquot IVA breakdown in the middle and the summary
// column on the right.
func (p *InvoicePDF) drawTotals() {
	f := p.doc.Fpdf()

	p.doc.Reserve(totalsClearance)
	f.Ln(10)

	top := f.GetY()
	f.Rect(pdf.MarginLeft, top, pdf.ContentWidth, totalsBoxH, "D")

	p.drawTaxBreakdown(top)
	p.drawIvaBreakdown(top)
	p.drawTotalsSummary(top)

	f.SetY(top + totalsBoxH)
}

// drawTaxBreakdown lists every non-IVA tribute with its description,
// rate and amount. Tributes captured without a description fall back to
// the tax-type table.
func (p *InvoicePDF) drawTaxBreakdown(top float64) {
	f := p.doc.Fpdf()
	t := p.doc.T

	x := pdf.MarginLeft + 10
	f.SetXY(x, top+6)
	f.SetFont("Helvetica", "B", 8)
	f.CellFormat(150, 10, t("Otros Tributos"), "", 2, "L", false, 0, "")

	widths := [3]float64{80, 30, 40}
	titles := [3]string{"Descripción", "Alic.%", "Importe"}

	f.SetX(x)
	f.SetFillColor(227, 221, 220)
	f.SetFont("Helvetica", "B", 6)
	for i, title := range titles {
		f.CellFormat(widths[i], 9, t(title), "B", 0, "L", true, 0, "")
	}
	f.Ln(-1)

	f.SetFont("Helvetica", "", 6)
	for _, tax := range p.in.Taxes {
		description := tax.Description
		if description == "" {
			description = p.in.Tables.TaxTypeName(tax.ID)
		}
		f.SetX(x)
		f.CellFormat(widths[0], 9, t(description), "B", 0, "L", false, 0, "")
		f.CellFormat(widths[1], 9, t(fmtAmount(tax.Rate)), "B", 0, "L", false, 0, "")
		f.CellFormat(widths[2], 9, t(fmtAmount(tax.Total())), "B", 1, "R", false, 0, "")
	}

	f.SetXY(x, top+totalsBoxH-16)
	f.SetFont("Helvetica", "", 6)
	f.CellFormat(150, 9, t("Importe Otros Tributos: $ "+fmtAmount(p.in.Totals.Tax)), "", 0, "R", false, 0, "")
}

// drawIvaBreakdown lists the IVA amount per aliquot.
func (p *InvoicePDF) drawIvaBreakdown(top float64) {
	f := p.doc.Fpdf()
	t := p.doc.T

	x := pdf.MarginLeft + 160
	f.SetXY(x, top+6)
	f.SetFont("Helvetica", "B", 9)
	for _, d := range p.in.IvaDetails {
		f.SetX(x)
		label := "IVA " + p.in.Tables.AliquotLabel(d.AliquotID) + ": $ " + fmtAmount(d.TotalAmount)
		f.CellFormat(140, 12, t(label), "", 1, "R", false, 0, "")
	}
}

// drawTotalsSummary prints the subtotal, tribute total and final amount.
func (p *InvoicePDF) drawTotalsSummary(top float64) {
	f := p.doc.Fpdf()
	t := p.doc.T
	in := p.in

	rows := []struct {
		label  string
		amount decimal.Decimal
		size   float64
	}{
		{"Subtotal", in.Totals.Total.Sub(in.Totals.Tax), 9},
		{"Importe Otros Tributos", in.Totals.Tax, 9},
		{"Importe Total", in.Totals.Total, 11},
	}

	x := pdf.MarginLeft + 315
	f.SetXY(x, top+6)
	for _, row := range rows {
		f.SetX(x)
		f.SetFont("Helvetica", "B", row.size)
		f.CellFormat(195, 15, t(row.label+": $ "+fmtAmount(row.amount)), "", 1, "R", false, 0, "")
	}
}

func (p *InvoicePDF) drawFooter() {
	f := p.doc.Fpdf()
	t := p.doc.T
	in := p.in

	if in.Authorized() {
		if err := p.doc.DrawQR("afip-qr", p.qrURL, pdf.MarginLeft, footerQRY, footerQRSize); err != nil {
			f.SetErrorf("footer QR: %v", err)
			return
		}

		x := pdf.MarginLeft + footerQRSize + 16
		f.SetXY(x, footerQRY+12)
		p.doc.Field("CAE N°", in.CAE, 9)
		if in.CAEExpiry != nil {
			f.SetX(x)
			p.doc.Field("Fecha de Vto. de CAE", fmtDate(*in.CAEExpiry), 9)
		}
	}

	f.SetXY(pdf.MarginLeft, pdf.PageHeight-28)
	f.SetFont("Helvetica", "", 8)
	pageLabel := fmt.Sprintf("Pág. %d/%s", f.PageNo(), p.doc.PageNumberAlias())
	f.CellFormat(pdf.ContentWidth, 12, t(pageLabel), "", 0, "R", false, 0, "")
}

func docLabel(number string) string {
	if len(number) == 11 {
		return "CUIT"
	}
	return "DNI"
}

func fmtDate(d time.Time) string {
	return d.Format("02/01/2006")
}

func fmtQuantity(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

// fmtAmount renders an amount with Argentine separators: thousands with
// dots, decimals with a comma.
func fmtAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	frac := s[len(s)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
