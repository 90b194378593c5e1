package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in points (US Letter).
const (
	PageWidth    = 612.0
	PageHeight   = 792.0
	MarginLeft   = 36.0
	MarginTop    = 70.0
	MarginBottom = 36.0
	ContentWidth = PageWidth - 2*MarginLeft
)

// Document wraps a gofpdf instance with the vertical-cursor bookkeeping
// the invoice layout needs: clearance checks before break-sensitive
// sections, repeating header/footer bands and deferred page numbering.
type Document struct {
	fpdf *gofpdf.Fpdf
	tr   func(string) string
	top  float64 // cursor position right after the repeating header
}

// NewDocument creates an empty Letter-sized document. Automatic page
// breaking is disabled: sections decide their own breaks via Reserve.
func NewDocument() *Document {
	f := gofpdf.New("P", "pt", "Letter", "")
	f.SetMargins(MarginLeft, MarginTop, MarginLeft)
	f.SetAutoPageBreak(false, MarginBottom)
	f.AliasNbPages("")

	return &Document{
		fpdf: f,
		tr:   f.UnicodeTranslatorFromDescriptor(""),
		top:  MarginTop,
	}
}

// Fpdf exposes the underlying gofpdf instance for drawing.
func (d *Document) Fpdf() *gofpdf.Fpdf {
	return d.fpdf
}

// T translates UTF-8 text to the core-font code page so accented
// characters render correctly.
func (d *Document) T(s string) string {
	return d.tr(s)
}

// SetRepeatingHeader registers fn to be redrawn at the top of every page.
// After fn runs the cursor is placed at the content top set by SetContentTop.
func (d *Document) SetRepeatingHeader(fn func()) {
	d.fpdf.SetHeaderFunc(func() {
		fn()
		d.fpdf.SetY(d.top)
	})
}

// SetRepeatingFooter registers fn to be redrawn at the bottom of every
// page, after content layout. Page totals ("Pág. X/Y") resolve once the
// whole document is laid out.
func (d *Document) SetRepeatingFooter(fn func()) {
	d.fpdf.SetFooterFunc(fn)
}

// SetContentTop sets the Y position where flowing content starts on each
// page, below the repeating header bands.
func (d *Document) SetContentTop(y float64) {
	d.top = y
}

// AddPage starts a new page; the repeating bands are drawn and the cursor
// returns to the content top.
func (d *Document) AddPage() {
	d.fpdf.AddPage()
}

// Y returns the current vertical cursor position, measured from the top
// of the page.
func (d *Document) Y() float64 {
	return d.fpdf.GetY()
}

// Clearance returns the vertical space left between the cursor and the
// bottom margin.
func (d *Document) Clearance() float64 {
	return PageHeight - MarginBottom - d.fpdf.GetY()
}

// Reserve guarantees at least need points of clearance below the cursor,
// breaking to a new page first when the current one cannot fit the
// section. It reports whether the content stays on the current page.
func (d *Document) Reserve(need float64) bool {
	if d.Clearance() < need {
		d.AddPage()
		return false
	}
	return true
}

// PageNo returns the current page number.
func (d *Document) PageNo() int {
	return d.fpdf.PageNo()
}

// PageCount returns the number of pages emitted so far.
func (d *Document) PageCount() int {
	return d.fpdf.PageCount()
}

// PageNumberAlias returns the placeholder gofpdf substitutes with the
// final page count on output.
func (d *Document) PageNumberAlias() string {
	return "{nb}"
}

// Field draws a "Label: value" pair at the cursor, label in bold.
func (d *Document) Field(label, value string, size float64) {
	f := d.fpdf
	f.SetFont("Helvetica", "B", size)
	f.CellFormat(f.GetStringWidth(d.tr(label+": "))+2, size+4, d.tr(label+": "), "", 0, "L", false, 0, "")
	f.SetFont("Helvetica", "", size)
	f.CellFormat(0, size+4, d.tr(value), "", 1, "L", false, 0, "")
}

// Output renders the document to bytes, surfacing any error gofpdf
// accumulated during layout.
func (d *Document) Output() ([]byte, error) {
	if err := d.fpdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf: layout failed: %w", err)
	}

	var buf bytes.Buffer
	if err := d.fpdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output failed: %w", err)
	}
	return buf.Bytes(), nil
}
