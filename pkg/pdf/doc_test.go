package pdf_test

import (
	"bytes"
	"testing"

	"github.com/condorsoft/facturador-api/pkg/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_OutputProducesPDF(t *testing.T) {
	d := pdf.NewDocument()
	d.AddPage()
	d.Fpdf().SetFont("Helvetica", "", 10)
	d.Fpdf().CellFormat(0, 12, "hola", "", 1, "L", false, 0, "")

	out, err := d.Output()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, 1, d.PageCount())
}

func TestDocument_ReserveBreaksPage(t *testing.T) {
	d := pdf.NewDocument()
	d.AddPage()

	// Plenty of room near the top of the page
	assert.True(t, d.Reserve(100))
	assert.Equal(t, 1, d.PageCount())

	// Move the cursor near the bottom and ask for more than is left
	d.Fpdf().SetY(pdf.PageHeight - pdf.MarginBottom - 50)
	assert.False(t, d.Reserve(100))
	assert.Equal(t, 2, d.PageCount())
}

func TestDocument_ClearanceTracksCursor(t *testing.T) {
	d := pdf.NewDocument()
	d.AddPage()

	d.Fpdf().SetY(500)
	assert.InDelta(t, pdf.PageHeight-pdf.MarginBottom-500, d.Clearance(), 0.1)
}

func TestDocument_RepeatingHeaderSetsContentTop(t *testing.T) {
	d := pdf.NewDocument()
	d.SetContentTop(300)
	d.SetRepeatingHeader(func() {
		d.Fpdf().SetFont("Helvetica", "B", 10)
		d.Fpdf().CellFormat(0, 12, "header", "", 1, "L", false, 0, "")
	})
	d.AddPage()

	assert.InDelta(t, 300, d.Y(), 0.1)
}

func TestDocument_DrawQR(t *testing.T) {
	d := pdf.NewDocument()
	d.AddPage()

	err := d.DrawQR("qr", "https://example.test/?p=abc", 36, 600, 65)
	require.NoError(t, err)

	out, err := d.Output()
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func renderPages(t *testing.T, pages int) pdf.Rendered {
	t.Helper()

	d := pdf.NewDocument()
	for i := 0; i < pages; i++ {
		d.AddPage()
		d.Fpdf().SetFont("Helvetica", "", 10)
		d.Fpdf().CellFormat(0, 12, "page", "", 1, "L", false, 0, "")
	}

	out, err := d.Output()
	require.NoError(t, err)
	return pdf.Rendered{Bytes: out, Pages: d.PageCount()}
}

func TestCombine(t *testing.T) {
	a := renderPages(t, 2)
	b := renderPages(t, 1)

	out, err := pdf.Combine([]pdf.Rendered{a, b})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), len(b.Bytes))
}

func TestCombine_RejectsEmptyInput(t *testing.T) {
	_, err := pdf.Combine(nil)
	assert.Error(t, err)

	_, err = pdf.Combine([]pdf.Rendered{{}})
	assert.Error(t, err)
}
