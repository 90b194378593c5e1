package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DrawQR renders content as a QR code image at (x, y) with the given side
// length. name must be unique per image within the document.
func (d *Document) DrawQR(name, content string, x, y, size float64) error {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("pdf: QR encode: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	d.fpdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	d.fpdf.ImageOptions(name, x, y, size, size, false, opts, 0, "")

	if err := d.fpdf.Error(); err != nil {
		return fmt.Errorf("pdf: QR image: %w", err)
	}
	return nil
}
