package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// Rendered is one fully rendered document: its bytes and page count.
type Rendered struct {
	Bytes []byte
	Pages int
}

// Combine concatenates independently rendered documents into a single
// one, preserving the order given: all pages of the first document, then
// all pages of the second, and so on. Any malformed input aborts the
// whole merge.
func Combine(docs []Rendered) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("pdf: nothing to combine")
	}

	out := gofpdf.New("P", "pt", "Letter", "")
	out.SetAutoPageBreak(false, 0)

	for i, doc := range docs {
		if len(doc.Bytes) == 0 || doc.Pages <= 0 {
			return nil, fmt.Errorf("pdf: combine input %d is empty", i)
		}

		var rs io.ReadSeeker = bytes.NewReader(doc.Bytes)
		for page := 1; page <= doc.Pages; page++ {
			tpl := gofpdi.ImportPageFromStream(out, &rs, page, "/MediaBox")
			out.AddPage()
			gofpdi.UseImportedTemplate(out, tpl, 0, 0, PageWidth, PageHeight)
		}
	}

	if err := out.Error(); err != nil {
		return nil, fmt.Errorf("pdf: combine failed: %w", err)
	}

	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: combine output failed: %w", err)
	}
	return buf.Bytes(), nil
}
