package render

import (
	"sync"

	"github.com/condorsoft/facturador-api/internal/domain/enum"
	"github.com/condorsoft/facturador-api/pkg/pdf"
)

// Generate renders a single fiscal copy of the document.
func Generate(in *Input, copyType enum.CopyType) (pdf.Rendered, error) {
	return NewInvoicePDF(in, copyType).Render()
}

// GenerateCombined renders every copy the requested type expands to and
// merges them into one document, copies in fiscal order. The copies
// render concurrently; the input is shared read-only between them. Any
// copy failing aborts the whole export.
func GenerateCombined(in *Input, copyType enum.CopyType) ([]byte, error) {
	copies := copyType.Copies()
	if len(copies) == 1 {
		r, err := Generate(in, copies[0])
		if err != nil {
			return nil, err
		}
		return r.Bytes, nil
	}

	results := make([]pdf.Rendered, len(copies))
	errs := make([]error, len(copies))

	var wg sync.WaitGroup
	for i, ct := range copies {
		wg.Add(1)
		go func(i int, ct enum.CopyType) {
			defer wg.Done()
			results[i], errs[i] = Generate(in, ct)
		}(i, ct)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return pdf.Combine(results)
}
