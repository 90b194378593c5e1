package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/condorsoft/facturador-api/internal/application/render"
	"github.com/condorsoft/facturador-api/internal/domain/enum"
	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/condorsoft/facturador-api/pkg/fiscal"
	"github.com/shopspring/decimal"
)

var (
	testProductNames = []string{
		"Servicio de consultoría",
		"Mantenimiento mensual",
		"Desarrollo de software",
		"Licencia anual",
		"Soporte técnico",
		"Hosting dedicado",
		"Capacitación",
		"Auditoría de sistemas",
	}

	testStreets = []string{
		"Av. Corrientes 1234",
		"Calle 50 N° 876",
		"Av. 7 N° 1154",
		"Diagonal 74 N° 2210",
	}

	testCities = []string{"La Plata", "CABA", "Rosario", "Córdoba"}

	testSaleConditions = []string{"Contado", "Cuenta Corriente", "Transferencia Bancaria"}
)

// TestDataOptions shapes the synthetic document.
type TestDataOptions struct {
	ItemsCount    int  // 0 picks a random count between 5 and 49
	BillTypeID    int  // 0 defaults to Factura A; FCE types get a banking band
	HasTaxes      bool // include a provincial perception tribute
	HasAssociated bool // include associated-document references
	FinalConsumer bool // anonymous final consumer instead of a company recipient
}

// TestDataGenerator produces synthetic invoices for layout checks. The
// same seed always yields the same document, so a layout regression can
// be reproduced from the seed alone.
type TestDataGenerator struct {
	rng *rand.Rand
}

// NewTestDataGenerator creates a generator for the given seed.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Invoice builds a complete synthetic render input: a randomized item
// list long enough to exercise pagination and a fake authorization block,
// shaped by opts.
func (g *TestDataGenerator) Invoice(tables afip.ReferenceTables, qrBaseURL string, opts TestDataOptions) (*render.Input, error) {
	billTypeID := opts.BillTypeID
	if billTypeID == 0 {
		billTypeID = 1
	}

	itemCount := opts.ItemsCount
	if itemCount <= 0 {
		itemCount = 5 + g.rng.Intn(45)
	}
	items := make([]fiscal.Item, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		price := decimal.NewFromInt(int64(100 + g.rng.Intn(90000))).Div(decimal.NewFromInt(100))
		items = append(items, fiscal.Item{
			Code:        fmt.Sprintf("P%04d", i+1),
			Description: testProductNames[g.rng.Intn(len(testProductNames))],
			Quantity:    decimal.NewFromInt(int64(1 + g.rng.Intn(10))),
			UnitPrice:   price,
			IvaAmount:   price.Mul(decimal.RequireFromString("0.21")),
			MetricUnit:  "unidades",
			AliquotID:   5,
		})
	}

	var taxes []fiscal.TaxLine
	if opts.HasTaxes {
		taxes = []fiscal.TaxLine{{
			ID:          2,
			Description: "Percepción IIBB",
			NetAmount:   decimal.NewFromInt(1000),
			Rate:        decimal.RequireFromString("3.5"),
		}}
	}

	totals, details, err := fiscal.Compute(items, taxes, tables)
	if err != nil {
		return nil, err
	}

	salePointID := 1 + g.rng.Intn(20)
	var refs []string
	if opts.HasAssociated {
		for i := 0; i < 1+g.rng.Intn(2); i++ {
			refs = append(refs, fmt.Sprintf("%04d-%08d", salePointID, 1+g.rng.Intn(9999)))
		}
	}

	billDate := time.Now()
	caeExpiry := billDate.AddDate(0, 0, 10)

	in := &render.Input{
		Issuer: render.Issuer{
			Name:              "Empresa de Prueba S.A.",
			CUIT:              "30-71234567-8",
			GrossIncomeNumber: "901-123456-7",
			IvaCondition:      "Responsable Inscripto",
			Address:           testStreets[g.rng.Intn(len(testStreets))],
			FullAddress:       testStreets[g.rng.Intn(len(testStreets))] + " " + testCities[g.rng.Intn(len(testCities))],
		},
		Recipient:      g.recipient(opts.FinalConsumer),
		BillTypeID:     billTypeID,
		BillTypeName:   afip.BillTypeDisplayName(tables.BillTypeName(billTypeID)),
		ShortCode:      tables.BillTypeShortCode(billTypeID),
		SalePointID:    salePointID,
		BillNumber:     1 + g.rng.Intn(99999),
		BillDate:       billDate,
		SaleCondition:  testSaleConditions[g.rng.Intn(len(testSaleConditions))],
		Items:          items,
		Taxes:          taxes,
		IvaDetails:     details,
		Totals:         totals,
		AssociatedRefs: refs,
		Note:           "Documento no válido como comprobante fiscal. Generado para verificación de diseño.",
		CAE:            fmt.Sprintf("7%013d", g.rng.Int63n(1_000_000_000_0000)),
		CAEExpiry:      &caeExpiry,
		QRBaseURL:      qrBaseURL,
		Tables:         tables,
	}

	if afip.IsFCEBillType(billTypeID) {
		in.CBU = fmt.Sprintf("%022d", g.rng.Int63n(1_000_000_000_000_000_000))
		in.Alias = "empresa.prueba.mp"
	}

	return in, nil
}

// recipient fabricates the counterpart identity: an anonymous final
// consumer or a registered company with a synthetic CUIT.
func (g *TestDataGenerator) recipient(finalConsumer bool) render.Party {
	if finalConsumer {
		return render.Party{
			Name:        "Consumidor Final",
			IvaCategory: "Consumidor Final",
			DocTypeID:   afip.FinalConsumerDocTypeID,
			DocNumber:   fmt.Sprintf("%08d", 10_000_000+g.rng.Intn(40_000_000)),
		}
	}

	street := testStreets[g.rng.Intn(len(testStreets))]
	city := testCities[g.rng.Intn(len(testCities))]
	return render.Party{
		Name:        "Cliente de Prueba S.R.L.",
		Address:     street,
		FullAddress: street + " " + city,
		Zipcode:     "1900",
		IvaCategory: "Responsable Inscripto",
		DocTypeID:   "80",
		DocNumber:   fmt.Sprintf("3%010d", g.rng.Int63n(10_000_000_000)),
	}
}

// TestPreview renders a synthetic document for layout verification. The
// seed makes a given layout reproducible.
func (s *InvoiceService) TestPreview(ctx context.Context, seed int64, opts TestDataOptions, copyType enum.CopyType) ([]byte, string, error) {
	gen := NewTestDataGenerator(seed)

	input, err := gen.Invoice(s.tables, s.qrBaseURL, opts)
	if err != nil {
		return nil, "", err
	}

	out, err := render.GenerateCombined(input, copyType)
	if err != nil {
		return nil, "", err
	}
	return out, FilenameTest, nil
}
