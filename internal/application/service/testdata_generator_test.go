package service_test

import (
	"bytes"
	"testing"
	"unicode"

	"github.com/condorsoft/facturador-api/internal/application/render"
	"github.com/condorsoft/facturador-api/internal/application/service"
	"github.com/condorsoft/facturador-api/internal/domain/enum"
	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestDataGenerator_Deterministic(t *testing.T) {
	tables := afip.NewStaticTables()
	opts := service.TestDataOptions{HasTaxes: true}

	a, err := service.NewTestDataGenerator(42).Invoice(tables, "", opts)
	require.NoError(t, err)
	b, err := service.NewTestDataGenerator(42).Invoice(tables, "", opts)
	require.NoError(t, err)

	assert.Equal(t, len(a.Items), len(b.Items))
	assert.Equal(t, a.BillNumber, b.BillNumber)
	assert.Equal(t, a.SalePointID, b.SalePointID)
	assert.Equal(t, a.CAE, b.CAE)
	assert.True(t, a.Totals.Total.Equal(b.Totals.Total))
}

func TestTestDataGenerator_SeedsDiffer(t *testing.T) {
	tables := afip.NewStaticTables()

	a, err := service.NewTestDataGenerator(1).Invoice(tables, "", service.TestDataOptions{})
	require.NoError(t, err)
	b, err := service.NewTestDataGenerator(2).Invoice(tables, "", service.TestDataOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, a.CAE, b.CAE)
}

func TestTestDataGenerator_InvoiceIsConsistent(t *testing.T) {
	in, err := service.NewTestDataGenerator(7).Invoice(afip.NewStaticTables(), "", service.TestDataOptions{HasTaxes: true})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(in.Items), 5)
	assert.Equal(t, "A", in.ShortCode)
	assert.True(t, in.Authorized())
	assert.NotEmpty(t, in.Taxes)

	require.Len(t, in.CAE, 14)
	for _, r := range in.CAE {
		assert.True(t, unicode.IsDigit(r))
	}

	sum := in.Totals.Net.
		Add(in.Totals.Untaxed).
		Add(in.Totals.Exempt).
		Add(in.Totals.Iva).
		Add(in.Totals.Tax)
	assert.True(t, in.Totals.Total.Equal(sum))

	_, err = in.QRPayload()
	assert.NoError(t, err)
}

func TestTestDataGenerator_Options(t *testing.T) {
	gen := service.NewTestDataGenerator(9)

	in, err := gen.Invoice(afip.NewStaticTables(), "", service.TestDataOptions{
		ItemsCount:    3,
		BillTypeID:    201,
		HasAssociated: true,
		FinalConsumer: true,
	})
	require.NoError(t, err)

	assert.Len(t, in.Items, 3)
	assert.True(t, in.FCE())
	assert.NotEmpty(t, in.CBU)
	assert.NotEmpty(t, in.AssociatedRefs)
	assert.Empty(t, in.Taxes)
	assert.Equal(t, afip.FinalConsumerDocTypeID, in.Recipient.DocTypeID)
	assert.Equal(t, "Consumidor Final", in.Recipient.Name)
}

func TestTestDataGenerator_InvoiceRenders(t *testing.T) {
	in, err := service.NewTestDataGenerator(11).Invoice(afip.NewStaticTables(), "", service.TestDataOptions{HasTaxes: true})
	require.NoError(t, err)

	out, err := render.GenerateCombined(in, enum.CopyTypeOriginal)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
