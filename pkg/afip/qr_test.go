package afip_test

import (
	"strings"
	"testing"

	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() afip.QRPayload {
	return afip.QRPayload{
		Ver:        1,
		Fecha:      "2026-08-15",
		CUIT:       30712345678,
		PtoVta:     3,
		TipoCmp:    1,
		NroCmp:     1234,
		Importe:    1210.55,
		Moneda:     afip.QRCurrencyPesos,
		Ctz:        afip.PesosExchangeRate(),
		TipoDocRec: 80,
		NroDocRec:  20304050607,
		TipoCodAut: afip.QRAuthCodeTypeE,
		CodAut:     71234567890123,
	}
}

func TestQRPayload_EncodeURLRoundTrip(t *testing.T) {
	p := validPayload()

	url, err := p.EncodeURL("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, afip.DefaultQRBaseURL+"?p="))

	decoded, err := afip.DecodeQRURL(url)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestQRPayload_EncodeURLCustomBase(t *testing.T) {
	url, err := validPayload().EncodeURL("https://qr.example.test/fe/qr/")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://qr.example.test/fe/qr/?p="))
}

func TestQRPayload_ValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *afip.QRPayload)
		field  string
	}{
		{"version", func(p *afip.QRPayload) { p.Ver = 0 }, "ver"},
		{"date", func(p *afip.QRPayload) { p.Fecha = "" }, "fecha"},
		{"cuit", func(p *afip.QRPayload) { p.CUIT = 0 }, "cuit"},
		{"sale point", func(p *afip.QRPayload) { p.PtoVta = 0 }, "ptoVta"},
		{"bill type", func(p *afip.QRPayload) { p.TipoCmp = 0 }, "tipoCmp"},
		{"bill number", func(p *afip.QRPayload) { p.NroCmp = 0 }, "nroCmp"},
		{"currency", func(p *afip.QRPayload) { p.Moneda = "" }, "moneda"},
		{"exchange rate", func(p *afip.QRPayload) { p.Ctz = 0 }, "ctz"},
		{"doc type", func(p *afip.QRPayload) { p.TipoDocRec = 0 }, "tipoDocRec"},
		{"doc number", func(p *afip.QRPayload) { p.NroDocRec = 0 }, "nroDocRec"},
		{"auth type", func(p *afip.QRPayload) { p.TipoCodAut = "" }, "tipoCodAut"},
		{"auth code", func(p *afip.QRPayload) { p.CodAut = 0 }, "codAut"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)

			var missing *afip.MissingQRFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)

			_, err = p.EncodeURL("")
			assert.Error(t, err)
		})
	}
}

func TestParseCUIT(t *testing.T) {
	n, err := afip.ParseCUIT("30-71234567-8")
	require.NoError(t, err)
	assert.Equal(t, int64(30712345678), n)

	n, err = afip.ParseCUIT("20304050607")
	require.NoError(t, err)
	assert.Equal(t, int64(20304050607), n)

	_, err = afip.ParseCUIT("")
	assert.Error(t, err)

	_, err = afip.ParseCUIT("20.30405060.7")
	assert.Error(t, err)
}

func TestQRAmount(t *testing.T) {
	assert.InDelta(t, 1210.55, afip.QRAmount(decimal.RequireFromString("1210.554")), 1e-9)
	assert.Zero(t, afip.QRAmount(decimal.Zero))
}
