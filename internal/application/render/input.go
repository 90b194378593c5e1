package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/condorsoft/facturador-api/pkg/fiscal"
)

// Issuer is the emitting party as printed in the document header.
type Issuer struct {
	Name              string
	CUIT              string
	GrossIncomeNumber string
	IvaCondition      string
	Address           string
	FullAddress       string
	ActivityStartDate *time.Time
	LogoPath          string
}

// Party is the resolved recipient identity printed in the customer band.
type Party struct {
	Name        string
	Address     string
	FullAddress string
	Zipcode     string
	IvaCategory string
	DocTypeID   string
	DocNumber   string
}

// Input carries everything needed to render one document. It is built
// from the stored invoice by the service layer and holds no database
// references, so renders for the several fiscal copies can run in
// parallel against the same value.
type Input struct {
	Issuer    Issuer
	Recipient Party

	BillTypeID   int
	BillTypeName string
	ShortCode    string
	SalePointID  int
	BillNumber   int
	BillDate     time.Time
	DueDate      *time.Time
	ServiceFrom  *time.Time
	ServiceTo    *time.Time

	SaleCondition string
	CBU           string
	Alias         string

	Items      []fiscal.Item
	Taxes      []fiscal.TaxLine
	IvaDetails []fiscal.IvaDetail
	Totals     fiscal.Totals

	AssociatedRefs []string
	Note           string

	CAE       string
	CAEExpiry *time.Time

	QRBaseURL string
	Tables    afip.ReferenceTables
}

// Reference returns the document number as printed, sale point and bill
// number zero-padded.
func (in *Input) Reference() string {
	return fmt.Sprintf("%04d-%08d", in.SalePointID, in.BillNumber)
}

// Authorized reports whether the document carries an authorization code.
func (in *Input) Authorized() bool {
	return in.CAE != ""
}

// FCE reports whether the document is an electronic credit invoice and
// must carry the banking band.
func (in *Input) FCE() bool {
	return afip.IsFCEBillType(in.BillTypeID)
}

// QRPayload assembles the authority's QR payload from the document
// identity. Every field is required; a missing one fails the render.
func (in *Input) QRPayload() (afip.QRPayload, error) {
	cuit, err := afip.ParseCUIT(in.Issuer.CUIT)
	if err != nil {
		return afip.QRPayload{}, err
	}

	docType, err := strconv.Atoi(in.Recipient.DocTypeID)
	if err != nil {
		return afip.QRPayload{}, &afip.MissingQRFieldError{Field: "tipoDocRec"}
	}

	docNumber, err := strconv.ParseInt(in.Recipient.DocNumber, 10, 64)
	if err != nil {
		return afip.QRPayload{}, &afip.MissingQRFieldError{Field: "nroDocRec"}
	}

	codAut, err := strconv.ParseInt(in.CAE, 10, 64)
	if err != nil {
		return afip.QRPayload{}, &afip.MissingQRFieldError{Field: "codAut"}
	}

	p := afip.QRPayload{
		Ver:        1,
		Fecha:      in.BillDate.Format("2006-01-02"),
		CUIT:       cuit,
		PtoVta:     in.SalePointID,
		TipoCmp:    in.BillTypeID,
		NroCmp:     int64(in.BillNumber),
		Importe:    afip.QRAmount(in.Totals.Total),
		Moneda:     afip.QRCurrencyPesos,
		Ctz:        afip.PesosExchangeRate(),
		TipoDocRec: docType,
		NroDocRec:  docNumber,
		TipoCodAut: afip.QRAuthCodeTypeE,
		CodAut:     codAut,
	}

	return p, p.Validate()
}
