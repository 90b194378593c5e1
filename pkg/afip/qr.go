package afip

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultQRBaseURL is the AFIP verification endpoint the scannable code
// points at.
const DefaultQRBaseURL = "https://www.afip.gob.ar/fe/qr/"

// Fixed payload values mandated by the authority.
const (
	QRCurrencyPesos  = "PES"
	QRAuthCodeTypeE  = "E"
	qrExchangeRatePE = 1.0 // exchange rate when currency is PES
)

// QRPayload is the structured payload AFIP requires in the invoice QR
// code. Field names and order follow the published specification.
type QRPayload struct {
	Ver         int     `json:"ver"`
	Fecha       string  `json:"fecha"` // emission date, YYYY-MM-DD
	CUIT        int64   `json:"cuit"`
	PtoVta      int     `json:"ptoVta"`
	TipoCmp     int     `json:"tipoCmp"`
	NroCmp      int64   `json:"nroCmp"`
	Importe     float64 `json:"importe"`
	Moneda      string  `json:"moneda"`
	Ctz         float64 `json:"ctz"`
	TipoDocRec  int     `json:"tipoDocRec"`
	NroDocRec   int64   `json:"nroDocRec"`
	TipoCodAut  string  `json:"tipoCodAut"`
	CodAut      int64   `json:"codAut"`
}

// QRSource exposes the QR payload of a renderable document. The invoice
// render input implements it for real documents; test fixtures provide
// their own implementation.
type QRSource interface {
	QRPayload() (QRPayload, error)
}

// MissingQRFieldError reports a required payload field that could not be
// populated. QR fields are financial identity data: they are never
// defaulted.
type MissingQRFieldError struct {
	Field string
}

func (e *MissingQRFieldError) Error() string {
	return fmt.Sprintf("afip: QR payload field %q is missing or invalid", e.Field)
}

// Validate checks every required field is populated.
func (p QRPayload) Validate() error {
	switch {
	case p.Ver <= 0:
		return &MissingQRFieldError{Field: "ver"}
	case p.Fecha == "":
		return &MissingQRFieldError{Field: "fecha"}
	case p.CUIT <= 0:
		return &MissingQRFieldError{Field: "cuit"}
	case p.PtoVta <= 0:
		return &MissingQRFieldError{Field: "ptoVta"}
	case p.TipoCmp <= 0:
		return &MissingQRFieldError{Field: "tipoCmp"}
	case p.NroCmp <= 0:
		return &MissingQRFieldError{Field: "nroCmp"}
	case p.Moneda == "":
		return &MissingQRFieldError{Field: "moneda"}
	case p.Ctz <= 0:
		return &MissingQRFieldError{Field: "ctz"}
	case p.TipoDocRec <= 0:
		return &MissingQRFieldError{Field: "tipoDocRec"}
	case p.NroDocRec <= 0:
		return &MissingQRFieldError{Field: "nroDocRec"}
	case p.TipoCodAut == "":
		return &MissingQRFieldError{Field: "tipoCodAut"}
	case p.CodAut <= 0:
		return &MissingQRFieldError{Field: "codAut"}
	}
	return nil
}

// EncodeURL serializes the payload to JSON, base64-encodes it and embeds
// it into the authority URL template. This URL is what the scannable code
// encodes.
func (p QRPayload) EncodeURL(baseURL string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if baseURL == "" {
		baseURL = DefaultQRBaseURL
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("afip: encode QR payload: %w", err)
	}

	return baseURL + "?p=" + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeQRURL parses a QR URL back into its payload. Used to verify the
// round trip.
func DecodeQRURL(url string) (QRPayload, error) {
	var p QRPayload

	idx := strings.Index(url, "?p=")
	if idx < 0 {
		return p, fmt.Errorf("afip: QR URL missing payload parameter")
	}

	data, err := base64.StdEncoding.DecodeString(url[idx+3:])
	if err != nil {
		return p, fmt.Errorf("afip: decode QR payload: %w", err)
	}

	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("afip: parse QR payload: %w", err)
	}
	return p, nil
}

// ParseCUIT coerces a CUIT string ("20-12345678-3" or bare digits) to its
// numeric form. Non-digit separators are stripped; anything else fails.
func ParseCUIT(s string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, s)

	if cleaned == "" {
		return 0, fmt.Errorf("afip: empty CUIT")
	}

	var n int64
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("afip: CUIT %q is not numeric", s)
		}
		n = n*10 + int64(r-'0')
	}
	return n, nil
}

// QRAmount converts a monetary amount to the 2-decimal float the payload
// carries.
func QRAmount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// PesosExchangeRate returns the fixed exchange rate used when the invoice
// currency is PES.
func PesosExchangeRate() float64 {
	return qrExchangeRatePE
}
