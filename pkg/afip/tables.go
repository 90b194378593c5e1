package afip

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FinalConsumerDocTypeID is the recipient document-type id AFIP reserves
// for anonymous final consumers.
const FinalConsumerDocTypeID = "99"

// ReferenceTables resolves the small static AFIP reference tables the
// renderer needs. Descriptive lookups (labels) fall back to a generic
// value on a miss; AliquotRate is strict and reports the miss so callers
// never render a guessed rate.
type ReferenceTables interface {
	BillTypeName(id int) string
	BillTypeShortCode(id int) string
	AliquotLabel(id int) string
	AliquotRate(id int) (decimal.Decimal, bool)
	TaxTypeName(id int) string
}

var billTypeNames = map[int]string{
	1:   "Factura A",
	2:   "Nota de Débito A",
	3:   "Nota de Crédito A",
	6:   "Factura B",
	7:   "Nota de Débito B",
	8:   "Nota de Crédito B",
	11:  "Factura C",
	12:  "Nota de Débito C",
	13:  "Nota de Crédito C",
	15:  "Recibos A",
	16:  "Recibos B",
	17:  "Recibo C",
	201: "Factura de Crédito electrónica MiPyMEs (FCE) A",
	202: "Nota de Crédito electrónica MiPyMEs (FCE) A",
	203: "Nota de Débito electrónica MiPyMEs (FCE) A",
	206: "Factura de Crédito electrónica MiPyMEs (FCE) B",
	207: "Nota de Crédito electrónica MiPyMEs (FCE) B",
	208: "Nota de Débito electrónica MiPyMEs (FCE) B",
	211: "Factura de Crédito electrónica MiPyMEs (FCE) C",
	212: "Nota de Crédito electrónica MiPyMEs (FCE) C",
	213: "Nota de Débito electrónica MiPyMEs (FCE) C",
}

var aliquotLabels = map[int]string{
	3:  "0%",
	4:  "10,5%",
	5:  "21%",
	6:  "27%",
	98: "Exento",
	99: "No gravado",
}

var aliquotRates = map[int]decimal.Decimal{
	3: decimal.Zero,
	4: decimal.RequireFromString("10.5"),
	5: decimal.NewFromInt(21),
	6: decimal.NewFromInt(27),
}

var taxTypeNames = map[int]string{
	1: "Impuestos nacionales",
	2: "Impuestos provinciales",
	3: "Impuestos municipales",
	4: "Impuestos internos",
}

// fceBillTypes holds the bill-type ids for electronic credit invoices
// (FCE). Those documents carry a CBU/alias banking band.
var fceBillTypes = map[int]bool{
	201: true, 202: true, 203: true,
	206: true, 207: true, 208: true,
	211: true, 212: true, 213: true,
}

// IsFCEBillType reports whether id is an electronic credit invoice type.
func IsFCEBillType(id int) bool {
	return fceBillTypes[id]
}

// StaticTables is the built-in ReferenceTables implementation with the
// published AFIP values. Alternate implementations (e.g. entity-scoped
// tables fetched from the authority) satisfy the same interface and are
// selected by configuration.
type StaticTables struct{}

// NewStaticTables returns the built-in reference tables.
func NewStaticTables() *StaticTables {
	return &StaticTables{}
}

func (*StaticTables) BillTypeName(id int) string {
	if name, ok := billTypeNames[id]; ok {
		return name
	}
	return "Factura"
}

// BillTypeShortCode returns the fiscal letter ("A"/"B"/"C") printed in the
// header box, derived from the trailing letter of the bill-type label.
func (t *StaticTables) BillTypeShortCode(id int) string {
	name := t.BillTypeName(id)
	if m := trailingLetter.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

func (*StaticTables) AliquotLabel(id int) string {
	if label, ok := aliquotLabels[id]; ok {
		return label
	}
	return "IVA 21%"
}

func (*StaticTables) AliquotRate(id int) (decimal.Decimal, bool) {
	rate, ok := aliquotRates[id]
	return rate, ok
}

func (*StaticTables) TaxTypeName(id int) string {
	if name, ok := taxTypeNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Impuesto %d", id)
}

var trailingLetter = regexp.MustCompile(`\s+([A-Z])$`)

// BillTypeDisplayName normalizes a bill-type label for the header banner:
// the trailing fiscal letter is stripped, the result upper-cased, and the
// plural "RECIBOS" singularized.
func BillTypeDisplayName(name string) string {
	result := strings.ToUpper(trailingLetter.ReplaceAllString(name, ""))
	if result == "RECIBOS" {
		return "RECIBO"
	}
	return result
}
