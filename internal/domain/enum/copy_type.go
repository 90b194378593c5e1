package enum

// CopyType selects which fiscal copies of a document get rendered.
type CopyType string

const (
	CopyTypeOriginal   CopyType = "original"
	CopyTypeDuplicate  CopyType = "duplicate"
	CopyTypeTriplicate CopyType = "triplicate"
)

// ParseCopyType maps a query-string value to a CopyType. Unknown or
// empty values fall back to the original copy.
func ParseCopyType(s string) CopyType {
	switch s {
	case string(CopyTypeDuplicate):
		return CopyTypeDuplicate
	case string(CopyTypeTriplicate):
		return CopyTypeTriplicate
	default:
		return CopyTypeOriginal
	}
}

// Label returns the banner text printed at the top of each page.
func (c CopyType) Label() string {
	switch c {
	case CopyTypeDuplicate:
		return "DUPLICADO"
	case CopyTypeTriplicate:
		return "TRIPLICADO"
	default:
		return "ORIGINAL"
	}
}

// Copies expands the requested type into the ordered list of copies a
// combined document must contain. Requesting a duplicate yields the
// original plus the duplicate; a triplicate yields all three.
func (c CopyType) Copies() []CopyType {
	switch c {
	case CopyTypeDuplicate:
		return []CopyType{CopyTypeOriginal, CopyTypeDuplicate}
	case CopyTypeTriplicate:
		return []CopyType{CopyTypeOriginal, CopyTypeDuplicate, CopyTypeTriplicate}
	default:
		return []CopyType{CopyTypeOriginal}
	}
}

// Combined reports whether the type expands to more than one copy.
func (c CopyType) Combined() bool {
	return len(c.Copies()) > 1
}
