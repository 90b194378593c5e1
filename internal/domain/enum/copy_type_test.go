package enum_test

import (
	"testing"

	"github.com/condorsoft/facturador-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func TestParseCopyType(t *testing.T) {
	assert.Equal(t, enum.CopyTypeOriginal, enum.ParseCopyType("original"))
	assert.Equal(t, enum.CopyTypeDuplicate, enum.ParseCopyType("duplicate"))
	assert.Equal(t, enum.CopyTypeTriplicate, enum.ParseCopyType("triplicate"))

	// Unknown and empty values fall back to the original copy
	assert.Equal(t, enum.CopyTypeOriginal, enum.ParseCopyType(""))
	assert.Equal(t, enum.CopyTypeOriginal, enum.ParseCopyType("cuadruplicado"))
}

func TestCopyType_Label(t *testing.T) {
	assert.Equal(t, "ORIGINAL", enum.CopyTypeOriginal.Label())
	assert.Equal(t, "DUPLICADO", enum.CopyTypeDuplicate.Label())
	assert.Equal(t, "TRIPLICADO", enum.CopyTypeTriplicate.Label())
}

func TestCopyType_Copies(t *testing.T) {
	assert.Equal(t, []enum.CopyType{enum.CopyTypeOriginal}, enum.CopyTypeOriginal.Copies())
	assert.Equal(t,
		[]enum.CopyType{enum.CopyTypeOriginal, enum.CopyTypeDuplicate},
		enum.CopyTypeDuplicate.Copies())
	assert.Equal(t,
		[]enum.CopyType{enum.CopyTypeOriginal, enum.CopyTypeDuplicate, enum.CopyTypeTriplicate},
		enum.CopyTypeTriplicate.Copies())
}

func TestCopyType_Combined(t *testing.T) {
	assert.False(t, enum.CopyTypeOriginal.Combined())
	assert.True(t, enum.CopyTypeDuplicate.Combined())
	assert.True(t, enum.CopyTypeTriplicate.Combined())
}
