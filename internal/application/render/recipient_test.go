package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/condorsoft/facturador-api/internal/application/render"
	"github.com/condorsoft/facturador-api/internal/domain/entity"
	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/condorsoft/facturador-api/pkg/padron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	recipient *padron.Recipient
	err       error
	calls     int
}

func (s *stubLookup) Find(ctx context.Context, taxID string) (*padron.Recipient, error) {
	s.calls++
	return s.recipient, s.err
}

func TestRecipientResolver_FinalConsumerOverridesStored(t *testing.T) {
	lookup := &stubLookup{}
	r := &render.RecipientResolver{Lookup: lookup}

	stored := &entity.Recipient{Name: "Alguien", IvaCategory: "Monotributo"}
	party, err := r.Resolve(context.Background(), afip.FinalConsumerDocTypeID, "12345678", stored)
	require.NoError(t, err)

	assert.Equal(t, "Consumidor Final", party.Name)
	assert.Equal(t, "Consumidor Final", party.IvaCategory)
	assert.Equal(t, "12345678", party.DocNumber)
	assert.Zero(t, lookup.calls)
}

func TestRecipientResolver_StoredIdentityWins(t *testing.T) {
	lookup := &stubLookup{}
	r := &render.RecipientResolver{Lookup: lookup}

	stored := &entity.Recipient{
		Name:        "Cliente S.R.L.",
		Address:     "Av. 7 N° 1154",
		City:        "La Plata",
		State:       "Buenos Aires",
		IvaCategory: "Responsable Inscripto",
	}
	party, err := r.Resolve(context.Background(), "80", "20304050607", stored)
	require.NoError(t, err)

	assert.Equal(t, "Cliente S.R.L.", party.Name)
	assert.Equal(t, "Av. 7 N° 1154 La Plata, Buenos Aires", party.FullAddress)
	assert.Zero(t, lookup.calls)
}

func TestRecipientResolver_RegistryFillsBlankIdentity(t *testing.T) {
	lookup := &stubLookup{recipient: &padron.Recipient{
		Name:        "Registrado S.A.",
		Category:    "Responsable Inscripto",
		FullAddress: "Calle 1 N° 100 CABA",
	}}
	r := &render.RecipientResolver{Lookup: lookup}

	party, err := r.Resolve(context.Background(), "80", "30712345678", nil)
	require.NoError(t, err)

	assert.Equal(t, "Registrado S.A.", party.Name)
	assert.Equal(t, 1, lookup.calls)
}

func TestRecipientResolver_PlaceholderOutsideProduction(t *testing.T) {
	r := &render.RecipientResolver{Lookup: &stubLookup{}}

	party, err := r.Resolve(context.Background(), "80", "30712345678", nil)
	require.NoError(t, err)

	assert.Equal(t, "Unagi", party.Name)
	assert.Equal(t, "Responsable Inscripto", party.IvaCategory)
}

func TestRecipientResolver_ProductionFailsHard(t *testing.T) {
	r := &render.RecipientResolver{Lookup: &stubLookup{}, Production: true}

	_, err := r.Resolve(context.Background(), "80", "30712345678", nil)
	assert.Error(t, err)
}

func TestRecipientResolver_RegistryErrorPropagates(t *testing.T) {
	lookup := &stubLookup{err: errors.New("registry unavailable")}
	r := &render.RecipientResolver{Lookup: lookup}

	_, err := r.Resolve(context.Background(), "80", "30712345678", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry unavailable")
}
