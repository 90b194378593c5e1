package render

import (
	"context"
	"fmt"

	"github.com/condorsoft/facturador-api/internal/domain/entity"
	"github.com/condorsoft/facturador-api/pkg/afip"
	"github.com/condorsoft/facturador-api/pkg/padron"
)

// finalConsumerParty is what anonymous consumer documents print in the
// customer band.
var finalConsumerParty = Party{
	Name:        "Consumidor Final",
	IvaCategory: "Consumidor Final",
}

// placeholderParty is substituted outside production when no identity
// could be resolved, so preview environments always render something.
var placeholderParty = Party{
	Name:        "Unagi",
	Zipcode:     "1900",
	Address:     "48 1488 3D",
	IvaCategory: "Responsable Inscripto",
	FullAddress: "48 1488 3D La Plata, Buenos Aires",
}

// RecipientResolver turns the document's stored counterpart data into
// the identity printed in the customer band.
type RecipientResolver struct {
	Lookup     padron.RecipientLookup
	Production bool
}

// Resolve resolves the recipient for a document. Order matters: the
// final-consumer document type overrides any stored identity; otherwise
// a usable stored identity wins, then the taxpayer registry, and outside
// production a placeholder keeps previews rendering. In production an
// unresolvable recipient is a hard failure.
func (r *RecipientResolver) Resolve(ctx context.Context, docTypeID, docNumber string, stored *entity.Recipient) (Party, error) {
	if docTypeID == afip.FinalConsumerDocTypeID {
		p := finalConsumerParty
		p.DocTypeID = docTypeID
		p.DocNumber = docNumber
		return p, nil
	}

	if !stored.Blank() {
		return Party{
			Name:        stored.Name,
			Address:     stored.Address,
			FullAddress: stored.FullAddress(),
			Zipcode:     stored.Zipcode,
			IvaCategory: stored.IvaCategory,
			DocTypeID:   docTypeID,
			DocNumber:   docNumber,
		}, nil
	}

	if r.Lookup != nil {
		found, err := r.Lookup.Find(ctx, docNumber)
		if err != nil {
			return Party{}, fmt.Errorf("resolve recipient %s: %w", docNumber, err)
		}
		if found != nil && !found.Blank() {
			return Party{
				Name:        found.Name,
				Address:     found.Address,
				FullAddress: found.FullAddress,
				Zipcode:     found.Zipcode,
				IvaCategory: found.Category,
				DocTypeID:   docTypeID,
				DocNumber:   docNumber,
			}, nil
		}
	}

	if !r.Production {
		p := placeholderParty
		p.DocTypeID = docTypeID
		p.DocNumber = docNumber
		return p, nil
	}

	return Party{}, fmt.Errorf("recipient %s could not be resolved", docNumber)
}
