package client

import (
	"time"

	"ubiflow_gateway/internal/ubiflow/decode"
	"ubiflow_gateway/internal/ubiflow/domain"
)

func decodePortal(o decode.Object) (domain.Portal, bool) {
	r := decode.Require(o)
	portal := domain.Portal{
		ID:   r.Int("id"),
		Code: r.String("code"),
		Name: r.String("name"),
	}
	return portal, r.OK()
}

// decodeAdPublication reads one ad_publications element. The portal name is
// not part of this endpoint and stays empty.
func decodeAdPublication(o decode.Object) (domain.AdPublication, bool) {
	r := decode.Require(o)
	publication := domain.AdPublication{
		ID: r.Int("id"),
		AdvertiserPublication: domain.AdvertiserPublication{
			ID: r.Int("advertiserPublication", "id"),
			Portal: domain.Portal{
				ID:   r.Int("advertiserPublication", "portal", "id"),
				Code: r.String("advertiserPublication", "portal", "code"),
			},
		},
		Selected:          o.Truthy("selected"),
		Publishable:       o.Truthy("publishable"),
		Incompatibilities: []string{},
		LastPublishedAt:   o.OptTime("lastPublishedAt"),
		UnpublishedAt:     o.OptTime("unPublishedAt"),
		URLOnPortal:       o.OptString("urlOnPortal"),
	}
	if !r.OK() {
		return domain.AdPublication{}, false
	}

	for _, incompatibility := range o.Objects("publicationIncompatibilities") {
		if description, ok := incompatibility.String("description"); ok {
			publication.Incompatibilities = append(publication.Incompatibilities, description)
		}
	}
	return publication, true
}

// contactDecoder never rejects an element. A missing or unreadable createdAt
// falls back to now so the lead is kept, and the contact is marked estimated.
func contactDecoder(now func() time.Time) decode.Func[domain.Contact] {
	return func(o decode.Object) (domain.Contact, bool) {
		createdAt, ok := o.Time("createdAt")
		if !ok {
			createdAt = now()
		}

		return domain.Contact{
			ID:                    o.OptInt("id"),
			PortalID:              o.OptInt("portal", "id"),
			AdReference:           o.OptString("ad", "reference"),
			URLOnPortal:           o.OptString("urlOnPortal"),
			CreatedAt:             createdAt,
			CreatedAtEstimated:    !ok,
			Civility:              o.OptString("contactInformation", "civility"),
			FirstName:             o.OptString("contactInformation", "firstName"),
			Name:                  o.OptString("contactInformation", "name"),
			Identity:              o.OptString("contactInformation", "identity"),
			Email:                 o.OptString("contactInformation", "email"),
			Phone:                 o.OptString("contactInformation", "phone"),
			AddressLocality:       o.OptString("contactInformation", "postalAddress", "addressLocality"),
			PostalCode:            o.OptString("contactInformation", "postalAddress", "postalCode"),
			AdditionalInformation: o.OptString("additionalInformation"),
			Comment:               o.OptString("comment"),
		}, true
	}
}
