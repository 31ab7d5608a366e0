package domain

import "time"

// Portal is a classifieds site an ad can be syndicated to.
type Portal struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// AdvertiserPublication is the subscription under which an advertiser publishes on a portal.
type AdvertiserPublication struct {
	ID     int    `json:"id"`
	Portal Portal `json:"portal"`
}

// AdPublication is a point-in-time snapshot of one ad's state on one portal.
type AdPublication struct {
	ID                    int                   `json:"id"`
	AdvertiserPublication AdvertiserPublication `json:"advertiserPublication"`
	Selected              bool                  `json:"selected"`
	Publishable           bool                  `json:"publishable"`
	Incompatibilities     []string              `json:"incompatibilities"`
	LastPublishedAt       *time.Time            `json:"lastPublishedAt,omitempty"`
	UnpublishedAt         *time.Time            `json:"unpublishedAt,omitempty"`
	URLOnPortal           *string               `json:"urlOnPortal,omitempty"`
}

// PortalCode returns the code of the portal this publication targets.
func (p AdPublication) PortalCode() string {
	return p.AdvertiserPublication.Portal.Code
}

// Contact is a lead captured on a portal for one of the advertiser's ads.
// CreatedAtEstimated is set when the API gave no usable creation time and
// CreatedAt holds the local time of retrieval instead.
type Contact struct {
	ID                    *int      `json:"id,omitempty"`
	PortalID              *int      `json:"portalId,omitempty"`
	AdReference           *string   `json:"adReference,omitempty"`
	URLOnPortal           *string   `json:"urlOnPortal,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	CreatedAtEstimated    bool      `json:"createdAtEstimated,omitempty"`
	Civility              *string   `json:"civility,omitempty"`
	FirstName             *string   `json:"firstName,omitempty"`
	Name                  *string   `json:"name,omitempty"`
	Identity              *string   `json:"identity,omitempty"`
	Email                 *string   `json:"email,omitempty"`
	Phone                 *string   `json:"phone,omitempty"`
	AddressLocality       *string   `json:"addressLocality,omitempty"`
	PostalCode            *string   `json:"postalCode,omitempty"`
	AdditionalInformation *string   `json:"additionalInformation,omitempty"`
	Comment               *string   `json:"comment,omitempty"`
}
