// Package transport provides DTOs for the syndication gateway.
package transport

import (
	"time"

	"ubiflow_gateway/internal/ubiflow/domain"
)

// ListPortalsRequest filters portals by universe.
type ListPortalsRequest struct {
	Universe string `form:"universe" validate:"required,ubiflow_universe"`
}

// DataEntry is one extension attribute of an ad.
type DataEntry struct {
	Code  string `json:"code" validate:"required,ubiflow_data_key"`
	Value any    `json:"value"`
}

// PublishAdRequest creates an ad, or updates it when ID is set, and selects
// it on the listed portals.
type PublishAdRequest struct {
	ID          *int        `json:"id,omitempty" validate:"omitempty,min=1"`
	Reference   string      `json:"reference" validate:"required,max=255"`
	Transaction string      `json:"transaction" validate:"required,ubiflow_transaction"`
	Price       float64     `json:"price" validate:"gte=0"`
	HousingType int         `json:"housingType" validate:"required,min=1"`
	Title       string      `json:"title" validate:"required,max=255"`
	Description string      `json:"description" validate:"max=20000"`
	Pictures    []string    `json:"pictures" validate:"omitempty,dive,url"`
	Portals     []string    `json:"portals" validate:"omitempty,dive,required"`
	Data        []DataEntry `json:"data" validate:"omitempty,dive"`
}

// UnpublishAdRequest optionally carries the ad reference for logging.
type UnpublishAdRequest struct {
	Reference string `json:"reference" validate:"max=255"`
}

// ListContactsRequest filters the live lead listing.
type ListContactsRequest struct {
	CreatedAfter time.Time `form:"createdAfter" time_format:"2006-01-02T15:04:05Z07:00" validate:"required"`
	Reference    string    `form:"reference" validate:"max=255"`
}

// AdResponse is the state of an ad after a publication call.
type AdResponse struct {
	ID          *int        `json:"id"`
	Reference   string      `json:"reference"`
	Transaction string      `json:"transaction"`
	Price       float64     `json:"price"`
	HousingType int         `json:"housingType"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Pictures    []string    `json:"pictures"`
	Portals     []string    `json:"portals"`
	Data        []DataEntry `json:"data"`
}

// PortalListResponse wraps a portal listing.
type PortalListResponse struct {
	Items []domain.Portal `json:"items"`
	Total int             `json:"total"`
}

// PublicationListResponse wraps the publications of one ad.
type PublicationListResponse struct {
	Items []domain.AdPublication `json:"items"`
	Total int                    `json:"total"`
}

// ContactListResponse wraps a lead listing.
type ContactListResponse struct {
	Items []domain.Contact `json:"items"`
	Total int              `json:"total"`
}
