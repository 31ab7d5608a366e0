// Package transport provides DTOs for imported contacts.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type ListContactsRequest struct {
	CreatedAfter *time.Time `form:"createdAfter" time_format:"2006-01-02T15:04:05Z07:00"`
	Reference    string     `form:"reference" validate:"max=255"`
	Limit        int        `form:"limit" validate:"omitempty,min=1,max=500"`
}

type TriggerSyncRequest struct {
	Since *time.Time `json:"since,omitempty"`
}

type TriggerSyncResponse struct {
	TaskID string `json:"taskId"`
}

type ContactResponse struct {
	ID                    uuid.UUID `json:"id"`
	RemoteID              *int      `json:"remoteId,omitempty"`
	PortalID              *int      `json:"portalId,omitempty"`
	AdReference           *string   `json:"adReference,omitempty"`
	URLOnPortal           *string   `json:"urlOnPortal,omitempty"`
	Civility              *string   `json:"civility,omitempty"`
	FirstName             *string   `json:"firstName,omitempty"`
	Name                  *string   `json:"name,omitempty"`
	Identity              *string   `json:"identity,omitempty"`
	Email                 *string   `json:"email,omitempty"`
	Phone                 *string   `json:"phone,omitempty"`
	PhoneE164             *string   `json:"phoneE164,omitempty"`
	AddressLocality       *string   `json:"addressLocality,omitempty"`
	PostalCode            *string   `json:"postalCode,omitempty"`
	AdditionalInformation *string   `json:"additionalInformation,omitempty"`
	Comment               *string   `json:"comment,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	CreatedAtEstimated    bool      `json:"createdAtEstimated"`
	ImportedAt            time.Time `json:"importedAt"`
}

type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Total int               `json:"total"`
}
