package handler

import (
	"context"
	"net/http"
	"strings"

	"ubiflow_gateway/internal/contacts/repository"
	"ubiflow_gateway/internal/contacts/transport"
	"ubiflow_gateway/internal/scheduler"
	"ubiflow_gateway/platform/httpkit"
	"ubiflow_gateway/platform/logger"
	"ubiflow_gateway/platform/validator"

	"github.com/gin-gonic/gin"
)

// ContactLister reads imported contacts.
type ContactLister interface {
	List(ctx context.Context, params repository.ListParams) ([]repository.Contact, error)
}

type Handler struct {
	contacts ContactLister
	enqueuer scheduler.ContactSyncEnqueuer
	val      *validator.Validator
	log      *logger.Logger
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates the handler. enqueuer may be nil when no Redis is configured.
func New(contacts ContactLister, enqueuer scheduler.ContactSyncEnqueuer, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{contacts: contacts, enqueuer: enqueuer, val: val, log: log}
}

// List handles GET /api/v1/contacts
func (h *Handler) List(c *gin.Context) {
	var req transport.ListContactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	params := repository.ListParams{CreatedAfter: req.CreatedAfter, Limit: req.Limit}
	if reference := strings.TrimSpace(req.Reference); reference != "" {
		params.AdReference = &reference
	}

	contacts, err := h.contacts.List(c.Request.Context(), params)
	if err != nil {
		h.log.WithContext(c.Request.Context()).DatabaseError("list contacts", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to list contacts", nil)
		return
	}

	items := make([]transport.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		items = append(items, toResponse(contact))
	}
	httpkit.OK(c, transport.ContactListResponse{Items: items, Total: len(items)})
}

// TriggerSync handles POST /api/v1/admin/contacts/sync
func (h *Handler) TriggerSync(c *gin.Context) {
	if h.enqueuer == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "contact sync scheduler not configured", nil)
		return
	}

	var req transport.TriggerSyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	taskID, err := h.enqueuer.EnqueueContactSync(c.Request.Context(), scheduler.ContactSyncPayload{Since: req.Since})
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("enqueue contact sync failed", "error", err)
		httpkit.Error(c, http.StatusServiceUnavailable, "failed to enqueue contact sync", nil)
		return
	}

	h.log.WithContext(c.Request.Context()).Info("contact sync enqueued", "taskId", taskID, "requestedBy", identity.UserID())
	httpkit.Accepted(c, transport.TriggerSyncResponse{TaskID: taskID})
}

func toResponse(c repository.Contact) transport.ContactResponse {
	return transport.ContactResponse{
		ID:                    c.ID,
		RemoteID:              c.RemoteID,
		PortalID:              c.PortalID,
		AdReference:           c.AdReference,
		URLOnPortal:           c.URLOnPortal,
		Civility:              c.Civility,
		FirstName:             c.FirstName,
		Name:                  c.Name,
		Identity:              c.Identity,
		Email:                 c.Email,
		Phone:                 c.Phone,
		PhoneE164:             c.PhoneE164,
		AddressLocality:       c.AddressLocality,
		PostalCode:            c.PostalCode,
		AdditionalInformation: c.AdditionalInformation,
		Comment:               c.Comment,
		CreatedAt:             c.CreatedAt,
		CreatedAtEstimated:    c.CreatedAtEstimated,
		ImportedAt:            c.ImportedAt,
	}
}
