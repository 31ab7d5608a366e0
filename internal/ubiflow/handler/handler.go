package handler

import (
	"net/http"
	"strconv"

	"ubiflow_gateway/internal/ubiflow/service"
	"ubiflow_gateway/internal/ubiflow/transport"
	"ubiflow_gateway/platform/httpkit"
	"ubiflow_gateway/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the syndication gateway.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListPortals handles GET /api/v1/ubiflow/portals?universe=IMMO
func (h *Handler) ListPortals(c *gin.Context) {
	var req transport.ListPortalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListPortals(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetPortal handles GET /api/v1/ubiflow/portals/:id
func (h *Handler) GetPortal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetPortal(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PublishAd handles POST /api/v1/ubiflow/ads/publish
func (h *Handler) PublishAd(c *gin.Context) {
	var req transport.PublishAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.PublishAd(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UnpublishAd handles POST /api/v1/ubiflow/ads/:id/unpublish
func (h *Handler) UnpublishAd(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UnpublishAdRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UnpublishAd(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RemoveAd handles DELETE /api/v1/ubiflow/ads/:id
func (h *Handler) RemoveAd(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.RemoveAd(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPublications handles GET /api/v1/ubiflow/ads/:id/publications
func (h *Handler) ListPublications(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListPublications(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListContacts handles GET /api/v1/ubiflow/contacts?createdAfter=...&reference=...
func (h *Handler) ListContacts(c *gin.Context) {
	var req transport.ListContactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, h.svc.ListContacts(c.Request.Context(), req))
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}
