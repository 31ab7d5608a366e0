// Package ubiflow provides the syndication gateway bounded context module.
package ubiflow

import (
	apphttp "ubiflow_gateway/internal/http"
	"ubiflow_gateway/internal/ubiflow/handler"
	"ubiflow_gateway/internal/ubiflow/service"
	"ubiflow_gateway/internal/ubiflow/transport"
	"ubiflow_gateway/platform/logger"
	"ubiflow_gateway/platform/validator"
)

// Module wires the syndication gateway HTTP routes.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the module around an API client.
func NewModule(client service.SyndicationClient, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := transport.RegisterValidations(val); err != nil {
		return nil, err
	}

	svc := service.New(client, log)
	return &Module{handler: handler.New(svc, val)}, nil
}

func (m *Module) Name() string {
	return "ubiflow"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/ubiflow")
	group.GET("/portals", m.handler.ListPortals)
	group.GET("/portals/:id", m.handler.GetPortal)
	group.POST("/ads/publish", m.handler.PublishAd)
	group.POST("/ads/:id/unpublish", m.handler.UnpublishAd)
	group.DELETE("/ads/:id", m.handler.RemoveAd)
	group.GET("/ads/:id/publications", m.handler.ListPublications)
	group.GET("/contacts", m.handler.ListContacts)
}

var _ apphttp.Module = (*Module)(nil)
