// Package contacts provides the lead import bounded context module.
package contacts

import (
	"ubiflow_gateway/internal/contacts/handler"
	"ubiflow_gateway/internal/contacts/repository"
	"ubiflow_gateway/internal/contacts/service"
	apphttp "ubiflow_gateway/internal/http"
	"ubiflow_gateway/internal/scheduler"
	"ubiflow_gateway/platform/config"
	"ubiflow_gateway/platform/logger"
	"ubiflow_gateway/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the contact import service and its HTTP routes.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates the module. enqueuer may be nil, which disables the
// manual sync route.
func NewModule(pool *pgxpool.Pool, source service.ContactSource, enqueuer scheduler.ContactSyncEnqueuer, cfg config.ContactSyncConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(source, repository.New(pool), log, cfg.GetPhoneDefaultRegion(), cfg.GetContactSyncLookback())
	return &Module{
		service: svc,
		handler: handler.New(svc, enqueuer, val, log),
	}
}

// Service returns the import service for the worker and the backfill tool.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "contacts"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/contacts", m.handler.List)
	ctx.Admin.POST("/contacts/sync", m.handler.TriggerSync)
}

var _ apphttp.Module = (*Module)(nil)
