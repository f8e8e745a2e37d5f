// Package brigades provides the brigade dispatch bounded context module.
package brigades

import (
	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades/handler"
	"brigadas_backend/internal/brigades/repository"
	"brigadas_backend/internal/brigades/service"
	"brigadas_backend/internal/events"
	apphttp "brigadas_backend/internal/http"
	"brigadas_backend/platform/config"
	"brigadas_backend/platform/logger"
	"brigadas_backend/platform/validator"
)

// Module is the brigades bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the brigades module with all its dependencies.
func NewModule(
	store docstore.Store,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	cfg config.DispatchConfig,
) *Module {
	repo := repository.New(store)
	svc := service.New(repo, repo, eventBus, val, log, cfg)
	h := handler.New(svc)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "brigades"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetRepairScheduler wires the task queue used after a failed rollback.
func (m *Module) SetRepairScheduler(repairs service.RepairScheduler) {
	m.service.SetRepairScheduler(repairs)
}

// RegisterRoutes mounts brigade routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/brigades"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/brigades"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
