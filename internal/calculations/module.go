// Package calculations wires the calculation domain: project cost capture,
// the pricing pipeline, the lifecycle state machine and the transfer to a
// sales quote.
package calculations

import (
	"metallbau_backend/internal/calculations/handler"
	"metallbau_backend/internal/calculations/repository"
	"metallbau_backend/internal/calculations/service"
	"metallbau_backend/internal/events"
	internalhttp "metallbau_backend/internal/http"
	"metallbau_backend/platform/config"
	"metallbau_backend/platform/logger"
	"metallbau_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the calculation domain's layers.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the calculations module with all its dependencies.
func NewModule(pool *pgxpool.Pool, log *logger.Logger, validate *validator.Validator, bus events.Bus, cfg config.PricingConfig) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log, bus, cfg)
	return &Module{
		handler: handler.New(svc, log, validate),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "calculations" }

// Service exposes the service for cross-module wiring in the composition root.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the calculation endpoints on the protected group.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	group := ctx.Protected.Group("/calculations")
	{
		group.POST("", m.handler.Create)
		group.GET("", m.handler.List)
		group.POST("/preview", m.handler.Preview)
		group.GET("/:id", m.handler.Get)
		group.PUT("/:id", m.handler.Update)
		group.PATCH("/:id/status", m.handler.UpdateStatus)
		group.DELETE("/:id", m.handler.Delete)
		group.POST("/:id/transfer", m.handler.Transfer)
	}
}
