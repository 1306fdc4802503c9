// Package boms exposes stored bills of materials used to seed calculations.
package boms

import (
	"metallbau_backend/internal/boms/handler"
	"metallbau_backend/internal/boms/repository"
	"metallbau_backend/internal/boms/service"
	internalhttp "metallbau_backend/internal/http"
	"metallbau_backend/platform/logger"
	"metallbau_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the boms domain's layers.
type Module struct {
	handler    *handler.Handler
	repository *repository.Repository
}

// NewModule creates the boms module with all its dependencies.
func NewModule(pool *pgxpool.Pool, log *logger.Logger, validate *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		handler:    handler.New(svc, log, validate),
		repository: repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "boms" }

// Repository exposes the repository for the seed adapter in the composition
// root.
func (m *Module) Repository() *repository.Repository { return m.repository }

// RegisterRoutes mounts the bom read endpoints on the protected group.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	group := ctx.Protected.Group("/boms")
	{
		group.GET("", m.handler.List)
		group.GET("/:id", m.handler.Get)
	}
}
