// Package quotes exposes sales quotes produced by calculation transfers.
package quotes

import (
	internalhttp "metallbau_backend/internal/http"
	"metallbau_backend/internal/quotes/handler"
	"metallbau_backend/internal/quotes/repository"
	"metallbau_backend/internal/quotes/service"
	"metallbau_backend/platform/logger"
	"metallbau_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the quotes domain's layers.
type Module struct {
	handler    *handler.Handler
	repository *repository.Repository
}

// NewModule creates the quotes module with all its dependencies.
func NewModule(pool *pgxpool.Pool, log *logger.Logger, validate *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		handler:    handler.New(svc, log, validate),
		repository: repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "quotes" }

// Repository exposes the repository for the transfer adapter in the
// composition root.
func (m *Module) Repository() *repository.Repository { return m.repository }

// RegisterRoutes mounts the quote read endpoints on the protected group.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	group := ctx.Protected.Group("/quotes")
	{
		group.GET("", m.handler.List)
		group.GET("/:id", m.handler.Get)
	}
}
