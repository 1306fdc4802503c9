package handler

import (
	"net/http"

	"metallbau_backend/internal/boms/service"
	"metallbau_backend/internal/boms/transport"
	"metallbau_backend/platform/httpkit"
	"metallbau_backend/platform/logger"
	"metallbau_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for bills of materials.
type Handler struct {
	service  *service.Service
	logger   *logger.Logger
	validate *validator.Validator
}

// New creates a new boms handler.
func New(svc *service.Service, log *logger.Logger, validate *validator.Validator) *Handler {
	return &Handler{service: svc, logger: log, validate: validate}
}

// List handles GET /boms.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ListBOMsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.service.List(c.Request.Context(), identity.CompanyID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Get handles GET /boms/:id.
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid bom ID", nil)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id, identity.CompanyID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
