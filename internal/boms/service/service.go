// Package service contains the read-side logic for stored bills of materials.
// BOMs are reference data here; importing or editing them is out of scope.
package service

import (
	"context"

	"metallbau_backend/internal/boms/repository"
	"metallbau_backend/internal/boms/transport"
	"metallbau_backend/platform/logger"

	"github.com/google/uuid"
)

// Service contains the business logic for bills of materials.
type Service struct {
	repo   *repository.Repository
	logger *logger.Logger
}

// New creates a new boms service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// GetByID retrieves a bill of materials with its positions.
func (s *Service) GetByID(ctx context.Context, id, companyID uuid.UUID) (*transport.BOMResponse, error) {
	bom, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByBOMID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	return buildResponse(bom, items), nil
}

// List retrieves bills of materials with pagination. List rows omit positions.
func (s *Service) List(ctx context.Context, companyID uuid.UUID, req transport.ListBOMsRequest) (*transport.BOMListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	result, err := s.repo.List(ctx, repository.ListParams{
		CompanyID: companyID,
		Search:    req.Search,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]transport.BOMResponse, 0, len(result.Items))
	for i := range result.Items {
		responses = append(responses, *buildResponse(&result.Items[i], nil))
	}

	return &transport.BOMListResponse{
		Items:      responses,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

func buildResponse(bom *repository.BOM, items []repository.BOMItem) *transport.BOMResponse {
	itemResponses := make([]transport.BOMItemResponse, len(items))
	for i, it := range items {
		itemResponses[i] = transport.BOMItemResponse{
			ID:          it.ID,
			Type:        it.ItemType,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitCost:    it.UnitCost,
			SortOrder:   it.SortOrder,
		}
	}

	return &transport.BOMResponse{
		ID:        bom.ID,
		Name:      bom.Name,
		Items:     itemResponses,
		CreatedAt: bom.CreatedAt,
	}
}
