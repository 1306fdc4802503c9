// Package service contains the read-side logic for quotes. Quotes are created
// exclusively through the calculation transfer transition; this service only
// exposes them.
package service

import (
	"context"

	"metallbau_backend/internal/quotes/repository"
	"metallbau_backend/internal/quotes/transport"
	"metallbau_backend/platform/logger"

	"github.com/google/uuid"
)

// Service contains the business logic for quotes.
type Service struct {
	repo   *repository.Repository
	logger *logger.Logger
}

// New creates a new quotes service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// GetByID retrieves a quote with its sales lines.
func (s *Service) GetByID(ctx context.Context, id, companyID uuid.UUID) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByQuoteID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	return buildResponse(quote, items), nil
}

// List retrieves quotes with filtering and pagination. List rows omit the
// sales lines.
func (s *Service) List(ctx context.Context, companyID uuid.UUID, req transport.ListQuotesRequest) (*transport.QuoteListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	params := repository.ListParams{
		CompanyID: companyID,
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      page,
		PageSize:  pageSize,
	}
	if req.Status != "" {
		params.Status = &req.Status
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.QuoteResponse, 0, len(result.Items))
	for i := range result.Items {
		responses = append(responses, *buildResponse(&result.Items[i], nil))
	}

	return &transport.QuoteListResponse{
		Items:      responses,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

func buildResponse(quote *repository.Quote, items []repository.QuoteItem) *transport.QuoteResponse {
	itemResponses := make([]transport.QuoteItemResponse, len(items))
	for i, it := range items {
		itemResponses[i] = transport.QuoteItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Total:       it.Total,
		}
	}

	return &transport.QuoteResponse{
		ID:            quote.ID,
		Number:        quote.Number,
		Status:        transport.QuoteStatus(quote.Status),
		CalculationID: quote.CalculationID,
		CustomerID:    quote.CustomerID,
		ValidUntil:    quote.ValidUntil,
		Subtotal:      quote.Subtotal,
		VATAmount:     quote.VATAmount,
		Total:         quote.Total,
		Items:         itemResponses,
		CreatedAt:     quote.CreatedAt,
		UpdatedAt:     quote.UpdatedAt,
	}
}
