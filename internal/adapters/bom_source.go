package adapters

import (
	"context"

	bomrepo "metallbau_backend/internal/boms/repository"
	calcservice "metallbau_backend/internal/calculations/service"

	"github.com/google/uuid"
)

// BOMSourceAdapter adapts the boms repository for seeding calculation items.
// It implements calculations/service.BOMSource.
type BOMSourceAdapter struct {
	repo *bomrepo.Repository
}

// NewBOMSourceAdapter creates a new adapter over the boms repository.
func NewBOMSourceAdapter(repo *bomrepo.Repository) *BOMSourceAdapter {
	return &BOMSourceAdapter{repo: repo}
}

// ItemsForBOM loads the stored positions of a bill of materials. The BOM must
// exist within the caller's company scope.
func (a *BOMSourceAdapter) ItemsForBOM(ctx context.Context, bomID uuid.UUID, companyID uuid.UUID) ([]calcservice.BOMItem, error) {
	if _, err := a.repo.GetByID(ctx, bomID, companyID); err != nil {
		return nil, err
	}

	items, err := a.repo.GetItemsByBOMID(ctx, bomID, companyID)
	if err != nil {
		return nil, err
	}

	out := make([]calcservice.BOMItem, len(items))
	for i, it := range items {
		out[i] = calcservice.BOMItem{
			ItemType:    it.ItemType,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitCost:    it.UnitCost,
		}
	}
	return out, nil
}
