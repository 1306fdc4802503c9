package adapters

import (
	"context"
	"time"

	calcrepo "metallbau_backend/internal/calculations/repository"
	quoterepo "metallbau_backend/internal/quotes/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// QuoteWriterAdapter adapts the quotes repository for the calculation
// transfer transition. It implements calculations/repository.QuoteWriter so
// the calculations domain never imports the quotes domain directly.
type QuoteWriterAdapter struct {
	repo *quoterepo.Repository
}

// NewQuoteWriterAdapter creates a new adapter over the quotes repository.
func NewQuoteWriterAdapter(repo *quoterepo.Repository) *QuoteWriterAdapter {
	return &QuoteWriterAdapter{repo: repo}
}

// NextNumber increments the company's quote counter on the transfer
// transaction.
func (a *QuoteWriterAdapter) NextNumber(ctx context.Context, tx pgx.Tx, companyID uuid.UUID) (string, error) {
	return a.repo.NextNumberTx(ctx, tx, companyID)
}

// CreateWithItems translates the transfer payload into quote models and
// inserts them on the transfer transaction.
func (a *QuoteWriterAdapter) CreateWithItems(ctx context.Context, tx pgx.Tx, quote calcrepo.TransferQuote, items []calcrepo.TransferQuoteItem) error {
	now := time.Now()
	model := &quoterepo.Quote{
		ID:            quote.ID,
		CompanyID:     quote.CompanyID,
		CalculationID: quote.CalculationID,
		CustomerID:    quote.CustomerID,
		Number:        quote.Number,
		Status:        quote.Status,
		ValidUntil:    quote.ValidUntil,
		Subtotal:      quote.Subtotal,
		VATAmount:     quote.VATAmount,
		Total:         quote.Total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	models := make([]quoterepo.QuoteItem, len(items))
	for i, it := range items {
		models[i] = quoterepo.QuoteItem{
			ID:          it.ID,
			QuoteID:     quote.ID,
			CompanyID:   quote.CompanyID,
			Position:    it.Position,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Total:       it.Total,
			SortOrder:   it.Position - 1,
		}
	}

	return a.repo.CreateWithItemsTx(ctx, tx, model, models)
}
