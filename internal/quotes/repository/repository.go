package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"metallbau_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Quote is the database model for a sales quote produced by a transfer.
type Quote struct {
	ID            uuid.UUID `db:"id"`
	CompanyID     uuid.UUID `db:"company_id"`
	CalculationID uuid.UUID `db:"calculation_id"`
	CustomerID    uuid.UUID `db:"customer_id"`
	Number        string    `db:"number"`
	Status        string    `db:"status"`
	ValidUntil    time.Time `db:"valid_until"`
	Subtotal      float64   `db:"subtotal"`
	VATAmount     float64   `db:"vat_amount"`
	Total         float64   `db:"total"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// QuoteItem is the database model for one sales line.
type QuoteItem struct {
	ID          uuid.UUID  `db:"id"`
	QuoteID     uuid.UUID  `db:"quote_id"`
	CompanyID   uuid.UUID  `db:"company_id"`
	Position    int        `db:"position"`
	ProductID   *uuid.UUID `db:"product_id"`
	Description string     `db:"description"`
	Quantity    float64    `db:"quantity"`
	Unit        string     `db:"unit"`
	UnitPrice   float64    `db:"unit_price"`
	Discount    float64    `db:"discount"`
	Total       float64    `db:"total"`
	SortOrder   int        `db:"sort_order"`
}

// ListParams contains parameters for listing quotes.
type ListParams struct {
	CompanyID uuid.UUID
	Status    *string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing quotes.
type ListResult struct {
	Items      []Quote
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for quotes.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextNumberTx atomically increments the company's durable quote counter on
// the caller's transaction and returns the formatted number. Running on the
// transfer transaction means a rolled-back transfer never burns a number.
func (r *Repository) NextNumberTx(ctx context.Context, tx pgx.Tx, companyID uuid.UUID) (string, error) {
	var lastNumber int
	query := `
		INSERT INTO quote_counters (company_id, last_number) VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_number = quote_counters.last_number + 1
		RETURNING last_number`

	if err := tx.QueryRow(ctx, query, companyID).Scan(&lastNumber); err != nil {
		return "", fmt.Errorf("failed to increment quote counter: %w", err)
	}

	year := time.Now().Year()
	return fmt.Sprintf("AN-%d-%04d", year, lastNumber), nil
}

// CreateWithItemsTx inserts a quote and its lines on the caller's transaction.
func (r *Repository) CreateWithItemsTx(ctx context.Context, tx pgx.Tx, quote *Quote, items []QuoteItem) error {
	quoteQuery := `
		INSERT INTO quotes (
			id, company_id, calculation_id, customer_id, number, status,
			valid_until, subtotal, vat_amount, total, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if _, err := tx.Exec(ctx, quoteQuery,
		quote.ID, quote.CompanyID, quote.CalculationID, quote.CustomerID, quote.Number, quote.Status,
		quote.ValidUntil, quote.Subtotal, quote.VATAmount, quote.Total, quote.CreatedAt, quote.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	itemQuery := `
		INSERT INTO quote_items (
			id, quote_id, company_id, position, product_id, description,
			quantity, unit, unit_price, discount, total, sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery,
			item.ID, item.QuoteID, item.CompanyID, item.Position, item.ProductID, item.Description,
			item.Quantity, item.Unit, item.UnitPrice, item.Discount, item.Total, item.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to insert quote item: %w", err)
		}
	}

	return nil
}

const selectQuoteQuery = `
	SELECT id, company_id, calculation_id, customer_id, number, status,
		valid_until, subtotal, vat_amount, total, created_at, updated_at
	FROM quotes`

// GetByID retrieves a quote by its ID scoped to the company.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*Quote, error) {
	var q Quote
	err := r.pool.QueryRow(ctx, selectQuoteQuery+` WHERE id = $1 AND company_id = $2`, id, companyID).Scan(
		&q.ID, &q.CompanyID, &q.CalculationID, &q.CustomerID, &q.Number, &q.Status,
		&q.ValidUntil, &q.Subtotal, &q.VATAmount, &q.Total, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("quote not found")
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return &q, nil
}

// GetItemsByQuoteID retrieves all sales lines of a quote in position order.
func (r *Repository) GetItemsByQuoteID(ctx context.Context, quoteID uuid.UUID, companyID uuid.UUID) ([]QuoteItem, error) {
	query := `
		SELECT id, quote_id, company_id, position, product_id, description,
			quantity, unit, unit_price, discount, total, sort_order
		FROM quote_items WHERE quote_id = $1 AND company_id = $2
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, quoteID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote items: %w", err)
	}
	defer rows.Close()

	var items []QuoteItem
	for rows.Next() {
		var it QuoteItem
		if err := rows.Scan(
			&it.ID, &it.QuoteID, &it.CompanyID, &it.Position, &it.ProductID, &it.Description,
			&it.Quantity, &it.Unit, &it.UnitPrice, &it.Discount, &it.Total, &it.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote items: %w", err)
	}
	return items, nil
}

// List retrieves quotes with filtering and pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	where := []string{"company_id = $1"}
	args := []any{params.CompanyID}

	if params.Status != nil {
		args = append(args, *params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("number ILIKE $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotes WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	orderBy := sortColumn(params.SortBy)
	direction := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		direction = "ASC"
	}

	offset := (params.Page - 1) * params.PageSize
	args = append(args, params.PageSize, offset)
	query := fmt.Sprintf("%s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		selectQuoteQuery, whereClause, orderBy, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var items []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(
			&q.ID, &q.CompanyID, &q.CalculationID, &q.CustomerID, &q.Number, &q.Status,
			&q.ValidUntil, &q.Subtotal, &q.VATAmount, &q.Total, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "number":
		return "number"
	case "status":
		return "status"
	case "total":
		return "total"
	default:
		return "created_at"
	}
}
