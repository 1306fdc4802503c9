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

// ── Domain Models ─────────────────────────────────────────────────────────────

// Calculation is the database model for a calculation header.
type Calculation struct {
	ID                    uuid.UUID  `db:"id"`
	CompanyID             uuid.UUID  `db:"company_id"`
	Number                string     `db:"number"`
	Status                string     `db:"status"`
	CustomerID            *uuid.UUID `db:"customer_id"`
	QuoteID               *uuid.UUID `db:"quote_id"`
	MaterialMarkupPercent *float64   `db:"material_markup_percent"`
	LaborMarkupPercent    *float64   `db:"labor_markup_percent"`
	OverheadPercent       *float64   `db:"overhead_percent"`
	ProfitMarginPercent   *float64   `db:"profit_margin_percent"`
	RiskMarginPercent     *float64   `db:"risk_margin_percent"`
	DiscountPercent       *float64   `db:"discount_percent"`
	TotalCost             float64    `db:"total_cost"`
	TotalPrice            float64    `db:"total_price"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// CostItem is the database model for a calculation cost position.
// The item set is replaced wholesale on every calculation update.
type CostItem struct {
	ID            uuid.UUID `db:"id"`
	CalculationID uuid.UUID `db:"calculation_id"`
	CompanyID     uuid.UUID `db:"company_id"`
	ItemType      string    `db:"item_type"`
	Description   string    `db:"description"`
	Quantity      float64   `db:"quantity"`
	Unit          string    `db:"unit"`
	UnitCost      float64   `db:"unit_cost"`
	Hours         *float64  `db:"hours"`
	HourlyRate    *float64  `db:"hourly_rate"`
	Total         float64   `db:"total"`
	SortOrder     int       `db:"sort_order"`
	CreatedAt     time.Time `db:"created_at"`
}

// ListParams contains parameters for listing calculations.
type ListParams struct {
	CompanyID uuid.UUID
	Status    *string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing calculations.
type ListResult struct {
	Items      []Calculation
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ── Transfer Unit of Work ─────────────────────────────────────────────────────

// TransferQuote is the quote header written during the transfer transition.
type TransferQuote struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	CalculationID uuid.UUID
	CustomerID    uuid.UUID
	Number        string
	Status        string
	ValidUntil    time.Time
	Subtotal      float64
	VATAmount     float64
	Total         float64
}

// TransferQuoteItem is one sales line written during the transfer transition.
type TransferQuoteItem struct {
	ID          uuid.UUID
	Position    int
	ProductID   *uuid.UUID
	Description string
	Quantity    float64
	Unit        string
	UnitPrice   float64
	Discount    float64
	Total       float64
}

// QuoteWriter is the narrow interface the transfer transition needs to create
// the downstream sales quote inside its own transaction. Implemented by an
// adapter over the quotes repository.
type QuoteWriter interface {
	// NextNumber increments the company's quote counter and returns the
	// formatted quote number. Must run on the provided transaction so a
	// failed transfer never skips a sequence number.
	NextNumber(ctx context.Context, tx pgx.Tx, companyID uuid.UUID) (string, error)
	// CreateWithItems inserts the quote header and lines on the transaction.
	CreateWithItems(ctx context.Context, tx pgx.Tx, quote TransferQuote, items []TransferQuoteItem) error
}

// BuildQuoteFunc derives the quote payload from the locked calculation row
// and its items.
type BuildQuoteFunc func(calc *Calculation, items []CostItem, quoteNumber string) (TransferQuote, []TransferQuoteItem)

// ── Repository ────────────────────────────────────────────────────────────────

const (
	calculationNotFoundMsg = "calculation not found"
	statusTransferred      = "TRANSFERRED"
)

// Repository provides database operations for calculations.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new calculations repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextNumber generates the next calculation number for a company. Unlike the
// quote counter this is derived from the company's calculation count, not a
// durable sequence.
func (r *Repository) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	var count int
	query := `SELECT COUNT(*) FROM calculations WHERE company_id = $1`
	if err := r.pool.QueryRow(ctx, query, companyID).Scan(&count); err != nil {
		return "", fmt.Errorf("failed to count calculations: %w", err)
	}

	year := time.Now().Year()
	return fmt.Sprintf("KA-%d-%04d", year, count+1), nil
}

// CreateWithItems inserts a calculation and its cost positions in a single
// transaction.
func (r *Repository) CreateWithItems(ctx context.Context, calc *Calculation, items []CostItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	calcQuery := `
		INSERT INTO calculations (
			id, company_id, number, status, customer_id, quote_id,
			material_markup_percent, labor_markup_percent, overhead_percent,
			profit_margin_percent, risk_margin_percent, discount_percent,
			total_cost, total_price, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	if _, err := tx.Exec(ctx, calcQuery,
		calc.ID, calc.CompanyID, calc.Number, calc.Status, calc.CustomerID, calc.QuoteID,
		calc.MaterialMarkupPercent, calc.LaborMarkupPercent, calc.OverheadPercent,
		calc.ProfitMarginPercent, calc.RiskMarginPercent, calc.DiscountPercent,
		calc.TotalCost, calc.TotalPrice, calc.CreatedAt, calc.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}

	if err := r.insertItems(ctx, tx, items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateWithItems updates a calculation and replaces its cost positions.
// Transferred calculations are immutable; the status guard runs inside the
// UPDATE so a concurrent transfer cannot slip an edit through.
func (r *Repository) UpdateWithItems(ctx context.Context, calc *Calculation, items []CostItem, replaceItems bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE calculations SET
			customer_id = $2, status = $3,
			material_markup_percent = $4, labor_markup_percent = $5, overhead_percent = $6,
			profit_margin_percent = $7, risk_margin_percent = $8, discount_percent = $9,
			total_cost = $10, total_price = $11, updated_at = $12
		WHERE id = $1 AND company_id = $13 AND status <> $14`

	result, err := tx.Exec(ctx, updateQuery,
		calc.ID, calc.CustomerID, calc.Status,
		calc.MaterialMarkupPercent, calc.LaborMarkupPercent, calc.OverheadPercent,
		calc.ProfitMarginPercent, calc.RiskMarginPercent, calc.DiscountPercent,
		calc.TotalCost, calc.TotalPrice, calc.UpdatedAt, calc.CompanyID, statusTransferred,
	)
	if err != nil {
		return fmt.Errorf("failed to update calculation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return r.guardError(ctx, calc.ID, calc.CompanyID, "calculation is transferred and cannot be edited")
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM calculation_items WHERE calculation_id = $1 AND company_id = $2`, calc.ID, calc.CompanyID); err != nil {
			return fmt.Errorf("failed to delete old cost items: %w", err)
		}
		if err := r.insertItems(ctx, tx, items); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repository) insertItems(ctx context.Context, tx pgx.Tx, items []CostItem) error {
	itemQuery := `
		INSERT INTO calculation_items (
			id, calculation_id, company_id, item_type, description, quantity, unit,
			unit_cost, hours, hourly_rate, total, sort_order, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery,
			item.ID, item.CalculationID, item.CompanyID,
			item.ItemType, item.Description, item.Quantity, item.Unit,
			item.UnitCost, item.Hours, item.HourlyRate, item.Total, item.SortOrder, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert cost item: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a calculation by its ID scoped to the company.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*Calculation, error) {
	row := r.pool.QueryRow(ctx, selectCalculationQuery+` WHERE id = $1 AND company_id = $2`, id, companyID)
	return scanCalculation(row)
}

const selectCalculationQuery = `
	SELECT id, company_id, number, status, customer_id, quote_id,
		material_markup_percent, labor_markup_percent, overhead_percent,
		profit_margin_percent, risk_margin_percent, discount_percent,
		total_cost, total_price, created_at, updated_at
	FROM calculations`

func scanCalculation(row pgx.Row) (*Calculation, error) {
	var c Calculation
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Number, &c.Status, &c.CustomerID, &c.QuoteID,
		&c.MaterialMarkupPercent, &c.LaborMarkupPercent, &c.OverheadPercent,
		&c.ProfitMarginPercent, &c.RiskMarginPercent, &c.DiscountPercent,
		&c.TotalCost, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(calculationNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get calculation: %w", err)
	}
	return &c, nil
}

// GetItemsByCalculationID retrieves all cost positions for a calculation in
// sort order.
func (r *Repository) GetItemsByCalculationID(ctx context.Context, calculationID uuid.UUID, companyID uuid.UUID) ([]CostItem, error) {
	query := `
		SELECT id, calculation_id, company_id, item_type, description, quantity, unit,
			unit_cost, hours, hourly_rate, total, sort_order, created_at
		FROM calculation_items WHERE calculation_id = $1 AND company_id = $2
		ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query, calculationID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost items: %w", err)
	}
	defer rows.Close()

	var items []CostItem
	for rows.Next() {
		var it CostItem
		if err := rows.Scan(
			&it.ID, &it.CalculationID, &it.CompanyID,
			&it.ItemType, &it.Description, &it.Quantity, &it.Unit,
			&it.UnitCost, &it.Hours, &it.HourlyRate, &it.Total, &it.SortOrder, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cost item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cost items: %w", err)
	}
	return items, nil
}

// List retrieves calculations with filtering and pagination.
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
	countQuery := `SELECT COUNT(*) FROM calculations WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count calculations: %w", err)
	}

	orderBy := sortColumn(params.SortBy)
	direction := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		direction = "ASC"
	}

	offset := (params.Page - 1) * params.PageSize
	args = append(args, params.PageSize, offset)
	query := fmt.Sprintf("%s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		selectCalculationQuery, whereClause, orderBy, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	var items []Calculation
	for rows.Next() {
		var c Calculation
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Number, &c.Status, &c.CustomerID, &c.QuoteID,
			&c.MaterialMarkupPercent, &c.LaborMarkupPercent, &c.OverheadPercent,
			&c.ProfitMarginPercent, &c.RiskMarginPercent, &c.DiscountPercent,
			&c.TotalCost, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
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
	case "totalPrice":
		return "total_price"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

// UpdateStatus reassigns the lifecycle status. Transferred calculations are
// excluded by the WHERE guard.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, companyID uuid.UUID, status string) error {
	query := `UPDATE calculations SET status = $3, updated_at = $4 WHERE id = $1 AND company_id = $2 AND status <> $5`
	result, err := r.pool.Exec(ctx, query, id, companyID, status, time.Now(), statusTransferred)
	if err != nil {
		return fmt.Errorf("failed to update calculation status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return r.guardError(ctx, id, companyID, "calculation is transferred and cannot change status")
	}
	return nil
}

// Delete removes a calculation and its cost positions. Transferred
// calculations cannot be deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID, companyID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM calculations WHERE id = $1 AND company_id = $2 AND status <> $3`, id, companyID, statusTransferred)
	if err != nil {
		return fmt.Errorf("failed to delete calculation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return r.guardError(ctx, id, companyID, "calculation is transferred and cannot be deleted")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM calculation_items WHERE calculation_id = $1 AND company_id = $2`, id, companyID); err != nil {
		return fmt.Errorf("failed to delete cost items: %w", err)
	}

	return tx.Commit(ctx)
}

// guardError distinguishes a missing calculation from a transferred one after
// a zero-row write.
func (r *Repository) guardError(ctx context.Context, id uuid.UUID, companyID uuid.UUID, transferredMsg string) error {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT status FROM calculations WHERE id = $1 AND company_id = $2`, id, companyID).Scan(&status)
	if err != nil {
		return apperr.NotFound(calculationNotFoundMsg)
	}
	if status == statusTransferred {
		return apperr.InvalidState(transferredMsg)
	}
	return apperr.NotFound(calculationNotFoundMsg)
}

// transferPrecondition validates the locked calculation row before the quote
// is written. A second transfer of the same calculation fails here, as does a
// transfer without a customer to address the quote to.
func transferPrecondition(calc *Calculation) error {
	if calc.Status == statusTransferred {
		return apperr.InvalidState("calculation is already transferred")
	}
	if calc.CustomerID == nil {
		return apperr.InvalidState("calculation has no customer assigned")
	}
	return nil
}

// Transfer executes the one-way transfer transition as a single transaction:
// lock the calculation row, create the quote through the writer, and mark the
// calculation transferred. If any step fails nothing is committed, so no
// orphaned quote, half-transferred calculation, or skipped sequence number
// can be observed.
func (r *Repository) Transfer(ctx context.Context, id uuid.UUID, companyID uuid.UUID, qw QuoteWriter, build BuildQuoteFunc) (*Calculation, *TransferQuote, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent transfers of the same calculation and
	// makes the status precondition race-free.
	row := tx.QueryRow(ctx, selectCalculationQuery+` WHERE id = $1 AND company_id = $2 FOR UPDATE`, id, companyID)
	calc, err := scanCalculation(row)
	if err != nil {
		return nil, nil, err
	}

	if err := transferPrecondition(calc); err != nil {
		return nil, nil, err
	}

	items, err := r.itemsInTx(ctx, tx, id, companyID)
	if err != nil {
		return nil, nil, err
	}

	quoteNumber, err := qw.NextNumber(ctx, tx, companyID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindBadRequest, fmt.Sprintf("quote creation failed: %v", err), err)
	}

	quote, quoteItems := build(calc, items, quoteNumber)
	if err := qw.CreateWithItems(ctx, tx, quote, quoteItems); err != nil {
		return nil, nil, apperr.Wrap(apperr.KindBadRequest, fmt.Sprintf("quote creation failed: %v", err), err)
	}

	now := time.Now()
	if _, err := tx.Exec(ctx,
		`UPDATE calculations SET status = $3, quote_id = $4, updated_at = $5 WHERE id = $1 AND company_id = $2`,
		id, companyID, statusTransferred, quote.ID, now,
	); err != nil {
		return nil, nil, fmt.Errorf("failed to mark calculation transferred: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transfer: %w", err)
	}

	calc.Status = statusTransferred
	calc.QuoteID = &quote.ID
	calc.UpdatedAt = now
	return calc, &quote, nil
}

func (r *Repository) itemsInTx(ctx context.Context, tx pgx.Tx, calculationID uuid.UUID, companyID uuid.UUID) ([]CostItem, error) {
	query := `
		SELECT id, calculation_id, company_id, item_type, description, quantity, unit,
			unit_cost, hours, hourly_rate, total, sort_order, created_at
		FROM calculation_items WHERE calculation_id = $1 AND company_id = $2
		ORDER BY sort_order ASC`

	rows, err := tx.Query(ctx, query, calculationID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost items: %w", err)
	}
	defer rows.Close()

	var items []CostItem
	for rows.Next() {
		var it CostItem
		if err := rows.Scan(
			&it.ID, &it.CalculationID, &it.CompanyID,
			&it.ItemType, &it.Description, &it.Quantity, &it.Unit,
			&it.UnitCost, &it.Hours, &it.HourlyRate, &it.Total, &it.SortOrder, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cost item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cost items: %w", err)
	}
	return items, nil
}
