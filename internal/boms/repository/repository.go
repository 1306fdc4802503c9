package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"metallbau_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BOM is the database model for a stored bill of materials.
type BOM struct {
	ID        uuid.UUID `db:"id"`
	CompanyID uuid.UUID `db:"company_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// BOMItem is the database model for one bill-of-materials position.
type BOMItem struct {
	ID          uuid.UUID `db:"id"`
	BOMID       uuid.UUID `db:"bom_id"`
	CompanyID   uuid.UUID `db:"company_id"`
	ItemType    string    `db:"item_type"`
	Description string    `db:"description"`
	Quantity    float64   `db:"quantity"`
	Unit        string    `db:"unit"`
	UnitCost    float64   `db:"unit_cost"`
	SortOrder   int       `db:"sort_order"`
}

// ListParams contains parameters for listing bills of materials.
type ListParams struct {
	CompanyID uuid.UUID
	Search    string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing bills of materials.
type ListResult struct {
	Items      []BOM
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for bills of materials.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new boms repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID retrieves a bill of materials scoped to the company.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*BOM, error) {
	var b BOM
	query := `SELECT id, company_id, name, created_at FROM boms WHERE id = $1 AND company_id = $2`
	err := r.pool.QueryRow(ctx, query, id, companyID).Scan(&b.ID, &b.CompanyID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("bill of materials not found")
		}
		return nil, fmt.Errorf("failed to get bom: %w", err)
	}
	return &b, nil
}

// GetItemsByBOMID retrieves all positions of a bill of materials in sort order.
func (r *Repository) GetItemsByBOMID(ctx context.Context, bomID uuid.UUID, companyID uuid.UUID) ([]BOMItem, error) {
	query := `
		SELECT id, bom_id, company_id, item_type, description, quantity, unit, unit_cost, sort_order
		FROM bom_items WHERE bom_id = $1 AND company_id = $2
		ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query, bomID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bom items: %w", err)
	}
	defer rows.Close()

	var items []BOMItem
	for rows.Next() {
		var it BOMItem
		if err := rows.Scan(
			&it.ID, &it.BOMID, &it.CompanyID, &it.ItemType, &it.Description,
			&it.Quantity, &it.Unit, &it.UnitCost, &it.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bom item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bom items: %w", err)
	}
	return items, nil
}

// List retrieves bills of materials with pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "company_id = $1"
	args := []any{params.CompanyID}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM boms WHERE `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count boms: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	args = append(args, params.PageSize, offset)
	query := fmt.Sprintf(
		`SELECT id, company_id, name, created_at FROM boms WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query boms: %w", err)
	}
	defer rows.Close()

	var items []BOM
	for rows.Next() {
		var b BOM
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bom: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boms: %w", err)
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
