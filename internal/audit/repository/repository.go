package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one audit log row.
type Entry struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	ActorID   uuid.UUID
	EventType string
	EntityID  uuid.UUID
	Message   string
	Metadata  []byte
	CreatedAt time.Time
}

// Repository provides database operations for the audit log.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes one audit entry.
func (r *Repository) Insert(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO audit_log (id, company_id, actor_id, event_type, entity_id, message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.pool.Exec(ctx, query,
		e.ID, e.CompanyID, e.ActorID, e.EventType, e.EntityID, e.Message, e.Metadata, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
