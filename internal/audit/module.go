// Package audit records calculation domain events in an append-only log.
// Writes are best effort: a failed insert is logged and never propagated
// back to the operation that produced the event.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"metallbau_backend/internal/audit/repository"
	"metallbau_backend/internal/events"
	"metallbau_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module subscribes to domain events and persists them as audit entries.
// It registers no HTTP routes.
type Module struct {
	repo   *repository.Repository
	logger *logger.Logger
}

// NewModule creates the audit module and wires its event subscriptions.
func NewModule(pool *pgxpool.Pool, log *logger.Logger, bus events.Bus) *Module {
	m := &Module{repo: repository.New(pool), logger: log}

	bus.Subscribe(events.CalculationCreated{}.EventName(), events.HandlerFunc(m.onCreated))
	bus.Subscribe(events.CalculationUpdated{}.EventName(), events.HandlerFunc(m.onUpdated))
	bus.Subscribe(events.CalculationStatusChanged{}.EventName(), events.HandlerFunc(m.onStatusChanged))
	bus.Subscribe(events.CalculationDeleted{}.EventName(), events.HandlerFunc(m.onDeleted))
	bus.Subscribe(events.CalculationTransferred{}.EventName(), events.HandlerFunc(m.onTransferred))

	return m
}

func (m *Module) onCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CalculationCreated)
	if !ok {
		return nil
	}
	m.write(ctx, e, e.CompanyID, e.ActorID, e.CalculationID,
		fmt.Sprintf("calculation %s created", e.Number))
	return nil
}

func (m *Module) onUpdated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CalculationUpdated)
	if !ok {
		return nil
	}
	m.write(ctx, e, e.CompanyID, e.ActorID, e.CalculationID,
		fmt.Sprintf("calculation %s updated", e.Number))
	return nil
}

func (m *Module) onStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CalculationStatusChanged)
	if !ok {
		return nil
	}
	m.write(ctx, e, e.CompanyID, e.ActorID, e.CalculationID,
		fmt.Sprintf("calculation %s status changed from %s to %s", e.Number, e.OldStatus, e.NewStatus))
	return nil
}

func (m *Module) onDeleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CalculationDeleted)
	if !ok {
		return nil
	}
	m.write(ctx, e, e.CompanyID, e.ActorID, e.CalculationID,
		fmt.Sprintf("calculation %s deleted", e.Number))
	return nil
}

func (m *Module) onTransferred(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CalculationTransferred)
	if !ok {
		return nil
	}
	m.write(ctx, e, e.CompanyID, e.ActorID, e.CalculationID,
		fmt.Sprintf("calculation %s transferred to quote %s", e.Number, e.QuoteNumber))
	return nil
}

func (m *Module) write(ctx context.Context, event events.Event, companyID, actorID, entityID uuid.UUID, message string) {
	metadata, err := json.Marshal(event)
	if err != nil {
		metadata = []byte("{}")
	}

	entry := repository.Entry{
		ID:        uuid.New(),
		CompanyID: companyID,
		ActorID:   actorID,
		EventType: event.EventName(),
		EntityID:  entityID,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	if err := m.repo.Insert(ctx, entry); err != nil {
		m.logger.AuditWriteFailed(event.EventName(), err)
	}
}
