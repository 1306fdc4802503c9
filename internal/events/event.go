// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"metallbau_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Calculations Domain Events
// =============================================================================

// CalculationCreated is published when a new calculation is created.
type CalculationCreated struct {
	BaseEvent
	CalculationID uuid.UUID  `json:"calculationId"`
	CompanyID     uuid.UUID  `json:"companyId"`
	Number        string     `json:"number"`
	SourceBOMID   *uuid.UUID `json:"sourceBomId,omitempty"`
	ActorID       uuid.UUID  `json:"actorId"`
	TotalCost     float64    `json:"totalCost"`
	TotalPrice    float64    `json:"totalPrice"`
}

func (e CalculationCreated) EventName() string { return "calculations.created" }

// CalculationUpdated is published when a calculation's items or rates change.
type CalculationUpdated struct {
	BaseEvent
	CalculationID uuid.UUID `json:"calculationId"`
	CompanyID     uuid.UUID `json:"companyId"`
	Number        string    `json:"number"`
	ActorID       uuid.UUID `json:"actorId"`
	TotalCost     float64   `json:"totalCost"`
	TotalPrice    float64   `json:"totalPrice"`
}

func (e CalculationUpdated) EventName() string { return "calculations.updated" }

// CalculationStatusChanged is published when a caller reassigns the status.
type CalculationStatusChanged struct {
	BaseEvent
	CalculationID uuid.UUID `json:"calculationId"`
	CompanyID     uuid.UUID `json:"companyId"`
	Number        string    `json:"number"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
	ActorID       uuid.UUID `json:"actorId"`
}

func (e CalculationStatusChanged) EventName() string { return "calculations.status_changed" }

// CalculationDeleted is published when a calculation is removed.
type CalculationDeleted struct {
	BaseEvent
	CalculationID uuid.UUID `json:"calculationId"`
	CompanyID     uuid.UUID `json:"companyId"`
	Number        string    `json:"number"`
	ActorID       uuid.UUID `json:"actorId"`
}

func (e CalculationDeleted) EventName() string { return "calculations.deleted" }

// CalculationTransferred is published after a calculation has been transferred
// to a sales quote. The transfer itself is transactional; this event fires
// only once the transaction has committed.
type CalculationTransferred struct {
	BaseEvent
	CalculationID uuid.UUID `json:"calculationId"`
	CompanyID     uuid.UUID `json:"companyId"`
	Number        string    `json:"number"`
	QuoteID       uuid.UUID `json:"quoteId"`
	QuoteNumber   string    `json:"quoteNumber"`
	ActorID       uuid.UUID `json:"actorId"`
	Total         float64   `json:"total"`
}

func (e CalculationTransferred) EventName() string { return "calculations.transferred" }
