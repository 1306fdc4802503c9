package transport

import (
	"time"

	"github.com/google/uuid"
)

// CalculationStatus defines the lifecycle state of a calculation.
type CalculationStatus string

const (
	CalculationStatusDraft       CalculationStatus = "DRAFT"
	CalculationStatusCalculated  CalculationStatus = "CALCULATED"
	CalculationStatusApproved    CalculationStatus = "APPROVED"
	CalculationStatusTransferred CalculationStatus = "TRANSFERRED"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CostItemRequest is the input for a single cost position.
type CostItemRequest struct {
	Type        string   `json:"type" validate:"required,oneof=MATERIAL LABOR EXTERNAL OVERHEAD"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity" validate:"min=0"`
	Unit        string   `json:"unit"`
	UnitCost    float64  `json:"unitCost" validate:"min=0"`
	Hours       *float64 `json:"hours,omitempty" validate:"omitempty,min=0"`
	HourlyRate  *float64 `json:"hourlyRate,omitempty" validate:"omitempty,min=0"`
}

// CreateCalculationRequest is the request body for creating a new calculation.
// Items may be given directly or seeded from a stored bill of materials.
type CreateCalculationRequest struct {
	CustomerID            *uuid.UUID        `json:"customerId"`
	BOMID                 *uuid.UUID        `json:"bomId"`
	MaterialMarkupPercent *float64          `json:"materialMarkupPercent" validate:"omitempty,min=0"`
	LaborMarkupPercent    *float64          `json:"laborMarkupPercent" validate:"omitempty,min=0"`
	OverheadPercent       *float64          `json:"overheadPercent" validate:"omitempty,min=0"`
	ProfitMarginPercent   *float64          `json:"profitMarginPercent" validate:"omitempty,min=0"`
	RiskMarginPercent     *float64          `json:"riskMarginPercent" validate:"omitempty,min=0"`
	DiscountPercent       *float64          `json:"discountPercent" validate:"omitempty,min=0,max=100"`
	Items                 []CostItemRequest `json:"items" validate:"omitempty,dive"`
}

// UpdateCalculationRequest is the request body for updating a calculation.
// When Items is present the full item set is replaced.
type UpdateCalculationRequest struct {
	CustomerID            *uuid.UUID         `json:"customerId"`
	MaterialMarkupPercent *float64           `json:"materialMarkupPercent" validate:"omitempty,min=0"`
	LaborMarkupPercent    *float64           `json:"laborMarkupPercent" validate:"omitempty,min=0"`
	OverheadPercent       *float64           `json:"overheadPercent" validate:"omitempty,min=0"`
	ProfitMarginPercent   *float64           `json:"profitMarginPercent" validate:"omitempty,min=0"`
	RiskMarginPercent     *float64           `json:"riskMarginPercent" validate:"omitempty,min=0"`
	DiscountPercent       *float64           `json:"discountPercent" validate:"omitempty,min=0,max=100"`
	Items                 *[]CostItemRequest `json:"items" validate:"omitempty,dive"`
}

// UpdateCalculationStatusRequest reassigns the lifecycle status.
// TRANSFERRED is reachable only through the transfer transition.
type UpdateCalculationStatusRequest struct {
	Status CalculationStatus `json:"status" validate:"required,oneof=DRAFT CALCULATED APPROVED"`
}

// PricingPreviewRequest is the request body for the stateless preview
// calculation endpoint. Nothing is persisted.
type PricingPreviewRequest struct {
	MaterialMarkupPercent *float64          `json:"materialMarkupPercent" validate:"omitempty,min=0"`
	LaborMarkupPercent    *float64          `json:"laborMarkupPercent" validate:"omitempty,min=0"`
	OverheadPercent       *float64          `json:"overheadPercent" validate:"omitempty,min=0"`
	ProfitMarginPercent   *float64          `json:"profitMarginPercent" validate:"omitempty,min=0"`
	RiskMarginPercent     *float64          `json:"riskMarginPercent" validate:"omitempty,min=0"`
	DiscountPercent       *float64          `json:"discountPercent" validate:"omitempty,min=0,max=100"`
	Items                 []CostItemRequest `json:"items" validate:"required,dive"`
}

// ListCalculationsRequest defines the query parameters for listing calculations.
type ListCalculationsRequest struct {
	Status    string `form:"status" validate:"omitempty,oneof=DRAFT CALCULATED APPROVED TRANSFERRED"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=number status totalPrice createdAt updatedAt"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// PricingResultResponse is the full multi-stage price breakdown attached to
// every calculation read/create/update response.
type PricingResultResponse struct {
	MaterialCost         float64 `json:"materialCost"`
	LaborCost            float64 `json:"laborCost"`
	ExternalCost         float64 `json:"externalCost"`
	DirectCosts          float64 `json:"directCosts"`
	MaterialMarkupAmount float64 `json:"materialMarkupAmount"`
	LaborMarkupAmount    float64 `json:"laborMarkupAmount"`
	OverheadAmount       float64 `json:"overheadAmount"`
	Subtotal             float64 `json:"subtotal"`
	ProfitAmount         float64 `json:"profitAmount"`
	RiskAmount           float64 `json:"riskAmount"`
	GrossTotal           float64 `json:"grossTotal"`
	DiscountAmount       float64 `json:"discountAmount"`
	NetTotal             float64 `json:"netTotal"`
	VATAmount            float64 `json:"vatAmount"`
	GrandTotal           float64 `json:"grandTotal"`
	HourlyRateEffective  float64 `json:"hourlyRateEffective"`
	MarginPercent        float64 `json:"marginPercent"`
}

// CostItemResponse is the response for a single cost position.
type CostItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitCost    float64   `json:"unitCost"`
	Hours       *float64  `json:"hours,omitempty"`
	HourlyRate  *float64  `json:"hourlyRate,omitempty"`
	Total       float64   `json:"total"`
	SortOrder   int       `json:"sortOrder"`
}

// CalculationResponse is the response for a calculation.
type CalculationResponse struct {
	ID                    uuid.UUID             `json:"id"`
	Number                string                `json:"number"`
	Status                CalculationStatus     `json:"status"`
	CustomerID            *uuid.UUID            `json:"customerId,omitempty"`
	QuoteID               *uuid.UUID            `json:"quoteId,omitempty"`
	MaterialMarkupPercent *float64              `json:"materialMarkupPercent,omitempty"`
	LaborMarkupPercent    *float64              `json:"laborMarkupPercent,omitempty"`
	OverheadPercent       *float64              `json:"overheadPercent,omitempty"`
	ProfitMarginPercent   *float64              `json:"profitMarginPercent,omitempty"`
	RiskMarginPercent     *float64              `json:"riskMarginPercent,omitempty"`
	DiscountPercent       *float64              `json:"discountPercent,omitempty"`
	TotalCost             float64               `json:"totalCost"`
	TotalPrice            float64               `json:"totalPrice"`
	Items                 []CostItemResponse    `json:"items"`
	Pricing               PricingResultResponse `json:"pricing"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

// CalculationListResponse is the paginated list response.
type CalculationListResponse struct {
	Items      []CalculationResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

// TransferResponse is returned by the transfer transition.
type TransferResponse struct {
	CalculationID uuid.UUID         `json:"calculationId"`
	Status        CalculationStatus `json:"status"`
	QuoteID       uuid.UUID         `json:"quoteId"`
	QuoteNumber   string            `json:"quoteNumber"`
}
