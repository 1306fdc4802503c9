package transport

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus defines the lifecycle state of a sales quote.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
)

// ListQuotesRequest defines the query parameters for listing quotes.
type ListQuotesRequest struct {
	Status    string `form:"status" validate:"omitempty,oneof=DRAFT SENT ACCEPTED REJECTED"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=number status total createdAt"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// QuoteItemResponse is one sales line of a quote.
type QuoteItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	Position    int        `json:"position"`
	ProductID   *uuid.UUID `json:"productId,omitempty"`
	Description string     `json:"description"`
	Quantity    float64    `json:"quantity"`
	Unit        string     `json:"unit"`
	UnitPrice   float64    `json:"unitPrice"`
	Discount    float64    `json:"discount"`
	Total       float64    `json:"total"`
}

// QuoteResponse is the response for a quote.
type QuoteResponse struct {
	ID            uuid.UUID           `json:"id"`
	Number        string              `json:"number"`
	Status        QuoteStatus         `json:"status"`
	CalculationID uuid.UUID           `json:"calculationId"`
	CustomerID    uuid.UUID           `json:"customerId"`
	ValidUntil    time.Time           `json:"validUntil"`
	Subtotal      float64             `json:"subtotal"`
	VATAmount     float64             `json:"vatAmount"`
	Total         float64             `json:"total"`
	Items         []QuoteItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// QuoteListResponse is the paginated list response.
type QuoteListResponse struct {
	Items      []QuoteResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}
