package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListBOMsRequest defines the query parameters for listing bills of materials.
type ListBOMsRequest struct {
	Search   string `form:"search"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// BOMItemResponse is one stored bill-of-materials position.
type BOMItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitCost    float64   `json:"unitCost"`
	SortOrder   int       `json:"sortOrder"`
}

// BOMResponse is the response for a bill of materials.
type BOMResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Items     []BOMItemResponse `json:"items"`
	CreatedAt time.Time         `json:"createdAt"`
}

// BOMListResponse is the paginated list response.
type BOMListResponse struct {
	Items      []BOMResponse `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}
