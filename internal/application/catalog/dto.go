package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/catalog"
)

// CategoryResponse is the API view of a category
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}

// ProductInput contains the editable product fields
type ProductInput struct {
	CategoryID        *uuid.UUID
	Name              string
	HSNCode           string
	UQC               string
	Price             decimal.Decimal
	CGSTRate          decimal.Decimal
	SGSTRate          decimal.Decimal
	IGSTRate          decimal.Decimal
	CessRate          decimal.Decimal
	AvailableQuantity int64
	// Status is applied on update only; empty keeps the current status
	Status string
}

func (in ProductInput) details() catalog.ProductDetails {
	return catalog.ProductDetails{
		CategoryID: in.CategoryID,
		Name:       in.Name,
		HSNCode:    in.HSNCode,
		UQC:        in.UQC,
		Price:      in.Price,
		CGSTRate:   in.CGSTRate,
		SGSTRate:   in.SGSTRate,
		IGSTRate:   in.IGSTRate,
		CessRate:   in.CessRate,
	}
}

// QuantityInput overwrites a product's stock counters
type QuantityInput struct {
	AvailableQuantity     int64
	TotalRequiredQuantity int64
	TotalShipped          int64
}

// ProductListFilter narrows product lists
type ProductListFilter struct {
	CompanyID  *uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	Status     string
	Page       int
	PageSize   int
}

// ProductResponse is the API view of a product
type ProductResponse struct {
	ID                    uuid.UUID       `json:"id"`
	CompanyID             uuid.UUID       `json:"company_id"`
	CategoryID            *uuid.UUID      `json:"category_id,omitempty"`
	Name                  string          `json:"name"`
	HSNCode               string          `json:"hsn_code"`
	UQC                   string          `json:"uqc"`
	Price                 decimal.Decimal `json:"price"`
	CGSTRate              decimal.Decimal `json:"cgst_rate"`
	SGSTRate              decimal.Decimal `json:"sgst_rate"`
	IGSTRate              decimal.Decimal `json:"igst_rate"`
	CessRate              decimal.Decimal `json:"cess_rate"`
	AvailableQuantity     int64           `json:"available_quantity"`
	TotalRequiredQuantity int64           `json:"total_required_quantity"`
	TotalShipped          int64           `json:"total_shipped"`
	Status                string          `json:"status"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Version               int             `json:"version"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                    p.ID,
		CompanyID:             p.CompanyID,
		CategoryID:            p.CategoryID,
		Name:                  p.Name,
		HSNCode:               p.HSNCode,
		UQC:                   p.UQC,
		Price:                 p.Price,
		CGSTRate:              p.CGSTRate,
		SGSTRate:              p.SGSTRate,
		IGSTRate:              p.IGSTRate,
		CessRate:              p.CessRate,
		AvailableQuantity:     p.AvailableQuantity,
		TotalRequiredQuantity: p.TotalRequiredQuantity,
		TotalShipped:          p.TotalShipped,
		Status:                string(p.EffectiveStatus()),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
		Version:               p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// CategoryStockResponse is one slice of the stock-by-category chart
type CategoryStockResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}
