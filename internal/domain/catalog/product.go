package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the sale status of a product
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// IsValid reports whether the status can be set directly
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

var hsnPattern = regexp.MustCompile(`^[0-9]{4,8}$`)

// DefaultUQC is used when a product is described without a unit quantity code
const DefaultUQC = "NOS"

// Product is a manufactured item with its GST rates and stock counters
type Product struct {
	shared.CompanyAggregateRoot
	CategoryID            *uuid.UUID
	Name                  string
	HSNCode               string
	UQC                   string
	Price                 decimal.Decimal
	CGSTRate              decimal.Decimal
	SGSTRate              decimal.Decimal
	IGSTRate              decimal.Decimal
	CessRate              decimal.Decimal
	AvailableQuantity     int64
	TotalRequiredQuantity int64
	TotalShipped          int64
	Status                ProductStatus
}

// ProductDetails holds the mutable descriptive fields of a product
type ProductDetails struct {
	CategoryID *uuid.UUID
	Name       string
	HSNCode    string
	UQC        string
	Price      decimal.Decimal
	CGSTRate   decimal.Decimal
	SGSTRate   decimal.Decimal
	IGSTRate   decimal.Decimal
	CessRate   decimal.Decimal
}

// NewProduct creates an active product with the given opening stock
func NewProduct(companyID uuid.UUID, d ProductDetails, available int64) (*Product, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}
	if available < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Available quantity cannot be negative")
	}
	p := &Product{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		AvailableQuantity:    available,
		Status:               ProductStatusActive,
	}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the product details; identical input is a no-op
func (p *Product) Update(d ProductDetails) error {
	before := *p
	if err := p.apply(d); err != nil {
		return err
	}
	if p.sameDetails(&before) {
		return nil
	}
	p.Touch()
	return nil
}

// SetStatus activates or deactivates the product
func (p *Product) SetStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Product status must be active or inactive")
	}
	if p.Status == status {
		return nil
	}
	p.Status = status
	p.Touch()
	return nil
}

// SetQuantities overwrites the stock counters
func (p *Product) SetQuantities(available, required, shipped int64) error {
	if available < 0 || required < 0 || shipped < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if p.AvailableQuantity == available && p.TotalRequiredQuantity == required && p.TotalShipped == shipped {
		return nil
	}
	p.AvailableQuantity = available
	p.TotalRequiredQuantity = required
	p.TotalShipped = shipped
	p.Touch()
	return nil
}

// Reserve records demand from a new order
func (p *Product) Reserve(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("PRODUCT_INACTIVE", "Product "+p.Name+" is not available for ordering")
	}
	p.TotalRequiredQuantity += qty
	p.Touch()
	return nil
}

// Release drops demand of a cancelled order
func (p *Product) Release(qty int64) {
	p.TotalRequiredQuantity -= qty
	if p.TotalRequiredQuantity < 0 {
		p.TotalRequiredQuantity = 0
	}
	p.Touch()
}

// ShipOut moves reserved quantity out of stock
func (p *Product) ShipOut(qty int64) error {
	if qty > p.AvailableQuantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for "+p.Name)
	}
	p.AvailableQuantity -= qty
	p.TotalRequiredQuantity -= qty
	if p.TotalRequiredQuantity < 0 {
		p.TotalRequiredQuantity = 0
	}
	p.TotalShipped += qty
	p.Touch()
	return nil
}

// EffectiveStatus reports out_of_stock for active products with no stock
func (p *Product) EffectiveStatus() ProductStatus {
	if p.Status == ProductStatusActive && p.AvailableQuantity == 0 {
		return ProductStatusOutOfStock
	}
	return p.Status
}

// TotalGSTRate returns the GST rate applicable to an invoice line
func (p *Product) TotalGSTRate() decimal.Decimal {
	if p.IGSTRate.IsPositive() {
		return p.IGSTRate
	}
	return p.CGSTRate.Add(p.SGSTRate)
}

func (p *Product) apply(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	hsn := strings.TrimSpace(d.HSNCode)
	if !hsnPattern.MatchString(hsn) {
		return shared.NewDomainError("INVALID_HSN_CODE", "HSN code must be 4 to 8 digits")
	}
	uqc := strings.ToUpper(strings.TrimSpace(d.UQC))
	if uqc == "" {
		uqc = DefaultUQC
	}
	if len(uqc) > 10 {
		return shared.NewDomainError("INVALID_UQC", "Unit quantity code cannot exceed 10 characters")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	for _, rate := range []decimal.Decimal{d.CGSTRate, d.SGSTRate, d.IGSTRate} {
		if err := valueobject.ValidateGSTRate(rate); err != nil {
			return err
		}
	}
	if d.CessRate.IsNegative() || d.CessRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_CESS_RATE", "Cess rate must be between 0 and 100 percent")
	}
	p.CategoryID = d.CategoryID
	p.Name = name
	p.HSNCode = hsn
	p.UQC = uqc
	p.Price = d.Price
	p.CGSTRate = d.CGSTRate
	p.SGSTRate = d.SGSTRate
	p.IGSTRate = d.IGSTRate
	p.CessRate = d.CessRate
	return nil
}

func (p *Product) sameDetails(o *Product) bool {
	return sameUUIDPtr(p.CategoryID, o.CategoryID) &&
		p.Name == o.Name &&
		p.HSNCode == o.HSNCode &&
		p.UQC == o.UQC &&
		p.Price.Equal(o.Price) &&
		p.CGSTRate.Equal(o.CGSTRate) &&
		p.SGSTRate.Equal(o.SGSTRate) &&
		p.IGSTRate.Equal(o.IGSTRate) &&
		p.CessRate.Equal(o.CessRate)
}

func sameUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
