package logistics

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

var licensePlatePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{3,19}$`)

// Truck is a delivery vehicle of a company
type Truck struct {
	shared.CompanyAggregateRoot
	LicensePlate string
	Capacity     int
	IsAvailable  bool
}

// NormalizeLicensePlate upper-cases and trims a license plate
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// NewTruck registers an available truck
func NewTruck(companyID uuid.UUID, licensePlate string, capacity int) (*Truck, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}
	plate := NormalizeLicensePlate(licensePlate)
	if !licensePlatePattern.MatchString(plate) {
		return nil, shared.NewDomainError("INVALID_LICENSE_PLATE", "License plate must be 4 to 20 letters, digits, spaces or dashes")
	}
	if capacity <= 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Truck capacity must be positive")
	}
	return &Truck{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		LicensePlate:         plate,
		Capacity:             capacity,
		IsAvailable:          true,
	}, nil
}

// Update changes capacity and availability
func (t *Truck) Update(capacity int, available bool) error {
	if capacity <= 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Truck capacity must be positive")
	}
	if t.Capacity == capacity && t.IsAvailable == available {
		return nil
	}
	t.Capacity = capacity
	t.IsAvailable = available
	t.Touch()
	return nil
}

// Occupy marks the truck as out on a delivery
func (t *Truck) Occupy() {
	if !t.IsAvailable {
		return
	}
	t.IsAvailable = false
	t.Touch()
}

// Free returns the truck to the pool
func (t *Truck) Free() {
	if t.IsAvailable {
		return
	}
	t.IsAvailable = true
	t.Touch()
}
