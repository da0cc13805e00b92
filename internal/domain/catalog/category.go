package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Category groups a company's products
type Category struct {
	shared.CompanyAggregateRoot
	Name string
}

// NewCategory creates a category for a company
func NewCategory(companyID uuid.UUID, name string) (*Category, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	return &Category{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
	}, nil
}

// Rename changes the category name; the same name is a no-op
func (c *Category) Rename(name string) error {
	name, err := validateCategoryName(name)
	if err != nil {
		return err
	}
	if name == c.Name {
		return nil
	}
	c.Name = name
	c.Touch()
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return "", shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return name, nil
}
