package company

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// CompanyInput contains the editable company fields
type CompanyInput struct {
	Name        string
	Description string
	GSTIN       string
	Address     valueobject.Address
	Phone       string
	Email       string
	IsPublic    bool
	LogoURL     string
}

func (in CompanyInput) details() company.Details {
	return company.Details{
		Name:        in.Name,
		Description: in.Description,
		GSTIN:       in.GSTIN,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		IsPublic:    in.IsPublic,
		LogoURL:     in.LogoURL,
	}
}

// ListFilter narrows company lists
type ListFilter struct {
	Search   string
	Page     int
	PageSize int
}

// CompanyResponse is the API view of a company
type CompanyResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	GSTIN       string              `json:"gstin"`
	Address     valueobject.Address `json:"address"`
	Phone       string              `json:"phone,omitempty"`
	Email       string              `json:"email,omitempty"`
	IsPublic    bool                `json:"is_public"`
	OwnerID     uuid.UUID           `json:"owner_id"`
	LogoURL     string              `json:"logo_url,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     int                 `json:"version"`
}

// ToCompanyResponse converts a domain company to a response
func ToCompanyResponse(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		GSTIN:       c.GSTIN.String(),
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		IsPublic:    c.IsPublic,
		OwnerID:     c.OwnerID,
		LogoURL:     c.LogoURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// ToCompanyResponses converts a slice of companies
func ToCompanyResponses(companies []company.Company) []CompanyResponse {
	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = ToCompanyResponse(&companies[i])
	}
	return out
}

// RespondInput is the company's answer to a connection request
type RespondInput struct {
	Status       string
	CreditLimit  decimal.Decimal
	PaymentTerms string
}

// ConnectionResponse is the API view of a company-retailer connection
type ConnectionResponse struct {
	ID                uuid.UUID       `json:"id"`
	CompanyID         uuid.UUID       `json:"company_id"`
	RetailerProfileID uuid.UUID       `json:"retailer_profile_id"`
	Status            string          `json:"status"`
	RequestMessage    string          `json:"request_message,omitempty"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	PaymentTerms      string          `json:"payment_terms,omitempty"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy        *uuid.UUID      `json:"approved_by,omitempty"`
	RetailerID        *uuid.UUID      `json:"retailer_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToConnectionResponse converts a domain connection to a response
func ToConnectionResponse(c *company.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:                c.ID,
		CompanyID:         c.CompanyID,
		RetailerProfileID: c.RetailerProfileID,
		Status:            string(c.Status),
		RequestMessage:    c.RequestMessage,
		CreditLimit:       c.CreditLimit,
		PaymentTerms:      c.PaymentTerms,
		ApprovedAt:        c.ApprovedAt,
		ApprovedBy:        c.ApprovedBy,
		CreatedAt:         c.CreatedAt,
	}
}

// ToConnectionResponses converts a slice of connections
func ToConnectionResponses(connections []company.Connection) []ConnectionResponse {
	out := make([]ConnectionResponse, len(connections))
	for i := range connections {
		out[i] = ToConnectionResponse(&connections[i])
	}
	return out
}
