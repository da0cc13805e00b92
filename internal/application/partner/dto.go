package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// RetailerInput contains the editable retailer fields
type RetailerInput struct {
	Name                  string
	Contact               string
	ContactPerson         string
	Email                 string
	GSTIN                 string
	Address               valueobject.Address
	DistanceFromWarehouse decimal.Decimal
	IsActive              bool
}

func (in RetailerInput) details() partner.RetailerDetails {
	return partner.RetailerDetails{
		Name:                  in.Name,
		Contact:               in.Contact,
		ContactPerson:         in.ContactPerson,
		Email:                 in.Email,
		GSTIN:                 in.GSTIN,
		Address:               in.Address,
		DistanceFromWarehouse: in.DistanceFromWarehouse,
		IsActive:              in.IsActive,
	}
}

// RetailerListFilter narrows retailer lists
type RetailerListFilter struct {
	CompanyID *uuid.UUID
	Search    string
	Page      int
	PageSize  int
}

// RetailerResponse is the API view of a retailer
type RetailerResponse struct {
	ID                    uuid.UUID           `json:"id"`
	CompanyID             uuid.UUID           `json:"company_id"`
	Name                  string              `json:"name"`
	Contact               string              `json:"contact"`
	ContactPerson         string              `json:"contact_person,omitempty"`
	Email                 string              `json:"email,omitempty"`
	GSTIN                 string              `json:"gstin,omitempty"`
	Address               valueobject.Address `json:"address"`
	DistanceFromWarehouse decimal.Decimal     `json:"distance_from_warehouse"`
	IsActive              bool                `json:"is_active"`
	RetailerProfileID     *uuid.UUID          `json:"retailer_profile_id,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
	Version               int                 `json:"version"`
}

// ToRetailerResponse converts a domain retailer to a response
func ToRetailerResponse(r *partner.Retailer) RetailerResponse {
	return RetailerResponse{
		ID:                    r.ID,
		CompanyID:             r.CompanyID,
		Name:                  r.Name,
		Contact:               r.Contact,
		ContactPerson:         r.ContactPerson,
		Email:                 r.Email,
		GSTIN:                 r.GSTIN.String(),
		Address:               r.Address,
		DistanceFromWarehouse: r.DistanceFromWarehouse,
		IsActive:              r.IsActive,
		RetailerProfileID:     r.RetailerProfileID,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		Version:               r.Version,
	}
}

// ToRetailerResponses converts a slice of retailers
func ToRetailerResponses(retailers []partner.Retailer) []RetailerResponse {
	out := make([]RetailerResponse, len(retailers))
	for i := range retailers {
		out[i] = ToRetailerResponse(&retailers[i])
	}
	return out
}

// ProfileInput contains the editable retailer profile fields
type ProfileInput struct {
	BusinessName    string
	BusinessType    string
	ContactPerson   string
	Email           string
	Phone           string
	GSTIN           string
	EstablishedYear *int
	Address         valueobject.Address
}

func (in ProfileInput) details() partner.ProfileDetails {
	return partner.ProfileDetails{
		BusinessName:    in.BusinessName,
		BusinessType:    in.BusinessType,
		ContactPerson:   in.ContactPerson,
		Email:           in.Email,
		Phone:           in.Phone,
		GSTIN:           in.GSTIN,
		EstablishedYear: in.EstablishedYear,
		Address:         in.Address,
	}
}

// ProfileResponse is the API view of a retailer profile
type ProfileResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	BusinessName    string              `json:"business_name"`
	BusinessType    string              `json:"business_type,omitempty"`
	ContactPerson   string              `json:"contact_person"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	GSTIN           string              `json:"gstin,omitempty"`
	EstablishedYear *int                `json:"established_year,omitempty"`
	IsVerified      bool                `json:"is_verified"`
	Address         valueobject.Address `json:"address"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToProfileResponse converts a domain profile to a response
func ToProfileResponse(p *partner.RetailerProfile) ProfileResponse {
	return ProfileResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		BusinessName:    p.BusinessName,
		BusinessType:    p.BusinessType,
		ContactPerson:   p.ContactPerson,
		Email:           p.Email,
		Phone:           p.Phone,
		GSTIN:           p.GSTIN.String(),
		EstablishedYear: p.EstablishedYear,
		IsVerified:      p.IsVerified,
		Address:         p.Address,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// RetailerCounts summarises a retailer's relationships
type RetailerCounts struct {
	ConnectedCompanies int64 `json:"connected_companies"`
	PendingRequests    int64 `json:"pending_requests"`
	TotalOrders        int64 `json:"total_orders"`
}
