package handler

import (
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

// AddressRequest is the postal address accepted by create and update endpoints
type AddressRequest struct {
	Line1   string `json:"line1" binding:"required,max=200" example:"12 MG Road"`
	Line2   string `json:"line2" binding:"max=200" example:"Near City Mall"`
	City    string `json:"city" binding:"required,max=100" example:"Bengaluru"`
	State   string `json:"state" binding:"required,max=100" example:"Karnataka"`
	Pincode string `json:"pincode" binding:"required,len=6,numeric" example:"560001"`
	Country string `json:"country" binding:"max=100" example:"India"`
}

func (r AddressRequest) toAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(r.Line1, r.City, r.State, r.Pincode,
		valueobject.WithLine2(r.Line2),
		valueobject.WithCountry(r.Country),
	)
}
