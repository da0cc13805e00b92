package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/shared/valueobject"
)

func testAddress(t *testing.T) valueobject.Address {
	t.Helper()
	addr, err := valueobject.NewAddress("5 Market Road", "Nashik", "Maharashtra", "422001")
	require.NoError(t, err)
	return addr
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestNewRetailer(t *testing.T) {
	companyID := uuid.New()
	d := RetailerDetails{
		Name:                  "Sharma Stores",
		Contact:               "9800000000",
		GSTIN:                 "27AAPFU0939F1ZV",
		Address:               testAddress(t),
		DistanceFromWarehouse: decimal.NewFromFloat(12.5),
		IsActive:              true,
	}
	r, err := NewRetailer(companyID, d)
	require.NoError(t, err)
	assert.True(t, r.BelongsTo(companyID))
	assert.Equal(t, "Sharma Stores", r.Name)

	require.NoError(t, r.Update(d))
	assert.Equal(t, 1, r.Version, "identical update must not bump version")

	d.IsActive = false
	require.NoError(t, r.Update(d))
	assert.Equal(t, 2, r.Version)

	d.DistanceFromWarehouse = decimal.NewFromInt(-1)
	requireCode(t, r.Update(d), "INVALID_DISTANCE")

	_, err = NewRetailer(uuid.Nil, d)
	requireCode(t, err, "INVALID_COMPANY")
}

func TestRetailerProfile(t *testing.T) {
	year := 2010
	d := ProfileDetails{
		BusinessName:    "Patel Traders",
		ContactPerson:   "R. Patel",
		Email:           "Patel@Traders.in",
		Phone:           "9811111111",
		EstablishedYear: &year,
		Address:         testAddress(t),
	}
	p, err := NewRetailerProfile(uuid.New(), d)
	require.NoError(t, err)
	assert.Equal(t, "patel@traders.in", p.Email)
	assert.False(t, p.IsVerified)

	sameYearCopy := 2010
	d.EstablishedYear = &sameYearCopy
	require.NoError(t, p.Update(d))
	assert.Equal(t, 1, p.Version)

	bad := 1700
	d.EstablishedYear = &bad
	requireCode(t, p.Update(d), "INVALID_YEAR")

	p.Verify()
	p.Verify()
	assert.True(t, p.IsVerified)
	assert.Equal(t, 2, p.Version)

	r, err := NewRetailerFromProfile(uuid.New(), p, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, p.ID, *r.RetailerProfileID)
	assert.Equal(t, "Patel Traders", r.Name)
	assert.Equal(t, valueobject.GSTIN(""), r.GSTIN)
}
