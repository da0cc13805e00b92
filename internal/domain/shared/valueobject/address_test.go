package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/shared"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name    string
		line1   string
		city    string
		state   string
		pincode string
		wantErr string
	}{
		{name: "valid", line1: "12 MG Road", city: "Pune", state: "Maharashtra", pincode: "411001"},
		{name: "missing line", line1: " ", city: "Pune", state: "Maharashtra", pincode: "411001", wantErr: "INVALID_ADDRESS"},
		{name: "missing city", line1: "12 MG Road", city: "", state: "Maharashtra", pincode: "411001", wantErr: "INVALID_ADDRESS"},
		{name: "missing state", line1: "12 MG Road", city: "Pune", state: "", pincode: "411001", wantErr: "INVALID_ADDRESS"},
		{name: "short pincode", line1: "12 MG Road", city: "Pune", state: "Maharashtra", pincode: "4110", wantErr: "INVALID_PINCODE"},
		{name: "leading zero pincode", line1: "12 MG Road", city: "Pune", state: "Maharashtra", pincode: "011001", wantErr: "INVALID_PINCODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.line1, tt.city, tt.state, tt.pincode)
			if tt.wantErr != "" {
				require.Error(t, err)
				var de *shared.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.wantErr, de.Code)
				assert.True(t, addr.IsEmpty())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "India", addr.Country())
			assert.Equal(t, tt.city, addr.City())
		})
	}
}

func TestAddress_SameState(t *testing.T) {
	a, err := NewAddress("1 Park St", "Kolkata", "West Bengal", "700016")
	require.NoError(t, err)
	b, err := NewAddress("2 Salt Lake", "Kolkata", "west bengal", "700091")
	require.NoError(t, err)
	c, err := NewAddress("3 Anna Salai", "Chennai", "Tamil Nadu", "600002")
	require.NoError(t, err)

	assert.True(t, a.SameState(b))
	assert.False(t, a.SameState(c))
}

func TestAddress_JSONRoundTrip(t *testing.T) {
	addr, err := NewAddress("12 MG Road", "Pune", "Maharashtra", "411001", WithLine2("Camp"))
	require.NoError(t, err)

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))
	assert.Equal(t, "12 MG Road, Camp, Pune, Maharashtra 411001, India", decoded.String())
}

func TestAddress_UnmarshalRejectsInvalid(t *testing.T) {
	var addr Address
	err := json.Unmarshal([]byte(`{"line1":"x","city":"y","state":"z","pincode":"12"}`), &addr)
	assert.Error(t, err)
}
