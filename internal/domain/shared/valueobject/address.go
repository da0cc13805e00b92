package valueobject

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/supplychain/backend/internal/domain/shared"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Address is an immutable postal address.
// Line1, city, state and pincode are required; line2 is optional.
type Address struct {
	line1   string
	line2   string
	city    string
	state   string
	pincode string
	country string
}

// AddressOption configures optional address fields
type AddressOption func(*Address)

// WithLine2 sets the second address line
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithCountry overrides the default country
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		if c := strings.TrimSpace(country); c != "" {
			a.country = c
		}
	}
}

// NewAddress validates and builds an address
func NewAddress(line1, city, state, pincode string, opts ...AddressOption) (Address, error) {
	addr := Address{
		line1:   strings.TrimSpace(line1),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		pincode: strings.TrimSpace(pincode),
		country: "India",
	}
	for _, opt := range opts {
		opt(&addr)
	}

	if addr.line1 == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Address line cannot be empty")
	}
	if len(addr.line1) > 200 || len(addr.line2) > 200 {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Address line cannot exceed 200 characters")
	}
	if addr.city == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if addr.state == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "State cannot be empty")
	}
	if !pincodePattern.MatchString(addr.pincode) {
		return Address{}, shared.NewDomainError("INVALID_PINCODE", "Pincode must be 6 digits")
	}
	return addr, nil
}

// RestoreAddress rebuilds an address from persisted values without validation
func RestoreAddress(line1, line2, city, state, pincode, country string) Address {
	return Address{line1: line1, line2: line2, city: city, state: state, pincode: pincode, country: country}
}

func (a Address) Line1() string   { return a.line1 }
func (a Address) Line2() string   { return a.line2 }
func (a Address) City() string    { return a.city }
func (a Address) State() string   { return a.state }
func (a Address) Pincode() string { return a.pincode }
func (a Address) Country() string { return a.country }

// IsEmpty returns true if no address has been set
func (a Address) IsEmpty() bool {
	return a.line1 == "" && a.city == "" && a.state == ""
}

// SameState reports whether two addresses are in the same state.
// GST treats same-state supply as intra-state.
func (a Address) SameState(other Address) bool {
	return strings.EqualFold(a.state, other.state)
}

// String formats the address on one line
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, p := range []string{a.line1, a.line2, a.city, a.state + " " + a.pincode, a.country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals compares all fields
func (a Address) Equals(other Address) bool {
	return a == other
}

type addressJSON struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line1:   a.line1,
		Line2:   a.line2,
		City:    a.city,
		State:   a.state,
		Pincode: a.pincode,
		Country: a.country,
	})
}

// UnmarshalJSON validates through NewAddress; an all-empty object yields an empty address
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Line1 == "" && v.City == "" && v.State == "" && v.Pincode == "" {
		*a = Address{}
		return nil
	}
	addr, err := NewAddress(v.Line1, v.City, v.State, v.Pincode, WithLine2(v.Line2), WithCountry(v.Country))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
