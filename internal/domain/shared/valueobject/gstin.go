package valueobject

import (
	"regexp"
	"strings"

	"github.com/supplychain/backend/internal/domain/shared"
)

// 2-digit state code, 10-char PAN, entity number, 'Z', checksum
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// GSTIN is a validated GST identification number
type GSTIN string

// NewGSTIN normalises and validates a GSTIN
func NewGSTIN(value string) (GSTIN, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if !gstinPattern.MatchString(v) {
		return "", shared.NewDomainError("INVALID_GSTIN", "GSTIN must be a valid 15-character GST number")
	}
	return GSTIN(v), nil
}

// NewOptionalGSTIN accepts an empty value
func NewOptionalGSTIN(value string) (GSTIN, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return NewGSTIN(value)
}

// StateCode returns the two-digit state code prefix
func (g GSTIN) StateCode() string {
	if len(g) < 2 {
		return ""
	}
	return string(g[:2])
}

// String returns the GSTIN
func (g GSTIN) String() string {
	return string(g)
}
