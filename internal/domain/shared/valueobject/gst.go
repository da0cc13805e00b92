package valueobject

import (
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

var (
	hundred    = decimal.NewFromInt(100)
	maxGSTRate = decimal.NewFromInt(28)
)

// TaxBreakdown is the GST charged on a taxable value
type TaxBreakdown struct {
	Taxable decimal.Decimal
	CGST    decimal.Decimal
	SGST    decimal.Decimal
	IGST    decimal.Decimal
}

// Total returns the sum of all taxes
func (t TaxBreakdown) Total() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// ValidateGSTRate checks a percentage rate lies in [0, 28]
func ValidateGSTRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxGSTRate) {
		return shared.NewDomainError("INVALID_GST_RATE", "GST rate must be between 0 and 28 percent")
	}
	return nil
}

// ComputeGST splits GST on a taxable value. Intra-state supply is charged
// half as CGST and half as SGST; inter-state supply is charged as IGST.
// Amounts are rounded to 2 decimal places.
func ComputeGST(taxable, ratePercent decimal.Decimal, intraState bool) TaxBreakdown {
	tax := taxable.Mul(ratePercent).Div(hundred)
	if intraState {
		half := tax.Div(decimal.NewFromInt(2)).Round(2)
		return TaxBreakdown{
			Taxable: taxable.Round(2),
			CGST:    half,
			SGST:    half,
			IGST:    decimal.Zero,
		}
	}
	return TaxBreakdown{
		Taxable: taxable.Round(2),
		CGST:    decimal.Zero,
		SGST:    decimal.Zero,
		IGST:    tax.Round(2),
	}
}
