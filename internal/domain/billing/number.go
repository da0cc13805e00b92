package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// InvoiceNumberPrefix starts every invoice number
const InvoiceNumberPrefix = "INV"

// FormatInvoiceNumber renders the n-th invoice of a year, e.g. INV-2026-000042
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("%s-%04d-%06d", InvoiceNumberPrefix, year, seq)
}

// ParseInvoiceNumber extracts year and sequence; ok is false for foreign formats
func ParseInvoiceNumber(number string) (year, seq int, ok bool) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != InvoiceNumberPrefix {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return year, seq, true
}

// NextInvoiceNumber returns the number following last within year.
// An empty last, or one from another year, restarts the sequence at 1.
func NextInvoiceNumber(year int, last string) string {
	y, seq, ok := ParseInvoiceNumber(last)
	if !ok || y != year {
		return FormatInvoiceNumber(year, 1)
	}
	return FormatInvoiceNumber(year, seq+1)
}
