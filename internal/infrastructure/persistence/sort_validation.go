package persistence

import "strings"

// Sort columns end up in ORDER BY verbatim, so only whitelisted names pass.

// ValidateSortOrder returns ASC for "asc" in any case and DESC otherwise
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when allowed lists it, else defaultField
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	if f := strings.TrimSpace(sortField); allowed[f] {
		return f
	}
	return defaultField
}

// sortable builds a whitelist of columns plus the ones every table has
func sortable(columns ...string) map[string]bool {
	set := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, c := range columns {
		set[c] = true
	}
	return set
}

var (
	CompanySortFields  = sortable("name", "state", "is_public")
	RetailerSortFields = sortable("name", "state", "distance_from_warehouse")
	CategorySortFields = sortable("name")
	ProductSortFields  = sortable("name", "price", "available_quantity", "total_shipped", "status")
	OrderSortFields    = sortable("order_date", "status", "total_amount")
	EmployeeSortFields = sortable("name")
	TruckSortFields    = sortable("license_plate", "capacity")
	ShipmentSortFields = sortable("shipment_date", "status")
	InvoiceSortFields  = sortable("invoice_number", "invoice_date", "due_date", "grand_total", "payment_status")
)
