package dashboard

import (
	"github.com/shopspring/decimal"
)

// CountsResponse is the summary polled by the dashboard
type CountsResponse struct {
	OrdersPlaced       int64 `json:"orders_placed"`
	RetailersAvailable int64 `json:"retailers_available"`
	PendingOrders      int64 `json:"pending_orders"`
	EmployeesAvailable int64 `json:"employees_available"`
}

// OverviewResponse extends the counts with catalog, fleet and billing figures
type OverviewResponse struct {
	CountsResponse
	Products        int64            `json:"products"`
	Categories      int64            `json:"categories"`
	Trucks          int64            `json:"trucks"`
	Invoices        int64            `json:"invoices"`
	PendingInvoices int64            `json:"pending_invoices"`
	Revenue         decimal.Decimal  `json:"revenue"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
}
