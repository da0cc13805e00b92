package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/trade"
)

// OrderLineInput is one requested item of a new order
type OrderLineInput struct {
	ProductID uuid.UUID
	Quantity  int64
}

// CreateOrderInput contains the data of a new order
type CreateOrderInput struct {
	RetailerID uuid.UUID
	Items      []OrderLineInput
	Remark     string
}

// OrderListFilter narrows order lists
type OrderListFilter struct {
	Status     string
	CompanyID  *uuid.UUID
	RetailerID *uuid.UUID
	Page       int
	PageSize   int
}

// OrderItemResponse is the API view of an order item
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	CompanyID   uuid.UUID           `json:"company_id"`
	RetailerID  uuid.UUID           `json:"retailer_id"`
	OrderDate   time.Time           `json:"order_date"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Remark      string              `json:"remark,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     int                 `json:"version"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return OrderResponse{
		ID:          o.ID,
		CompanyID:   o.CompanyID,
		RetailerID:  o.RetailerID,
		OrderDate:   o.OrderDate,
		Status:      o.Status.String(),
		Items:       items,
		TotalAmount: o.TotalAmount,
		Remark:      o.Remark,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Version:     o.Version,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}
