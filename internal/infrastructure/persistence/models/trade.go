package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	CompanyAggregateModel
	RetailerID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderDate   time.Time         `gorm:"not null;index"`
	Status      trade.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Remark      string            `gorm:"type:text"`
	Items       []OrderItemModel  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		CompanyAggregateRoot: m.CompanyAggregateModel.ToCompanyAggregateRoot(),
		RetailerID:           m.RetailerID,
		OrderDate:            m.OrderDate,
		Status:               m.Status,
		TotalAmount:          m.TotalAmount,
		Remark:               m.Remark,
		Items:                make([]trade.OrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		o.Items[i] = trade.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainCompanyAggregateRoot(o.CompanyAggregateRoot)
	m.RetailerID = o.RetailerID
	m.OrderDate = o.OrderDate
	m.Status = o.Status
	m.TotalAmount = o.TotalAmount
	m.Remark = o.Remark
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:          item.ID,
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
