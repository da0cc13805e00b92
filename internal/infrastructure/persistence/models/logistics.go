package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/logistics"
)

// EmployeeModel is the persistence model for a delivery employee
type EmployeeModel struct {
	CompanyAggregateModel
	UserID     *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name       string     `gorm:"type:varchar(100);not null"`
	Contact    string     `gorm:"type:varchar(20);not null"`
	RetailerID *uuid.UUID `gorm:"type:uuid"`
	TruckID    *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee
func (m *EmployeeModel) ToDomain() *logistics.Employee {
	return &logistics.Employee{
		CompanyAggregateRoot: m.CompanyAggregateModel.ToCompanyAggregateRoot(),
		UserID:               m.UserID,
		Name:                 m.Name,
		Contact:              m.Contact,
		RetailerID:           m.RetailerID,
		TruckID:              m.TruckID,
	}
}

// EmployeeModelFromDomain creates a new persistence model from a domain Employee
func EmployeeModelFromDomain(e *logistics.Employee) *EmployeeModel {
	m := &EmployeeModel{
		UserID:     e.UserID,
		Name:       e.Name,
		Contact:    e.Contact,
		RetailerID: e.RetailerID,
		TruckID:    e.TruckID,
	}
	m.FromDomainCompanyAggregateRoot(e.CompanyAggregateRoot)
	return m
}

// TruckModel is the persistence model for a truck
type TruckModel struct {
	CompanyAggregateModel
	LicensePlate string `gorm:"type:varchar(20);not null"`
	Capacity     int    `gorm:"not null;default:0"`
	IsAvailable  bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TruckModel) TableName() string {
	return "trucks"
}

// ToDomain converts the persistence model to a domain Truck
func (m *TruckModel) ToDomain() *logistics.Truck {
	return &logistics.Truck{
		CompanyAggregateRoot: m.CompanyAggregateModel.ToCompanyAggregateRoot(),
		LicensePlate:         m.LicensePlate,
		Capacity:             m.Capacity,
		IsAvailable:          m.IsAvailable,
	}
}

// TruckModelFromDomain creates a new persistence model from a domain Truck
func TruckModelFromDomain(t *logistics.Truck) *TruckModel {
	m := &TruckModel{
		LicensePlate: t.LicensePlate,
		Capacity:     t.Capacity,
		IsAvailable:  t.IsAvailable,
	}
	m.FromDomainCompanyAggregateRoot(t.CompanyAggregateRoot)
	return m
}

// ShipmentModel is the persistence model for a shipment
type ShipmentModel struct {
	CompanyAggregateModel
	OrderID      uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex"`
	EmployeeID   *uuid.UUID               `gorm:"type:uuid;index"`
	TruckID      *uuid.UUID               `gorm:"type:uuid;index"`
	Status       logistics.ShipmentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ShipmentDate time.Time                `gorm:"not null"`
	DeliveredAt  *time.Time
	QRCodeKey    string `gorm:"column:qr_code_key;type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment
func (m *ShipmentModel) ToDomain() *logistics.Shipment {
	return &logistics.Shipment{
		CompanyAggregateRoot: m.CompanyAggregateModel.ToCompanyAggregateRoot(),
		OrderID:              m.OrderID,
		EmployeeID:           m.EmployeeID,
		TruckID:              m.TruckID,
		Status:               m.Status,
		ShipmentDate:         m.ShipmentDate,
		DeliveredAt:          m.DeliveredAt,
		QRCodeKey:            m.QRCodeKey,
	}
}

// ShipmentModelFromDomain creates a new persistence model from a domain Shipment
func ShipmentModelFromDomain(s *logistics.Shipment) *ShipmentModel {
	m := &ShipmentModel{
		OrderID:      s.OrderID,
		EmployeeID:   s.EmployeeID,
		TruckID:      s.TruckID,
		Status:       s.Status,
		ShipmentDate: s.ShipmentDate,
		DeliveredAt:  s.DeliveredAt,
		QRCodeKey:    s.QRCodeKey,
	}
	m.FromDomainCompanyAggregateRoot(s.CompanyAggregateRoot)
	return m
}
