package logistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/logistics"
)

// EmployeeInput contains the editable employee fields
type EmployeeInput struct {
	UserID     *uuid.UUID
	Name       string
	Contact    string
	RetailerID *uuid.UUID
	TruckID    *uuid.UUID
}

func (in EmployeeInput) details() logistics.EmployeeDetails {
	return logistics.EmployeeDetails{
		UserID:     in.UserID,
		Name:       in.Name,
		Contact:    in.Contact,
		RetailerID: in.RetailerID,
		TruckID:    in.TruckID,
	}
}

// EmployeeResponse is the API view of an employee
type EmployeeResponse struct {
	ID         uuid.UUID  `json:"id"`
	CompanyID  uuid.UUID  `json:"company_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Name       string     `json:"name,omitempty"`
	Contact    string     `json:"contact"`
	RetailerID *uuid.UUID `json:"retailer_id,omitempty"`
	TruckID    *uuid.UUID `json:"truck_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

// ToEmployeeResponse converts a domain employee to a response
func ToEmployeeResponse(e *logistics.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		CompanyID:  e.CompanyID,
		UserID:     e.UserID,
		Name:       e.Name,
		Contact:    e.Contact,
		RetailerID: e.RetailerID,
		TruckID:    e.TruckID,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		Version:    e.Version,
	}
}

// ToEmployeeResponses converts a slice of employees
func ToEmployeeResponses(employees []logistics.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return out
}

// TruckInput contains the fields of a new truck
type TruckInput struct {
	LicensePlate string
	Capacity     int
}

// TruckUpdateInput changes capacity and availability of a truck
type TruckUpdateInput struct {
	Capacity    int
	IsAvailable bool
}

// TruckResponse is the API view of a truck
type TruckResponse struct {
	ID           uuid.UUID `json:"id"`
	CompanyID    uuid.UUID `json:"company_id"`
	LicensePlate string    `json:"license_plate"`
	Capacity     int       `json:"capacity"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToTruckResponse converts a domain truck to a response
func ToTruckResponse(t *logistics.Truck) TruckResponse {
	return TruckResponse{
		ID:           t.ID,
		CompanyID:    t.CompanyID,
		LicensePlate: t.LicensePlate,
		Capacity:     t.Capacity,
		IsAvailable:  t.IsAvailable,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Version:      t.Version,
	}
}

// ToTruckResponses converts a slice of trucks
func ToTruckResponses(trucks []logistics.Truck) []TruckResponse {
	out := make([]TruckResponse, len(trucks))
	for i := range trucks {
		out[i] = ToTruckResponse(&trucks[i])
	}
	return out
}

// ShipmentListFilter narrows shipment lists
type ShipmentListFilter struct {
	CompanyID *uuid.UUID
	Status    string
	Page      int
	PageSize  int
}

// ShipmentResponse is the API view of a shipment
type ShipmentResponse struct {
	ID           uuid.UUID  `json:"id"`
	CompanyID    uuid.UUID  `json:"company_id"`
	OrderID      uuid.UUID  `json:"order_id"`
	EmployeeID   *uuid.UUID `json:"employee_id,omitempty"`
	TruckID      *uuid.UUID `json:"truck_id,omitempty"`
	Status       string     `json:"status"`
	ShipmentDate time.Time  `json:"shipment_date"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	QRCodeKey    string     `json:"qr_code_key,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
}

// ToShipmentResponse converts a domain shipment to a response
func ToShipmentResponse(s *logistics.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:           s.ID,
		CompanyID:    s.CompanyID,
		OrderID:      s.OrderID,
		EmployeeID:   s.EmployeeID,
		TruckID:      s.TruckID,
		Status:       string(s.Status),
		ShipmentDate: s.ShipmentDate,
		DeliveredAt:  s.DeliveredAt,
		QRCodeKey:    s.QRCodeKey,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Version:      s.Version,
	}
}

// ToShipmentResponses converts a slice of shipments
func ToShipmentResponses(shipments []logistics.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, len(shipments))
	for i := range shipments {
		out[i] = ToShipmentResponse(&shipments[i])
	}
	return out
}

// QRCodeInput is a QR payload to store, optionally bound to a shipment
type QRCodeInput struct {
	ShipmentID *uuid.UUID
	Payload    string
}

// QRCodeResponse locates a stored QR payload
type QRCodeResponse struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
