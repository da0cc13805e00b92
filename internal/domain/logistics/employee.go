package logistics

import (
	"strings"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Employee is a company's delivery staff member
type Employee struct {
	shared.CompanyAggregateRoot
	UserID     *uuid.UUID
	Name       string
	Contact    string
	RetailerID *uuid.UUID
	TruckID    *uuid.UUID
}

// EmployeeDetails holds the mutable fields of an employee
type EmployeeDetails struct {
	UserID     *uuid.UUID
	Name       string
	Contact    string
	RetailerID *uuid.UUID
	TruckID    *uuid.UUID
}

func (d EmployeeDetails) normalize() (EmployeeDetails, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Contact = strings.TrimSpace(d.Contact)
	if d.Contact == "" {
		return d, shared.NewDomainError("INVALID_CONTACT", "Employee contact is required")
	}
	if len(d.Contact) > 20 {
		return d, shared.NewDomainError("INVALID_CONTACT", "Employee contact cannot exceed 20 characters")
	}
	if len(d.Name) > 100 {
		return d, shared.NewDomainError("INVALID_NAME", "Employee name cannot exceed 100 characters")
	}
	return d, nil
}

// NewEmployee creates an employee for a company
func NewEmployee(companyID uuid.UUID, d EmployeeDetails) (*Employee, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}
	d, err := d.normalize()
	if err != nil {
		return nil, err
	}
	e := &Employee{CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID)}
	e.apply(d)
	return e, nil
}

// Update replaces the employee details; identical input leaves the version untouched
func (e *Employee) Update(d EmployeeDetails) error {
	d, err := d.normalize()
	if err != nil {
		return err
	}
	if e.details().equal(d) {
		return nil
	}
	e.apply(d)
	e.Touch()
	return nil
}

// AssignTruck sets the truck the employee drives
func (e *Employee) AssignTruck(truckID *uuid.UUID) {
	if sameID(e.TruckID, truckID) {
		return
	}
	e.TruckID = truckID
	e.Touch()
}

func (d EmployeeDetails) equal(o EmployeeDetails) bool {
	return d.Name == o.Name && d.Contact == o.Contact &&
		sameID(d.UserID, o.UserID) && sameID(d.RetailerID, o.RetailerID) && sameID(d.TruckID, o.TruckID)
}

func (e *Employee) details() EmployeeDetails {
	return EmployeeDetails{
		UserID:     e.UserID,
		Name:       e.Name,
		Contact:    e.Contact,
		RetailerID: e.RetailerID,
		TruckID:    e.TruckID,
	}
}

func (e *Employee) apply(d EmployeeDetails) {
	e.UserID = d.UserID
	e.Name = d.Name
	e.Contact = d.Contact
	e.RetailerID = d.RetailerID
	e.TruckID = d.TruckID
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
