package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
)

func newTestEmployee(t *testing.T, repo *GormEmployeeRepository, companyID uuid.UUID, name string) *logistics.Employee {
	t.Helper()
	userID := uuid.New()
	e, err := logistics.NewEmployee(companyID, logistics.EmployeeDetails{UserID: &userID, Name: name, Contact: "9876543210"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), e))
	return e
}

func newTestShipment(t *testing.T, repo *GormShipmentRepository, companyID uuid.UUID, employee *logistics.Employee, status logistics.ShipmentStatus) *logistics.Shipment {
	t.Helper()
	s, err := logistics.NewShipment(companyID, uuid.New())
	require.NoError(t, err)
	if employee != nil {
		require.NoError(t, s.Allocate(employee.ID, nil))
	}
	if status != logistics.ShipmentStatusAllocated && status != logistics.ShipmentStatusPending {
		_, err = s.ChangeStatus(logistics.ShipmentStatusInTransit)
		require.NoError(t, err)
		_, err = s.ChangeStatus(status)
		require.NoError(t, err)
	}
	require.NoError(t, repo.Save(context.Background(), s))
	return s
}

func TestGormEmployeeRepository_CountAvailable(t *testing.T) {
	db := newTestDB(t)
	employees := NewGormEmployeeRepository(db)
	shipments := NewGormShipmentRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	idle := newTestEmployee(t, employees, companyID, "Idle")
	driving := newTestEmployee(t, employees, companyID, "Driving")
	loading := newTestEmployee(t, employees, companyID, "Loading")
	done := newTestEmployee(t, employees, companyID, "Done")
	newTestEmployee(t, employees, uuid.New(), "Elsewhere")

	newTestShipment(t, shipments, companyID, driving, logistics.ShipmentStatusInTransit)
	newTestShipment(t, shipments, companyID, loading, logistics.ShipmentStatusAllocated)
	newTestShipment(t, shipments, companyID, done, logistics.ShipmentStatusDelivered)

	count, err := employees.CountAvailable(ctx, &companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	all, err := employees.CountAvailable(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all)

	byUser, err := employees.FindByUserID(ctx, *idle.UserID)
	require.NoError(t, err)
	assert.Equal(t, idle.ID, byUser.ID)

	total, err := employees.Count(ctx, shared.Filter{}.With("company_id", companyID))
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestGormEmployeeRepository_UniqueUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEmployeeRepository(db)
	ctx := context.Background()

	existing := newTestEmployee(t, repo, uuid.New(), "First")
	dup, err := logistics.NewEmployee(uuid.New(), logistics.EmployeeDetails{UserID: existing.UserID, Contact: "9000000000"})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)

	require.NoError(t, repo.Delete(ctx, existing.ID))
	_, err = repo.FindByID(ctx, existing.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTruckRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTruckRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	truck, err := logistics.NewTruck(companyID, "mh12 ab 1234", 1200)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, truck))

	busy, err := logistics.NewTruck(companyID, "MH14-XY-9", 800)
	require.NoError(t, err)
	busy.Occupy()
	require.NoError(t, repo.Save(ctx, busy))

	t.Run("plate check ignores case", func(t *testing.T) {
		ok, err := repo.ExistsByLicensePlate(ctx, companyID, " MH12 AB 1234")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByLicensePlate(ctx, uuid.New(), "MH12 AB 1234")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("filters available trucks", func(t *testing.T) {
		found, err := repo.FindAll(ctx, shared.Filter{}.With("company_id", companyID).With("is_available", true))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, truck.ID, found[0].ID)
		assert.Equal(t, 1200, found[0].Capacity)
	})
}

func TestGormShipmentRepository(t *testing.T) {
	db := newTestDB(t)
	employees := NewGormEmployeeRepository(db)
	repo := NewGormShipmentRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	driver := newTestEmployee(t, employees, companyID, "Driver")
	pending := newTestShipment(t, repo, companyID, nil, logistics.ShipmentStatusPending)
	moving := newTestShipment(t, repo, companyID, driver, logistics.ShipmentStatusInTransit)
	newTestShipment(t, repo, companyID, driver, logistics.ShipmentStatusDelivered)

	t.Run("finds by order", func(t *testing.T) {
		found, err := repo.FindByOrderID(ctx, pending.OrderID)
		require.NoError(t, err)
		assert.Equal(t, pending.ID, found.ID)
		assert.Nil(t, found.EmployeeID)

		_, err = repo.FindByOrderID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("one shipment per order", func(t *testing.T) {
		dup, err := logistics.NewShipment(companyID, pending.OrderID)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("active shipments of an employee", func(t *testing.T) {
		found, err := repo.FindAll(ctx, shared.Filter{}.
			With("employee_id", driver.ID).
			With("status", []logistics.ShipmentStatus{logistics.ShipmentStatusAllocated, logistics.ShipmentStatusInTransit}))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, moving.ID, found[0].ID)

		count, err := repo.Count(ctx, shared.Filter{}.With("employee_id", driver.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("delivered shipments keep the delivery time", func(t *testing.T) {
		found, err := repo.FindAll(ctx, shared.Filter{}.With("status", logistics.ShipmentStatusDelivered))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.NotNil(t, found[0].DeliveredAt)
	})
}

// newPersistedTruck returns a truck as if loaded from the store at version 1
func newPersistedTruck(t *testing.T) *logistics.Truck {
	t.Helper()
	truck, err := logistics.NewTruck(uuid.New(), "KA01 AB 1", 500)
	require.NoError(t, err)
	truck.MarkPersisted()
	return truck
}
