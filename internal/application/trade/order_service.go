// Package trade implements retailer orders and their lifecycle.
package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderService handles order placement and status changes
type OrderService struct {
	orders    trade.OrderRepository
	products  catalog.ProductRepository
	retailers partner.RetailerRepository
	profiles  partner.RetailerProfileRepository
	shipments logistics.ShipmentRepository
	trucks    logistics.TruckRepository
	guard     *access.Guard
	tx        shared.TxManager
	events    shared.EventPublisher
	logger    *zap.Logger
}

// OrderServiceDeps groups the collaborators of OrderService
type OrderServiceDeps struct {
	Orders    trade.OrderRepository
	Products  catalog.ProductRepository
	Retailers partner.RetailerRepository
	Profiles  partner.RetailerProfileRepository
	Shipments logistics.ShipmentRepository
	Trucks    logistics.TruckRepository
	Guard     *access.Guard
	Tx        shared.TxManager
	Events    shared.EventPublisher
	Logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(deps OrderServiceDeps) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:    deps.Orders,
		products:  deps.Products,
		retailers: deps.Retailers,
		profiles:  deps.Profiles,
		shipments: deps.Shipments,
		trucks:    deps.Trucks,
		guard:     deps.Guard,
		tx:        deps.Tx,
		events:    deps.Events,
		logger:    logger,
	}
}

// Create places a pending order for a retailer. Unit prices are taken from the
// products and the ordered quantities are added to their required totals.
func (s *OrderService) Create(ctx context.Context, actor identity.Actor, input CreateOrderInput) (*OrderResponse, error) {
	retailer, err := s.loadRetailer(ctx, input.RetailerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRetailer(ctx, actor, retailer); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	byID, err := s.productsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]trade.OrderLine, 0, len(input.Items))
	for _, item := range input.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if !p.BelongsTo(retailer.CompanyID) {
			return nil, shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("Product %s is not sold by this company", p.Name))
		}
		lines = append(lines, trade.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			UnitPrice:   p.Price,
		})
	}

	order, err := trade.NewOrder(retailer.CompanyID, retailer.ID, lines)
	if err != nil {
		return nil, err
	}
	order.Remark = input.Remark
	order.SetCreatedBy(actor.UserID)

	touched := make([]*catalog.Product, 0, len(byID))
	for productID, qty := range order.Quantities() {
		p := byID[productID]
		if err := p.Reserve(qty); err != nil {
			return nil, err
		}
		touched = append(touched, p)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.SaveAll(ctx, touched); err != nil {
			return err
		}
		return s.orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("retailer_id", retailer.ID.String()),
		zap.String("total", order.TotalAmount.String()),
	)
	s.publish(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID returns an order visible to the caller
func (s *OrderService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List returns orders. Retailers see the orders of their own retailer records;
// company staff see the orders of the companies in their scope.
func (s *OrderService) List(ctx context.Context, actor identity.Actor, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	f := shared.DefaultFilter()
	f.OrderBy = "order_date"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status, err := trade.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f = f.With("status", status)
	}

	empty := func() (*shared.Paginated[OrderResponse], error) {
		page := shared.NewPaginated([]OrderResponse{}, 0, f.Page, f.PageSize)
		return &page, nil
	}

	if isRetailerOnly(actor) {
		own, err := s.ownRetailerIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		if filter.RetailerID != nil {
			if !containsID(own, *filter.RetailerID) {
				return nil, shared.ErrForbidden
			}
			own = []uuid.UUID{*filter.RetailerID}
		}
		if len(own) == 0 {
			return empty()
		}
		f = f.With("retailer_id", own)
		if filter.CompanyID != nil {
			f = f.With("company_id", *filter.CompanyID)
		}
	} else {
		scope, err := s.guard.ScopeCompanies(ctx, actor, filter.CompanyID)
		if err != nil {
			return nil, err
		}
		if scope.Empty() {
			return empty()
		}
		f = scope.Apply(f)
		if filter.RetailerID != nil {
			f = f.With("retailer_id", *filter.RetailerID)
		}
	}

	orders, err := s.orders.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderResponses(orders), total, f.Page, f.PageSize)
	return &page, nil
}

// ListByRetailer returns every order of one retailer, newest first
func (s *OrderService) ListByRetailer(ctx context.Context, actor identity.Actor, retailerID uuid.UUID) ([]OrderResponse, error) {
	retailer, err := s.loadRetailer(ctx, retailerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRetailer(ctx, actor, retailer); err != nil {
		return nil, err
	}
	f := shared.Filter{OrderBy: "order_date", OrderDir: "desc"}.With("retailer_id", retailer.ID)
	orders, err := s.orders.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// UpdateStatus moves an order through its lifecycle. Company staff may apply any
// valid transition; a retailer may only cancel its own pending order. Repeating
// the current status is a no-op. Cancelling also cancels the order's open
// shipment and frees its truck.
func (s *OrderService) UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, status string) (*OrderResponse, error) {
	target, err := trade.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if isRetailerOnly(actor) && order.Status != target &&
		(target != trade.OrderStatusCancelled || order.Status != trade.OrderStatusPending) {
		return nil, shared.ErrForbidden
	}

	var changed bool
	var shipment *logistics.Shipment
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		changed, err = s.ApplyStatus(ctx, order, target)
		if err != nil || !changed || target != trade.OrderStatusCancelled {
			return err
		}
		shipment, err = s.cancelOpenShipment(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.logger.Info("Order status changed",
			zap.String("order_id", order.ID.String()),
			zap.String("status", order.Status.String()),
		)
		s.publish(ctx, order)
	}
	if shipment != nil {
		if err := shared.PublishAndClear(ctx, s.events, shipment); err != nil {
			s.logger.Warn("Failed to publish shipment events", zap.String("shipment_id", shipment.ID.String()), zap.Error(err))
		}
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// cancelOpenShipment cancels a pending or allocated shipment of the order and
// returns its truck to the pool. It returns nil when there is nothing to close.
func (s *OrderService) cancelOpenShipment(ctx context.Context, orderID uuid.UUID) (*logistics.Shipment, error) {
	shipment, err := s.shipments.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if shipment.Status != logistics.ShipmentStatusPending && shipment.Status != logistics.ShipmentStatusAllocated {
		return nil, nil
	}
	if _, err := shipment.ChangeStatus(logistics.ShipmentStatusCancelled); err != nil {
		return nil, err
	}
	if shipment.TruckID != nil {
		truck, err := s.trucks.FindByID(ctx, *shipment.TruckID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			// truck was deleted
		case err != nil:
			return nil, err
		case !truck.IsAvailable:
			truck.Free()
			if err := s.trucks.Save(ctx, truck); err != nil {
				return nil, err
			}
		}
	}
	if err := s.shipments.Save(ctx, shipment); err != nil {
		return nil, err
	}
	return shipment, nil
}

// ApplyStatus changes the order status, books the stock effect of the
// transition and saves both. Shipping deducts available stock; cancelling
// releases reserved quantity. Callers run it inside a transaction and publish
// the order's events afterwards.
func (s *OrderService) ApplyStatus(ctx context.Context, order *trade.Order, target trade.OrderStatus) (bool, error) {
	changed, err := order.ChangeStatus(target)
	if err != nil || !changed {
		return false, err
	}
	if target == trade.OrderStatusShipped || target == trade.OrderStatusCancelled {
		byID, err := s.productsByID(ctx, order.ProductIDs())
		if err != nil {
			return false, err
		}
		touched := make([]*catalog.Product, 0, len(byID))
		for productID, qty := range order.Quantities() {
			p, ok := byID[productID]
			if !ok {
				// product was deleted after the order was placed
				continue
			}
			if target == trade.OrderStatusShipped {
				if err := p.ShipOut(qty); err != nil {
					return false, err
				}
			} else {
				p.Release(qty)
			}
			touched = append(touched, p)
		}
		if err := s.products.SaveAll(ctx, touched); err != nil {
			return false, err
		}
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return false, err
	}
	return true, nil
}

// PublishEvents publishes and clears the pending events of an order
func (s *OrderService) PublishEvents(ctx context.Context, order *trade.Order) {
	s.publish(ctx, order)
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	if err := shared.PublishAndClear(ctx, s.events, order); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func (s *OrderService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*trade.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Order")
		}
		return nil, err
	}
	if isRetailerOnly(actor) {
		own, err := s.ownRetailerIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !containsID(own, order.RetailerID) {
			return nil, shared.ErrForbidden
		}
		return order, nil
	}
	if _, err := s.guard.AuthorizeCompany(ctx, actor, order.CompanyID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) loadRetailer(ctx context.Context, id uuid.UUID) (*partner.Retailer, error) {
	r, err := s.retailers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Retailer")
		}
		return nil, err
	}
	return r, nil
}

// authorizeRetailer lets company staff act for their retailers and retailer
// users act for the records created from their profile.
func (s *OrderService) authorizeRetailer(ctx context.Context, actor identity.Actor, r *partner.Retailer) error {
	if isRetailerOnly(actor) {
		profile, err := s.profiles.FindByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("PROFILE_REQUIRED", "Create a retailer profile first")
			}
			return err
		}
		if r.RetailerProfileID == nil || *r.RetailerProfileID != profile.ID {
			return shared.ErrForbidden
		}
		return nil
	}
	_, err := s.guard.AuthorizeCompany(ctx, actor, r.CompanyID)
	return err
}

func (s *OrderService) ownRetailerIDs(ctx context.Context, actor identity.Actor) ([]uuid.UUID, error) {
	profile, err := s.profiles.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	retailers, err := s.retailers.FindByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(retailers))
	for i, r := range retailers {
		ids[i] = r.ID
	}
	return ids, nil
}

func (s *OrderService) productsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func isRetailerOnly(actor identity.Actor) bool {
	return actor.HasRole(identity.RoleRetailer) &&
		!actor.IsAdmin() &&
		!actor.HasRole(identity.RoleManufacturer) &&
		!actor.HasRole(identity.RoleEmployee)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
