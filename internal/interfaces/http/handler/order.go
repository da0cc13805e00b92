package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/supplychain/backend/internal/application/trade"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// OrderHandler handles retailer order HTTP requests
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderItemRequest is one order line
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440001"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0" example:"12"`
}

// CreateOrderRequest is the body for placing an order
type CreateOrderRequest struct {
	RetailerID uuid.UUID          `json:"retailer_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440002"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Remark     string             `json:"remark" binding:"max=500"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped delivered cancelled" example:"confirmed"`
}

// OrderListQuery filters order lists
type OrderListQuery struct {
	dto.ListRequest
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	CompanyID  string `form:"company_id" binding:"omitempty,uuid"`
	RetailerID string `form:"retailer_id" binding:"omitempty,uuid"`
}

// Create godoc
// @Summary      Place an order
// @Description  Unit prices are taken from the products at the time of ordering
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	items := make([]tradeapp.OrderLineInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = tradeapp.OrderLineInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	order, err := h.orderService.Create(c.Request.Context(), actor, tradeapp.CreateOrderInput{
		RetailerID: req.RetailerID,
		Items:      items,
		Remark:     req.Remark,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @Summary      List orders
// @Description  Manufacturers see orders of their companies, retailers the orders they placed
// @Tags         orders
// @Produce      json
// @Param        status      query string false "Order status" Enums(pending, confirmed, shipped, delivered, cancelled)
// @Param        company_id  query string false "Company ID" format(uuid)
// @Param        retailer_id query string false "Retailer ID" format(uuid)
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var q OrderListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()
	companyID, ok := h.OptionalUUID(c, "company_id", q.CompanyID)
	if !ok {
		return
	}
	retailerID, ok := h.OptionalUUID(c, "retailer_id", q.RetailerID)
	if !ok {
		return
	}
	page, err := h.orderService.List(c.Request.Context(), actor, tradeapp.OrderListFilter{
		Status:     q.Status,
		CompanyID:  companyID,
		RetailerID: retailerID,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// UpdateStatus godoc
// @Summary      Change order status
// @Description  Shipping deducts stock; cancelling releases reserved quantities. Repeating the current status is a no-op.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Order ID" format(uuid)
// @Param        request body UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
