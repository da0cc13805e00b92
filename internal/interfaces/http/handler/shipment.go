package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	logisticsapp "github.com/supplychain/backend/internal/application/logistics"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// ShipmentHandler handles order approval, shipment allocation and delivery
type ShipmentHandler struct {
	BaseHandler
	shipmentService *logisticsapp.ShipmentService
}

// NewShipmentHandler creates a new shipment handler
func NewShipmentHandler(shipmentService *logisticsapp.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

// AllocateShipmentRequest assigns a delivery employee
type AllocateShipmentRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440003"`
}

// UpdateShipmentStatusRequest moves a shipment along
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=allocated in_transit delivered cancelled" example:"in_transit"`
}

// StoreQRCodeRequest is a QR payload to archive
type StoreQRCodeRequest struct {
	ShipmentID string `json:"shipment_id" binding:"omitempty,uuid"`
	Payload    string `json:"payload" binding:"required,max=4096" example:"order:550e8400-e29b-41d4-a716-446655440004"`
}

// ShipmentListQuery filters shipment lists
type ShipmentListQuery struct {
	dto.ListRequest
	CompanyID string `form:"company_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=pending allocated in_transit delivered cancelled"`
}

// ApproveOrder godoc
// @Summary      Approve an order
// @Description  Confirms a pending order and opens a pending shipment for it
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      201 {object} dto.Response{data=logisticsapp.ShipmentResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id}/approve [post]
func (h *ShipmentHandler) ApproveOrder(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	shipment, err := h.shipmentService.ApproveOrder(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shipment)
}

// Allocate godoc
// @Summary      Allocate a shipment
// @Description  Assigns an employee and the employee's truck, which becomes unavailable
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Shipment ID" format(uuid)
// @Param        request body AllocateShipmentRequest true "Employee"
// @Success      200 {object} dto.Response{data=logisticsapp.ShipmentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /shipments/{id}/allocate [post]
func (h *ShipmentHandler) Allocate(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req AllocateShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	shipment, err := h.shipmentService.Allocate(c.Request.Context(), actor, id, req.EmployeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

// UpdateStatus godoc
// @Summary      Change shipment status
// @Description  in_transit ships the order; delivered completes it and frees the truck
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Shipment ID" format(uuid)
// @Param        request body UpdateShipmentStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=logisticsapp.ShipmentResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /shipments/{id}/status [patch]
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateShipmentStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	shipment, err := h.shipmentService.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

// List godoc
// @Summary      List shipments
// @Tags         shipments
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Param        status     query string false "Shipment status" Enums(pending, allocated, in_transit, delivered, cancelled)
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]logisticsapp.ShipmentResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /shipments [get]
func (h *ShipmentHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var q ShipmentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()
	companyID, ok := h.OptionalUUID(c, "company_id", q.CompanyID)
	if !ok {
		return
	}
	page, err := h.shipmentService.List(c.Request.Context(), actor, logisticsapp.ShipmentListFilter{
		CompanyID: companyID,
		Status:    q.Status,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// ListMine godoc
// @Summary      List the caller's deliveries
// @Description  Shipments allocated to the calling employee
// @Tags         shipments
// @Produce      json
// @Success      200 {object} dto.Response{data=[]logisticsapp.ShipmentResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /shipments/mine [get]
func (h *ShipmentHandler) ListMine(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	shipments, err := h.shipmentService.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipments)
}

// StoreQRCode godoc
// @Summary      Store a QR code payload
// @Description  Archives the payload in object storage and returns a time-limited download URL
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        request body StoreQRCodeRequest true "QR payload"
// @Success      201 {object} dto.Response{data=logisticsapp.QRCodeResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Security     BearerAuth
// @Router       /qr-codes [post]
func (h *ShipmentHandler) StoreQRCode(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req StoreQRCodeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	shipmentID, ok := h.OptionalUUID(c, "shipment_id", req.ShipmentID)
	if !ok {
		return
	}
	qr, err := h.shipmentService.StoreQRCode(c.Request.Context(), actor, logisticsapp.QRCodeInput{
		ShipmentID: shipmentID,
		Payload:    req.Payload,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, qr)
}
