package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logisticsapp "github.com/supplychain/backend/internal/application/logistics"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// TruckHandler handles fleet HTTP requests
type TruckHandler struct {
	BaseHandler
	truckService *logisticsapp.TruckService
}

// NewTruckHandler creates a new truck handler
func NewTruckHandler(truckService *logisticsapp.TruckService) *TruckHandler {
	return &TruckHandler{truckService: truckService}
}

// CreateTruckRequest is the body for registering a truck
type CreateTruckRequest struct {
	CompanyID    string `json:"company_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	LicensePlate string `json:"license_plate" binding:"required,min=4,max=20" example:"KA01AB1234"`
	Capacity     int    `json:"capacity" binding:"required,gt=0" example:"500"`
}

// UpdateTruckRequest changes capacity and availability
type UpdateTruckRequest struct {
	Capacity    int   `json:"capacity" binding:"required,gt=0" example:"750"`
	IsAvailable *bool `json:"is_available" binding:"required" example:"true"`
}

// Create godoc
// @Summary      Register a truck
// @Tags         trucks
// @Accept       json
// @Produce      json
// @Param        request body CreateTruckRequest true "Truck details"
// @Success      201 {object} dto.Response{data=logisticsapp.TruckResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /trucks [post]
func (h *TruckHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateTruckRequest
	if !h.BindJSON(c, &req) {
		return
	}
	companyID, ok := h.targetCompany(c, actor.CompanyID, req.CompanyID)
	if !ok {
		return
	}
	truck, err := h.truckService.Create(c.Request.Context(), actor, companyID, logisticsapp.TruckInput{
		LicensePlate: req.LicensePlate,
		Capacity:     req.Capacity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, truck)
}

// GetByID godoc
// @Summary      Get a truck
// @Tags         trucks
// @Produce      json
// @Param        id path string true "Truck ID" format(uuid)
// @Success      200 {object} dto.Response{data=logisticsapp.TruckResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /trucks/{id} [get]
func (h *TruckHandler) GetByID(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	truck, err := h.truckService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, truck)
}

// List godoc
// @Summary      List trucks
// @Tags         trucks
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Param        available  query bool   false "Only available (true) or busy (false) trucks"
// @Success      200 {object} dto.Response{data=[]logisticsapp.TruckResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /trucks [get]
func (h *TruckHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.CompanyQuery(c)
	if !ok {
		return
	}
	var available *bool
	if raw := c.Query("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid available format")
			return
		}
		available = &v
	}
	trucks, err := h.truckService.List(c.Request.Context(), actor, companyID, available)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trucks)
}

// Update godoc
// @Summary      Update a truck
// @Tags         trucks
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Truck ID" format(uuid)
// @Param        request body UpdateTruckRequest true "Capacity and availability"
// @Success      200 {object} dto.Response{data=logisticsapp.TruckResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /trucks/{id} [put]
func (h *TruckHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateTruckRequest
	if !h.BindJSON(c, &req) {
		return
	}
	truck, err := h.truckService.Update(c.Request.Context(), actor, id, logisticsapp.TruckUpdateInput{
		Capacity:    req.Capacity,
		IsAvailable: *req.IsAvailable,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, truck)
}

// Delete godoc
// @Summary      Delete a truck
// @Tags         trucks
// @Param        id path string true "Truck ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /trucks/{id} [delete]
func (h *TruckHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.truckService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
