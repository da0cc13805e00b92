package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	partnerapp "github.com/supplychain/backend/internal/application/partner"
	tradeapp "github.com/supplychain/backend/internal/application/trade"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// RetailerHandler handles retailer HTTP requests
type RetailerHandler struct {
	BaseHandler
	retailerService *partnerapp.RetailerService
	orderService    *tradeapp.OrderService
}

// NewRetailerHandler creates a new retailer handler
func NewRetailerHandler(retailerService *partnerapp.RetailerService, orderService *tradeapp.OrderService) *RetailerHandler {
	return &RetailerHandler{retailerService: retailerService, orderService: orderService}
}

// RetailerRequest is the body for creating or updating a retailer
type RetailerRequest struct {
	CompanyID             string          `json:"company_id" binding:"omitempty,uuid" example:"5f0c6d3e-1a2b-4c3d-9e8f-7a6b5c4d3e2f"`
	Name                  string          `json:"name" binding:"required,min=2,max=200" example:"Sharma General Store"`
	Contact               string          `json:"contact" binding:"required,max=20" example:"+91-9123456780"`
	ContactPerson         string          `json:"contact_person" binding:"max=100" example:"R. Sharma"`
	Email                 string          `json:"email" binding:"omitempty,email,max=254"`
	GSTIN                 string          `json:"gstin" binding:"omitempty,len=15,alphanum" example:"29ABCDE1234F1Z5"`
	Address               AddressRequest  `json:"address"`
	DistanceFromWarehouse decimal.Decimal `json:"distance_from_warehouse" binding:"gte=0" swaggertype:"string" example:"12.5"`
	IsActive              *bool           `json:"is_active" example:"true"`
}

// RetailerListQuery filters retailer lists
type RetailerListQuery struct {
	dto.ListRequest
	CompanyID string `form:"company_id" binding:"omitempty,uuid"`
}

func (h *RetailerHandler) bindRetailer(c *gin.Context, req *RetailerRequest) (partnerapp.RetailerInput, bool) {
	if !h.BindJSON(c, req) {
		return partnerapp.RetailerInput{}, false
	}
	addr, err := req.Address.toAddress()
	if err != nil {
		h.HandleError(c, err)
		return partnerapp.RetailerInput{}, false
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return partnerapp.RetailerInput{
		Name:                  req.Name,
		Contact:               req.Contact,
		ContactPerson:         req.ContactPerson,
		Email:                 req.Email,
		GSTIN:                 req.GSTIN,
		Address:               addr,
		DistanceFromWarehouse: req.DistanceFromWarehouse,
		IsActive:              active,
	}, true
}

// CreateRetailer godoc
// @Summary      Add a retailer
// @Description  Add a retailer to a company. company_id defaults to the caller's company.
// @Tags         retailers
// @Accept       json
// @Produce      json
// @Param        request body RetailerRequest true "Retailer details"
// @Success      201 {object} dto.Response{data=partnerapp.RetailerResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailers [post]
func (h *RetailerHandler) CreateRetailer(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req RetailerRequest
	input, ok := h.bindRetailer(c, &req)
	if !ok {
		return
	}
	companyID, ok := h.targetCompany(c, actor.CompanyID, req.CompanyID)
	if !ok {
		return
	}
	retailer, err := h.retailerService.Create(c.Request.Context(), actor, companyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, retailer)
}

// GetRetailer godoc
// @Summary      Get a retailer
// @Tags         retailers
// @Produce      json
// @Param        id path string true "Retailer ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.RetailerResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailers/{id} [get]
func (h *RetailerHandler) GetRetailer(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	retailer, err := h.retailerService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, retailer)
}

// ListRetailers godoc
// @Summary      List retailers
// @Tags         retailers
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Param        search     query string false "Search by name or contact"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.RetailerResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailers [get]
func (h *RetailerHandler) ListRetailers(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var q RetailerListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()
	companyID, ok := h.OptionalUUID(c, "company_id", q.CompanyID)
	if !ok {
		return
	}
	page, err := h.retailerService.List(c.Request.Context(), actor, partnerapp.RetailerListFilter{
		CompanyID: companyID,
		Search:    q.Search,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// UpdateRetailer godoc
// @Summary      Update a retailer
// @Tags         retailers
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Retailer ID" format(uuid)
// @Param        request body RetailerRequest true "Retailer details"
// @Success      200 {object} dto.Response{data=partnerapp.RetailerResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailers/{id} [put]
func (h *RetailerHandler) UpdateRetailer(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req RetailerRequest
	input, ok := h.bindRetailer(c, &req)
	if !ok {
		return
	}
	retailer, err := h.retailerService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, retailer)
}

// DeleteRetailer godoc
// @Summary      Delete a retailer
// @Tags         retailers
// @Param        id path string true "Retailer ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailers/{id} [delete]
func (h *RetailerHandler) DeleteRetailer(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.retailerService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListRetailerOrders godoc
// @Summary      List a retailer's orders
// @Tags         retailers
// @Produce      json
// @Param        id path string true "Retailer ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /retailers/{id}/orders [get]
func (h *RetailerHandler) ListRetailerOrders(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	orders, err := h.orderService.ListByRetailer(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}
