package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	catalogapp "github.com/supplychain/backend/internal/application/catalog"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ProductRequest represents a request to create or update a product
// @Description Request body for creating or updating a product. Rates are percentages.
type ProductRequest struct {
	CompanyID         string          `json:"company_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CategoryID        string          `json:"category_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name              string          `json:"name" binding:"required,min=1,max=200" example:"Mango Juice 1L"`
	HSNCode           string          `json:"hsn_code" binding:"required,min=4,max=8,numeric" example:"2009"`
	UQC               string          `json:"uqc" binding:"omitempty,max=10" example:"NOS"` // NOS when omitted
	Price             decimal.Decimal `json:"price" binding:"gte=0" swaggertype:"string" example:"99.50"`
	CGSTRate          decimal.Decimal `json:"cgst_rate" binding:"gte=0,lte=28" swaggertype:"string" example:"6"`
	SGSTRate          decimal.Decimal `json:"sgst_rate" binding:"gte=0,lte=28" swaggertype:"string" example:"6"`
	IGSTRate          decimal.Decimal `json:"igst_rate" binding:"gte=0,lte=28" swaggertype:"string" example:"12"`
	CessRate          decimal.Decimal `json:"cess_rate" binding:"gte=0,lte=100" swaggertype:"string" example:"0"`
	AvailableQuantity int64           `json:"available_quantity" binding:"gte=0" example:"250"`
	Status            string          `json:"status" binding:"omitempty,oneof=active inactive" example:"active"`
}

// UpdateQuantityRequest sets a product's stock counters
// @Description Request body for updating product quantities
type UpdateQuantityRequest struct {
	AvailableQuantity     int64 `json:"available_quantity" binding:"gte=0" example:"200"`
	TotalRequiredQuantity int64 `json:"total_required_quantity" binding:"gte=0" example:"40"`
	TotalShipped          int64 `json:"total_shipped" binding:"gte=0" example:"10"`
}

// ProductListQuery represents query parameters for listing products
type ProductListQuery struct {
	dto.ListRequest
	CompanyID  string `form:"company_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=active inactive out_of_stock"`
}

func (h *ProductHandler) toInput(c *gin.Context, req ProductRequest) (catalogapp.ProductInput, bool) {
	categoryID, ok := h.OptionalUUID(c, "category_id", req.CategoryID)
	if !ok {
		return catalogapp.ProductInput{}, false
	}
	return catalogapp.ProductInput{
		CategoryID:        categoryID,
		Name:              req.Name,
		HSNCode:           req.HSNCode,
		UQC:               req.UQC,
		Price:             req.Price,
		CGSTRate:          req.CGSTRate,
		SGSTRate:          req.SGSTRate,
		IGSTRate:          req.IGSTRate,
		CessRate:          req.CessRate,
		AvailableQuantity: req.AvailableQuantity,
		Status:            req.Status,
	}, true
}

// Create godoc
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body ProductRequest true "Product creation request"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	companyID, ok := h.targetCompany(c, actor.CompanyID, req.CompanyID)
	if !ok {
		return
	}
	input, ok := h.toInput(c, req)
	if !ok {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), actor, companyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Description  Filter by company, category, status, or search by name and HSN code
// @Tags         products
// @Produce      json
// @Param        company_id  query string false "Company ID" format(uuid)
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        status      query string false "Status" Enums(active, inactive, out_of_stock)
// @Param        search      query string false "Search term"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var q ProductListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()
	companyID, ok := h.OptionalUUID(c, "company_id", q.CompanyID)
	if !ok {
		return
	}
	categoryID, ok := h.OptionalUUID(c, "category_id", q.CategoryID)
	if !ok {
		return
	}
	page, err := h.productService.List(c.Request.Context(), actor, catalogapp.ProductListFilter{
		CompanyID:  companyID,
		CategoryID: categoryID,
		Search:     q.Search,
		Status:     q.Status,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update godoc
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string         true "Product ID" format(uuid)
// @Param        request body ProductRequest true "Product update request"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, ok := h.toInput(c, req)
	if !ok {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UpdateQuantity godoc
// @Summary      Update product quantities
// @Description  Set available, required and shipped counters. Zero available marks the product out of stock.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Product ID" format(uuid)
// @Param        request body UpdateQuantityRequest true "Quantities"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /products/{id}/quantity [patch]
func (h *ProductHandler) UpdateQuantity(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.productService.UpdateQuantity(c.Request.Context(), actor, id, catalogapp.QuantityInput{
		AvailableQuantity:     req.AvailableQuantity,
		TotalRequiredQuantity: req.TotalRequiredQuantity,
		TotalShipped:          req.TotalShipped,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
