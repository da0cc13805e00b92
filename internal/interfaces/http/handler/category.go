package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/supplychain/backend/internal/application/catalog"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategoryRequest represents a request to create a new category
// @Description Request body for creating a new category
type CreateCategoryRequest struct {
	CompanyID string `json:"company_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string `json:"name" binding:"required,min=1,max=100" example:"Beverages"`
}

// UpdateCategoryRequest represents a request to rename a category
// @Description Request body for renaming a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100" example:"Soft Drinks"`
}

// Create godoc
// @Summary      Create category
// @Description  Create a category. Names are unique within a company.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body CreateCategoryRequest true "Category creation request"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	companyID, ok := h.targetCompany(c, actor.CompanyID, req.CompanyID)
	if !ok {
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), actor, companyID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.CompanyQuery(c)
	if !ok {
		return
	}
	categories, err := h.categoryService.List(c.Request.Context(), actor, companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Update godoc
// @Summary      Rename category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Category ID" format(uuid)
// @Param        request body UpdateCategoryRequest true "New name"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Rename(c.Request.Context(), actor, id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @Summary      Delete category
// @Description  Products in the category become uncategorized
// @Tags         categories
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// StockData godoc
// @Summary      Stock per category
// @Description  Total available quantity per category. Products without a category are grouped under "Uncategorized".
// @Tags         categories
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryStockResponse}
// @Security     BearerAuth
// @Router       /categories/stock [get]
func (h *CategoryHandler) StockData(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.CompanyQuery(c)
	if !ok {
		return
	}
	data, err := h.categoryService.StockData(c.Request.Context(), actor, companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, data)
}
