package handler

import (
	"github.com/gin-gonic/gin"
	companyapp "github.com/supplychain/backend/internal/application/company"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// CompanyHandler handles company HTTP requests
type CompanyHandler struct {
	BaseHandler
	companyService *companyapp.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *companyapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// CompanyRequest is the body for creating or updating a company
type CompanyRequest struct {
	Name        string         `json:"name" binding:"required,min=2,max=200" example:"Acme Foods Pvt Ltd"`
	Description string         `json:"description" binding:"max=2000"`
	GSTIN       string         `json:"gstin" binding:"required,len=15,alphanum" example:"29ABCDE1234F1Z5"`
	Address     AddressRequest `json:"address"`
	Phone       string         `json:"phone" binding:"max=20" example:"+91-9876543210"`
	Email       string         `json:"email" binding:"omitempty,email,max=254" example:"sales@acme.example"`
	IsPublic    bool           `json:"is_public" example:"true"`
	LogoURL     string         `json:"logo_url" binding:"omitempty,url,max=500"`
}

func (h *CompanyHandler) bindCompany(c *gin.Context) (companyapp.CompanyInput, bool) {
	var req CompanyRequest
	if !h.BindJSON(c, &req) {
		return companyapp.CompanyInput{}, false
	}
	addr, err := req.Address.toAddress()
	if err != nil {
		h.HandleError(c, err)
		return companyapp.CompanyInput{}, false
	}
	return companyapp.CompanyInput{
		Name:        req.Name,
		Description: req.Description,
		GSTIN:       req.GSTIN,
		Address:     addr,
		Phone:       req.Phone,
		Email:       req.Email,
		IsPublic:    req.IsPublic,
		LogoURL:     req.LogoURL,
	}, true
}

// CreateCompany godoc
// @Summary      Create a company
// @Description  Create a company owned by the caller
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body CompanyRequest true "Company details"
// @Success      201 {object} dto.Response{data=companyapp.CompanyResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	input, ok := h.bindCompany(c)
	if !ok {
		return
	}
	company, err := h.companyService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// GetCompany godoc
// @Summary      Get a company
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=companyapp.CompanyResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	company, err := h.companyService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// ListCompanies godoc
// @Summary      List companies
// @Description  Admins see every company, manufacturers the companies they own
// @Tags         companies
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        search    query string false "Search by name or GSTIN"
// @Success      200 {object} dto.Response{data=[]companyapp.CompanyResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Normalize()
	page, err := h.companyService.List(c.Request.Context(), actor, companyapp.ListFilter{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// ListPublicCompanies godoc
// @Summary      List public companies
// @Description  Companies that accept connection requests from retailers
// @Tags         companies
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        search    query string false "Search by name"
// @Success      200 {object} dto.Response{data=[]companyapp.CompanyResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /companies/public [get]
func (h *CompanyHandler) ListPublicCompanies(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Normalize()
	page, err := h.companyService.ListPublic(c.Request.Context(), companyapp.ListFilter{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// UpdateCompany godoc
// @Summary      Update a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id      path string         true "Company ID" format(uuid)
// @Param        request body CompanyRequest true "Company details"
// @Success      200 {object} dto.Response{data=companyapp.CompanyResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	input, ok := h.bindCompany(c)
	if !ok {
		return
	}
	company, err := h.companyService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// DeleteCompany godoc
// @Summary      Delete a company
// @Tags         companies
// @Param        id path string true "Company ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.companyService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
