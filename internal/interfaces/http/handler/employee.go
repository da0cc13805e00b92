package handler

import (
	"github.com/gin-gonic/gin"
	logisticsapp "github.com/supplychain/backend/internal/application/logistics"
)

// EmployeeHandler handles delivery employee HTTP requests
type EmployeeHandler struct {
	BaseHandler
	employeeService *logisticsapp.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *logisticsapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// EmployeeRequest is the body for creating or updating an employee
type EmployeeRequest struct {
	CompanyID  string `json:"company_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID     string `json:"user_id" binding:"omitempty,uuid"`
	Name       string `json:"name" binding:"required,min=2,max=100" example:"Ravi Kumar"`
	Contact    string `json:"contact" binding:"required,max=20" example:"+91-9988776655"`
	RetailerID string `json:"retailer_id" binding:"omitempty,uuid"`
	TruckID    string `json:"truck_id" binding:"omitempty,uuid"`
}

func (h *EmployeeHandler) toInput(c *gin.Context, req EmployeeRequest) (logisticsapp.EmployeeInput, bool) {
	userID, ok := h.OptionalUUID(c, "user_id", req.UserID)
	if !ok {
		return logisticsapp.EmployeeInput{}, false
	}
	retailerID, ok := h.OptionalUUID(c, "retailer_id", req.RetailerID)
	if !ok {
		return logisticsapp.EmployeeInput{}, false
	}
	truckID, ok := h.OptionalUUID(c, "truck_id", req.TruckID)
	if !ok {
		return logisticsapp.EmployeeInput{}, false
	}
	return logisticsapp.EmployeeInput{
		UserID:     userID,
		Name:       req.Name,
		Contact:    req.Contact,
		RetailerID: retailerID,
		TruckID:    truckID,
	}, true
}

// Create godoc
// @Summary      Create an employee
// @Description  user_id links the employee to a login with the employee role
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body EmployeeRequest true "Employee details"
// @Success      201 {object} dto.Response{data=logisticsapp.EmployeeResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req EmployeeRequest
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
	employee, err := h.employeeService.Create(c.Request.Context(), actor, companyID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// GetByID godoc
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=logisticsapp.EmployeeResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	employee, err := h.employeeService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// List godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]logisticsapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.CompanyQuery(c)
	if !ok {
		return
	}
	employees, err := h.employeeService.List(c.Request.Context(), actor, companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employees)
}

// Update godoc
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Employee ID" format(uuid)
// @Param        request body EmployeeRequest true "Employee details"
// @Success      200 {object} dto.Response{data=logisticsapp.EmployeeResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req EmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input, ok := h.toInput(c, req)
	if !ok {
		return
	}
	employee, err := h.employeeService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Delete godoc
// @Summary      Delete an employee
// @Tags         employees
// @Param        id path string true "Employee ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
