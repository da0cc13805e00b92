package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	companyapp "github.com/supplychain/backend/internal/application/company"
)

// ConnectionHandler handles retailer-company connection requests
type ConnectionHandler struct {
	BaseHandler
	connectionService *companyapp.ConnectionService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connectionService *companyapp.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// ConnectionRequest is the body a retailer sends to ask a company for approval
type ConnectionRequest struct {
	Message string `json:"message" binding:"max=1000" example:"We would like to stock your products"`
}

// RespondConnectionRequest is the company owner's decision on a connection
type RespondConnectionRequest struct {
	Status       string          `json:"status" binding:"required,oneof=approved rejected" example:"approved"`
	CreditLimit  decimal.Decimal `json:"credit_limit" binding:"gte=0" swaggertype:"string" example:"50000.00"`
	PaymentTerms string          `json:"payment_terms" binding:"max=100" example:"Net 30"`
}

// ConnectionStatusQuery filters connection lists
type ConnectionStatusQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// RequestConnection godoc
// @Summary      Request approval from a company
// @Description  The caller's retailer profile asks to trade with the company
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        id      path string            true  "Company ID" format(uuid)
// @Param        request body ConnectionRequest false "Optional message"
// @Success      201 {object} dto.Response{data=companyapp.ConnectionResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id}/connections [post]
func (h *ConnectionHandler) RequestConnection(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req ConnectionRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	conn, err := h.connectionService.Request(c.Request.Context(), actor, companyID, req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, conn)
}

// ListCompanyConnections godoc
// @Summary      List a company's connections
// @Tags         connections
// @Produce      json
// @Param        id     path  string true  "Company ID" format(uuid)
// @Param        status query string false "Connection status" Enums(pending, approved, rejected)
// @Success      200 {object} dto.Response{data=[]companyapp.ConnectionResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /companies/{id}/connections [get]
func (h *ConnectionHandler) ListCompanyConnections(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var q ConnectionStatusQuery
	if !h.BindQuery(c, &q) {
		return
	}
	conns, err := h.connectionService.ListForCompany(c.Request.Context(), actor, companyID, q.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conns)
}

// ListMyConnections godoc
// @Summary      List the caller's connections
// @Description  Connection requests made by the caller's retailer profile
// @Tags         connections
// @Produce      json
// @Success      200 {object} dto.Response{data=[]companyapp.ConnectionResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /connections/mine [get]
func (h *ConnectionHandler) ListMyConnections(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	conns, err := h.connectionService.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conns)
}

// RespondConnection godoc
// @Summary      Approve or reject a connection
// @Description  Approval creates a retailer record for the profile in the company
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Connection ID" format(uuid)
// @Param        request body RespondConnectionRequest true "Decision"
// @Success      200 {object} dto.Response{data=companyapp.ConnectionResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /connections/{id} [put]
func (h *ConnectionHandler) RespondConnection(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req RespondConnectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	conn, err := h.connectionService.Respond(c.Request.Context(), actor, id, companyapp.RespondInput{
		Status:       req.Status,
		CreditLimit:  req.CreditLimit,
		PaymentTerms: req.PaymentTerms,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conn)
}
