package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	billingapp "github.com/supplychain/backend/internal/application/billing"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles GST invoice HTTP requests
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceItemRequest is one invoice line. Price, GST rate and HSN code
// default to the product's values when omitted.
type InvoiceItemRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440001"`
	Quantity    int64            `json:"quantity" binding:"required,gt=0" example:"10"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,gte=0" swaggertype:"string" example:"99.50"`
	GSTRate     *decimal.Decimal `json:"gst_rate" binding:"omitempty,gte=0,lte=28" swaggertype:"string" example:"12"`
	HSNCode     string           `json:"hsn_code" binding:"omitempty,min=4,max=8,numeric" example:"2009"`
	Description string           `json:"description" binding:"max=200"`
}

// CreateInvoiceRequest is the body for raising an invoice
type CreateInvoiceRequest struct {
	CompanyID   uuid.UUID            `json:"company_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	RetailerID  uuid.UUID            `json:"retailer_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440002"`
	OrderID     string               `json:"order_id" binding:"omitempty,uuid"`
	PaymentMode string               `json:"payment_mode" binding:"required,oneof=cash upi card bank_transfer cheque credit" example:"upi"`
	InvoiceDate *time.Time           `json:"invoice_date" example:"2026-04-01T00:00:00Z"`
	DueDate     *time.Time           `json:"due_date" example:"2026-05-01T00:00:00Z"`
	IRN         string               `json:"irn" binding:"max=64"`
	Items       []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// InvoiceListQuery filters invoice lists
type InvoiceListQuery struct {
	dto.ListRequest
	CompanyID     string `form:"company_id" binding:"omitempty,uuid"`
	RetailerID    string `form:"retailer_id" binding:"omitempty,uuid"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid overdue"`
}

// Create godoc
// @Summary      Create an invoice
// @Description  Intra-state invoices split GST into CGST and SGST; inter-state invoices charge IGST
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	orderID, ok := h.OptionalUUID(c, "order_id", req.OrderID)
	if !ok {
		return
	}
	items := make([]billingapp.InvoiceItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = billingapp.InvoiceItemInput{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Price:       it.Price,
			GSTRate:     it.GSTRate,
			HSNCode:     it.HSNCode,
			Description: it.Description,
		}
	}
	invoice, err := h.invoiceService.Create(c.Request.Context(), actor, billingapp.CreateInvoiceInput{
		CompanyID:   req.CompanyID,
		RetailerID:  req.RetailerID,
		OrderID:     orderID,
		PaymentMode: req.PaymentMode,
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		IRN:         req.IRN,
		Items:       items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID godoc
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        company_id     query string false "Company ID" format(uuid)
// @Param        retailer_id    query string false "Retailer ID" format(uuid)
// @Param        payment_status query string false "Payment status" Enums(pending, paid, overdue)
// @Param        page           query int    false "Page number" default(1)
// @Param        page_size      query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billingapp.InvoiceResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var q InvoiceListQuery
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
	page, err := h.invoiceService.List(c.Request.Context(), actor, billingapp.InvoiceListFilter{
		CompanyID:     companyID,
		RetailerID:    retailerID,
		PaymentStatus: q.PaymentStatus,
		Page:          q.Page,
		PageSize:      q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Count godoc
// @Summary      Count invoices
// @Tags         invoices
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=dto.CountData}
// @Security     BearerAuth
// @Router       /invoices/count [get]
func (h *InvoiceHandler) Count(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.CompanyQuery(c)
	if !ok {
		return
	}
	n, err := h.invoiceService.Count(c.Request.Context(), actor, companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CountData{Count: n})
}

// MarkPaid godoc
// @Summary      Mark an invoice paid
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// HTML godoc
// @Summary      Preview an invoice
// @Description  The printable invoice page, rendered without a browser
// @Tags         invoices
// @Produce      html
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {string} string "HTML document"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/html [get]
func (h *InvoiceHandler) HTML(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	html, err := h.invoiceService.RenderHTML(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// PDF godoc
// @Summary      Download an invoice PDF
// @Description  Printed with headless Chrome. X-Archive-URL carries a download link when the PDF was archived.
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} file "PDF document"
// @Failure      404 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.invoiceService.RenderPDF(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdf.Filename))
	if pdf.DownloadURL != "" {
		c.Header("X-Archive-URL", pdf.DownloadURL)
	}
	c.Data(http.StatusOK, "application/pdf", pdf.Data)
}
