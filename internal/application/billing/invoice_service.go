// Package billing issues GST invoices, tracks their payment and prints them.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/billing"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"github.com/supplychain/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const (
	// InvoicePrefix is the object key prefix of archived invoice PDFs
	InvoicePrefix = "invoices/"

	maxNumberAttempts = 3
	overdueBatchSize  = 100
)

// ObjectStorage archives rendered invoices
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// InvoiceServiceDeps groups the collaborators of InvoiceService.
// PDF and Storage are optional.
type InvoiceServiceDeps struct {
	Invoices  billing.InvoiceRepository
	Retailers partner.RetailerRepository
	Orders    trade.OrderRepository
	Products  catalog.ProductRepository
	Guard     *access.Guard
	Tx        shared.TxManager
	Events    shared.EventPublisher
	Templates *printing.TemplateEngine
	PDF       printing.PDFRenderer
	Storage   ObjectStorage
	Now       func() time.Time
	Logger    *zap.Logger
	// OverdueBatch is the page size of the overdue sweep, 100 when unset
	OverdueBatch int
}

// InvoiceService handles invoices
type InvoiceService struct {
	invoices  billing.InvoiceRepository
	retailers partner.RetailerRepository
	orders    trade.OrderRepository
	products  catalog.ProductRepository
	guard     *access.Guard
	tx        shared.TxManager
	events    shared.EventPublisher
	templates *printing.TemplateEngine
	pdf       printing.PDFRenderer
	storage   ObjectStorage
	now       func() time.Time
	logger    *zap.Logger
	batch     int
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(deps InvoiceServiceDeps) *InvoiceService {
	s := &InvoiceService{
		invoices:  deps.Invoices,
		retailers: deps.Retailers,
		orders:    deps.Orders,
		products:  deps.Products,
		guard:     deps.Guard,
		tx:        deps.Tx,
		events:    deps.Events,
		templates: deps.Templates,
		pdf:       deps.PDF,
		storage:   deps.Storage,
		now:       deps.Now,
		logger:    deps.Logger,
		batch:     deps.OverdueBatch,
	}
	if s.batch <= 0 {
		s.batch = overdueBatchSize
	}
	if s.templates == nil {
		s.templates = printing.NewTemplateEngine()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Create issues an invoice. GST is split into CGST and SGST when the company
// and the retailer are in the same state, otherwise IGST is charged.
func (s *InvoiceService) Create(ctx context.Context, actor identity.Actor, input CreateInvoiceInput) (*InvoiceResponse, error) {
	c, err := s.guard.AuthorizeCompany(ctx, actor, input.CompanyID)
	if err != nil {
		return nil, err
	}
	retailer, err := s.retailers.FindByID(ctx, input.RetailerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_RETAILER", "Retailer not found")
		}
		return nil, err
	}
	if !retailer.BelongsTo(c.ID) {
		return nil, shared.NewDomainError("INVALID_RETAILER", "Retailer belongs to another company")
	}
	mode, err := billing.ParsePaymentMode(input.PaymentMode)
	if err != nil {
		return nil, err
	}

	items := input.Items
	if input.OrderID != nil {
		order, err := s.loadOrder(ctx, *input.OrderID, c.ID, retailer.ID)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			items = itemsFromOrder(order)
		}
	}
	lines, err := s.lines(ctx, c.ID, items)
	if err != nil {
		return nil, err
	}

	invoiceDate := s.now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}
	in := billing.InvoiceInput{
		CompanyID:   c.ID,
		RetailerID:  retailer.ID,
		OrderID:     input.OrderID,
		IRN:         input.IRN,
		PaymentMode: mode,
		InvoiceDate: invoiceDate,
		DueDate:     input.DueDate,
		IntraState:  c.Address.SameState(retailer.Address),
		Lines:       lines,
	}

	var inv *billing.Invoice
	for attempt := 1; ; attempt++ {
		// number lookup, header and items commit together
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			last, err := s.invoices.LastNumber(ctx, c.ID, invoiceDate.Year())
			if err != nil {
				return err
			}
			in.Number = billing.NextInvoiceNumber(invoiceDate.Year(), last)
			inv, err = billing.NewInvoice(in)
			if err != nil {
				return err
			}
			inv.SetCreatedBy(actor.UserID)
			return s.invoices.Save(ctx, inv)
		})
		if err == nil {
			break
		}
		// a concurrent invoice took the number
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == maxNumberAttempts {
			return nil, err
		}
		s.logger.Debug("Invoice number taken, retrying", zap.String("number", in.Number))
	}

	s.logger.Info("Invoice issued",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Bool("intra_state", inv.IntraState),
		zap.String("grand_total", inv.GrandTotal.StringFixed(2)),
	)
	s.publish(ctx, inv)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID returns an invoice of a company the caller can access
func (s *InvoiceService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*InvoiceResponse, error) {
	inv, _, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List returns invoices of the companies in the caller's scope, newest first
func (s *InvoiceService) List(ctx context.Context, actor identity.Actor, filter InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
	f := shared.DefaultFilter()
	f.OrderBy = "invoice_date"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.PaymentStatus != "" {
		status, err := parsePaymentStatus(filter.PaymentStatus)
		if err != nil {
			return nil, err
		}
		f = f.With("payment_status", status)
	}
	if filter.RetailerID != nil {
		f = f.With("retailer_id", *filter.RetailerID)
	}
	scope, err := s.guard.ScopeCompanies(ctx, actor, filter.CompanyID)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		page := shared.NewPaginated([]InvoiceResponse{}, 0, f.Page, f.PageSize)
		return &page, nil
	}
	f = scope.Apply(f)

	invoices, err := s.invoices.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.invoices.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToInvoiceResponses(invoices), total, f.Page, f.PageSize)
	return &page, nil
}

// Count returns the number of invoices in the caller's scope
func (s *InvoiceService) Count(ctx context.Context, actor identity.Actor, companyID *uuid.UUID) (int64, error) {
	scope, err := s.guard.ScopeCompanies(ctx, actor, companyID)
	if err != nil {
		return 0, err
	}
	if scope.Empty() {
		return 0, nil
	}
	return s.invoices.Count(ctx, scope.Apply(shared.Filter{}))
}

// MarkPaid settles an invoice; paying a paid invoice is a no-op
func (s *InvoiceService) MarkPaid(ctx context.Context, actor identity.Actor, id uuid.UUID) (*InvoiceResponse, error) {
	inv, _, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	version := inv.Version
	inv.MarkPaid(s.now())
	if inv.Version != version {
		if err := s.invoices.Save(ctx, inv); err != nil {
			return nil, err
		}
		s.logger.Info("Invoice paid", zap.String("invoice_id", inv.ID.String()))
		s.publish(ctx, inv)
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// RenderHTML renders the printable invoice page
func (s *InvoiceService) RenderHTML(ctx context.Context, actor identity.Actor, id uuid.UUID) (string, error) {
	inv, c, err := s.load(ctx, actor, id)
	if err != nil {
		return "", err
	}
	doc, err := s.document(ctx, inv, c)
	if err != nil {
		return "", err
	}
	return s.templates.RenderInvoice(ctx, doc)
}

// RenderPDF prints the invoice with headless Chrome. When object storage is
// configured the PDF is archived under invoices/<company>/<number>.pdf; an
// archiving failure is logged and does not fail the download.
func (s *InvoiceService) RenderPDF(ctx context.Context, actor identity.Actor, id uuid.UUID) (*InvoicePDF, error) {
	if s.pdf == nil {
		return nil, shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not configured; use the HTML preview")
	}
	inv, c, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.document(ctx, inv, c)
	if err != nil {
		return nil, err
	}
	html, err := s.templates.RenderInvoice(ctx, doc)
	if err != nil {
		return nil, err
	}
	result, err := s.pdf.Render(ctx, &printing.RenderRequest{
		HTML:       html,
		PaperSize:  printing.PaperSizeA4,
		Margins:    printing.DefaultMargins(),
		Title:      inv.InvoiceNumber,
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}

	out := &InvoicePDF{Filename: inv.InvoiceNumber + ".pdf", Data: result.PDFData}
	if s.storage != nil {
		key := fmt.Sprintf("%s%s/%s.pdf", InvoicePrefix, inv.CompanyID, inv.InvoiceNumber)
		if err := s.storage.Upload(ctx, key, result.PDFData, "application/pdf"); err != nil {
			s.logger.Warn("Failed to archive invoice PDF", zap.String("key", key), zap.Error(err))
			return out, nil
		}
		out.StorageKey = key
		if url, _, err := s.storage.GenerateDownloadURL(ctx, key, 0); err == nil {
			out.DownloadURL = url
		}
	}
	return out, nil
}

// MarkOverdue flags pending invoices whose due date has passed and returns
// how many were flagged. Failures on single invoices are logged and skipped.
func (s *InvoiceService) MarkOverdue(ctx context.Context) (int, error) {
	now := s.now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	marked := 0
	for {
		candidates, err := s.invoices.FindOverdueCandidates(ctx, startOfDay, s.batch)
		if err != nil {
			return marked, err
		}
		progress := 0
		for i := range candidates {
			inv := &candidates[i]
			if !inv.MarkOverdue(now) {
				continue
			}
			if err := s.invoices.Save(ctx, inv); err != nil {
				s.logger.Warn("Failed to mark invoice overdue", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
				continue
			}
			s.publish(ctx, inv)
			progress++
		}
		marked += progress
		if len(candidates) < s.batch || progress == 0 {
			break
		}
	}
	if marked > 0 {
		s.logger.Info("Invoices marked overdue", zap.Int("count", marked))
	}
	return marked, nil
}

// lines resolves products and fills catalog defaults
func (s *InvoiceService) lines(ctx context.Context, companyID uuid.UUID, items []InvoiceItemInput) ([]billing.InvoiceLine, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Invoice must contain at least one item")
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]billing.InvoiceLine, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if !p.BelongsTo(companyID) {
			return nil, shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("Product %s belongs to another company", p.Name))
		}
		line := billing.InvoiceLine{
			ProductID:   p.ID,
			Description: p.Name,
			HSNCode:     p.HSNCode,
			Quantity:    item.Quantity,
			Price:       p.Price,
			GSTRate:     p.TotalGSTRate(),
		}
		if item.Price != nil {
			line.Price = *item.Price
		}
		if item.GSTRate != nil {
			line.GSTRate = *item.GSTRate
		}
		if item.HSNCode != "" {
			line.HSNCode = item.HSNCode
		}
		if item.Description != "" {
			line.Description = item.Description
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *InvoiceService) loadOrder(ctx context.Context, id, companyID, retailerID uuid.UUID) (*trade.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_ORDER", "Order not found")
		}
		return nil, err
	}
	if !order.BelongsTo(companyID) || order.RetailerID != retailerID {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order belongs to another company or retailer")
	}
	if order.Status == trade.OrderStatusCancelled {
		return nil, shared.NewDomainError("INVALID_ORDER", "Cannot invoice a cancelled order")
	}
	return order, nil
}

func itemsFromOrder(order *trade.Order) []InvoiceItemInput {
	items := make([]InvoiceItemInput, len(order.Items))
	for i, item := range order.Items {
		price := item.UnitPrice
		items[i] = InvoiceItemInput{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Price:       &price,
			Description: item.ProductName,
		}
	}
	return items
}

func (s *InvoiceService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*billing.Invoice, *company.Company, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewNotFoundError("Invoice")
		}
		return nil, nil, err
	}
	c, err := s.guard.AuthorizeCompany(ctx, actor, inv.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	return inv, c, nil
}

func (s *InvoiceService) document(ctx context.Context, inv *billing.Invoice, c *company.Company) (*printing.InvoiceDocument, error) {
	buyer := printing.Party{Name: inv.RetailerID.String()}
	retailer, err := s.retailers.FindByID(ctx, inv.RetailerID)
	switch {
	case err == nil:
		buyer = printing.Party{
			Name:    retailer.Name,
			GSTIN:   retailer.GSTIN.String(),
			Address: retailer.Address.String(),
			State:   retailer.Address.State(),
			Phone:   retailer.Contact,
			Email:   retailer.Email,
		}
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	doc := &printing.InvoiceDocument{
		Number:        inv.InvoiceNumber,
		IRN:           inv.IRN,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		PaymentMode:   string(inv.PaymentMode),
		PaymentStatus: string(inv.PaymentStatus),
		IntraState:    inv.IntraState,
		Seller: printing.Party{
			Name:    c.Name,
			GSTIN:   c.GSTIN.String(),
			Address: c.Address.String(),
			State:   c.Address.State(),
			Phone:   c.Phone,
			Email:   c.Email,
		},
		Buyer:        buyer,
		TotalTaxable: inv.TotalTaxableValue,
		TotalCGST:    inv.TotalCGST,
		TotalSGST:    inv.TotalSGST,
		TotalIGST:    inv.TotalIGST,
		GrandTotal:   inv.GrandTotal,
	}
	for _, item := range inv.Items {
		doc.Lines = append(doc.Lines, printing.InvoiceLine{
			Description:  item.Description,
			HSNCode:      item.HSNCode,
			Quantity:     item.Quantity,
			Price:        item.Price,
			GSTRate:      item.GSTRate,
			TaxableValue: item.TaxableValue,
			CGST:         item.CGST,
			SGST:         item.SGST,
			IGST:         item.IGST,
			Total:        item.Total(),
		})
	}
	return doc, nil
}

func (s *InvoiceService) publish(ctx context.Context, inv *billing.Invoice) {
	if err := shared.PublishAndClear(ctx, s.events, inv); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
	}
}

func parsePaymentStatus(s string) (billing.PaymentStatus, error) {
	switch status := billing.PaymentStatus(s); status {
	case billing.PaymentStatusPending, billing.PaymentStatusPaid, billing.PaymentStatusOverdue:
		return status, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown payment status: %s", s))
}
