package router

import (
	"github.com/gin-gonic/gin"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/interfaces/http/handler"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted under the versioned API
type Handlers struct {
	Auth       *handler.AuthHandler
	Company    *handler.CompanyHandler
	Connection *handler.ConnectionHandler
	Retailer   *handler.RetailerHandler
	Profile    *handler.ProfileHandler
	Category   *handler.CategoryHandler
	Product    *handler.ProductHandler
	Order      *handler.OrderHandler
	Shipment   *handler.ShipmentHandler
	Employee   *handler.EmployeeHandler
	Truck      *handler.TruckHandler
	Invoice    *handler.InvoiceHandler
	Dashboard  *handler.DashboardHandler
	Health     *handler.HealthHandler
}

// Guards are the middleware the API routes are protected with
type Guards struct {
	// Auth authenticates the bearer token
	Auth gin.HandlerFunc
	// AuthLimiter throttles the public credential endpoints. Optional.
	AuthLimiter gin.HandlerFunc
	// AfterAuth runs once the actor is known, e.g. span tagging
	AfterAuth []gin.HandlerFunc
}

var (
	perm    = middleware.RequirePermission
	anyPerm = middleware.RequireAnyPermission
)

// RegisterAPI registers every domain group on r
func RegisterAPI(r *Router, h Handlers, g Guards) *Router {
	r.Register(authRoutes(h, g))
	r.Register(systemRoutes(h))

	protected := NewDomainGroup("protected", "").Use(g.Auth).Use(g.AfterAuth...).adopt(
		companyRoutes(h),
		NewDomainGroup("connections", "/connections").
			GET("/mine", perm(identity.PermConnectionRequest), h.Connection.ListMyConnections).
			PUT("/:id", perm(identity.PermConnectionManage), h.Connection.RespondConnection),
		retailerRoutes(h),
		NewDomainGroup("retailer-profile", "/retailer-profile").
			Use(perm(identity.PermProfileManage)).
			POST("", h.Profile.CreateProfile).
			GET("", h.Profile.GetProfile).
			PUT("", h.Profile.UpdateProfile).
			GET("/counts", h.Profile.GetCounts),
		NewDomainGroup("categories", "/categories").
			Use(perm(identity.PermCatalogManage)).
			GET("", h.Category.List).
			GET("/stock", h.Category.StockData).
			POST("", h.Category.Create).
			PUT("/:id", h.Category.Update).
			DELETE("/:id", h.Category.Delete),
		productRoutes(h),
		orderRoutes(h),
		NewDomainGroup("employees", "/employees").
			GET("", perm(identity.PermWorkforceRead), h.Employee.List).
			GET("/:id", perm(identity.PermWorkforceRead), h.Employee.GetByID).
			POST("", perm(identity.PermWorkforceManage), h.Employee.Create).
			PUT("/:id", perm(identity.PermWorkforceManage), h.Employee.Update).
			DELETE("/:id", perm(identity.PermWorkforceManage), h.Employee.Delete),
		NewDomainGroup("trucks", "/trucks").
			GET("", perm(identity.PermWorkforceRead), h.Truck.List).
			GET("/:id", perm(identity.PermWorkforceRead), h.Truck.GetByID).
			POST("", perm(identity.PermWorkforceManage), h.Truck.Create).
			PUT("/:id", perm(identity.PermWorkforceManage), h.Truck.Update).
			DELETE("/:id", perm(identity.PermWorkforceManage), h.Truck.Delete),
		shipmentRoutes(h),
		NewDomainGroup("qr-codes", "/qr-codes").
			POST("", anyPerm(identity.PermShipmentManage, identity.PermShipmentDeliver), h.Shipment.StoreQRCode),
		invoiceRoutes(h),
		NewDomainGroup("dashboard", "/dashboard").
			Use(perm(identity.PermDashboardRead)).
			GET("/counts", h.Dashboard.GetCounts).
			GET("/overview", h.Dashboard.GetOverview),
	)
	return r.Register(protected)
}

// adopt nests prebuilt groups under dg; their middleware runs after dg's
func (dg *DomainGroup) adopt(children ...*DomainGroup) *DomainGroup {
	dg.subgroups = append(dg.subgroups, children...)
	return dg
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	group := NewDomainGroup("auth", "/auth")
	public := group.Group("auth-public", "")
	if g.AuthLimiter != nil {
		public.Use(g.AuthLimiter)
	}
	public.
		POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.RefreshToken).
		POST("/forgot-password", h.Auth.ForgotPassword).
		POST("/verify-otp", h.Auth.VerifyOTP).
		POST("/reset-password", h.Auth.ResetPassword)
	group.Group("auth-session", "").
		Use(g.Auth).
		Use(g.AfterAuth...).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me)
	return group
}

func systemRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("system", "").GET("/health", h.Health.Check)
}

func companyRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("companies", "/companies").
		GET("/public", perm(identity.PermCompanyRead), h.Company.ListPublicCompanies).
		GET("", perm(identity.PermCompanyManage), h.Company.ListCompanies).
		POST("", perm(identity.PermCompanyManage), h.Company.CreateCompany).
		GET("/:id", perm(identity.PermCompanyRead), h.Company.GetCompany).
		PUT("/:id", perm(identity.PermCompanyManage), h.Company.UpdateCompany).
		DELETE("/:id", perm(identity.PermCompanyManage), h.Company.DeleteCompany).
		POST("/:id/connections", perm(identity.PermConnectionRequest), h.Connection.RequestConnection).
		GET("/:id/connections", perm(identity.PermConnectionManage), h.Connection.ListCompanyConnections)
}

func retailerRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("retailers", "/retailers").
		GET("", perm(identity.PermRetailerRead), h.Retailer.ListRetailers).
		GET("/:id", perm(identity.PermRetailerRead), h.Retailer.GetRetailer).
		GET("/:id/orders", perm(identity.PermOrderRead), h.Retailer.ListRetailerOrders).
		POST("", perm(identity.PermRetailerManage), h.Retailer.CreateRetailer).
		PUT("/:id", perm(identity.PermRetailerManage), h.Retailer.UpdateRetailer).
		DELETE("/:id", perm(identity.PermRetailerManage), h.Retailer.DeleteRetailer)
}

func productRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("products", "/products").
		GET("", perm(identity.PermCatalogRead), h.Product.List).
		GET("/:id", perm(identity.PermCatalogRead), h.Product.GetByID).
		POST("", perm(identity.PermCatalogManage), h.Product.Create).
		PUT("/:id", perm(identity.PermCatalogManage), h.Product.Update).
		PATCH("/:id/quantity", perm(identity.PermCatalogManage), h.Product.UpdateQuantity).
		DELETE("/:id", perm(identity.PermCatalogManage), h.Product.Delete)
}

func orderRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("orders", "/orders").
		POST("", perm(identity.PermOrderCreate), h.Order.Create).
		GET("", perm(identity.PermOrderRead), h.Order.List).
		GET("/:id", perm(identity.PermOrderRead), h.Order.GetByID).
		PATCH("/:id/status", perm(identity.PermOrderManage), h.Order.UpdateStatus).
		POST("/:id/approve", perm(identity.PermOrderManage), h.Shipment.ApproveOrder)
}

func shipmentRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("shipments", "/shipments").
		GET("", perm(identity.PermShipmentManage), h.Shipment.List).
		GET("/mine", perm(identity.PermShipmentDeliver), h.Shipment.ListMine).
		POST("/:id/allocate", perm(identity.PermShipmentManage), h.Shipment.Allocate).
		PATCH("/:id/status", anyPerm(identity.PermShipmentManage, identity.PermShipmentDeliver), h.Shipment.UpdateStatus)
}

func invoiceRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("invoices", "/invoices").
		GET("", perm(identity.PermInvoiceRead), h.Invoice.List).
		GET("/count", perm(identity.PermInvoiceRead), h.Invoice.Count).
		GET("/:id", perm(identity.PermInvoiceRead), h.Invoice.GetByID).
		GET("/:id/html", perm(identity.PermInvoiceRead), h.Invoice.HTML).
		GET("/:id/pdf", perm(identity.PermInvoiceRead), h.Invoice.PDF).
		POST("", perm(identity.PermInvoiceManage), h.Invoice.Create).
		POST("/:id/pay", perm(identity.PermInvoiceManage), h.Invoice.MarkPaid)
}
