package handler

import (
	"github.com/gin-gonic/gin"
	dashboardapp "github.com/supplychain/backend/internal/application/dashboard"
	"github.com/supplychain/backend/internal/domain/shared"
)

// DashboardHandler serves the manufacturer dashboard figures
type DashboardHandler struct {
	BaseHandler
	dashboardService *dashboardapp.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *dashboardapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetCounts godoc
// @Summary      Dashboard counts
// @Description  Orders placed, retailers, pending orders and idle employees. Cached for 30 seconds.
// @Tags         dashboard
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=dashboardapp.CountsResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /dashboard/counts [get]
func (h *DashboardHandler) GetCounts(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.CompanyQuery(c)
	if !ok {
		return
	}
	counts, err := h.dashboardService.GetCounts(c.Request.Context(), actor, companyID)
	writeResult(c, shared.ResultOf(counts, err))
}

// GetOverview godoc
// @Summary      Dashboard overview
// @Description  Counts plus catalog, fleet and billing figures
// @Tags         dashboard
// @Produce      json
// @Param        company_id query string false "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=dashboardapp.OverviewResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /dashboard/overview [get]
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	companyID, ok := h.CompanyQuery(c)
	if !ok {
		return
	}
	overview, err := h.dashboardService.GetOverview(c.Request.Context(), actor, companyID)
	writeResult(c, shared.ResultOf(overview, err))
}
