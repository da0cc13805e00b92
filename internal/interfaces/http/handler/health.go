package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck checks one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports whether the service and its dependencies are reachable
type HealthHandler struct {
	service   string
	startedAt time.Time
	timeout   time.Duration
	names     []string
	checks    map[string]HealthCheck
}

// HealthResponse is the health check body
// @Description Service health and per-dependency status
type HealthResponse struct {
	Status  string            `json:"status" example:"healthy"`
	Service string            `json:"service" example:"supplychain-backend"`
	Time    string            `json:"time" example:"2026-04-01T10:30:00Z"`
	Uptime  string            `json:"uptime" example:"3h12m5s"`
	Checks  map[string]string `json:"checks"`
}

// NewHealthHandler creates a health handler for the named service
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{
		service:   service,
		startedAt: time.Now(),
		timeout:   2 * time.Second,
		checks:    make(map[string]HealthCheck),
	}
}

// WithCheck registers a dependency check. A nil check is ignored.
func (h *HealthHandler) WithCheck(name string, check HealthCheck) *HealthHandler {
	if check == nil {
		return h
	}
	if _, exists := h.checks[name]; !exists {
		h.names = append(h.names, name)
	}
	h.checks[name] = check
	return h
}

// Check godoc
// @Summary      Health check
// @Description  Pings the database and Redis. 503 when any dependency is down.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Uptime:  time.Since(h.startedAt).Truncate(time.Second).String(),
		Checks:  make(map[string]string, len(h.names)),
	}
	for _, name := range h.names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Status = "unhealthy"
			resp.Checks[name] = "down: " + err.Error()
			continue
		}
		resp.Checks[name] = "up"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
