package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gyengus/uptime-monitor/internal/registry"
	"github.com/gyengus/uptime-monitor/pkg"
	"github.com/sirupsen/logrus"
)

// HTTP handlers for the uptime monitor control API.
type Handlers struct {
	registry *registry.Registry
	logger   *logrus.Logger
}

func New(reg *registry.Registry, logger *logrus.Logger) *Handlers {
	return &Handlers{
		registry: reg,
		logger:   logger,
	}
}

// List all monitored services with their derived status snapshot.
func (h *Handlers) ListServices(c *gin.Context) {
	services := h.registry.List()
	now := time.Now()

	views := make([]pkg.ServiceView, 0, len(services))
	for i := range services {
		views = append(views, pkg.NewServiceView(&services[i], now))
	}

	c.JSON(http.StatusOK, gin.H{"services": views})
}

// Add a new service to the registry.
func (h *Handlers) CreateService(c *gin.Context) {
	var req pkg.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, pkg.BadRequestError("Invalid JSON"))
		return
	}

	service, err := h.registry.Create(&req)
	if err != nil {
		h.respondWithError(c, err.(*pkg.AppError))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      service.ID,
	})
}

// Remove a service from the registry.
func (h *Handlers) DeleteService(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.respondWithError(c, pkg.BadRequestError("Service ID required"))
		return
	}

	if err := h.registry.Delete(id); err != nil {
		h.respondWithError(c, err.(*pkg.AppError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Agent liveness endpoint.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"services": h.registry.Count(),
	})
}

// Format and send an error response to the client.
func (h *Handlers) respondWithError(c *gin.Context, err *pkg.AppError) {
	h.logger.WithFields(logrus.Fields{
		"error":  err.Message,
		"code":   err.Code,
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).Warn("Request failed")

	c.JSON(err.Code, gin.H{"error": err.Message})
	c.Abort()
}
