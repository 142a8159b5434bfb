package api

import (
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/engine"
	"inventory-service/internal/models"
	"inventory-service/internal/service"
	"inventory-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	orderService *service.OrderService
	availability *service.AvailabilityService
}

// NewHandler creates a new HTTP handler
func NewHandler(orderService *service.OrderService, availability *service.AvailabilityService) *Handler {
	return &Handler{
		orderService: orderService,
		availability: availability,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/availability", h.getAvailability)
		v1.GET("/diagnosis", h.getDiagnosis)
		v1.POST("/refresh", h.triggerRefresh)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders/:id/status", h.updateOrderStatus)
		v1.POST("/orders/:id/details", h.updateOrderDetails)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.GET("/stocktake", h.getStocktakeLog)
		v1.POST("/stocktake", h.recordStocktake)
		v1.POST("/stocktake/:id/resolve", h.resolveStocktake)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// getAvailability serves the filtered availability view from the latest
// published snapshot.
func (h *Handler) getAvailability(c *gin.Context) {
	filter := engine.Filter{Query: c.Query("q")}
	if minStr := c.Query("min"); minStr != "" {
		min, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid min quantity",
			})
			return
		}
		filter.MinAvailable = &min
	}

	groups, snap := h.availability.Availability(c.Request.Context(), filter)
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No availability snapshot yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pass_id":      snap.PassID,
		"generated_at": snap.GeneratedAt,
		"groups":       groups,
	})
}

// getDiagnosis serves the full matched/unmatched reservation line audit.
func (h *Handler) getDiagnosis(c *gin.Context) {
	snap := h.availability.Snapshot(c.Request.Context())
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No availability snapshot yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pass_id":      snap.PassID,
		"generated_at": snap.GeneratedAt,
		"diagnosis":    snap.Diagnosis,
	})
}

// triggerRefresh handles manual refresh requests
func (h *Handler) triggerRefresh(c *gin.Context) {
	h.availability.TriggerRefresh(c.Request.Context(), "manual")
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh triggered"})
}

// listOrders handles order listing with tab filtering and search
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("tab"), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list orders",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder handles get order by ID with a parsed line-item preview
func (h *Handler) getOrder(c *gin.Context) {
	order, items, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderStatus handles status commands
func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update order status",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

type updateDetailsRequest struct {
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Note        string `json:"note"`
}

// updateOrderDetails handles contact/address/note commands
func (h *Handler) updateOrderDetails(c *gin.Context) {
	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	err := h.orderService.UpdateDetails(c.Request.Context(), c.Param("id"),
		req.ContactName, req.Phone, req.Address, req.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update order details",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// deleteOrder handles order deletion
func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete order",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// getStocktakeLog serves the stocktake report log
func (h *Handler) getStocktakeLog(c *gin.Context) {
	entries, err := h.orderService.StocktakeLog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load stocktake log",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type stocktakeRequest struct {
	ProductID   string  `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name"`
	CountedQty  float64 `json:"counted_qty"`
	Note        string  `json:"note"`
	ReportedBy  string  `json:"reported_by"`
}

// recordStocktake handles counted-quantity reports
func (h *Handler) recordStocktake(c *gin.Context) {
	var req stocktakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	entry := &models.StocktakeEntry{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		CountedQty:  req.CountedQty,
		Note:        req.Note,
		ReportedBy:  req.ReportedBy,
	}

	if err := h.orderService.RecordStocktake(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to record stocktake",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// resolveStocktake handles close-out of a pending stocktake report
func (h *Handler) resolveStocktake(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid stocktake entry id",
		})
		return
	}

	if err := h.orderService.ResolveStocktake(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to resolve stocktake entry",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resolved": true})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
