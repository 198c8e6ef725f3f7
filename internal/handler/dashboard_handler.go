package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/render"
	"github.com/jengzang/sentiment-dashboard/internal/service"
	"github.com/jengzang/sentiment-dashboard/internal/viz"
	"github.com/jengzang/sentiment-dashboard/pkg/response"
)

// DashboardHandler handles HTTP requests for the dashboard panels
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetOverview handles GET /api/v1/dashboard/overview
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	var ef models.EntityFilter
	var hf models.HeatmapFilter
	if err := c.ShouldBindQuery(&ef); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if err := c.ShouldBindQuery(&hf); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), ef, hf)
	if err != nil {
		fail(c, "Failed to load dashboard", err)
		return
	}
	response.Success(c, overview)
}

// GetEntities handles GET /api/v1/dashboard/entities
func (h *DashboardHandler) GetEntities(c *gin.Context) {
	var filter models.EntityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	entities, err := h.service.Entities(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to get entities", err)
		return
	}
	response.Success(c, entities)
}

// GetHeatmap handles GET /api/v1/dashboard/heatmap
func (h *DashboardHandler) GetHeatmap(c *gin.Context) {
	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	heatmap, err := h.service.Heatmap(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to get heatmap", err)
		return
	}
	response.Success(c, heatmap)
}

// GetHeatmapCell handles GET /api/v1/dashboard/heatmap/cell?x=&y=
func (h *DashboardHandler) GetHeatmapCell(c *gin.Context) {
	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	x, y := c.Query("x"), c.Query("y")
	if x == "" || y == "" {
		response.BadRequest(c, "x and y are required")
		return
	}

	cell, err := h.service.Cell(c.Request.Context(), filter, x, y)
	if err != nil {
		fail(c, "Failed to get heatmap cell", err)
		return
	}
	response.Success(c, cell)
}

// GetHeatmapPage handles GET /api/v1/dashboard/heatmap.html
func (h *DashboardHandler) GetHeatmapPage(c *gin.Context) {
	var filter models.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	heatmap, err := h.service.Heatmap(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to get heatmap", err)
		return
	}

	var buf bytes.Buffer
	if err := render.HeatmapPage(&buf, heatmap, viz.DefaultScale()); err != nil {
		fail(c, "Failed to render heatmap", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GetMetrics handles GET /api/v1/dashboard/metrics
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.service.Metrics(c.Request.Context())
	if err != nil {
		fail(c, "Failed to fetch metrics", err)
		return
	}
	response.Success(c, metrics)
}

// GetRecentTickets handles GET /api/v1/dashboard/recent-tickets?limit=
func (h *DashboardHandler) GetRecentTickets(c *gin.Context) {
	var filter models.RecentTicketsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	tickets, err := h.service.RecentTickets(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to fetch recent tickets", err)
		return
	}
	response.Success(c, tickets)
}

// GetAnomalies handles GET /api/v1/dashboard/anomalies
func (h *DashboardHandler) GetAnomalies(c *gin.Context) {
	report, err := h.service.Anomalies(c.Request.Context())
	if err != nil {
		fail(c, "Failed to fetch anomaly data", err)
		return
	}
	response.Success(c, report)
}

// GetLayout handles GET /api/v1/dashboard/layout
func (h *DashboardHandler) GetLayout(c *gin.Context) {
	var filter models.LayoutFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.Children < 0 || filter.Children > service.MaxLayoutChildren {
		response.BadRequest(c, fmt.Sprintf("children must be between 0 and %d", service.MaxLayoutChildren))
		return
	}
	cols, err := service.Columns(filter)
	if err != nil {
		fail(c, "Invalid layout", err)
		return
	}

	placements := h.service.Layout(cols, filter.Children)
	response.Success(c, gin.H{
		"units":      viz.GridUnits,
		"placements": placements,
		"count":      len(placements),
	})
}

// fail maps service errors onto the response envelope
func fail(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrInvalidFilter), errors.Is(err, models.ErrInvalidRecord):
		response.BadRequest(c, message+": "+err.Error())
	case errors.Is(err, service.ErrCellNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, viz.ErrDuplicateCell):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInsightsUnavailable):
		response.Error(c, http.StatusNotImplemented, err.Error())
	default:
		response.InternalError(c, message)
	}
}
