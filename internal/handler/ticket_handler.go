package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/sentiment-dashboard/internal/models"
	"github.com/jengzang/sentiment-dashboard/internal/service"
	"github.com/jengzang/sentiment-dashboard/pkg/response"
)

// TicketHandler handles ticket ingestion
type TicketHandler struct {
	service *service.IngestService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(service *service.IngestService) *TicketHandler {
	return &TicketHandler{service: service}
}

// AnalyzeTicket handles POST /api/v1/tickets/analyze
func (h *TicketHandler) AnalyzeTicket(c *gin.Context) {
	var req models.TicketAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	analysis, err := h.service.AnalyzeTicket(c.Request.Context(), req)
	if err != nil {
		fail(c, "Failed to analyze ticket", err)
		return
	}
	response.Success(c, analysis)
}
