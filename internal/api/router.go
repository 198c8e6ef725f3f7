package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/sentiment-dashboard/internal/auth"
	"github.com/jengzang/sentiment-dashboard/internal/handler"
	"github.com/jengzang/sentiment-dashboard/internal/middleware"
	"github.com/jengzang/sentiment-dashboard/internal/service"
)

// Deps 路由依赖
type Deps struct {
	Dashboard *service.DashboardService
	Ingest    *service.IngestService // nil disables ticket ingestion
	Issuer    *auth.Issuer
	Logger    *slog.Logger
	RateLimit int // requests per minute per client, 0 disables
}

// SetupRouter 设置路由
func SetupRouter(ctx context.Context, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(ctx, deps.RateLimit, time.Minute))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Sentiment dashboard API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/overview", dashboardHandler.GetOverview)
			dashboard.GET("/entities", dashboardHandler.GetEntities)
			dashboard.GET("/heatmap", dashboardHandler.GetHeatmap)
			dashboard.GET("/heatmap/cell", dashboardHandler.GetHeatmapCell)
			dashboard.GET("/heatmap.html", dashboardHandler.GetHeatmapPage)
			dashboard.GET("/layout", dashboardHandler.GetLayout)
			dashboard.GET("/metrics", dashboardHandler.GetMetrics)
			dashboard.GET("/recent-tickets", dashboardHandler.GetRecentTickets)
			dashboard.GET("/anomalies", dashboardHandler.GetAnomalies)
		}

		// 工单分析需要 analyst 或 admin 角色
		if deps.Ingest != nil && deps.Issuer != nil {
			ticketHandler := handler.NewTicketHandler(deps.Ingest)
			tickets := api.Group("/tickets")
			tickets.Use(middleware.Auth(deps.Issuer, auth.RoleAnalyst, auth.RoleAdmin))
			{
				tickets.POST("/analyze", ticketHandler.AnalyzeTicket)
			}
		}
	}

	return r
}
