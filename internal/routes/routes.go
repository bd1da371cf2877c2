package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/handlers"
	"github.com/careline-platform/service-dashboard/internal/middleware"
)

// RouteConfig holds configuration for routes.
type RouteConfig struct {
	SupportHandler    *handlers.SupportHandler
	RefundFlowHandler *handlers.RefundFlowHandler
	HistoryHandler    *handlers.HistoryHandler
	JWTSecret         string
	Logger            *zap.Logger
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, cfg *RouteConfig) {
	// API v1 routes (all authenticated; /health is registered in main)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTSecret, cfg.Logger))
	{
		// Support case views
		supportCases := v1.Group("/support/cases")
		{
			supportCases.GET("", cfg.SupportHandler.ListCases)
			supportCases.GET("/:id", cfg.SupportHandler.GetCase)
			supportCases.GET("/:id/refunds", cfg.SupportHandler.ListCaseRefunds)
		}

		// Refund-request workflow
		flows := v1.Group("/refund-flows")
		{
			flows.POST("", cfg.RefundFlowHandler.CreateFlow)
			flows.GET("/:id", cfg.RefundFlowHandler.GetFlow)
			flows.POST("/:id/toggle", cfg.RefundFlowHandler.ToggleProduct)
			flows.POST("/:id/submit", cfg.RefundFlowHandler.Submit)
			flows.DELETE("/:id", cfg.RefundFlowHandler.CancelFlow)
		}

		// Refund history
		refunds := v1.Group("/refunds")
		{
			refunds.GET("", cfg.HistoryHandler.ListRefunds)
			refunds.GET("/:id", cfg.HistoryHandler.GetRefund)
		}

		// Merged support + refund history
		v1.GET("/history", cfg.HistoryHandler.MergedHistory)
	}
}
