package router

import (
	"net/http"

	"basegraph.app/issuesync/internal/http/handler"
	"basegraph.app/issuesync/internal/http/middleware"
	"basegraph.app/issuesync/internal/service"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AdminAPIKey  string
	LookbackDays int
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAdminAPIKey(cfg.AdminAPIKey))
	{
		syncHandler := handler.NewSyncHandler(services.SyncDispatcher(), cfg.LookbackDays)
		SyncRouter(v1.Group("/sync"), syncHandler)
	}
}
