package router

import (
	"basegraph.app/issuesync/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func SyncRouter(rg *gin.RouterGroup, h *handler.SyncHandler) {
	rg.POST("/issues", h.TriggerIssues)
	rg.POST("/projects", h.TriggerProjects)
	rg.GET("/runs/:id", h.GetRun)
}
