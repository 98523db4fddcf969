package api

import (
	"github.com/gin-gonic/gin"
)

// setupRoutes 配置所有 HTTP 路由
// 管理页挂在路径前缀下，前缀为空时回退为 /admin（与端点拼接规则一致）
func (s *Server) setupRoutes(r *gin.Engine) {
	// 健康检查
	r.GET("/healthz", s.handleHealthCheck)

	// 版本信息
	r.GET("/version", s.handleVersion)

	adminSegment := "admin"
	if s.cfg.PathPrefix != "" {
		adminSegment = s.cfg.PathPrefix
	}

	// 管理页面
	r.GET("/"+adminSegment, s.handleAdminPage)

	// 管理 API
	adminGroup := r.Group("/" + adminSegment + "/api")
	adminGroup.Use(s.requireAPIKey)
	{
		adminGroup.GET("/dashboard", s.handleDashboardView)
		adminGroup.GET("/logs", s.handleGetLogs)
		adminGroup.PUT("/settings", s.handleUpdateSettings)

		adminGroup.POST("/accounts", s.handleCreateAccount)
		adminGroup.POST("/accounts/:id/enable", s.handleEnableAccount)
		adminGroup.POST("/accounts/:id/disable", s.handleDisableAccount)
		adminGroup.DELETE("/accounts/:id", s.handleDeleteAccount)
	}
}
