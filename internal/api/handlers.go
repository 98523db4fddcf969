package api

import (
	"html/template"
	"net/http"

	"claude-dashboard/internal/dashboard"
	"claude-dashboard/internal/logger"
	"claude-dashboard/internal/models"
	"claude-dashboard/internal/pool"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handleHealthCheck 健康检查
func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"accounts": s.pool.Len(),
	})
}

// handleVersion 版本信息
func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": s.version})
}

// adminPageTmpl 管理页骨架，片段由 dashboard 包渲染后填入
var adminPageTmpl = template.Must(template.New("adminPage").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>账号池管理</title>
    <link rel="stylesheet" href="/{{.AdminPathSegment}}/static/admin.css">
</head>
<body>
    <div class="container">
        <h1>账号池管理</h1>
        {{.SecurityBanner}}
        {{.ErrorBanner}}
        <div class="endpoints">
            <div>API 地址: <code>{{.VM.APIBaseURL}}</code></div>
            <div>V1 地址: <code>{{.VM.APIBaseV1}}</code></div>
            <div>对话端点: <code>{{.VM.APIEndpoint}}</code></div>
        </div>
        {{.AccountTable}}
    </div>
    <script>window.__MAIN__ = {{.SettingsJSON}};</script>
    <script src="/{{.AdminPathSegment}}/static/admin.js"></script>
</body>
</html>
`))

// handleAdminPage 渲染管理页面
func (s *Server) handleAdminPage(c *gin.Context) {
	vm := dashboard.BuildView(c.Request, s.pool, s.logBuf, s.cfg)

	data := gin.H{
		"VM":               vm,
		"AdminPathSegment": vm.AdminPathSegment,
		"SecurityBanner":   dashboard.RenderSecurityBanner(vm),
		"ErrorBanner":      dashboard.RenderErrorBanner(vm),
		"AccountTable":     dashboard.RenderAccountTable(vm),
		"SettingsJSON":     vm.Settings,
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := adminPageTmpl.Execute(c.Writer, data); err != nil {
		logger.Error("渲染管理页面失败: %v", err)
	}
}

// handleDashboardView 返回完整视图模型（JSON，供前端脚本轮询）
func (s *Server) handleDashboardView(c *gin.Context) {
	vm := dashboard.BuildView(c.Request, s.pool, s.logBuf, s.cfg)
	c.JSON(http.StatusOK, vm)
}

// handleGetLogs 返回内存日志缓冲区快照
func (s *Server) handleGetLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": s.logBuf.Snapshot()})
}

// handleCreateAccount 创建新账号并加入账号池
func (s *Server) handleCreateAccount(c *gin.Context) {
	var req models.AccountCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	acc := &models.Account{
		ID:         uuid.New().String(),
		Label:      req.Label,
		SessionKey: req.SessionKey,
		ExpiresAt:  req.ExpiresAt,
		CreatedAt:  models.CurrentTime(),
		UpdatedAt:  models.CurrentTime(),
	}
	if req.Disabled != nil {
		acc.Disabled = *req.Disabled
	}

	if err := s.db.CreateAccount(c.Request.Context(), acc); err != nil {
		logger.Error("创建账号失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建账号失败"})
		return
	}

	s.pool.Add(pool.NewManager(acc))
	logger.Info("账号已创建: %s", acc.ID)
	c.JSON(http.StatusCreated, acc)
}

// handleEnableAccount 启用账号：清除禁用标记和冷却状态
func (s *Server) handleEnableAccount(c *gin.Context) {
	id := c.Param("id")
	m := s.pool.Get(id)
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "账号不存在"})
		return
	}

	if err := s.db.UpdateAccountDisabled(c.Request.Context(), id, false); err != nil {
		logger.Error("启用账号失败 - ID: %s, 错误: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "启用账号失败"})
		return
	}

	m.SetDisabled(false)
	m.ClearCooldown()
	logger.Info("账号已启用: %s", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleDisableAccount 手动禁用账号
func (s *Server) handleDisableAccount(c *gin.Context) {
	id := c.Param("id")
	m := s.pool.Get(id)
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "账号不存在"})
		return
	}

	if err := s.db.UpdateAccountDisabled(c.Request.Context(), id, true); err != nil {
		logger.Error("禁用账号失败 - ID: %s, 错误: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "禁用账号失败"})
		return
	}

	m.SetDisabled(true)
	logger.Info("账号已禁用: %s", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// settingsUpdate 设置更新请求，仅更新携带的字段
type settingsUpdate struct {
	APIKey     *string `json:"api_key"`
	BaseURL    *string `json:"base_url"`
	Proxy      *string `json:"proxy"`
	LogoURL    *string `json:"logo_url"`
	ChatURL    *string `json:"chat_url"`
	PathPrefix *string `json:"path_prefix"`
}

// handleUpdateSettings 持久化设置并更新运行时配置
// 路径前缀的路由变更需要重启后生效
func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req settingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	updates := []struct {
		key   string
		value *string
		dst   *string
	}{
		{models.SettingKeyAPIKey, req.APIKey, &s.cfg.APIKey},
		{models.SettingKeyBaseURL, req.BaseURL, &s.cfg.BaseURL},
		{models.SettingKeyProxy, req.Proxy, &s.cfg.Proxy},
		{models.SettingKeyLogoURL, req.LogoURL, &s.cfg.LogoURL},
		{models.SettingKeyChatURL, req.ChatURL, &s.cfg.ChatURL},
		{models.SettingKeyPathPrefix, req.PathPrefix, &s.cfg.PathPrefix},
	}

	for _, u := range updates {
		if u.value == nil {
			continue
		}
		if err := s.db.SaveSetting(c.Request.Context(), u.key, *u.value); err != nil {
			logger.Error("保存设置失败 - 键: %s, 错误: %v", u.key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存设置失败"})
			return
		}
		*u.dst = *u.value
		logger.Info("设置已更新: %s", u.key)
	}

	if req.PathPrefix != nil {
		logger.Warn("路径前缀已更新为 %q，重启后生效", *req.PathPrefix)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleDeleteAccount 删除账号
// 先确认账号存在再落库删除，避免池与数据库不一致时误删
func (s *Server) handleDeleteAccount(c *gin.Context) {
	id := c.Param("id")
	if s.pool.Get(id) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "账号不存在"})
		return
	}

	if err := s.db.DeleteAccount(c.Request.Context(), id); err != nil {
		logger.Error("删除账号失败 - ID: %s, 错误: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除账号失败"})
		return
	}

	s.pool.Remove(id)
	logger.Info("账号已删除: %s", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
