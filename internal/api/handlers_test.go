package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"claude-dashboard/internal/config"
	"claude-dashboard/internal/dashboard"
	"claude-dashboard/internal/database"
	"claude-dashboard/internal/logger"
	"claude-dashboard/internal/pool"

	"github.com/gin-gonic/gin"
)

// setupTestServer 创建带内存数据库的测试服务器
func setupTestServer(t *testing.T, cfg *config.Config) (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = config.Load()
	}
	cfg.Database.SQLite.Path = ":memory:"

	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("创建测试数据库失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := NewServer(cfg, db, pool.New(), logger.NewBuffer(50), "test")

	r := gin.New()
	s.setupRoutes(r)
	return s, r
}

// createTestAccount 通过创建接口添加一个账号并返回其 ID
func createTestAccount(t *testing.T, r *gin.Engine, apiKey string) string {
	body := bytes.NewBufferString(`{"session_key": "sk-test"}`)
	req := httptest.NewRequest("POST", "/admin/api/accounts", body)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("创建账号应返回 201，实际为 %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析创建响应失败: %v", err)
	}
	return resp.ID
}

// TestDashboardView 测试视图模型接口返回完整字段
func TestDashboardView(t *testing.T) {
	_, r := setupTestServer(t, nil)
	createTestAccount(t, r, "")

	req := httptest.NewRequest("GET", "/admin/api/dashboard", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "api.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("视图接口应返回 200，实际为 %d", w.Code)
	}

	var vm dashboard.ViewModel
	if err := json.Unmarshal(w.Body.Bytes(), &vm); err != nil {
		t.Fatalf("解析视图模型失败: %v", err)
	}
	if vm.CurrentURL != "https://api.example.com" {
		t.Errorf("base URL 应来自转发头，实际为 %q", vm.CurrentURL)
	}
	if vm.APIEndpoint != "https://api.example.com/v1/chat/completions" {
		t.Errorf("对话端点错误: %q", vm.APIEndpoint)
	}
	if len(vm.Rows) != 1 {
		t.Fatalf("应有 1 行账号，实际为 %d", len(vm.Rows))
	}
	if vm.Rows[0].StateName != "healthy" {
		t.Errorf("新账号应为 healthy，实际为 %s", vm.Rows[0].StateName)
	}
}

// TestAccountActions 测试启用/禁用/删除操作贯通账号池与视图
func TestAccountActions(t *testing.T) {
	s, r := setupTestServer(t, nil)
	id := createTestAccount(t, r, "")

	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// 禁用
	if w := do("POST", "/admin/api/accounts/"+id+"/disable"); w.Code != http.StatusOK {
		t.Fatalf("禁用应返回 200，实际为 %d", w.Code)
	}
	if m := s.pool.Get(id); m == nil || !m.Signals().Disabled {
		t.Fatal("禁用后账号池中的账号应带禁用标记")
	}

	// 禁用后的视图应为手动禁用状态
	req := httptest.NewRequest("GET", "/admin/api/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var vm dashboard.ViewModel
	if err := json.Unmarshal(w.Body.Bytes(), &vm); err != nil {
		t.Fatalf("解析视图模型失败: %v", err)
	}
	if vm.Rows[0].StateName != "manually_disabled" {
		t.Errorf("禁用后行状态应为 manually_disabled，实际为 %s", vm.Rows[0].StateName)
	}

	// 启用（同时清除冷却）
	s.pool.Get(id).SetPermanentCooldown("账号被封禁")
	if w := do("POST", "/admin/api/accounts/"+id+"/enable"); w.Code != http.StatusOK {
		t.Fatalf("启用应返回 200，实际为 %d", w.Code)
	}
	if seconds, _ := s.pool.Get(id).GetCooldownInfo(); seconds != 0 {
		t.Errorf("启用后冷却应被清除，实际为 %d", seconds)
	}

	// 删除
	if w := do("DELETE", "/admin/api/accounts/"+id); w.Code != http.StatusOK {
		t.Fatalf("删除应返回 200，实际为 %d", w.Code)
	}
	if s.pool.Get(id) != nil {
		t.Error("删除后账号不应留在账号池中")
	}

	// 对不存在的账号操作返回 404
	if w := do("POST", "/admin/api/accounts/"+id+"/disable"); w.Code != http.StatusNotFound {
		t.Errorf("操作不存在的账号应返回 404，实际为 %d", w.Code)
	}
}

// TestDeleteAccount_NotFound 测试删除不存在的账号不触碰数据库
func TestDeleteAccount_NotFound(t *testing.T) {
	s, r := setupTestServer(t, nil)
	id := createTestAccount(t, r, "")

	req := httptest.NewRequest("DELETE", "/admin/api/accounts/no-such-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("删除不存在的账号应返回 404，实际为 %d", w.Code)
	}

	// 已有账号不受影响：池和数据库都还在
	if s.pool.Get(id) == nil {
		t.Error("已有账号不应从池中消失")
	}
	got, err := s.db.GetAccount(req.Context(), id)
	if err != nil {
		t.Fatalf("查询账号失败: %v", err)
	}
	if got == nil {
		t.Error("已有账号不应从数据库中消失")
	}
}

// TestUpdateSettings 测试设置更新：持久化并立刻反映到运行时配置
func TestUpdateSettings(t *testing.T) {
	s, r := setupTestServer(t, nil)

	body := bytes.NewBufferString(`{"api_key": "sk-new", "base_url": "https://fixed.example.com"}`)
	req := httptest.NewRequest("PUT", "/admin/api/settings", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("更新设置应返回 200，实际为 %d: %s", w.Code, w.Body.String())
	}
	if s.cfg.APIKey != "sk-new" {
		t.Errorf("运行时 API 密钥应被更新，实际为 %q", s.cfg.APIKey)
	}
	if s.cfg.BaseURL != "https://fixed.example.com" {
		t.Errorf("运行时 base URL 应被更新，实际为 %q", s.cfg.BaseURL)
	}
	// 未携带的字段保持不变
	if s.cfg.PathPrefix != "" {
		t.Errorf("未携带的路径前缀不应改变，实际为 %q", s.cfg.PathPrefix)
	}

	// 持久化校验：新配置经 ApplySettings 覆盖后能读回更新值
	fresh := config.Load()
	if err := s.db.ApplySettings(req.Context(), fresh); err != nil {
		t.Fatalf("加载持久化设置失败: %v", err)
	}
	if fresh.APIKey != "sk-new" {
		t.Errorf("持久化的 API 密钥应为 sk-new，实际为 %q", fresh.APIKey)
	}
	if fresh.BaseURL != "https://fixed.example.com" {
		t.Errorf("持久化的 base URL 错误: %q", fresh.BaseURL)
	}

	// 更新后的密钥立即用于鉴权
	req = httptest.NewRequest("GET", "/admin/api/dashboard", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("设置密钥后无密钥请求应返回 401，实际为 %d", w.Code)
	}
}

// TestRequireAPIKey 测试 API 密钥鉴权
func TestRequireAPIKey(t *testing.T) {
	cfg := config.Load()
	cfg.APIKey = "sk-secret"
	_, r := setupTestServer(t, cfg)

	// 无密钥拒绝
	req := httptest.NewRequest("GET", "/admin/api/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("无密钥请求应返回 401，实际为 %d", w.Code)
	}

	// 正确密钥放行
	req = httptest.NewRequest("GET", "/admin/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer sk-secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("携带正确密钥应返回 200，实际为 %d", w.Code)
	}
}

// TestAdminPage 测试管理页渲染包含横幅与占位表格
func TestAdminPage(t *testing.T) {
	_, r := setupTestServer(t, nil)

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("管理页应返回 200，实际为 %d", w.Code)
	}
	html := w.Body.String()
	if !strings.Contains(html, "API 密钥未设置") {
		t.Error("未配置密钥时页面应包含安全警告横幅")
	}
	if !strings.Contains(html, "暂无账户") {
		t.Error("空账号池页面应包含占位行")
	}
}

// TestPathPrefixRouting 测试路径前缀生效
func TestPathPrefixRouting(t *testing.T) {
	cfg := config.Load()
	cfg.PathPrefix = "panel"
	_, r := setupTestServer(t, cfg)

	req := httptest.NewRequest("GET", "/panel/api/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("带前缀路由应返回 200，实际为 %d", w.Code)
	}

	// 默认的 /admin 不再注册
	req = httptest.NewRequest("GET", "/admin/api/dashboard", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("默认路由应不存在，实际为 %d", w.Code)
	}
}
