package dashboard

import (
	"strings"
	"testing"
)

// TestRenderSecurityBanner 测试两种互斥的安全横幅文案
func TestRenderSecurityBanner(t *testing.T) {
	vm := &ViewModel{APIKeySet: true}
	if !strings.Contains(string(RenderSecurityBanner(vm)), "API 安全模式已启用") {
		t.Error("配置密钥时应渲染安全模式横幅")
	}

	vm.APIKeySet = false
	if !strings.Contains(string(RenderSecurityBanner(vm)), "API 密钥未设置") {
		t.Error("未配置密钥时应渲染警告横幅")
	}
}

// TestRenderErrorBanner 测试错误横幅只在有错误时渲染并携带计数
func TestRenderErrorBanner(t *testing.T) {
	vm := &ViewModel{ErrorCount: 0}
	if RenderErrorBanner(vm) != "" {
		t.Error("无错误时不应渲染错误横幅")
	}

	vm.ErrorCount = 3
	html := string(RenderErrorBanner(vm))
	if !strings.Contains(html, "检测到 3 条错误日志") {
		t.Errorf("错误横幅应携带计数，实际为: %s", html)
	}
}

// TestRenderAccountTable 测试表格渲染按状态输出对应的操作按钮
func TestRenderAccountTable(t *testing.T) {
	sig := healthySignals()
	sig.Disabled = true
	vm := &ViewModel{Rows: []Row{Classify(sig)}}

	html := string(RenderAccountTable(vm))
	if !strings.Contains(html, "enableAccount") {
		t.Error("禁用账号的行应有启用按钮")
	}
	if !strings.Contains(html, "deleteAccount") {
		t.Error("禁用账号的行应有删除按钮")
	}
	if strings.Contains(html, "disableAccount") {
		t.Error("禁用账号的行不应有禁用按钮")
	}
	if !strings.Contains(html, "opacity: 0.5") {
		t.Error("禁用账号的行应弱化展示")
	}
}

// TestRenderAccountTable_Placeholder 测试空池渲染占位行
func TestRenderAccountTable_Placeholder(t *testing.T) {
	vm := &ViewModel{Rows: []Row{PlaceholderRow()}}
	if !strings.Contains(string(RenderAccountTable(vm)), "暂无账户") {
		t.Error("占位行应渲染 暂无账户 文案")
	}
}
