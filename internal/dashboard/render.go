package dashboard

// 视图模型到 HTML 片段的薄渲染层
// 只做模板填充，所有判断都已在视图模型中完成；可整体替换为其他模板方案

import (
	"html/template"
	"strings"
)

const securityBannerOK = `
<div class="alert alert-success">
    <div class="alert-icon">🔒</div>
    <div class="alert-content">
        <strong>API 安全模式已启用</strong>
        <div class="alert-desc">API 端点需要携带 Authorization 密钥才能访问。</div>
    </div>
</div>
`

const securityBannerWarn = `
<div class="alert alert-warning">
    <div class="alert-icon">⚠️</div>
    <div class="alert-content">
        <strong>API 密钥未设置</strong>
        <div class="alert-desc">API 端点当前允许公开访问。建议配置 <code>api_key</code> 以提升安全性。</div>
    </div>
</div>
`

var errorBannerTmpl = template.Must(template.New("errorBanner").Parse(`
<div class="alert alert-error">
    <div class="alert-icon">🚨</div>
    <div class="alert-content">
        <strong>检测到 {{.}} 条错误日志</strong>
        <a href="/public/log/html" class="alert-link">查看详情 &rarr;</a>
    </div>
</div>
`))

var accountTableTmpl = template.Must(template.New("accountTable").Parse(`
<table class="account-table">
    <thead>
        <tr>
            <th>账号ID</th>
            <th>状态</th>
            <th>过期时间</th>
            <th>剩余时长</th>
            <th>累计对话</th>
            <th style="text-align: center;">操作</th>
        </tr>
    </thead>
    <tbody>
    {{- range .}}
    {{- if .Placeholder}}
        <tr><td colspan="6" style="text-align: center; color: #6b6b6b; padding: 24px;">暂无账户</td></tr>
    {{- else}}
        <tr style="opacity: {{.RowOpacity}};">
            <td data-label="账号ID">
                <span class="status-dot" style="background-color: {{.DotColor}};"></span>
                <span class="account-id">{{.AccountID}}</span>
            </td>
            <td data-label="状态">
                <span class="status-text" style="color: {{.StatusColor}};">{{.StatusText}}</span>
            </td>
            <td data-label="过期时间">
                <span class="font-mono expires-at">{{.ExpiresAt}}</span>
            </td>
            <td data-label="剩余时长">
                <span class="expire-display" style="color: {{.StatusColor}};">{{.ExpireDisplay}}</span>
            </td>
            <td data-label="累计对话">
                <span class="conversation-count">{{.ConversationCount}}</span>
            </td>
            <td data-label="操作">
                <div class="actions">
                {{- $id := .AccountID}}
                {{- range .PermittedActions}}
                {{- if eq . "enable"}}
                    <button onclick="enableAccount('{{$id}}')" class="btn-sm btn-enable" title="启用">启用</button>
                {{- else if eq . "disable"}}
                    <button onclick="disableAccount('{{$id}}')" class="btn-sm btn-disable" title="禁用">禁用</button>
                {{- else if eq . "delete"}}
                    <button onclick="deleteAccount('{{$id}}')" class="btn-sm btn-delete" title="删除">删除</button>
                {{- end}}
                {{- end}}
                </div>
            </td>
        </tr>
    {{- end}}
    {{- end}}
    </tbody>
</table>
`))

// RenderSecurityBanner 渲染 API 密钥状态横幅（两种互斥文案）
func RenderSecurityBanner(vm *ViewModel) template.HTML {
	if vm.APIKeySet {
		return template.HTML(securityBannerOK)
	}
	return template.HTML(securityBannerWarn)
}

// RenderErrorBanner 渲染错误日志横幅，无错误时返回空串
func RenderErrorBanner(vm *ViewModel) template.HTML {
	if vm.ErrorCount <= 0 {
		return ""
	}
	var sb strings.Builder
	if err := errorBannerTmpl.Execute(&sb, vm.ErrorCount); err != nil {
		return ""
	}
	return template.HTML(sb.String())
}

// RenderAccountTable 渲染账号表格
func RenderAccountTable(vm *ViewModel) template.HTML {
	var sb strings.Builder
	if err := accountTableTmpl.Execute(&sb, vm.Rows); err != nil {
		return ""
	}
	return template.HTML(sb.String())
}
