package dashboard

import (
	"fmt"
	"net/http"
	"strings"

	"claude-dashboard/internal/config"
	"claude-dashboard/internal/logger"
	"claude-dashboard/internal/pool"
)

// SettingsBlock 原样透传给前端脚本的配置块
type SettingsBlock struct {
	PathPrefix               string `json:"PATH_PREFIX"`
	APIKey                   string `json:"API_KEY"`
	BaseURL                  string `json:"BASE_URL"`
	Proxy                    string `json:"PROXY"`
	LogoURL                  string `json:"LOGO_URL"`
	ChatURL                  string `json:"CHAT_URL"`
	MaxNewSessionTries       int    `json:"MAX_NEW_SESSION_TRIES"`
	MaxRequestRetries        int    `json:"MAX_REQUEST_RETRIES"`
	MaxAccountSwitchTries    int    `json:"MAX_ACCOUNT_SWITCH_TRIES"`
	AccountFailureThreshold  int    `json:"ACCOUNT_FAILURE_THRESHOLD"`
	RateLimitCooldownSeconds int    `json:"RATE_LIMIT_COOLDOWN_SECONDS"`
	SessionCacheTTLSeconds   int    `json:"SESSION_CACHE_TTL_SECONDS"`
}

// ViewModel 管理面板的完整视图模型（与渲染无关的纯数据）
type ViewModel struct {
	CurrentURL string `json:"current_url"`

	// 安全提示：APIKeySet 决定两种互斥的横幅文案
	APIKeySet bool `json:"api_key_set"`

	// 错误提示：ErrorCount > 0 时展示错误横幅
	ErrorCount int `json:"error_count"`

	APIBaseURL  string `json:"api_base_url"`
	APIBaseV1   string `json:"api_base_v1"`
	APIEndpoint string `json:"api_endpoint"`

	AdminPathSegment string `json:"admin_path_segment"`
	APIPathSegment   string `json:"api_path_segment"`

	Rows []Row `json:"rows"`

	Settings SettingsBlock `json:"main"`
}

// BaseURLFromRequest 解析当前请求的完整 base URL
// 配置了 base_url 时原样使用（去掉尾部斜杠）；否则从请求推导，
// 优先 x-forwarded-proto / x-forwarded-host（反向代理场景），
// 缺失时回退到请求自身的 scheme 和 Host
func BaseURLFromRequest(configuredBaseURL string, req *http.Request) string {
	if configuredBaseURL != "" {
		return strings.TrimRight(configuredBaseURL, "/")
	}

	proto := req.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = req.URL.Scheme
		if proto == "" {
			if req.TLS != nil {
				proto = "https"
			} else {
				proto = "http"
			}
		}
	}

	host := req.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = req.Host
		if host == "" {
			host = req.Header.Get("Host")
		}
	}

	return fmt.Sprintf("%s://%s", proto, host)
}

// CountErrors 统计缓冲区中 ERROR/CRITICAL 级别的日志条数
// 持锁做一次完整扫描，任何退出路径都保证释放锁；
// 缺失 level 的记录不计入任何级别
func CountErrors(buf *logger.Buffer) int {
	buf.Mu.Lock()
	defer buf.Mu.Unlock()

	count := 0
	for _, rec := range buf.Records {
		if rec.Level == logger.LevelError || rec.Level == logger.LevelCritical {
			count++
		}
	}
	return count
}

// Endpoints 由路径前缀派生出的 API 端点
type Endpoints struct {
	AdminPathSegment string
	APIPathSegment   string
	APIBaseURL       string
	APIBaseV1        string
	APIEndpoint      string
}

// DeriveEndpoints 按路径前缀拼接 API 端点
// 前缀为空时管理段回退为字面量 "admin"、API 段为空
func DeriveEndpoints(currentURL, pathPrefix string) Endpoints {
	ep := Endpoints{
		AdminPathSegment: "admin",
		APIPathSegment:   "",
	}
	if pathPrefix != "" {
		ep.AdminPathSegment = pathPrefix
		ep.APIPathSegment = pathPrefix + "/"
	}

	if ep.APIPathSegment != "" {
		ep.APIBaseURL = fmt.Sprintf("%s/%s", currentURL, strings.TrimRight(ep.APIPathSegment, "/"))
	} else {
		ep.APIBaseURL = currentURL
	}
	ep.APIBaseV1 = fmt.Sprintf("%s/%sv1", currentURL, ep.APIPathSegment)
	ep.APIEndpoint = fmt.Sprintf("%s/%sv1/chat/completions", currentURL, ep.APIPathSegment)

	return ep
}

// signalsFor 从账号管理器读取分类所需的全部信号
// 持久化字段取加锁拷贝，与管理操作的并发写入互不干扰
func signalsFor(m *pool.Manager) Signals {
	acc := m.Signals()

	remaining := acc.RemainingHours()
	expireStatusText, expireDisplay := pool.FormatExpiration(remaining)

	expiresAt := "未设置"
	if acc.ExpiresAt != nil && *acc.ExpiresAt != "" {
		expiresAt = *acc.ExpiresAt
	}

	cooldownSeconds, cooldownReason := m.GetCooldownInfo()

	return Signals{
		AccountID:         acc.ID,
		Disabled:          acc.Disabled,
		IsExpired:         acc.IsExpired(),
		ExpiresAt:         expiresAt,
		CooldownSeconds:   cooldownSeconds,
		CooldownReason:    cooldownReason,
		IsAvailable:       m.IsAvailable(),
		ConversationCount: m.ConversationCount(),
		ExpireStatusText:  expireStatusText,
		ExpireDisplay:     expireDisplay,
	}
}

// BuildView 组装管理面板视图模型
// 单次同步只读遍历：不修改账号状态，也不修改日志缓冲区
func BuildView(req *http.Request, p *pool.Pool, buf *logger.Buffer, cfg *config.Config) *ViewModel {
	currentURL := BaseURLFromRequest(cfg.BaseURL, req)
	errorCount := CountErrors(buf)
	ep := DeriveEndpoints(currentURL, cfg.PathPrefix)

	managers := p.Snapshot()
	rows := make([]Row, 0, len(managers))
	for _, m := range managers {
		sig := signalsFor(m)
		switch sig.ExpireStatusText {
		case pool.ExpireStatusNormal, pool.ExpireStatusSoon, pool.ExpireStatusExpired:
		default:
			// 保留红色兜底展示，但记录一条告警便于排查未识别的状态文本
			logger.Warn("账号 %s 出现未识别的过期状态文本: %q", sig.AccountID, sig.ExpireStatusText)
		}
		rows = append(rows, Classify(sig))
	}
	if len(rows) == 0 {
		rows = append(rows, PlaceholderRow())
	}

	return &ViewModel{
		CurrentURL:       currentURL,
		APIKeySet:        cfg.APIKey != "",
		ErrorCount:       errorCount,
		APIBaseURL:       ep.APIBaseURL,
		APIBaseV1:        ep.APIBaseV1,
		APIEndpoint:      ep.APIEndpoint,
		AdminPathSegment: ep.AdminPathSegment,
		APIPathSegment:   ep.APIPathSegment,
		Rows:             rows,
		Settings: SettingsBlock{
			PathPrefix:               cfg.PathPrefix,
			APIKey:                   cfg.APIKey,
			BaseURL:                  cfg.BaseURL,
			Proxy:                    cfg.Proxy,
			LogoURL:                  cfg.LogoURL,
			ChatURL:                  cfg.ChatURL,
			MaxNewSessionTries:       cfg.MaxNewSessionTries,
			MaxRequestRetries:        cfg.MaxRequestRetries,
			MaxAccountSwitchTries:    cfg.MaxAccountSwitchTries,
			AccountFailureThreshold:  cfg.AccountFailureThreshold,
			RateLimitCooldownSeconds: cfg.RateLimitCooldownSeconds,
			SessionCacheTTLSeconds:   cfg.SessionCacheTTLSeconds,
		},
	}
}
