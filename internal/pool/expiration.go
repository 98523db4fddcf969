package pool

import "fmt"

// 过期状态文本
const (
	ExpireStatusNormal   = "正常"
	ExpireStatusSoon     = "即将过期"
	ExpireStatusExpired  = "已过期"
	ExpireDisplayForever = "长期有效"
)

// 剩余时长低于该小时数时视为即将过期
const expiringSoonHours = 24

// FormatExpiration 根据剩余小时数生成过期状态文本和展示文本
// remainingHours 为 nil 表示未设置过期时间
func FormatExpiration(remainingHours *float64) (statusText, display string) {
	if remainingHours == nil {
		return ExpireStatusNormal, ExpireDisplayForever
	}

	h := *remainingHours
	switch {
	case h <= 0:
		return ExpireStatusExpired, ExpireStatusExpired
	case h < expiringSoonHours:
		return ExpireStatusSoon, fmt.Sprintf("%.1f 小时", h)
	default:
		return ExpireStatusNormal, fmt.Sprintf("%.1f 天", h/24)
	}
}
