// Package dashboard 计算管理面板的视图模型
// 核心是账号状态分类器：把账号的多个独立信号归并为唯一的展示状态
package dashboard

import "fmt"

// DisplayState 账号的展示状态，每次求值按固定优先级选出且只选出一个
type DisplayState int

const (
	StateExpired          DisplayState = iota // 已过期
	StateManuallyDisabled                     // 手动禁用
	StateBanned                               // 永久封禁（冷却 -1）
	StateCooldown                             // 临时冷却
	StateHealthy                              // 可用
	StateUnhealthy                            // 不可用
)

// String 返回状态的英文标识（用于日志与 JSON）
func (s DisplayState) String() string {
	switch s {
	case StateExpired:
		return "expired"
	case StateManuallyDisabled:
		return "manually_disabled"
	case StateBanned:
		return "banned"
	case StateCooldown:
		return "cooldown"
	case StateHealthy:
		return "healthy"
	case StateUnhealthy:
		return "unhealthy"
	}
	return "unknown"
}

// Action 状态允许的管理操作
type Action string

const (
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
	ActionDelete  Action = "delete"
)

// 状态颜色
const (
	colorGray       = "#9e9e9e" // 禁用/过期的中性灰
	colorRed        = "#f44336" // 危险红
	colorAmber      = "#ff9800" // 警告橙
	colorGreen      = "#4caf50" // 正常绿（文本）
	colorGreenDot   = "#34c759" // 正常绿（指示点，与文本刻意使用不同色调）
	colorRedDotUnav = "#ff3b30" // 不可用指示点专用红
)

// 行透明度
const (
	opacityDimmed = "0.5" // 终态行视觉弱化
	opacityFull   = "1"
)

// 过期状态文本（与 pool.FormatExpiration 的输出对应）
const (
	expireStatusNormal = "正常"
	expireStatusSoon   = "即将过期"
)

// Signals 分类器的输入：账号的只读信号集合
// CooldownSeconds: -1 永久封禁，0 无冷却，>0 临时冷却剩余秒数
type Signals struct {
	AccountID         string
	Disabled          bool
	IsExpired         bool
	ExpiresAt         string // 过期时间展示文本（未设置时为占位文本）
	CooldownSeconds   int
	CooldownReason    string
	IsAvailable       bool
	ConversationCount int64
	ExpireStatusText  string // 外部格式化器产出的过期状态文本
	ExpireDisplay     string // 外部格式化器产出的剩余时长展示文本
}

// Row 分类结果：一行账号的全部展示属性
type Row struct {
	AccountID         string       `json:"account_id"`
	State             DisplayState `json:"-"`
	StateName         string       `json:"state"`
	StatusText        string       `json:"status_text"`
	StatusColor       string       `json:"status_color"`
	DotColor          string       `json:"dot_color"`
	RowOpacity        string       `json:"row_opacity"`
	ExpiresAt         string       `json:"expires_at"`
	ExpireDisplay     string       `json:"expire_display"`
	ConversationCount int64        `json:"conversation_count"`
	PermittedActions  []Action     `json:"permitted_actions"`
	Placeholder       bool         `json:"placeholder,omitempty"`
}

// stateAttrs 每个状态固定的展示属性，作为数据挂在状态上，
// 避免决策与渲染各算一遍产生漂移
// 颜色为空表示该状态的颜色由子规则决定（Healthy 按过期状态文本分档）
var stateAttrs = map[DisplayState]struct {
	statusColor string
	dotColor    string
	opacity     string
	actions     []Action
}{
	StateExpired:          {colorGray, colorGray, opacityDimmed, []Action{ActionDelete}},
	StateManuallyDisabled: {colorGray, colorGray, opacityDimmed, []Action{ActionEnable, ActionDelete}},
	StateBanned:           {colorRed, colorRed, opacityDimmed, []Action{ActionEnable, ActionDelete}},
	StateCooldown:         {colorAmber, colorAmber, opacityFull, []Action{ActionDisable, ActionDelete}},
	StateHealthy:          {"", "", opacityFull, []Action{ActionDisable, ActionDelete}},
	StateUnhealthy:        {colorRed, colorRedDotUnav, opacityFull, []Action{ActionDisable, ActionDelete}},
}

// resolveState 按固定优先级决定展示状态，先命中的规则生效
// 生命周期终态（过期、手动禁用、封禁）永远压过瞬时运行态（冷却、可用性）
func resolveState(sig Signals) DisplayState {
	switch {
	case sig.IsExpired:
		return StateExpired
	case sig.Disabled:
		return StateManuallyDisabled
	case sig.CooldownSeconds == -1:
		return StateBanned
	case sig.CooldownSeconds > 0:
		return StateCooldown
	case sig.IsAvailable:
		return StateHealthy
	default:
		return StateUnhealthy
	}
}

// Classify 把账号信号映射为一行展示属性
// 纯函数：相同输入必得相同输出，对任意输入组合都有定义
func Classify(sig Signals) Row {
	state := resolveState(sig)
	attrs := stateAttrs[state]

	row := Row{
		AccountID:         sig.AccountID,
		State:             state,
		StateName:         state.String(),
		StatusColor:       attrs.statusColor,
		DotColor:          attrs.dotColor,
		RowOpacity:        attrs.opacity,
		ExpiresAt:         sig.ExpiresAt,
		ExpireDisplay:     sig.ExpireDisplay,
		ConversationCount: sig.ConversationCount,
		PermittedActions:  append([]Action(nil), attrs.actions...),
	}

	switch state {
	case StateExpired:
		row.StatusText = "过期禁用"
	case StateManuallyDisabled:
		row.StatusText = "手动禁用"
	case StateBanned:
		row.StatusText = sig.CooldownReason
	case StateCooldown:
		row.StatusText = fmt.Sprintf("%s (%ds)", sig.CooldownReason, sig.CooldownSeconds)
	case StateHealthy:
		row.StatusText = sig.ExpireStatusText
		switch sig.ExpireStatusText {
		case expireStatusNormal:
			row.StatusColor = colorGreen
			row.DotColor = colorGreenDot
		case expireStatusSoon:
			row.StatusColor = colorAmber
			row.DotColor = colorAmber
		default:
			// 未识别的过期状态文本一律按临近过期的危险档展示
			row.StatusColor = colorRed
			row.DotColor = colorRed
		}
	case StateUnhealthy:
		row.StatusText = "不可用"
	}

	return row
}

// PlaceholderRow 空账号池的占位行
func PlaceholderRow() Row {
	return Row{
		StatusText:  "暂无账户",
		RowOpacity:  opacityFull,
		Placeholder: true,
	}
}
