package pool

import (
	"sync"
	"time"

	"claude-dashboard/internal/models"
)

// PermanentCooldown GetCooldownInfo 返回的永久冷却（封禁）标记值
const PermanentCooldown = -1

// Manager 管理单个账号的运行时状态
// 持久化配置来自 models.Account，冷却与可用性只存在于内存中
type Manager struct {
	mu sync.Mutex

	account *models.Account

	cooldownUntil  time.Time // 冷却截止时间，零值表示无冷却
	cooldownPerm   bool      // 永久冷却（封禁），不随时间恢复
	cooldownReason string

	available         bool // 账号池对账号的最终可用性判定
	conversationCount int64
}

// NewManager 创建账号管理器，初始状态可用、无冷却
func NewManager(acc *models.Account) *Manager {
	return &Manager{
		account:           acc,
		available:         true,
		conversationCount: acc.ConversationCount,
	}
}

// Signals 返回账号持久化配置的一致拷贝
// 展示层通过该拷贝读取，避免与 SetDisabled 等写操作竞争
func (m *Manager) Signals() models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.account
}

// ID 返回账号 ID
func (m *Manager) ID() string {
	return m.account.ID
}

// GetCooldownInfo 返回冷却信息
// 返回值: (-1, 原因) 表示永久封禁；(0, "") 表示无冷却；(剩余秒数, 原因) 表示临时冷却
func (m *Manager) GetCooldownInfo() (int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cooldownPerm {
		return PermanentCooldown, m.cooldownReason
	}
	if m.cooldownUntil.IsZero() {
		return 0, ""
	}

	remaining := time.Until(m.cooldownUntil)
	if remaining <= 0 {
		// 冷却已自然过期，清理状态
		m.cooldownUntil = time.Time{}
		m.cooldownReason = ""
		return 0, ""
	}

	// 向上取整，避免剩余 0.5 秒时显示为 0
	seconds := int((remaining + time.Second - 1) / time.Second)
	return seconds, m.cooldownReason
}

// SetCooldown 设置临时冷却，到期自动恢复
func (m *Manager) SetCooldown(d time.Duration, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cooldownUntil = time.Now().Add(d)
	m.cooldownPerm = false
	m.cooldownReason = reason
}

// SetPermanentCooldown 设置永久冷却（封禁），仅能通过 ClearCooldown 恢复
func (m *Manager) SetPermanentCooldown(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cooldownUntil = time.Time{}
	m.cooldownPerm = true
	m.cooldownReason = reason
}

// ClearCooldown 清除冷却状态（管理员手动恢复）
func (m *Manager) ClearCooldown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cooldownUntil = time.Time{}
	m.cooldownPerm = false
	m.cooldownReason = ""
}

// IsAvailable 返回账号池的最终可用性判定
// 独立于冷却与禁用状态，可能因后端临时故障为 false
func (m *Manager) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// MarkUnavailable 标记账号不可用
func (m *Manager) MarkUnavailable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = false
}

// MarkAvailable 标记账号可用
func (m *Manager) MarkAvailable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = true
}

// ConversationCount 返回累计对话数
func (m *Manager) ConversationCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conversationCount
}

// IncrementConversations 累计对话数加一，返回新值
func (m *Manager) IncrementConversations() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversationCount++
	return m.conversationCount
}

// SetDisabled 更新内存中的禁用标记（持久化由调用方负责）
func (m *Manager) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account.Disabled = disabled
}
