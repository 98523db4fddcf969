package models

import (
	"time"
)

// Account 账号池中一个 Claude 账号的持久化配置
// 注意：运行时信号（冷却、可用性、累计对话）不落库，由 pool 包在内存中维护，
// 重启后从这里的持久化字段重建
type Account struct {
	ID                string  `gorm:"primaryKey;size:36" json:"id"`
	Label             *string `gorm:"size:255" json:"label"`
	SessionKey        string  `gorm:"column:session_key;type:text" json:"session_key"`
	Disabled          bool    `gorm:"default:false;index" json:"disabled"`
	ExpiresAt         *string `gorm:"column:expires_at;size:50" json:"expires_at"`
	ConversationCount int64   `gorm:"column:conversation_count;default:0" json:"conversation_count"`
	CreatedAt         string  `gorm:"column:created_at;size:50;index" json:"created_at"`
	UpdatedAt         string  `gorm:"column:updated_at;size:50" json:"updated_at"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}

// TimeFormat 时间格式（带时区）
const TimeFormat = "2006-01-02T15:04:05Z07:00"

// CurrentTime 返回当前本地时间的格式字符串
func CurrentTime() string {
	return time.Now().Format(TimeFormat)
}

// IsExpired 判断账号是否已过期（expires_at 为空视为长期有效）
func (a *Account) IsExpired() bool {
	h := a.RemainingHours()
	return h != nil && *h <= 0
}

// RemainingHours 距离过期的剩余小时数，未设置过期时间时返回 nil
// expires_at 解析失败同样视为未设置，不作为错误
func (a *Account) RemainingHours() *float64 {
	if a.ExpiresAt == nil || *a.ExpiresAt == "" {
		return nil
	}
	t, err := time.Parse(TimeFormat, *a.ExpiresAt)
	if err != nil {
		return nil
	}
	h := time.Until(t).Hours()
	return &h
}

// AccountCreate 表示创建新账号的数据
type AccountCreate struct {
	Label      *string `json:"label"`
	SessionKey string  `json:"session_key" binding:"required"`
	ExpiresAt  *string `json:"expires_at"`
	Disabled   *bool   `json:"disabled"`
}

// AccountUpdate 表示更新账号的数据
type AccountUpdate struct {
	Label      *string `json:"label"`
	SessionKey *string `json:"session_key"`
	ExpiresAt  *string `json:"expires_at"`
	Disabled   *bool   `json:"disabled"`
}
