// Package pool 维护账号池的内存状态
// 账号按插入顺序（加载时为创建时间顺序）排列，Snapshot 返回加锁拷贝，
// 调用方（如管理面板）可以在池被并发增删时安全遍历
package pool

import (
	"context"
	"fmt"
	"sync"

	"claude-dashboard/internal/database"
	"claude-dashboard/internal/logger"
)

// Pool 账号池
type Pool struct {
	mu       sync.RWMutex
	managers []*Manager          // 插入顺序
	byID     map[string]*Manager // ID 索引
}

// New 创建空账号池
func New() *Pool {
	return &Pool{
		byID: make(map[string]*Manager),
	}
}

// LoadFromDatabase 从数据库加载全部账号（按创建时间顺序）
func LoadFromDatabase(ctx context.Context, db *database.DB) (*Pool, error) {
	accounts, err := db.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载账号列表失败: %w", err)
	}

	p := New()
	for _, acc := range accounts {
		p.Add(NewManager(acc))
	}

	logger.Info("账号池加载完成，共 %d 个账号", p.Len())
	return p, nil
}

// Add 添加账号管理器，ID 重复时覆盖旧管理器并保持原有位置
func (p *Pool) Add(m *Manager) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byID[m.ID()]; exists {
		for i, old := range p.managers {
			if old.ID() == m.ID() {
				p.managers[i] = m
				break
			}
		}
	} else {
		p.managers = append(p.managers, m)
	}
	p.byID[m.ID()] = m
}

// Get 根据 ID 获取账号管理器，不存在时返回 nil
func (p *Pool) Get(id string) *Manager {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.byID[id]
}

// Remove 移除账号，返回是否存在
func (p *Pool) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byID[id]; !exists {
		return false
	}
	delete(p.byID, id)
	for i, m := range p.managers {
		if m.ID() == id {
			p.managers = append(p.managers[:i], p.managers[i+1:]...)
			break
		}
	}
	return true
}

// Snapshot 返回当前账号管理器列表的拷贝（池顺序）
func (p *Pool) Snapshot() []*Manager {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*Manager, len(p.managers))
	copy(out, p.managers)
	return out
}

// Len 返回账号数量
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.managers)
}
