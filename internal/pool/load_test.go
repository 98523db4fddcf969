package pool

import (
	"context"
	"testing"

	"claude-dashboard/internal/config"
	"claude-dashboard/internal/database"
	"claude-dashboard/internal/models"
)

// TestLoadFromDatabase 测试从数据库加载账号池并保持创建顺序
func TestLoadFromDatabase(t *testing.T) {
	cfg := config.Load()
	cfg.Database.SQLite.Path = ":memory:"

	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("创建测试数据库失败: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	accounts := []*models.Account{
		{ID: "acc-1", SessionKey: "sk", CreatedAt: "2026-01-01T00:00:00+08:00", ConversationCount: 5},
		{ID: "acc-2", SessionKey: "sk", CreatedAt: "2026-01-02T00:00:00+08:00", Disabled: true},
	}
	for _, acc := range accounts {
		acc.UpdatedAt = acc.CreatedAt
		if err := db.CreateAccount(ctx, acc); err != nil {
			t.Fatalf("创建账号失败: %v", err)
		}
	}

	p, err := LoadFromDatabase(ctx, db)
	if err != nil {
		t.Fatalf("加载账号池失败: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("账号池应有 2 个账号，实际为 %d", p.Len())
	}

	snap := p.Snapshot()
	if snap[0].ID() != "acc-1" || snap[1].ID() != "acc-2" {
		t.Errorf("账号顺序应为创建时间顺序，实际为 %s, %s", snap[0].ID(), snap[1].ID())
	}
	if snap[0].ConversationCount() != 5 {
		t.Errorf("对话计数应从持久化字段重建，实际为 %d", snap[0].ConversationCount())
	}
	if !snap[1].Signals().Disabled {
		t.Error("禁用标记应从持久化字段加载")
	}
	if !snap[1].IsAvailable() {
		t.Error("加载后的账号应默认可用（可用性是内存运行态）")
	}
}
