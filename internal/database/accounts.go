package database

import (
	"context"

	"claude-dashboard/internal/logger"
	"claude-dashboard/internal/models"

	"gorm.io/gorm"
)

// CreateAccount 创建新账号
func (db *DB) CreateAccount(ctx context.Context, acc *models.Account) error {
	logger.Debug("数据库: 创建账号 - ID: %s, 标签: %v", acc.ID, acc.Label)

	if err := db.gorm.WithContext(ctx).Create(acc).Error; err != nil {
		logger.Debug("数据库: 创建账号失败 - ID: %s, 错误: %v", acc.ID, err)
		return err
	}
	return nil
}

// GetAccount 根据 ID 获取账号，不存在时返回 (nil, nil)
func (db *DB) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	err := db.gorm.WithContext(ctx).Where("id = ?", id).First(&acc).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// ListAccounts 按创建时间顺序列出全部账号
func (db *DB) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	err := db.gorm.WithContext(ctx).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccountDisabled 更新账号的禁用状态
func (db *DB) UpdateAccountDisabled(ctx context.Context, id string, disabled bool) error {
	logger.Debug("数据库: 更新账号禁用状态 - ID: %s, disabled: %v", id, disabled)

	return db.gorm.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"disabled":   disabled,
			"updated_at": models.CurrentTime(),
		}).Error
}

// UpdateAccountConversationCount 更新账号的累计对话数
func (db *DB) UpdateAccountConversationCount(ctx context.Context, id string, count int64) error {
	return db.gorm.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"conversation_count": count,
			"updated_at":         models.CurrentTime(),
		}).Error
}

// DeleteAccount 删除账号
func (db *DB) DeleteAccount(ctx context.Context, id string) error {
	logger.Debug("数据库: 删除账号 - ID: %s", id)

	return db.gorm.WithContext(ctx).Where("id = ?", id).Delete(&models.Account{}).Error
}
