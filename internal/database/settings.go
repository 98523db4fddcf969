package database

import (
	"context"

	"claude-dashboard/internal/config"
	"claude-dashboard/internal/models"

	"gorm.io/gorm/clause"
)

// ApplySettings 从 settings 表加载持久化设置并覆盖到配置上
// 数据库中的值优先于配置文件，未存储的键保留配置文件/默认值
func (db *DB) ApplySettings(ctx context.Context, cfg *config.Config) error {
	var settingsList []models.Setting
	if err := db.gorm.WithContext(ctx).Find(&settingsList).Error; err != nil {
		return err
	}

	for _, s := range settingsList {
		switch s.Key {
		case models.SettingKeyAPIKey:
			cfg.APIKey = s.Value
		case models.SettingKeyBaseURL:
			cfg.BaseURL = s.Value
		case models.SettingKeyProxy:
			cfg.Proxy = s.Value
		case models.SettingKeyLogoURL:
			cfg.LogoURL = s.Value
		case models.SettingKeyChatURL:
			cfg.ChatURL = s.Value
		case models.SettingKeyPathPrefix:
			cfg.PathPrefix = s.Value
		}
	}

	return nil
}

// SaveSetting 写入单个设置（存在则更新）
func (db *DB) SaveSetting(ctx context.Context, key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return db.gorm.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
		}).
		Create(&setting).Error
}
