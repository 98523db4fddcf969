package models

// Setting 表示数据库中的键值对设置
// 注意：使用 setting_key 而不是 key，因为 key 是 MySQL 保留字
type Setting struct {
	Key   string `gorm:"column:setting_key;primaryKey;size:100" json:"key"`
	Value string `gorm:"column:setting_value;type:text" json:"value"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}

// 设置键常量（settings 表中实际存储的键名）
const (
	SettingKeyAPIKey     = "api_key"
	SettingKeyBaseURL    = "base_url"
	SettingKeyProxy      = "proxy"
	SettingKeyLogoURL    = "logo_url"
	SettingKeyChatURL    = "chat_url"
	SettingKeyPathPrefix = "path_prefix"
)
