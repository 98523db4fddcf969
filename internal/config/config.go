package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseType 数据库类型
type DatabaseType string

const (
	DatabaseTypeSQLite DatabaseType = "sqlite"
	DatabaseTypeMySQL  DatabaseType = "mysql"
)

// SQLiteConfig SQLite 数据库配置
type SQLiteConfig struct {
	Path string `yaml:"path" json:"path"`
}

// MySQLConfig MySQL 数据库配置
type MySQLConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	Database string `yaml:"database" json:"database"`
	Charset  string `yaml:"charset" json:"charset"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type   DatabaseType `yaml:"type" json:"type"`
	SQLite SQLiteConfig `yaml:"sqlite" json:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql" json:"mysql"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// Config 应用配置
type Config struct {
	// 数据库配置
	Database DatabaseConfig

	// 服务器配置
	Server ServerConfig

	// 面板配置
	BaseURL    string // 配置的外部访问地址，为空时从请求头自动推导
	APIKey     string // API 访问密钥，为空时 API 端点公开访问
	PathPrefix string // 路由前缀，为空时管理页使用 /admin
	Proxy      string // 上游代理地址（原样透传给前端脚本）
	LogoURL    string
	ChatURL    string

	// 账号池运行参数（透传给前端脚本，本模块只消费 PathPrefix 的拼接规则）
	MaxNewSessionTries       int
	MaxRequestRetries        int
	MaxAccountSwitchTries    int
	AccountFailureThreshold  int
	RateLimitCooldownSeconds int
	SessionCacheTTLSeconds   int

	// 日志缓冲区容量（条数）
	LogBufferSize int

	// 调试模式
	Debug bool
}

// Load 返回默认配置
func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type: DatabaseTypeSQLite,
			SQLite: SQLiteConfig{
				Path: "data.sqlite3",
			},
			MySQL: MySQLConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "",
				Database: "claude-dashboard",
				Charset:  "utf8mb4",
			},
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 62311,
		},
		BaseURL:                  "",
		APIKey:                   "",
		PathPrefix:               "",
		Proxy:                    "",
		LogoURL:                  "",
		ChatURL:                  "",
		MaxNewSessionTries:       3,
		MaxRequestRetries:        3,
		MaxAccountSwitchTries:    3,
		AccountFailureThreshold:  3,
		RateLimitCooldownSeconds: 300,
		SessionCacheTTLSeconds:   180,
		LogBufferSize:            500,
		Debug:                    false,
	}
}

// YAMLFileConfig YAML 配置文件结构
type YAMLFileConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`

	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	PathPrefix string `yaml:"path_prefix"`
	Proxy      string `yaml:"proxy"`
	LogoURL    string `yaml:"logo_url"`
	ChatURL    string `yaml:"chat_url"`

	MaxNewSessionTries       int `yaml:"max_new_session_tries"`
	MaxRequestRetries        int `yaml:"max_request_retries"`
	MaxAccountSwitchTries    int `yaml:"max_account_switch_tries"`
	AccountFailureThreshold  int `yaml:"account_failure_threshold"`
	RateLimitCooldownSeconds int `yaml:"rate_limit_cooldown_seconds"`
	SessionCacheTTLSeconds   int `yaml:"session_cache_ttl_seconds"`

	LogBufferSize int  `yaml:"log_buffer_size"`
	Debug         bool `yaml:"debug"`
}

// LoadFromYAML 从 YAML 配置文件加载配置，未设置的项保留默认值
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var yamlConfig YAMLFileConfig
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}

	cfg := Load()

	if yamlConfig.Database.Type != "" {
		cfg.Database.Type = yamlConfig.Database.Type
	}
	if yamlConfig.Database.SQLite.Path != "" {
		cfg.Database.SQLite.Path = yamlConfig.Database.SQLite.Path
	}
	if yamlConfig.Database.MySQL.Host != "" {
		cfg.Database.MySQL.Host = yamlConfig.Database.MySQL.Host
	}
	if yamlConfig.Database.MySQL.Port != 0 {
		cfg.Database.MySQL.Port = yamlConfig.Database.MySQL.Port
	}
	if yamlConfig.Database.MySQL.User != "" {
		cfg.Database.MySQL.User = yamlConfig.Database.MySQL.User
	}
	if yamlConfig.Database.MySQL.Password != "" {
		cfg.Database.MySQL.Password = yamlConfig.Database.MySQL.Password
	}
	if yamlConfig.Database.MySQL.Database != "" {
		cfg.Database.MySQL.Database = yamlConfig.Database.MySQL.Database
	}
	if yamlConfig.Database.MySQL.Charset != "" {
		cfg.Database.MySQL.Charset = yamlConfig.Database.MySQL.Charset
	}
	if yamlConfig.Server.Host != "" {
		cfg.Server.Host = yamlConfig.Server.Host
	}
	if yamlConfig.Server.Port != 0 {
		cfg.Server.Port = yamlConfig.Server.Port
	}

	if yamlConfig.BaseURL != "" {
		cfg.BaseURL = yamlConfig.BaseURL
	}
	if yamlConfig.APIKey != "" {
		cfg.APIKey = yamlConfig.APIKey
	}
	if yamlConfig.PathPrefix != "" {
		cfg.PathPrefix = yamlConfig.PathPrefix
	}
	if yamlConfig.Proxy != "" {
		cfg.Proxy = yamlConfig.Proxy
	}
	if yamlConfig.LogoURL != "" {
		cfg.LogoURL = yamlConfig.LogoURL
	}
	if yamlConfig.ChatURL != "" {
		cfg.ChatURL = yamlConfig.ChatURL
	}
	if yamlConfig.MaxNewSessionTries != 0 {
		cfg.MaxNewSessionTries = yamlConfig.MaxNewSessionTries
	}
	if yamlConfig.MaxRequestRetries != 0 {
		cfg.MaxRequestRetries = yamlConfig.MaxRequestRetries
	}
	if yamlConfig.MaxAccountSwitchTries != 0 {
		cfg.MaxAccountSwitchTries = yamlConfig.MaxAccountSwitchTries
	}
	if yamlConfig.AccountFailureThreshold != 0 {
		cfg.AccountFailureThreshold = yamlConfig.AccountFailureThreshold
	}
	if yamlConfig.RateLimitCooldownSeconds != 0 {
		cfg.RateLimitCooldownSeconds = yamlConfig.RateLimitCooldownSeconds
	}
	if yamlConfig.SessionCacheTTLSeconds != 0 {
		cfg.SessionCacheTTLSeconds = yamlConfig.SessionCacheTTLSeconds
	}
	if yamlConfig.LogBufferSize != 0 {
		cfg.LogBufferSize = yamlConfig.LogBufferSize
	}
	cfg.Debug = yamlConfig.Debug

	return cfg, nil
}

// LoadConfig 加载配置文件（config.yaml 优先于 config.yml，无配置文件则使用默认值）
func LoadConfig() (*Config, error) {
	if _, err := os.Stat("config.yaml"); err == nil {
		return LoadFromYAML("config.yaml")
	}

	if _, err := os.Stat("config.yml"); err == nil {
		return LoadFromYAML("config.yml")
	}

	return Load(), nil
}
