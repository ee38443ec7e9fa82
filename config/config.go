package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Canvas   CanvasConfig   `mapstructure:"canvas"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	Timezone     string `mapstructure:"timezone"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（用于同步接口限流，连接失败时降级）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CanvasConfig Canvas LMS 上游 API 配置
type CanvasConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PageSize    int           `mapstructure:"page_size"`
}

// AuthConfig API Key 认证配置
// 固定两用户系统：api_keys 与 users 按位置一一对应
type AuthConfig struct {
	APIKeys string       `mapstructure:"api_keys"` // 逗号分隔，必须恰好两个
	Users   []UserConfig `mapstructure:"users"`
}

// UserConfig 预置用户映射
type UserConfig struct {
	CanvasID    int64  `mapstructure:"canvas_id"`
	Name        string `mapstructure:"name"`
	PhoneNumber string `mapstructure:"phone_number"`
}

// Keys 解析逗号分隔的 API Key 列表（去除空白与空项）
func (c *AuthConfig) Keys() []string {
	parts := strings.Split(c.APIKeys, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "canned")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("canvas.timeout", "10s")
	v.SetDefault("canvas.page_size", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("CANNED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
// 校验失败时进程不得启动对外服务
func (c *Config) Validate() error {
	if c.Canvas.BaseURL == "" {
		return fmt.Errorf("配置校验失败: canvas.base_url 不能为空")
	}
	if c.Canvas.AccessToken == "" {
		return fmt.Errorf("配置校验失败: canvas.access_token 不能为空")
	}
	if c.Canvas.PageSize <= 0 {
		return fmt.Errorf("配置校验失败: canvas.page_size 必须为正数")
	}
	keys := c.Auth.Keys()
	if len(keys) != 2 {
		return fmt.Errorf("配置校验失败: auth.api_keys 必须恰好包含两个 API Key，当前 %d 个", len(keys))
	}
	if len(c.Auth.Users) != 2 {
		return fmt.Errorf("配置校验失败: auth.users 必须恰好包含两个用户映射，当前 %d 个", len(c.Auth.Users))
	}
	for i, u := range c.Auth.Users {
		if u.CanvasID <= 0 {
			return fmt.Errorf("配置校验失败: auth.users[%d].canvas_id 必须为正数", i)
		}
		if u.Name == "" {
			return fmt.Errorf("配置校验失败: auth.users[%d].name 不能为空", i)
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	return nil
}
