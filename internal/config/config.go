package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config 保存进程级配置（仅使用配置文件或内置默认值）。
// 字段提供开发友好的默认值；生产环境请在 config.yaml 中覆盖。
type Config struct {
	Env      string
	HTTPAddr string
	MySQL    MySQLConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Media    MediaConfig
	Auth     AuthConfig
	Limits   LimitConfig
	Page     PageConfig
}

type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Params   string
}

func (m MySQLConfig) DSN() string {
	port := m.Port
	if port == 0 {
		port = 3306
	}
	host := m.Host
	if host == "" {
		host = "127.0.0.1"
	}
	db := m.DBName
	if db == "" {
		db = "newsroom"
	}
	params := m.Params
	if params == "" {
		params = "parseTime=true&loc=Local&charset=utf8mb4,utf8"
	}
	// 注意：Password 可能为空（本地无密码开发），生产强烈建议设置强密码
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", m.User, m.Password, host, port, db, params)
}

func (m MySQLConfig) DSNMasked() string {
	masked := m
	if masked.Password != "" {
		masked.Password = "******"
	}
	return masked.DSN()
}

type RedisConfig struct {
	Addr     string
	DB       int
	Password string
}

// CacheConfig 控制读接口响应缓存。
type CacheConfig struct {
	// 缓存条目过期时间；读接口在该窗口内可能返回写入前的旧数据
	TTL time.Duration
}

// MediaConfig 控制上传文件的落盘位置。
type MediaConfig struct {
	// 媒体文件根目录，新闻图片保存在 <Root>/news/ 下
	Root string
}

type AuthConfig struct {
	// HS256 签名密钥；生产必须覆盖
	JWTSecret string
	// 访问令牌有效期
	TokenTTL time.Duration
	// 邮箱验证码有效期
	VerifyCodeTTL time.Duration
}

type LimitConfig struct {
	LoginPerMinute int
	// 时间窗口（默认 1m）
	Window time.Duration
}

// PageConfig 为列表接口的分页默认值与上限。
type PageConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// Load 生成配置：先使用内置默认值，再用同目录的配置文件（config.yaml/yml/json）覆盖。
// 默认：MySQL 127.0.0.1:3306 用户 root/123456；Redis 127.0.0.1:6379 无密码。
func Load() Config {
	// 1) 默认值（本地开发可直接运行）
	cfg := Config{
		Env:      "dev",
		HTTPAddr: ":8080",
		MySQL:    MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "123456", DBName: "newsroom", Params: "parseTime=true&loc=Local&charset=utf8mb4,utf8"},
		Redis:    RedisConfig{Addr: "127.0.0.1:6379", DB: 0, Password: ""},
		Cache:    CacheConfig{TTL: 300 * time.Second},
		Media:    MediaConfig{Root: "media"},
		Auth:     AuthConfig{JWTSecret: "dev-jwt-secret-change-me", TokenTTL: time.Hour, VerifyCodeTTL: 15 * time.Minute},
		Limits:   LimitConfig{LoginPerMinute: 10, Window: time.Minute},
		Page:     PageConfig{DefaultLimit: 10, MaxLimit: 100},
	}

	// 2) 配置文件覆盖（若存在）
	if path := FirstExisting("config.yaml", "config.yml", "config.json"); path != "" {
		_ = loadFromFile(path, &cfg)
	}
	return cfg
}

// 配置文件格式：YAML 或 JSON。仅非零值会覆盖现有字段。
func loadFromFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var fm fileModel
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else if ext == ".json" || ext == "" {
		if err := json.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else {
		return errors.New("unsupported config file format")
	}
	fm.apply(cfg)
	return nil
}

// --- 配置文件模型与合并逻辑 ---

type fileModel struct {
	Env      string     `yaml:"env" json:"env"`
	HTTPAddr string     `yaml:"http_addr" json:"http_addr"`
	MySQL    *fileMySQL `yaml:"mysql" json:"mysql"`
	Redis    *fileRedis `yaml:"redis" json:"redis"`
	Cache    *fileCache `yaml:"cache" json:"cache"`
	Media    *fileMedia `yaml:"media" json:"media"`
	Auth     *fileAuth  `yaml:"auth" json:"auth"`
	Limits   *fileLimit `yaml:"limits" json:"limits"`
	Page     *filePage  `yaml:"page" json:"page"`
}

type fileMySQL struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	DBName   string `yaml:"db" json:"db"`
	Params   string `yaml:"params" json:"params"`
}
type fileRedis struct {
	Addr     string `yaml:"addr" json:"addr"`
	DB       int    `yaml:"db" json:"db"`
	Password string `yaml:"password" json:"password"`
}
type fileCache struct {
	TTL string `yaml:"ttl" json:"ttl"`
}
type fileMedia struct {
	Root string `yaml:"root" json:"root"`
}
type fileAuth struct {
	JWTSecret     string `yaml:"jwt_secret" json:"jwt_secret"`
	TokenTTL      string `yaml:"token_ttl" json:"token_ttl"`
	VerifyCodeTTL string `yaml:"verify_code_ttl" json:"verify_code_ttl"`
}
type fileLimit struct {
	LoginPerMinute int    `yaml:"login_per_minute" json:"login_per_minute"`
	Window         string `yaml:"window" json:"window"`
}
type filePage struct {
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`
	MaxLimit     int `yaml:"max_limit" json:"max_limit"`
}

func (fm *fileModel) apply(cfg *Config) {
	if fm.Env != "" {
		cfg.Env = fm.Env
	}
	if fm.HTTPAddr != "" {
		cfg.HTTPAddr = fm.HTTPAddr
	}
	if fm.MySQL != nil {
		if fm.MySQL.Host != "" {
			cfg.MySQL.Host = fm.MySQL.Host
		}
		if fm.MySQL.Port != 0 {
			cfg.MySQL.Port = fm.MySQL.Port
		}
		if fm.MySQL.User != "" {
			cfg.MySQL.User = fm.MySQL.User
		}
		if fm.MySQL.Password != "" {
			cfg.MySQL.Password = fm.MySQL.Password
		}
		if fm.MySQL.DBName != "" {
			cfg.MySQL.DBName = fm.MySQL.DBName
		}
		if fm.MySQL.Params != "" {
			cfg.MySQL.Params = fm.MySQL.Params
		}
	}
	if fm.Redis != nil {
		if fm.Redis.Addr != "" {
			cfg.Redis.Addr = fm.Redis.Addr
		}
		if fm.Redis.DB != 0 {
			cfg.Redis.DB = fm.Redis.DB
		}
		if fm.Redis.Password != "" {
			cfg.Redis.Password = fm.Redis.Password
		}
	}
	if fm.Cache != nil {
		if fm.Cache.TTL != "" {
			if d, err := time.ParseDuration(fm.Cache.TTL); err == nil {
				cfg.Cache.TTL = d
			}
		}
	}
	if fm.Media != nil {
		if fm.Media.Root != "" {
			cfg.Media.Root = fm.Media.Root
		}
	}
	if fm.Auth != nil {
		if fm.Auth.JWTSecret != "" {
			cfg.Auth.JWTSecret = fm.Auth.JWTSecret
		}
		if fm.Auth.TokenTTL != "" {
			if d, err := time.ParseDuration(fm.Auth.TokenTTL); err == nil {
				cfg.Auth.TokenTTL = d
			}
		}
		if fm.Auth.VerifyCodeTTL != "" {
			if d, err := time.ParseDuration(fm.Auth.VerifyCodeTTL); err == nil {
				cfg.Auth.VerifyCodeTTL = d
			}
		}
	}
	if fm.Limits != nil {
		if fm.Limits.LoginPerMinute != 0 {
			cfg.Limits.LoginPerMinute = fm.Limits.LoginPerMinute
		}
		if fm.Limits.Window != "" {
			if d, err := time.ParseDuration(fm.Limits.Window); err == nil {
				cfg.Limits.Window = d
			}
		}
	}
	if fm.Page != nil {
		if fm.Page.DefaultLimit != 0 {
			cfg.Page.DefaultLimit = fm.Page.DefaultLimit
		}
		if fm.Page.MaxLimit != 0 {
			cfg.Page.MaxLimit = fm.Page.MaxLimit
		}
	}
}

// FirstExisting 按顺序返回第一个存在的文件路径；若都不存在则返回空字符串。
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
