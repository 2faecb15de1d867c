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
	Auth     AuthConfig
	Media    MediaConfig
	Limits   LimitConfig
	Security SecurityConfig
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
		db = "newsdesk"
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

// AuthConfig 定义访问令牌的签发参数（HS256 对称密钥与有效期）。
type AuthConfig struct {
	// JWT 签名密钥；生产环境必须替换默认值
	Secret string
	// 访问令牌有效期
	AccessTokenTTL time.Duration
}

// MediaConfig 定义新闻图片的存储后端（本地磁盘或 S3 兼容对象存储）。
type MediaConfig struct {
	// 取值：local 或 minio
	Backend string
	// 本地存储目录（Backend=local 时生效）
	Dir string
	// MinIO / S3 兼容端点配置（Backend=minio 时生效）
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type LimitConfig struct {
	LoginPerMinute   int
	CommentPerMinute int
	// 时间窗口（默认 1m）
	Window time.Duration
}

type SecurityConfig struct {
	HSTS struct {
		Enabled           bool
		MaxAgeSeconds     int
		IncludeSubdomains bool
	}
}

// Load 生成配置：先使用内置默认值，再用同目录的配置文件（config.yaml/yml/json）覆盖。
// 默认：MySQL 127.0.0.1:3306 用户 root/123456；Redis 127.0.0.1:6379 无密码。
func Load() Config {
	// 1) 默认值（本地开发可直接运行）
	cfg := Config{
		Env:      "dev",
		HTTPAddr: ":8080",
		MySQL:    MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "123456", DBName: "newsdesk", Params: "parseTime=true&loc=Local&charset=utf8mb4,utf8"},
		Redis:    RedisConfig{Addr: "127.0.0.1:6379", DB: 0, Password: ""},
		Auth:     AuthConfig{Secret: "dev-secret-change-me", AccessTokenTTL: time.Hour},
		Media:    MediaConfig{Backend: "local", Dir: "media", Bucket: "newsdesk-media"},
		Limits:   LimitConfig{LoginPerMinute: 10, CommentPerMinute: 30, Window: time.Minute},
		Security: func() SecurityConfig {
			var s SecurityConfig
			s.HSTS.Enabled = true
			s.HSTS.MaxAgeSeconds = 31536000
			s.HSTS.IncludeSubdomains = true
			return s
		}(),
	}

	// 2) 配置文件覆盖（若存在）
	if path := FirstExisting("config.yaml", "config.yml", "config.json"); path != "" {
		_ = loadFromFile(path, &cfg)
	}
	return cfg
}

// FirstExisting 返回第一个存在的文件路径；都不存在则返回空串。
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
	Env      string        `yaml:"env" json:"env"`
	HTTPAddr string        `yaml:"http_addr" json:"http_addr"`
	MySQL    *fileMySQL    `yaml:"mysql" json:"mysql"`
	Redis    *fileRedis    `yaml:"redis" json:"redis"`
	Auth     *fileAuth     `yaml:"auth" json:"auth"`
	Media    *fileMedia    `yaml:"media" json:"media"`
	Limits   *fileLimits   `yaml:"limits" json:"limits"`
	Security *fileSecurity `yaml:"security" json:"security"`
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
type fileAuth struct {
	Secret         string `yaml:"secret" json:"secret"`
	AccessTokenTTL string `yaml:"access_token_ttl" json:"access_token_ttl"`
}
type fileMedia struct {
	Backend   string `yaml:"backend" json:"backend"`
	Dir       string `yaml:"dir" json:"dir"`
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	UseSSL    *bool  `yaml:"use_ssl" json:"use_ssl"`
}
type fileLimits struct {
	LoginPerMinute   int    `yaml:"login_per_minute" json:"login_per_minute"`
	CommentPerMinute int    `yaml:"comment_per_minute" json:"comment_per_minute"`
	Window           string `yaml:"window" json:"window"`
}
type fileSecurity struct {
	HSTS struct {
		Enabled           *bool `yaml:"enabled" json:"enabled"`
		MaxAge            int   `yaml:"max_age" json:"max_age"`
		IncludeSubdomains *bool `yaml:"include_subdomains" json:"include_subdomains"`
	} `yaml:"hsts" json:"hsts"`
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
	if fm.Auth != nil {
		if fm.Auth.Secret != "" {
			cfg.Auth.Secret = fm.Auth.Secret
		}
		if d, err := time.ParseDuration(fm.Auth.AccessTokenTTL); err == nil && d > 0 {
			cfg.Auth.AccessTokenTTL = d
		}
	}
	if fm.Media != nil {
		if fm.Media.Backend != "" {
			cfg.Media.Backend = fm.Media.Backend
		}
		if fm.Media.Dir != "" {
			cfg.Media.Dir = fm.Media.Dir
		}
		if fm.Media.Endpoint != "" {
			cfg.Media.Endpoint = fm.Media.Endpoint
		}
		if fm.Media.AccessKey != "" {
			cfg.Media.AccessKey = fm.Media.AccessKey
		}
		if fm.Media.SecretKey != "" {
			cfg.Media.SecretKey = fm.Media.SecretKey
		}
		if fm.Media.Bucket != "" {
			cfg.Media.Bucket = fm.Media.Bucket
		}
		if fm.Media.UseSSL != nil {
			cfg.Media.UseSSL = *fm.Media.UseSSL
		}
	}
	if fm.Limits != nil {
		if fm.Limits.LoginPerMinute != 0 {
			cfg.Limits.LoginPerMinute = fm.Limits.LoginPerMinute
		}
		if fm.Limits.CommentPerMinute != 0 {
			cfg.Limits.CommentPerMinute = fm.Limits.CommentPerMinute
		}
		if d, err := time.ParseDuration(fm.Limits.Window); err == nil && d > 0 {
			cfg.Limits.Window = d
		}
	}
	if fm.Security != nil {
		if fm.Security.HSTS.Enabled != nil {
			cfg.Security.HSTS.Enabled = *fm.Security.HSTS.Enabled
		}
		if fm.Security.HSTS.MaxAge != 0 {
			cfg.Security.HSTS.MaxAgeSeconds = fm.Security.HSTS.MaxAge
		}
		if fm.Security.HSTS.IncludeSubdomains != nil {
			cfg.Security.HSTS.IncludeSubdomains = *fm.Security.HSTS.IncludeSubdomains
		}
	}
}
