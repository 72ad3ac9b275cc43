package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	App       AppConfig       `mapstructure:"app"`
	Upload    UploadConfig    `mapstructure:"upload"`
	OSS       OSSConfig       `mapstructure:"oss"`
	Saved     SavedConfig     `mapstructure:"saved"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

// UploadConfig 附件存储配置
type UploadConfig struct {
	Backend string `mapstructure:"backend"` // local, oss
	Dir     string `mapstructure:"dir"`
	MaxSize int64  `mapstructure:"max_size"` // 字节
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
}

// SavedConfig 收藏集合存储配置
type SavedConfig struct {
	Backend string `mapstructure:"backend"` // memory, redis
}

type RateLimitConfig struct {
	QPS   float64 `mapstructure:"qps"`
	Burst int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

const (
	BackendLocal  = "local"
	BackendOSS    = "oss"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	switch c.Upload.Backend {
	case BackendLocal:
		if c.Upload.Dir == "" {
			return errors.New("upload.dir is required for local backend")
		}
	case BackendOSS:
		if c.OSS.Endpoint == "" || c.OSS.BucketName == "" {
			return errors.New("oss configuration is incomplete")
		}
	default:
		return errors.New("upload.backend must be 'local' or 'oss'")
	}

	switch c.Saved.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis address is required for redis saved backend")
		}
	default:
		return errors.New("saved.backend must be 'memory' or 'redis'")
	}

	if c.RateLimit.QPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("ratelimit qps and burst must be positive")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
	v.SetDefault("upload.backend", BackendLocal)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_size", 32<<20)
	v.SetDefault("saved.backend", BackendMemory)
	v.SetDefault("ratelimit.qps", 100)
	v.SetDefault("ratelimit.burst", 200)
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000", "http://localhost:8080"})
}

// Load 从指定路径读取配置，path 为空时按环境查找 configs 目录
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		env := os.Getenv("APP_ENV")
		configName := "config"
		if env != "" && env != "dev" {
			configName = "config." + env
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// server.port -> SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 兼容旧的环境变量名
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig 加载配置到 GlobalConfig，失败直接退出
func LoadConfig() {
	// .env 只是开发便利，不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	GlobalConfig = *cfg

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
