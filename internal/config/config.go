package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	commoncfg "wisefido-wellness/common/config"
	"wisefido-wellness/internal/domain"
)

// Config wisefido-wellness 配置（全部来自环境变量）
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  commoncfg.DatabaseConfig
	Redis     commoncfg.RedisConfig
	Log       struct {
		Level  string
		Format string
	}
	Inference InferenceConfig
	Assets    AssetsConfig
	Prefs     PreferencesConfig
}

// InferenceConfig 推理配置
type InferenceConfig struct {
	PredictAPIURL  string
	RemoteTimeout  time.Duration
	DefaultMode    domain.InferenceMode
	Parallel       bool
	ONNXRuntimeLib string // 为空时不启用本地推理
}

// AssetsConfig 模型工件目录
type AssetsConfig struct {
	BundleDir string // 只读工件包
	Dir       string // 可写工件目录
}

// PreferencesConfig 用户偏好
type PreferencesConfig struct {
	KeyPrefix       string
	DefaultLanguage string
}

func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// DB 不可用时回退到内存历史记录
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "wellness")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)
	cfg.Database.ConnMaxLifetime = 30 * time.Minute

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)
	cfg.Redis.DialTimeout = 2 * time.Second

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Inference.PredictAPIURL = getEnv("PREDICT_API_URL", "http://localhost:5000")
	timeout := parseInt(getEnv("PREDICT_TIMEOUT_SECONDS", "15"), 15)
	if timeout <= 0 {
		return nil, fmt.Errorf("PREDICT_TIMEOUT_SECONDS must be positive, got %d", timeout)
	}
	cfg.Inference.RemoteTimeout = time.Duration(timeout) * time.Second
	mode, err := domain.ParseInferenceMode(getEnv("INFERENCE_DEFAULT_MODE", "local"))
	if err != nil {
		return nil, fmt.Errorf("INFERENCE_DEFAULT_MODE: %w", err)
	}
	cfg.Inference.DefaultMode = mode
	cfg.Inference.Parallel = getEnv("INFERENCE_PARALLEL", "true") == "true"
	cfg.Inference.ONNXRuntimeLib = getEnv("ONNX_RUNTIME_LIB", "")

	cfg.Assets.BundleDir = getEnv("ASSETS_BUNDLE_DIR", "./assets/bundle")
	cfg.Assets.Dir = getEnv("ASSETS_DIR", "./data/models")

	cfg.Prefs.KeyPrefix = getEnv("PREFERENCE_KEY_PREFIX", "wellness:pref:")
	cfg.Prefs.DefaultLanguage = getEnv("DEFAULT_LANGUAGE", "en")

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
