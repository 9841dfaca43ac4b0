package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret  string        // JWT署名シークレット
	AccessTTL  time.Duration // アクセストークン
	RefreshTTL time.Duration // リフレッシュトークン

	GoEnv     string // development/production
	APIDomain string // APIドメイン
	FEURL     string // フロントURL（CORS）

	RedisURL       string  // 空ならメモリのレート制限
	RateLimitRPS   float64 // 1秒あたり
	RateLimitBurst int
	RateLimitWin   time.Duration // Redis固定窓

	UploadDir      string
	UploadMaxBytes int64
	BodyLimit      string // echoのBodyLimit形式（"10M"）

	LogLevel  string
	LogFormat string // json/text

	TracingEnabled bool
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// PostgresDSN はgorm用のDSN
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:     getenv("GO_ENV", "development"),
		APIDomain: os.Getenv("API_DOMAIN"),
		FEURL:     getenv("FE_URL", "*"),

		RedisURL:  os.Getenv("REDIS_URL"),
		UploadDir: getenv("UPLOAD_DIR", "uploads"),
		BodyLimit: getenv("BODY_LIMIT", "10M"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		TracingEnabled: os.Getenv("TRACING_ENABLED") == "true",
	}

	var err error
	if cfg.PostgresPort, err = atoiDefault("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = atoiDefault("RATE_LIMIT_BURST", 100); err != nil {
		return Config{}, err
	}
	maxBytes, err := atoiDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	if err != nil {
		return Config{}, err
	}
	cfg.UploadMaxBytes = int64(maxBytes)

	if cfg.RateLimitRPS, err = floatDefault("RATE_LIMIT_RPS", 10); err != nil {
		return Config{}, err
	}
	if cfg.AccessTTL, err = durationDefault("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTTL, err = durationDefault("REFRESH_TOKEN_TTL", 14*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitWin, err = durationDefault("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は必須項目とシークレット長を確認する。
func (c Config) Validate() error {
	//必須チェック
	if c.DatabaseURL == "" {
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required")
		}
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// 本番は32文字以上
	minLen := 8
	if c.IsProduction() {
		minLen = 32
	}
	if len(c.JWTSecret) < minLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minLen)
	}
	if c.IsProduction() && strings.TrimSpace(c.FEURL) == "*" {
		return fmt.Errorf("FE_URL must be set in production")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func floatDefault(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return f, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
