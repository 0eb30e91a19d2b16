// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// セッションストアの種類
const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Backend API
	APIBaseURL string
	APITimeout time.Duration // 0はタイムアウトなし

	// Session
	SessionStore  string
	DatabaseURL   string
	RedisURL      string
	SessionMaxAge int // サーバー側セッションの有効期間（秒）

	SessionCleanupInterval time.Duration // 期限切れセッションの削除間隔

	// Token cookie
	TokenCookieMaxAge int // 永続スコープのトークンCookieの有効期間（秒）

	// Rate Limit
	RateLimitLogin int // ログイン・登録の送信回数（req/min/クライアント）

	// Theme
	Theme string

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば、未設定の環境変数をそこから補う。
// 選択したセッションストアに必要な接続先が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.APIBaseURL = strings.TrimRight(getEnvString("API_BASE_URL", "http://localhost:8000"), "/")
	cfg.APITimeout = getEnvDuration("API_TIMEOUT", 0)
	cfg.SessionStore = strings.ToLower(getEnvString("SESSION_STORE", SessionStoreMemory))
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", time.Hour)
	cfg.TokenCookieMaxAge = getEnvInt("TOKEN_COOKIE_MAX_AGE", 30*86400)
	cfg.RateLimitLogin = getEnvInt("RATE_LIMIT_LOGIN", 10)
	cfg.Theme = getEnvString("THEME", "light")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:"+cfg.ServerPort)
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")

	// Required fields
	var missing []string

	switch cfg.SessionStore {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case SessionStoreRedis:
		if cfg.RedisURL == "" {
			missing = append(missing, "REDIS_URL")
		}
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE: %q (memory, postgres, redis)", cfg.SessionStore)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if cfg.Theme != "light" && cfg.Theme != "dark" {
		return nil, fmt.Errorf("unsupported THEME: %q (light, dark)", cfg.Theme)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
