package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL string // Postgres DSN（空ならSQLite）
	DBPath      string // SQLiteファイル（bookstore.db）

	JWTSecret string // JWT署名シークレット（/admin用）

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error
}

// .envがあれば読み込んでからLoadする
func LoadWithDotenv(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return Load()
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBPath:      getenv("BOOKSTORE_DB_PATH", "bookstore.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	// ":8080" でも "8080" でも受ける
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := mustAtoi("PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("LOG_LEVEL must be one of debug/info/warn/error")
	}

	return cfg, nil
}

// ":8080" 形式のアドレス
func (c Config) Addr() string {
	return ":" + c.Port
}

func mustAtoi(key string, v string) (int, error) {
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
