package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `env:"PORT,default=8080"` // サーバーポート

	DBDriver         string `env:"DB_DRIVER,default=postgres"` // postgres / sqlite
	DatabaseURL      string `env:"DATABASE_URL"`
	PostgresUser     string `env:"POSTGRES_USER,default=postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,default=postgres"`
	PostgresDB       string `env:"POSTGRES_DB,default=storefront"`
	PostgresHost     string `env:"POSTGRES_HOST,default=localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT,default=5432"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE,default=disable"`
	SQLitePath       string `env:"SQLITE_PATH,default=storefront.db"`

	JWTSecret      string        `env:"JWT_SECRET"` // JWT署名シークレット
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL,default=24h"`

	//1単価ごとに足す固定額
	PricingSurcharge string `env:"PRICING_SURCHARGE,default=50"`

	//起動時に作る管理者（未設定なら作らない）
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"` // text / json

	GoEnv string `env:"GO_ENV,default=dev"` // dev/prod
}

// Loadは .env（あれば）と環境変数から読む
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if _, err := c.Surcharge(); err != nil {
		return err
	}
	if c.AdminUsername != "" && len(c.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json")
	}
	return nil
}

// PRICING_SURCHARGE を decimal で返す
func (c Config) Surcharge() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.PricingSurcharge)
	if err != nil {
		return decimal.Zero, fmt.Errorf("PRICING_SURCHARGE must be number: %w", err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("PRICING_SURCHARGE must be >= 0")
	}
	return d, nil
}
