package db

import (
	"fmt"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		//ユニーク違反を gorm.ErrDuplicatedKey に揃える
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.GoEnv)),
	}

	switch cfg.DBDriver {
	case "sqlite":
		log.WithField("path", cfg.SQLitePath).Info("opening sqlite database")
		return OpenSQLite(cfg.SQLitePath, gcfg)
	case "postgres", "":
		// DATABASE_URL があれば最優先で使う
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
			)
		}
		log.WithField("host", cfg.PostgresHost).Info("opening postgres database")
		return gorm.Open(postgres.Open(dsn), gcfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenSQLite はSQLiteを開く（ローカル実行とテスト用）。
// 接続は1本に絞る（:memory: は接続ごとに別DBになるため）
func OpenSQLite(dsn string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		}
	}

	gdb, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return gdb, nil
}

// Migrate はテーブルを作成・更新する。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.WishlistItem{},
		&model.Order{},
		&model.Feedback{},
		&model.AuditLog{},
	)
}

func gormLogLevel(goEnv string) logger.LogLevel {
	if goEnv == "dev" {
		return logger.Info
	}
	return logger.Warn
}
