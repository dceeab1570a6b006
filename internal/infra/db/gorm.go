package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/jozseflehocz/BookStore/internal/config"
	"github.com/jozseflehocz/BookStore/internal/domain/model"
	"github.com/jozseflehocz/BookStore/internal/platform/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

// Connect はDBに接続して *gorm.DB を返す。
// DATABASE_URL があればPostgres、なければ埋め込みのSQLiteファイルを使う。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	if cfg.DatabaseURL != "" {
		gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)

		logger.Info("connected to postgres")
		return gdb, nil
	}

	gdb, err := OpenSQLite(cfg.DBPath, gcfg)
	if err != nil {
		return nil, err
	}
	logger.Info("opened sqlite database %s", cfg.DBPath)
	return gdb, nil
}

// SQLiteファイルを開く。書き込みはエンジン側で直列化されるので接続は1本だけ。
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)"
	}

	gdb, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// Migrate はbooksテーブルを作成し、スキーマバージョンを記録する。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&model.Book{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	//バージョン管理はSQLiteのみ（user_version）
	if gdb.Dialector.Name() != "sqlite" {
		return nil
	}

	current, err := SchemaVersion(gdb)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case current == model.SchemaVersion:
		return nil
	case current > model.SchemaVersion:
		return fmt.Errorf("schema version %d is newer than supported %d", current, model.SchemaVersion)
	}

	// 0 は新規作成。1未満からの移行は今のところ何もしない。
	if err := gdb.Exec(fmt.Sprintf("PRAGMA user_version = %d", model.SchemaVersion)).Error; err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// SQLiteの現在のスキーマバージョン
func SchemaVersion(gdb *gorm.DB) (int, error) {
	var v int
	err := gdb.Raw("PRAGMA user_version").Scan(&v).Error
	return v, err
}
