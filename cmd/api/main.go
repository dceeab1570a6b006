package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jozseflehocz/BookStore/internal/config"
	"github.com/jozseflehocz/BookStore/internal/infra/db"
	infraRepo "github.com/jozseflehocz/BookStore/internal/infra/repository"
	"github.com/jozseflehocz/BookStore/internal/notify"
	"github.com/jozseflehocz/BookStore/internal/platform/logger"
	"github.com/jozseflehocz/BookStore/internal/server"
	"github.com/jozseflehocz/BookStore/internal/usecase"
	"github.com/jozseflehocz/BookStore/internal/validator"
)

func main() {
	//設定（.envがあれば読む）
	cfg, err := config.LoadWithDotenv(".env")
	if err != nil {
		logger.Error("config", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	//DB接続とテーブル作成
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Error("db connect", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("db migrate", err)
		os.Exit(1)
	}

	//Repository（GORM実装）→ Usecase
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	hub := notify.NewHub()
	bookUC := usecase.NewBookUsecase(bookRepo, validator.NewBookValidator(), hub)

	e := server.New(bookUC, hub, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Server起動
	if err := server.Start(ctx, e, cfg.Addr()); err != nil {
		logger.Error("server", err)
		os.Exit(1)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("bye (%s)", cfg.GoEnv)
}
