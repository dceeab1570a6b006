package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jozseflehocz/BookStore/internal/handler"
	"github.com/jozseflehocz/BookStore/internal/notify"
	"github.com/jozseflehocz/BookStore/internal/platform/logger"
	"github.com/jozseflehocz/BookStore/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はミドルウェアとルートを載せたechoを返す
func New(uc *usecase.BookUsecase, hub *notify.Hub, jwtSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = logger.Std()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("%s %s %d %s id=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			logger.Info("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	RegisterRoutes(e,
		handler.NewBookHandler(uc),
		handler.NewAdminBookHandler(uc, jwtSecret),
		handler.NewCatalogWSHandler(uc, hub),
	)
	return e
}

// ctxが終わるまでサーバーを動かし、終わったら停止する
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
