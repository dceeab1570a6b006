package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jozseflehocz/BookStore/internal/notify"
	"github.com/jozseflehocz/BookStore/internal/platform/logger"
	"github.com/jozseflehocz/BookStore/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const wsWriteTimeout = 5 * time.Second

// /ws/books: 接続時とテーブル変更のたびにカタログ全体を送る。
// 送るのは常に最新の一覧なので、古い一覧は新しい一覧で置き換えればよい。
type CatalogWSHandler struct {
	uc       *usecase.BookUsecase
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

func NewCatalogWSHandler(uc *usecase.BookUsecase, hub *notify.Hub) *CatalogWSHandler {
	return &CatalogWSHandler{
		uc:  uc,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *CatalogWSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/books", h.serve)
}

func (h *CatalogWSHandler) serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade が既にエラーを書いている
		logger.Warn("ws upgrade failed: %v", err)
		return nil
	}
	defer conn.Close()

	sub := h.hub.Subscribe()
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	//クライアントからの切断を検知する
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.push(ctx, conn); err != nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.C:
			if err := h.push(ctx, conn); err != nil {
				return nil
			}
		}
	}
}

func (h *CatalogWSHandler) push(ctx context.Context, conn *websocket.Conn) error {
	out, err := h.uc.ListCatalog(ctx)
	if err != nil {
		he, _ := usecase.AsHTTPError(err)
		msg := "internal error"
		if he != nil {
			msg = he.Message
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(ErrorResponse{Error: msg})
	}

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(out); err != nil {
		logger.Debug("ws write failed: %v", err)
		return err
	}
	return nil
}
