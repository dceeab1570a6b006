package server

import (
	"net/http"

	"github.com/jozseflehocz/BookStore/internal/handler"

	"github.com/labstack/echo/v4"
)

// ルートをまとめて登録する
func RegisterRoutes(
	e *echo.Echo,
	bookH *handler.BookHandler,
	adminH *handler.AdminBookHandler,
	wsH *handler.CatalogWSHandler,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	bookH.RegisterRoutes(e)
	adminH.RegisterRoutes(e)
	wsH.RegisterRoutes(e)
}
