package handler

import (
	"net/http"

	"github.com/jozseflehocz/BookStore/internal/middleware"
	"github.com/jozseflehocz/BookStore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

// /admin/books（ダミー投入と全削除）
type AdminBookHandler struct {
	uc        *usecase.BookUsecase
	jwtSecret string
}

// DI
func NewAdminBookHandler(uc *usecase.BookUsecase, jwtSecret string) *AdminBookHandler {
	return &AdminBookHandler{uc: uc, jwtSecret: jwtSecret}
}

// adminを登録
func (h *AdminBookHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(h.jwtSecret))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/books/dummy", h.insertDummy)
	admin.DELETE("/books", h.deleteAll)
}

func (h *AdminBookHandler) insertDummy(c echo.Context) error {
	id, err := h.uc.InsertDummyBook(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CreatedResponse{ID: id, Message: "created"})
}

// 確認なしで全件削除
func (h *AdminBookHandler) deleteAll(c echo.Context) error {
	n, err := h.uc.DeleteAllBooks(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, DeleteAllResponse{Deleted: n})
}
