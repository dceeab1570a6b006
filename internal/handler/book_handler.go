package handler

import (
	"net/http"

	"github.com/jozseflehocz/BookStore/internal/domain/model"
	"github.com/jozseflehocz/BookStore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 作成・編集フォーム
type BookRequest struct {
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int64  `json:"quantity"`
	SupplierName  string `json:"supplier_name"`
	SupplierPhone string `json:"supplier_phone"`
}

// 在庫の増減量。入力欄の文字列をそのまま送る（空文字を区別するため）。
type QuantityAdjustRequest struct {
	Amount string `json:"amount"`
}

// /books のAPI（カタログと詳細）
type BookHandler struct {
	uc *usecase.BookUsecase
}

// DI
func NewBookHandler(uc *usecase.BookUsecase) *BookHandler {
	return &BookHandler{uc: uc}
}

func (h *BookHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/books", h.list)
	e.GET("/books/:id", h.detail)
	e.POST("/books", h.create)
	e.PUT("/books/:id", h.update)
	e.DELETE("/books/:id", h.delete)

	e.POST("/books/:id/sale", h.sell)
	e.POST("/books/:id/quantity/increase", h.increase)
	e.POST("/books/:id/quantity/decrease", h.decrease)
}

func (h *BookHandler) list(c echo.Context) error {
	out, err := h.uc.ListCatalog(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) detail(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	b, err := h.uc.GetBookDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) create(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.CreateBook(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CreatedResponse{ID: id, Message: "created"})
}

func (h *BookHandler) update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateBook(c.Request().Context(), id, req.toInput()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *BookHandler) delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteBook(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: usecase.MsgBookDeleted})
}

func (h *BookHandler) sell(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	b, err := h.uc.SellOne(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) increase(c echo.Context) error {
	return h.adjust(c, model.DirectionIncrease)
}

func (h *BookHandler) decrease(c echo.Context) error {
	return h.adjust(c, model.DirectionDecrease)
}

func (h *BookHandler) adjust(c echo.Context, dir model.Direction) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req QuantityAdjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdjustQuantity(c.Request().Context(), id, req.Amount, dir)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (r BookRequest) toInput() usecase.BookInput {
	return usecase.BookInput{
		Name:          r.Name,
		Price:         r.Price,
		Quantity:      r.Quantity,
		SupplierName:  r.SupplierName,
		SupplierPhone: r.SupplierPhone,
	}
}
