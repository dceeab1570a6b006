package validator

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jozseflehocz/BookStore/internal/domain/model"
	"github.com/jozseflehocz/BookStore/internal/usecase"
)

var (
	ErrNameRequired          = errors.New("name required")
	ErrSupplierNameRequired  = errors.New("supplier name required")
	ErrSupplierPhoneRequired = errors.New("supplier phone required")
	ErrNegativePrice         = errors.New("price must be >= 0")
	ErrNegativeQuantity      = errors.New("quantity must be >= 0")

	// 調整量が空
	ErrAmountRequired = errors.New(usecase.MsgAmountRequired)
	// 調整量が整数でない
	ErrInvalidAmount = errors.New("invalid amount")
)

type bookValidator struct{}

// Usecaseは interface を依存注入
func NewBookValidator() usecase.BookValidator {
	return &bookValidator{}
}

// 作成・編集フォームの入力を検証
func (v *bookValidator) ValidateBook(in usecase.BookInput) error {
	// 必須チェック
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(in.SupplierName) == "" {
		return ErrSupplierNameRequired
	}
	if strings.TrimSpace(in.SupplierPhone) == "" {
		return ErrSupplierPhoneRequired
	}

	if in.Price < 0 {
		return ErrNegativePrice
	}
	if in.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// 調整量の入力を数値にする
func (v *bookValidator) ParseAmount(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrAmountRequired
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if n < 0 {
		return 0, model.ErrNegativeDelta
	}
	return n, nil
}
