package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jozseflehocz/BookStore/internal/domain/model"
	"github.com/jozseflehocz/BookStore/internal/platform/logger"
	repo "github.com/jozseflehocz/BookStore/internal/repository"
)

// 利用者に返すメッセージ
const (
	MsgQuantityIncreased = "quantity successfully increased"
	MsgQuantityDecreased = "quantity successfully decreased"
	MsgQuantityUnchanged = "quantity unchanged"
	MsgQuantityNegative  = "quantity can not be negative"
	MsgAmountRequired    = "you must provide a value"
	MsgBookDeleted       = "book deleted"
	MsgBookDeleteFailed  = "error with deleting book"
	MsgBookNotFound      = "book not found"
	MsgOutOfStock        = "out of stock"
	MsgUnknownBook       = "Unknown book"
	msgInvalidBookID     = "invalid book id"
	msgDBError           = "db error"
)

// 作成・編集フォームの入力
type BookInput struct {
	Name          string
	Price         int64
	Quantity      int64
	SupplierName  string
	SupplierPhone string
}

// 入力チェックの約束（実装は validator パッケージ）
type BookValidator interface {
	ValidateBook(in BookInput) error
	// 調整量の文字列を数値にする。空文字・数値以外・負数はエラー。
	ParseAmount(input string) (int64, error)
}

// 書き込み成功を購読者へ知らせる
type ChangeNotifier interface {
	Publish()
}

type noopNotifier struct{}

func (noopNotifier) Publish() {}

type BookUsecase struct {
	bookRepo  repo.BookRepository
	validator BookValidator
	notifier  ChangeNotifier
}

// DI
func NewBookUsecase(bookRepo repo.BookRepository, validator BookValidator, notifier ChangeNotifier) *BookUsecase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &BookUsecase{
		bookRepo:  bookRepo,
		validator: validator,
		notifier:  notifier,
	}
}

// カタログ1行分
type CatalogItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	InStock  bool   `json:"in_stock"`
}

type CatalogOutput struct {
	Items []CatalogItem `json:"items"`
	Total int           `json:"total"`
}

type AdjustQuantityOutput struct {
	Book    model.Book `json:"book"`
	Message string     `json:"message"`
	Changed bool       `json:"changed"`
}

func (u *BookUsecase) ListCatalog(ctx context.Context) (CatalogOutput, error) {
	books, err := u.bookRepo.List(ctx)
	if err != nil {
		logger.Error("BookUsecase.ListCatalog: repo error", err)
		return CatalogOutput{}, NewHTTPError(http.StatusInternalServerError, msgDBError)
	}

	items := make([]CatalogItem, 0, len(books))
	for _, b := range books {
		name := b.Name
		if strings.TrimSpace(name) == "" {
			name = MsgUnknownBook
		}
		items = append(items, CatalogItem{
			ID:       b.ID,
			Name:     name,
			Price:    b.Price,
			Quantity: b.Quantity,
			InStock:  b.InStock(),
		})
	}

	return CatalogOutput{Items: items, Total: len(items)}, nil
}

func (u *BookUsecase) GetBookDetail(ctx context.Context, id int64) (model.Book, error) {
	if id <= 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, msgInvalidBookID)
	}
	return u.findBook(ctx, id)
}

func (u *BookUsecase) CreateBook(ctx context.Context, in BookInput) (int64, error) {
	in = trimInput(in)
	if err := u.validator.ValidateBook(in); err != nil {
		return 0, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	b, err := u.bookRepo.Create(ctx, model.Book{
		Name:          in.Name,
		Price:         in.Price,
		Quantity:      in.Quantity,
		SupplierName:  in.SupplierName,
		SupplierPhone: in.SupplierPhone,
	})
	if err != nil {
		logger.Error("BookUsecase.CreateBook: repo error", err)
		return 0, NewHTTPError(http.StatusInternalServerError, msgDBError)
	}

	u.notifier.Publish()
	return b.ID, nil
}

// ダミーデータを1行入れる
func (u *BookUsecase) InsertDummyBook(ctx context.Context) (int64, error) {
	b, err := u.bookRepo.Create(ctx, model.DummyBook())
	if err != nil {
		logger.Error("BookUsecase.InsertDummyBook: repo error", err)
		return 0, NewHTTPError(http.StatusInternalServerError, msgDBError)
	}

	u.notifier.Publish()
	return b.ID, nil
}

func (u *BookUsecase) UpdateBook(ctx context.Context, id int64, in BookInput) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, msgInvalidBookID)
	}
	in = trimInput(in)
	if err := u.validator.ValidateBook(in); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := u.bookRepo.Update(ctx, model.Book{
		ID:            id,
		Name:          in.Name,
		Price:         in.Price,
		Quantity:      in.Quantity,
		SupplierName:  in.SupplierName,
		SupplierPhone: in.SupplierPhone,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, MsgBookNotFound)
	}
	if err != nil {
		logger.Error("BookUsecase.UpdateBook: repo error", err)
		return NewHTTPError(http.StatusInternalServerError, msgDBError)
	}

	u.notifier.Publish()
	return nil
}

// 在庫をamountInputだけ増減する。
// 結果が負になる場合や入力が空の場合は書き込まない。
func (u *BookUsecase) AdjustQuantity(ctx context.Context, id int64, amountInput string, dir model.Direction) (AdjustQuantityOutput, error) {
	if id <= 0 {
		return AdjustQuantityOutput{}, NewHTTPError(http.StatusBadRequest, msgInvalidBookID)
	}
	if !dir.Valid() {
		return AdjustQuantityOutput{}, NewHTTPError(http.StatusBadRequest, model.ErrInvalidDirection.Error())
	}

	delta, err := u.validator.ParseAmount(amountInput)
	if err != nil {
		return AdjustQuantityOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	//現在の在庫
	b, err := u.findBook(ctx, id)
	if err != nil {
		return AdjustQuantityOutput{}, err
	}

	next, err := model.AdjustQuantity(b.Quantity, delta, dir)
	if errors.Is(err, model.ErrNegativeQuantity) {
		return AdjustQuantityOutput{}, NewHTTPError(http.StatusBadRequest, MsgQuantityNegative)
	}
	if err != nil {
		return AdjustQuantityOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := u.bookRepo.SetQuantity(ctx, id, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return AdjustQuantityOutput{}, NewHTTPError(http.StatusNotFound, MsgBookNotFound)
		}
		logger.Error("BookUsecase.AdjustQuantity: repo error for book %d", err, id)
		return AdjustQuantityOutput{}, NewHTTPError(http.StatusInternalServerError, msgDBError)
	}
	b.Quantity = next

	out := AdjustQuantityOutput{Book: b, Message: MsgQuantityUnchanged}
	if delta > 0 {
		out.Changed = true
		out.Message = MsgQuantityDecreased
		if dir == model.DirectionIncrease {
			out.Message = MsgQuantityIncreased
		}
		u.notifier.Publish()
	}
	return out, nil
}

// 1冊販売（在庫が1以上のときだけ1減らす）
func (u *BookUsecase) SellOne(ctx context.Context, id int64) (model.Book, error) {
	if id <= 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, msgInvalidBookID)
	}

	ok, err := u.bookRepo.DecrementIfInStock(ctx, id)
	if err != nil {
		logger.Error("BookUsecase.SellOne: repo error for book %d", err, id)
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, msgDBError)
	}

	//読み直す。減らせなかったなら存在しないか在庫0。
	b, err := u.findBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if !ok {
		return model.Book{}, NewHTTPError(http.StatusConflict, MsgOutOfStock)
	}

	u.notifier.Publish()
	return b, nil
}

// 1件削除。IDのない（未保存の）本は削除できない。
func (u *BookUsecase) DeleteBook(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, msgInvalidBookID)
	}

	err := u.bookRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, MsgBookDeleteFailed)
	}
	if err != nil {
		logger.Error("BookUsecase.DeleteBook: repo error for book %d", err, id)
		return NewHTTPError(http.StatusInternalServerError, MsgBookDeleteFailed)
	}

	u.notifier.Publish()
	return nil
}

// 全件削除。確認はしない。
func (u *BookUsecase) DeleteAllBooks(ctx context.Context) (int64, error) {
	n, err := u.bookRepo.DeleteAll(ctx)
	if err != nil {
		logger.Error("BookUsecase.DeleteAllBooks: repo error", err)
		return 0, NewHTTPError(http.StatusInternalServerError, msgDBError)
	}

	logger.Info("deleted %d books", n)
	u.notifier.Publish()
	return n, nil
}

func (u *BookUsecase) findBook(ctx context.Context, id int64) (model.Book, error) {
	b, err := u.bookRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, NewHTTPError(http.StatusNotFound, MsgBookNotFound)
	}
	if err != nil {
		logger.Error("BookUsecase.findBook: repo error for book %d", err, id)
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, msgDBError)
	}
	return b, nil
}

func trimInput(in BookInput) BookInput {
	in.Name = strings.TrimSpace(in.Name)
	in.SupplierName = strings.TrimSpace(in.SupplierName)
	in.SupplierPhone = strings.TrimSpace(in.SupplierPhone)
	return in
}
