package repository

import (
	"context"
	"errors"

	"github.com/jozseflehocz/BookStore/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 本の永続化（保存・取得）だけを約束。
// どの操作も1文で完結し、複数文にまたがるトランザクションは持たない。
type BookRepository interface {
	// 全件（_id昇順）
	List(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id int64) (model.Book, error)

	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) error
	Delete(ctx context.Context, id int64) error
	// 全件削除。消した件数を返す。
	DeleteAll(ctx context.Context) (int64, error)

	// 在庫の現在値を設定
	SetQuantity(ctx context.Context, id int64, quantity int64) error
	// 在庫が1以上のときだけ1減らす。減らせなければfalse。
	DecrementIfInStock(ctx context.Context, id int64) (bool, error)
}
