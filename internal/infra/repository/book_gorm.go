package repository

import (
	"context"
	"errors"

	"github.com/jozseflehocz/BookStore/internal/domain/model"
	repo "github.com/jozseflehocz/BookStore/internal/repository"

	"gorm.io/gorm"
)

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

var _ repo.BookRepository = (*BookGormRepository)(nil)

func (r *BookGormRepository) List(ctx context.Context) ([]model.Book, error) {
	books := []model.Book{}
	if err := r.db.WithContext(ctx).Order(model.ColumnID + " asc").Find(&books).Error; err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

// IDで本を取得
func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).Where(model.ColumnID+" = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

// IDはDB側で採番する
func (r *BookGormRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	b.ID = 0
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) Update(ctx context.Context, b model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where(model.ColumnID+" = ?", b.ID).Updates(map[string]interface{}{
		model.ColumnName:          b.Name,
		model.ColumnPrice:         b.Price,
		model.ColumnQuantity:      b.Quantity,
		model.ColumnSupplierName:  b.SupplierName,
		model.ColumnSupplierPhone: b.SupplierPhone,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BookGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where(model.ColumnID+" = ?", id).Delete(&model.Book{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件なしの全件削除（GORMのグローバル更新ガードを外す）
func (r *BookGormRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Book{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *BookGormRepository) SetQuantity(ctx context.Context, id int64, quantity int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where(model.ColumnID+" = ?", id).
		Update(model.ColumnQuantity, quantity)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りるときだけ減らす
func (r *BookGormRepository) DecrementIfInStock(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where(model.ColumnID+" = ? AND "+model.ColumnQuantity+" > ?", id, 0).
		Update(model.ColumnQuantity, gorm.Expr(model.ColumnQuantity+" - ?", 1))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}
