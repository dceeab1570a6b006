package mocks

import (
	"context"

	"github.com/jozseflehocz/BookStore/internal/domain/model"
	"github.com/jozseflehocz/BookStore/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockBookRepository struct {
	mock.Mock
}

var _ repository.BookRepository = (*MockBookRepository)(nil)

func (m *MockBookRepository) List(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(model.Book)
	return b, args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	args := m.Called(ctx, b)
	created, _ := args.Get(0).(model.Book)
	return created, args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, b model.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepository) SetQuantity(ctx context.Context, id int64, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockBookRepository) DecrementIfInStock(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
