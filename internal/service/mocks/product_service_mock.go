package mocks

import (
	"context"
	"testing"

	"go-gin-ecommerce/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

// NewMockProductService 測試結束時自動檢查 expectations
func NewMockProductService(t *testing.T) *MockProductService {
	m := &MockProductService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProductService) List(ctx context.Context) ([]*model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductService) Paginate(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductPage), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, params model.CreateProductParams, user *model.Identity) (*model.Product, error) {
	args := m.Called(ctx, params, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, params model.UpdateProductParams, user *model.Identity) (*model.Product, error) {
	args := m.Called(ctx, id, params, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string, user *model.Identity) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}
