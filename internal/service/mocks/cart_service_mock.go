package mocks

import (
	"context"
	"testing"

	"go-gin-ecommerce/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockCartService struct {
	mock.Mock
}

func NewMockCartService(t *testing.T) *MockCartService {
	m := &MockCartService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCartService) cart(args mock.Arguments) (*model.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) CreateCart(ctx context.Context, user *model.Identity) (*model.Cart, error) {
	return m.cart(m.Called(ctx, user))
}

func (m *MockCartService) List(ctx context.Context) ([]*model.Cart, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Cart), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, cartID string) (*model.ResolvedCart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResolvedCart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, cartID, productID string, user *model.Identity) (*model.Cart, error) {
	return m.cart(m.Called(ctx, cartID, productID, user))
}

func (m *MockCartService) RemoveItem(ctx context.Context, cartID, productID string, user *model.Identity) (*model.Cart, error) {
	return m.cart(m.Called(ctx, cartID, productID, user))
}

func (m *MockCartService) ReplaceItems(ctx context.Context, cartID string, items []model.CartItemInput, user *model.Identity) (*model.Cart, error) {
	return m.cart(m.Called(ctx, cartID, items, user))
}

func (m *MockCartService) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int, user *model.Identity) (*model.Cart, error) {
	return m.cart(m.Called(ctx, cartID, productID, quantity, user))
}

func (m *MockCartService) ClearCart(ctx context.Context, cartID string, user *model.Identity) (*model.Cart, error) {
	return m.cart(m.Called(ctx, cartID, user))
}
