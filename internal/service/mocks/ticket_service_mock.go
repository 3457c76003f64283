package mocks

import (
	"context"
	"testing"

	"go-gin-ecommerce/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTicketService struct {
	mock.Mock
}

func NewMockTicketService(t *testing.T) *MockTicketService {
	m := &MockTicketService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTicketService) Checkout(ctx context.Context, cartID string, user *model.Identity) (*model.Ticket, error) {
	args := m.Called(ctx, cartID, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) GetByCode(ctx context.Context, code string, user *model.Identity) (*model.Ticket, error) {
	args := m.Called(ctx, code, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) ListByPurchaser(ctx context.Context, user *model.Identity) ([]*model.Ticket, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *MockTicketService) Receipt(ctx context.Context, code string, user *model.Identity) ([]byte, error) {
	args := m.Called(ctx, code, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
