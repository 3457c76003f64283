package service

import (
	"context"
	"errors"
	"time"

	"go-gin-ecommerce/internal/model"
	"go-gin-ecommerce/internal/policy"
	"go-gin-ecommerce/internal/queue"
	"go-gin-ecommerce/internal/receipt"
	"go-gin-ecommerce/internal/repository"
	apperrors "go-gin-ecommerce/pkg/app_errors"
	"go-gin-ecommerce/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartResolver 結帳時取得已解析(並清理過)的購物車
type CartResolver interface {
	GetCart(ctx context.Context, cartID string) (*model.ResolvedCart, error)
}

type TicketService interface {
	// Checkout 依購物車目前內容建立票券；不扣庫存、不清空購物車，重複呼叫會產生不同票券
	Checkout(ctx context.Context, cartID string, user *model.Identity) (*model.Ticket, error)
	// GetByCode 只有購買者本人或管理者可以查看
	GetByCode(ctx context.Context, code string, user *model.Identity) (*model.Ticket, error)
	// ListByPurchaser 呼叫者自己的票券，新的在前
	ListByPurchaser(ctx context.Context, user *model.Identity) ([]*model.Ticket, error)
	Receipt(ctx context.Context, code string, user *model.Identity) ([]byte, error)
}

type TicketServiceImpl struct {
	repo     repository.TicketRepository
	carts    CartResolver
	users    repository.UserRepository
	notifier queue.NotificationQueue
	now      func() time.Time
	newCode  func() (string, error)
}

func NewTicketService(
	repo repository.TicketRepository,
	carts CartResolver,
	users repository.UserRepository,
	notifier queue.NotificationQueue,
) TicketService {
	return &TicketServiceImpl{
		repo:     repo,
		carts:    carts,
		users:    users,
		notifier: notifier,
		now:      time.Now,
		newCode:  newTicketCode,
	}
}

func newTicketCode() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *TicketServiceImpl) Checkout(ctx context.Context, cartID string, user *model.Identity) (*model.Ticket, error) {
	if err := policy.CanMutateCartContents(user); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.issue(ctx, cart.Total(), user.Email)
	if err != nil {
		return nil, err
	}

	s.notifyPurchase(ctx, ticket)
	return ticket, nil
}

// issue 代碼衝突時重新產生一次
func (s *TicketServiceImpl) issue(ctx context.Context, amount float64, purchaser string) (*model.Ticket, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}

		ticket, err := s.repo.Create(ctx, &model.Ticket{
			Code:             code,
			PurchaseDatetime: s.now().UTC(),
			Amount:           amount,
			Purchaser:        purchaser,
		})
		if err == nil {
			return ticket, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicateTicketCode) {
			return nil, err
		}
		logger.WithComponent("service").Warn("ticket code collision, regenerating", zap.String("code", code))
		lastErr = err
	}
	return nil, lastErr
}

// notifyPurchase 通知失敗不影響結帳結果
func (s *TicketServiceImpl) notifyPurchase(ctx context.Context, ticket *model.Ticket) {
	notification := &model.Notification{
		Kind:       model.NotificationPurchaseCompleted,
		Email:      ticket.Purchaser,
		TicketCode: ticket.Code,
		Amount:     ticket.Amount,
	}
	if user, err := s.users.FindByEmail(ctx, ticket.Purchaser); err == nil {
		notification.FirstName = user.FirstName
		notification.LastName = user.LastName
	}

	if err := s.notifier.PublishNotification(ctx, notification); err != nil {
		logger.WithComponent("service").Error("failed to publish purchase notification",
			zap.String("code", ticket.Code),
			zap.Error(err))
	}
}

func (s *TicketServiceImpl) GetByCode(ctx context.Context, code string, user *model.Identity) (*model.Ticket, error) {
	ticket, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewTicket(user, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketServiceImpl) ListByPurchaser(ctx context.Context, user *model.Identity) ([]*model.Ticket, error) {
	if err := policy.RequireIdentity(user); err != nil {
		return nil, err
	}
	return s.repo.ListByPurchaser(ctx, user.Email)
}

func (s *TicketServiceImpl) Receipt(ctx context.Context, code string, user *model.Identity) ([]byte, error) {
	ticket, err := s.GetByCode(ctx, code, user)
	if err != nil {
		return nil, err
	}
	return receipt.Render(ticket)
}
