package service

import (
	"context"
	"errors"
	"fmt"

	"go-gin-ecommerce/internal/model"
	"go-gin-ecommerce/internal/policy"
	"go-gin-ecommerce/internal/repository"
	apperrors "go-gin-ecommerce/pkg/app_errors"
	"go-gin-ecommerce/pkg/logger"

	"go.uber.org/zap"
)

// CartService 所有修改都是 read-modify-write，同一台購物車的並發修改以最後寫入為準
type CartService interface {
	CreateCart(ctx context.Context, user *model.Identity) (*model.Cart, error)
	List(ctx context.Context) ([]*model.Cart, error)
	// GetCart 解析商品內容，已刪除的商品會從購物車移除
	GetCart(ctx context.Context, cartID string) (*model.ResolvedCart, error)
	AddItem(ctx context.Context, cartID, productID string, user *model.Identity) (*model.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID string, user *model.Identity) (*model.Cart, error)
	// ReplaceItems 先驗證全部項目，全部合法才寫入；數量為累加
	ReplaceItems(ctx context.Context, cartID string, items []model.CartItemInput, user *model.Identity) (*model.Cart, error)
	// SetItemQuantity 設定絕對數量，0 代表移除；商品不在購物車內時原樣回傳
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int, user *model.Identity) (*model.Cart, error)
	// ClearCart 回傳清空前的購物車
	ClearCart(ctx context.Context, cartID string, user *model.Identity) (*model.Cart, error)
}

type CartServiceImpl struct {
	repo    repository.CartRepository
	catalog ProductCatalog
}

func NewCartService(repo repository.CartRepository, catalog ProductCatalog) CartService {
	return &CartServiceImpl{
		repo:    repo,
		catalog: catalog,
	}
}

func (s *CartServiceImpl) CreateCart(ctx context.Context, user *model.Identity) (*model.Cart, error) {
	if err := policy.CanCreateCart(user); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &model.Cart{Products: []model.LineItem{}})
}

func (s *CartServiceImpl) List(ctx context.Context) ([]*model.Cart, error) {
	return s.repo.List(ctx)
}

func (s *CartServiceImpl) GetCart(ctx context.Context, cartID string) (*model.ResolvedCart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	resolved := &model.ResolvedCart{
		ID:        cart.ID,
		Products:  make([]model.ResolvedLineItem, 0, len(cart.Products)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	kept := make([]model.LineItem, 0, len(cart.Products))
	for _, item := range cart.Products {
		product, err := s.catalog.GetByID(ctx, item.ProductID)
		if errors.Is(err, apperrors.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		kept = append(kept, item)
		resolved.Products = append(resolved.Products, model.ResolvedLineItem{Product: product, Quantity: item.Quantity})
	}

	if len(kept) != len(cart.Products) {
		logger.WithComponent("service").Info("pruned deleted products from cart",
			zap.String("cart_id", cartID),
			zap.Int("removed", len(cart.Products)-len(kept)))
		if err := s.repo.ReplaceProducts(ctx, cartID, kept); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

func (s *CartServiceImpl) AddItem(ctx context.Context, cartID, productID string, user *model.Identity) (*model.Cart, error) {
	if err := policy.CanMutateCartContents(user); err != nil {
		return nil, err
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if product.IsOwnedBy(user.Email) {
		return nil, apperrors.ErrOwnProduct.WithCause("products created by the current user cannot be added to the cart")
	}

	if err := cart.Add(productID, 1); err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

func (s *CartServiceImpl) RemoveItem(ctx context.Context, cartID, productID string, user *model.Identity) (*model.Cart, error) {
	if err := policy.CanMutateCartContents(user); err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, cartID); err != nil {
		return nil, err
	}

	if err := s.repo.PullProduct(ctx, cartID, productID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, cartID)
}

func (s *CartServiceImpl) ReplaceItems(ctx context.Context, cartID string, items []model.CartItemInput, user *model.Identity) (*model.Cart, error) {
	if err := policy.CanMutateCartContents(user); err != nil {
		return nil, err
	}

	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if _, err := s.catalog.GetByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
		if item.Quantity < 1 || item.Quantity > model.MaxLineQuantity {
			return nil, apperrors.ErrInvalidQuantity.WithCause(
				fmt.Sprintf("quantity for product %s must be a number between 1 and %d", item.ProductID, model.MaxLineQuantity))
		}
	}

	// 累加超過上限時整批不寫入
	for _, item := range items {
		if err := cart.Add(item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.repo.ReplaceProducts(ctx, cartID, cart.Products); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, cartID)
}

func (s *CartServiceImpl) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int, user *model.Identity) (*model.Cart, error) {
	if err := policy.CanMutateCartContents(user); err != nil {
		return nil, err
	}
	if quantity < 0 || quantity > model.MaxLineQuantity {
		return nil, apperrors.ErrInvalidQuantity.WithCause(
			fmt.Sprintf("quantity must be a number between 0 and %d", model.MaxLineQuantity))
	}

	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	// 商品不在購物車內時不做任何修改
	if !cart.SetQuantity(productID, quantity) {
		return cart, nil
	}
	return s.save(ctx, cart)
}

func (s *CartServiceImpl) ClearCart(ctx context.Context, cartID string, user *model.Identity) (*model.Cart, error) {
	if err := policy.CanMutateCartContents(user); err != nil {
		return nil, err
	}

	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	preImage := cart.Clone()

	if err := s.repo.ReplaceProducts(ctx, cartID, []model.LineItem{}); err != nil {
		return nil, err
	}
	return preImage, nil
}

func (s *CartServiceImpl) save(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	if err := s.repo.ReplaceProducts(ctx, cart.ID, cart.Products); err != nil {
		return nil, err
	}
	return cart, nil
}
