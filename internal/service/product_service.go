package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-gin-ecommerce/internal/cache"
	"go-gin-ecommerce/internal/model"
	"go-gin-ecommerce/internal/policy"
	"go-gin-ecommerce/internal/queue"
	"go-gin-ecommerce/internal/repository"
	apperrors "go-gin-ecommerce/pkg/app_errors"
	"go-gin-ecommerce/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	cacheTimeout     = time.Second
	lookupTimeout    = 5 * time.Second
)

// ProductCatalog 購物車與結帳只需要依 id 取得商品
type ProductCatalog interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

type ProductService interface {
	ProductCatalog
	List(ctx context.Context) ([]*model.Product, error)
	Paginate(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error)
	Create(ctx context.Context, params model.CreateProductParams, user *model.Identity) (*model.Product, error)
	Update(ctx context.Context, id string, params model.UpdateProductParams, user *model.Identity) (*model.Product, error)
	Delete(ctx context.Context, id string, user *model.Identity) error
}

type ProductServiceImpl struct {
	repo     repository.ProductRepository
	users    repository.UserRepository
	cache    cache.ProductCache
	notifier queue.NotificationQueue
	sfg      singleflight.Group
}

func NewProductService(
	repo repository.ProductRepository,
	users repository.UserRepository,
	cache cache.ProductCache,
	notifier queue.NotificationQueue,
) ProductService {
	return &ProductServiceImpl{
		repo:     repo,
		users:    users,
		cache:    cache,
		notifier: notifier,
	}
}

func (s *ProductServiceImpl) List(ctx context.Context) ([]*model.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductServiceImpl) Paginate(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error) {
	if query.Page < 1 {
		return nil, apperrors.ErrInvalidPage.WithCause(fmt.Sprintf("page %d must be greater than 0", query.Page))
	}
	if query.Limit < 1 {
		query.Limit = defaultPageLimit
	}
	if query.Limit > maxPageLimit {
		query.Limit = maxPageLimit
	}
	switch query.Sort {
	case model.ProductSortNone, model.ProductSortAsc, model.ProductSortDesc:
	default:
		query.Sort = model.ProductSortNone
	}

	docs, total, err := s.repo.Paginate(ctx, query)
	if err != nil {
		return nil, err
	}

	totalPages := (total + int64(query.Limit) - 1) / int64(query.Limit)
	if total > 0 && int64(query.Page) > totalPages {
		return nil, apperrors.ErrInvalidPage.WithCause(
			fmt.Sprintf("page %d exceeds total pages %d", query.Page, totalPages))
	}
	return model.NewProductPage(docs, total, query.Page, query.Limit), nil
}

// GetByID 先讀快取，同一商品的並發 miss 只會打一次資料庫
func (s *ProductServiceImpl) GetByID(ctx context.Context, id string) (*model.Product, error) {
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		// 結果由所有等待者共用，不能隨第一個請求取消
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.WithComponent("service").Warn("product cache get failed", zap.String("product_id", id), zap.Error(err))
		}

		product, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, product); err != nil {
			logger.WithComponent("service").Warn("product cache set failed", zap.String("product_id", id), zap.Error(err))
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Product), nil
}

func (s *ProductServiceImpl) Create(ctx context.Context, params model.CreateProductParams, user *model.Identity) (*model.Product, error) {
	if err := policy.CanCreateProduct(user); err != nil {
		return nil, err
	}
	if err := validateCreate(params); err != nil {
		return nil, err
	}

	if err := s.ensureCodeAvailable(ctx, params.Code, ""); err != nil {
		return nil, err
	}

	owner := model.AdminOwner
	if user.Role == model.RolePremium {
		owner = user.Email
	}
	thumbnail := params.Thumbnail
	if thumbnail == "" {
		thumbnail = model.DefaultThumbnail
	}

	return s.repo.Create(ctx, &model.Product{
		Title:       params.Title,
		Description: params.Description,
		Price:       params.Price,
		Thumbnail:   thumbnail,
		Code:        params.Code,
		Stock:       params.Stock,
		Category:    params.Category,
		Owner:       owner,
	})
}

func (s *ProductServiceImpl) Update(ctx context.Context, id string, params model.UpdateProductParams, user *model.Identity) (*model.Product, error) {
	if err := policy.CanUpdateProduct(user); err != nil {
		return nil, err
	}
	if params.IsEmpty() {
		return nil, apperrors.ErrNoFieldsToUpdate.WithCause("at least one field must be provided")
	}
	if err := validateUpdate(params); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if params.Code != nil {
		if err := s.ensureCodeAvailable(ctx, *params.Code, id); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return product, nil
}

func (s *ProductServiceImpl) Delete(ctx context.Context, id string, user *model.Identity) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteProduct(user, product); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)

	if policy.IsPrivileged(user) && product.Owner != model.AdminOwner && !product.IsOwnedBy(user.Email) {
		s.notifyRemoved(ctx, product)
	}
	return nil
}

// notifyRemoved 通知商品擁有者，失敗只記 log
func (s *ProductServiceImpl) notifyRemoved(ctx context.Context, product *model.Product) {
	log := logger.WithComponent("service").With(zap.String("product_id", product.ID), zap.String("owner", product.Owner))

	owner, err := s.users.FindByEmail(ctx, product.Owner)
	if err != nil {
		log.Warn("skip product removed notification", zap.Error(err))
		return
	}

	err = s.notifier.PublishNotification(ctx, &model.Notification{
		Kind:         model.NotificationProductRemoved,
		Email:        owner.Email,
		FirstName:    owner.FirstName,
		LastName:     owner.LastName,
		ProductID:    product.ID,
		ProductTitle: product.Title,
	})
	if err != nil {
		log.Error("failed to publish product removed notification", zap.Error(err))
	}
}

func (s *ProductServiceImpl) ensureCodeAvailable(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperrors.ErrDuplicateProductCode.WithCause(fmt.Sprintf("product code '%s' is already in use", code))
}

func (s *ProductServiceImpl) invalidate(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, id); err != nil {
		logger.WithComponent("service").Warn("product cache invalidate failed", zap.String("product_id", id), zap.Error(err))
	}
}

func validateCreate(p model.CreateProductParams) error {
	var invalid []string
	if strings.TrimSpace(p.Title) == "" {
		invalid = append(invalid, "title")
	}
	if strings.TrimSpace(p.Description) == "" {
		invalid = append(invalid, "description")
	}
	if strings.TrimSpace(p.Code) == "" {
		invalid = append(invalid, "code")
	}
	if strings.TrimSpace(p.Category) == "" {
		invalid = append(invalid, "category")
	}
	if p.Price <= 0 {
		invalid = append(invalid, "price")
	}
	if p.Stock < 0 {
		invalid = append(invalid, "stock")
	}
	return invalidFields(invalid)
}

func validateUpdate(p model.UpdateProductParams) error {
	var invalid []string
	blank := func(v *string) bool { return v != nil && strings.TrimSpace(*v) == "" }
	if blank(p.Title) {
		invalid = append(invalid, "title")
	}
	if blank(p.Description) {
		invalid = append(invalid, "description")
	}
	if blank(p.Code) {
		invalid = append(invalid, "code")
	}
	if blank(p.Category) {
		invalid = append(invalid, "category")
	}
	if p.Price != nil && *p.Price <= 0 {
		invalid = append(invalid, "price")
	}
	if p.Stock != nil && *p.Stock < 0 {
		invalid = append(invalid, "stock")
	}
	return invalidFields(invalid)
}

func invalidFields(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return apperrors.ErrInvalidProductData.WithCause("invalid or missing fields: " + strings.Join(fields, ", "))
}
