package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-gin-ecommerce/internal/model"
	apperrors "go-gin-ecommerce/pkg/app_errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CartsCollection = "carts"

// CartRepository 購物車只保存商品 id，不做 cascade；商品被刪除時由讀取端清理
type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) (*model.Cart, error)
	List(ctx context.Context) ([]*model.Cart, error)
	FindByID(ctx context.Context, id string) (*model.Cart, error)
	// ReplaceProducts 整批覆寫 line items (read-modify-write 的寫入端，last write wins)
	ReplaceProducts(ctx context.Context, id string, products []model.LineItem) error
	// PullProduct 以 $pull 移除單一商品，不存在時不視為錯誤
	PullProduct(ctx context.Context, id string, productID string) error
}

type CartRepositoryImpl struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &CartRepositoryImpl{
		collection: db.Collection(CartsCollection),
	}
}

func (r *CartRepositoryImpl) Create(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	now := time.Now().UTC()
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if cart.Products == nil {
		cart.Products = []model.LineItem{}
	}
	cart.CreatedAt = now
	cart.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

func (r *CartRepositoryImpl) List(ctx context.Context) ([]*model.Cart, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	defer cursor.Close(ctx)

	carts := make([]*model.Cart, 0)
	if err := cursor.All(ctx, &carts); err != nil {
		return nil, fmt.Errorf("failed to decode carts: %w", err)
	}
	return carts, nil
}

func (r *CartRepositoryImpl) FindByID(ctx context.Context, id string) (*model.Cart, error) {
	var cart model.Cart
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart.Products == nil {
		cart.Products = []model.LineItem{}
	}
	return &cart, nil
}

func (r *CartRepositoryImpl) ReplaceProducts(ctx context.Context, id string, products []model.LineItem) error {
	if products == nil {
		products = []model.LineItem{}
	}
	update := bson.M{
		"$set": bson.M{
			"products":   products,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrCartNotFound
	}
	return nil
}

func (r *CartRepositoryImpl) PullProduct(ctx context.Context, id string, productID string) error {
	update := bson.M{
		"$pull": bson.M{
			"products": bson.M{"product": productID},
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to remove product from cart: %w", err)
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrCartNotFound
	}
	return nil
}
