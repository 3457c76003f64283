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

const ProductsCollection = "products"

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	Paginate(ctx context.Context, query model.ProductQuery) ([]*model.Product, int64, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Update(ctx context.Context, id string, params model.UpdateProductParams) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type ProductRepositoryImpl struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &ProductRepositoryImpl{
		collection: db.Collection(ProductsCollection),
	}
}

func (r *ProductRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Status = product.IsAvailable()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrDuplicateProductCode.WithCause(
				fmt.Sprintf("product code '%s' is already in use", product.Code))
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (r *ProductRepositoryImpl) List(ctx context.Context) ([]*model.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]*model.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *ProductRepositoryImpl) Paginate(ctx context.Context, query model.ProductQuery) ([]*model.Product, int64, error) {
	filter := bson.M{}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	if query.Availability != nil {
		filter["status"] = *query.Availability
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// 超出最後一頁時不查詢，skip 也因此不會溢位
	pagesBefore := int64(query.Page - 1)
	if query.Limit < 1 || pagesBefore < 0 || pagesBefore > total/int64(query.Limit) {
		return []*model.Product{}, total, nil
	}

	opts := options.Find().
		SetSkip(pagesBefore * int64(query.Limit)).
		SetLimit(int64(query.Limit))
	switch query.Sort {
	case model.ProductSortAsc:
		opts.SetSort(bson.D{{Key: "price", Value: 1}})
	case model.ProductSortDesc:
		opts.SetSort(bson.D{{Key: "price", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to paginate products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]*model.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepositoryImpl) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ProductRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *ProductRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*model.Product, error) {
	var product model.Product
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, id string, params model.UpdateProductParams) (*model.Product, error) {
	set := bson.M{}
	if params.Title != nil {
		set["title"] = *params.Title
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.Price != nil {
		set["price"] = *params.Price
	}
	if params.Thumbnail != nil {
		set["thumbnail"] = *params.Thumbnail
	}
	if params.Code != nil {
		set["code"] = *params.Code
	}
	if params.Stock != nil {
		set["stock"] = *params.Stock
		set["status"] = *params.Stock >= 1
	}
	if params.Category != nil {
		set["category"] = *params.Category
	}

	if len(set) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}

	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product model.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProductNotFound
		}
		if mongo.IsDuplicateKeyError(err) && params.Code != nil {
			return nil, apperrors.ErrDuplicateProductCode.WithCause(
				fmt.Sprintf("product code '%s' is already in use", *params.Code))
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}
