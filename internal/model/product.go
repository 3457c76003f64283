package model

import "time"

// AdminOwner 非 premium 使用者建立的商品一律歸屬 admin
const AdminOwner = "admin"

// DefaultThumbnail 未上傳圖片時的預設值
const DefaultThumbnail = "no-image"

// Product 商品模型
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Thumbnail   string    `json:"thumbnail" bson:"thumbnail"`
	Code        string    `json:"code" bson:"code"`
	Status      bool      `json:"status" bson:"status"`
	Stock       int       `json:"stock" bson:"stock"`
	Category    string    `json:"category" bson:"category"`
	Owner       string    `json:"owner" bson:"owner"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// IsAvailable 庫存至少 1 才可購買
func (p *Product) IsAvailable() bool {
	return p.Stock >= 1
}

// IsOwnedBy 檢查商品是否由該 email 上架
func (p *Product) IsOwnedBy(email string) bool {
	return p.Owner != "" && email != "" && p.Owner == email
}

type CreateProductParams struct {
	Title       string
	Description string
	Price       float64
	Thumbnail   string
	Code        string
	Stock       int
	Category    string
}

type UpdateProductParams struct {
	Title       *string
	Description *string
	Price       *float64
	Thumbnail   *string
	Code        *string
	Stock       *int
	Category    *string
}

// IsEmpty 沒有任何欄位要更新
func (p UpdateProductParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil &&
		p.Thumbnail == nil && p.Code == nil && p.Stock == nil && p.Category == nil
}

// ProductSort 依價格排序
type ProductSort string

const (
	ProductSortNone ProductSort = ""
	ProductSortAsc  ProductSort = "asc"
	ProductSortDesc ProductSort = "desc"
)

// ProductQuery 分頁查詢條件
type ProductQuery struct {
	Page         int
	Limit        int
	Sort         ProductSort
	Category     string
	Availability *bool
}

// ProductPage 分頁結果，欄位與 mongoose-paginate 相同
type ProductPage struct {
	Docs          []*Product `json:"docs"`
	TotalDocs     int64      `json:"totalDocs"`
	Limit         int        `json:"limit"`
	TotalPages    int        `json:"totalPages"`
	Page          int        `json:"page"`
	PagingCounter int        `json:"pagingCounter"`
	HasPrevPage   bool       `json:"hasPrevPage"`
	HasNextPage   bool       `json:"hasNextPage"`
	PrevPage      *int       `json:"prevPage"`
	NextPage      *int       `json:"nextPage"`
}

// NewProductPage 由總筆數計算分頁資訊
func NewProductPage(docs []*Product, total int64, page, limit int) *ProductPage {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	p := &ProductPage{
		Docs:          docs,
		TotalDocs:     total,
		Limit:         limit,
		TotalPages:    totalPages,
		Page:          page,
		PagingCounter: (page-1)*limit + 1,
		HasPrevPage:   page > 1,
		HasNextPage:   page < totalPages,
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}
