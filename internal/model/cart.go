package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "go-gin-ecommerce/pkg/app_errors"
)

// MaxLineQuantity 單一商品在購物車中的數量上限
const MaxLineQuantity = 10000

// LineItem 購物車中的一項商品；只保存商品 id，讀取時再向 catalog 解析
type LineItem struct {
	ProductID string `json:"product" bson:"product"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart 購物車模型，每個商品最多一筆 LineItem
type Cart struct {
	ID        string     `json:"id" bson:"_id"`
	Products  []LineItem `json:"products" bson:"products"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// IndexOf 回傳商品所在位置，不存在回傳 -1
func (c *Cart) IndexOf(productID string) int {
	for i, item := range c.Products {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add 累加數量；商品不存在時新增一筆。累加後超過 MaxLineQuantity 時不修改並回傳錯誤
func (c *Cart) Add(productID string, quantity int) error {
	if quantity < 1 || quantity > MaxLineQuantity {
		return quantityOutOfRange(productID, quantity)
	}
	i := c.IndexOf(productID)
	if i == -1 {
		c.Products = append(c.Products, LineItem{ProductID: productID, Quantity: quantity})
		return nil
	}
	if c.Products[i].Quantity > MaxLineQuantity-quantity {
		return quantityOutOfRange(productID, c.Products[i].Quantity+quantity)
	}
	c.Products[i].Quantity += quantity
	return nil
}

func quantityOutOfRange(productID string, quantity int) error {
	return apperrors.ErrInvalidQuantity.WithCause(
		fmt.Sprintf("quantity %d for product %s must be between 1 and %d", quantity, productID, MaxLineQuantity))
}

// Remove 移除商品，不存在時不做事
func (c *Cart) Remove(productID string) bool {
	i := c.IndexOf(productID)
	if i == -1 {
		return false
	}
	c.Products = append(c.Products[:i], c.Products[i+1:]...)
	return true
}

// SetQuantity 設定絕對數量；quantity 為 0 時移除該筆。商品不在車內回傳 false
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	i := c.IndexOf(productID)
	if i == -1 {
		return false
	}
	if quantity == 0 {
		c.Products = append(c.Products[:i], c.Products[i+1:]...)
		return true
	}
	c.Products[i].Quantity = quantity
	return true
}

// Clone 深拷貝，用於回傳清空前的狀態
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Products = make([]LineItem, len(c.Products))
	copy(cp.Products, c.Products)
	return &cp
}

// ResolvedLineItem 已解析商品內容的 LineItem
type ResolvedLineItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// ResolvedCart 讀取時回傳的購物車，只包含仍存在的商品
type ResolvedCart struct {
	ID        string             `json:"id"`
	Products  []ResolvedLineItem `json:"products"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Total 價格 x 數量 的總和
func (c *ResolvedCart) Total() float64 {
	total := 0.0
	for _, item := range c.Products {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// CartItemInput 批次更新的單筆輸入
type CartItemInput struct {
	ProductID string
	Quantity  int
}

// ParseQuantity 接受 JSON 數字或數字字串，其他型別、非整數或絕對值超過 MaxLineQuantity 一律視為無效。
// 負數在範圍內仍會回傳，由 service 依操作決定是否接受
func ParseQuantity(v any) (int, error) {
	var n int64
	switch q := v.(type) {
	case float64:
		if math.IsNaN(q) || q != math.Trunc(q) || math.Abs(q) > MaxLineQuantity {
			return 0, invalidQuantity(v)
		}
		n = int64(q)
	case int:
		n = int64(q)
	case json.Number:
		parsed, err := q.Int64()
		if err != nil {
			return 0, invalidQuantity(v)
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(q), 10, 64)
		if err != nil {
			return 0, invalidQuantity(v)
		}
		n = parsed
	default:
		return 0, invalidQuantity(v)
	}

	if n > MaxLineQuantity || n < -MaxLineQuantity {
		return 0, invalidQuantity(v)
	}
	return int(n), nil
}

func invalidQuantity(v any) error {
	return apperrors.ErrInvalidQuantity.WithCause(fmt.Sprintf("quantity %v is not a valid number", v))
}
