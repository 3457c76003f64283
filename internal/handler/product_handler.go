package handler

import (
	"net/http"
	"strconv"

	"go-gin-ecommerce/internal/middleware"
	"go-gin-ecommerce/internal/model"
	"go-gin-ecommerce/internal/service"
	apperrors "go-gin-ecommerce/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(service service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("products", h.GetProducts)
	r.GET("products/paginate", h.PaginateProducts)
	r.GET("products/:pid", h.GetProduct)
	r.POST("products", h.CreateProduct)
	r.PUT("products/:pid", h.UpdateProduct)
	r.DELETE("products/:pid", h.DeleteProduct)
}

type createProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Code        string  `json:"code"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
}

type updateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Thumbnail   *string  `json:"thumbnail"`
	Code        *string  `json:"code"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
}

type paginateQuery struct {
	Page         string `form:"page"`
	Limit        string `form:"limit"`
	Sort         string `form:"sort"`
	Category     string `form:"category"`
	Availability string `form:"availability"`
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "GetProducts")
		return
	}

	handleSuccess(c, products, http.StatusOK)
}

func (h *ProductHandler) PaginateProducts(c *gin.Context) {
	var q paginateQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}

	query, err := q.toProductQuery()
	if err != nil {
		handleError(c, err, "PaginateProducts")
		return
	}

	page, err := h.service.Paginate(c, query)
	if err != nil {
		handleError(c, err, "PaginateProducts")
		return
	}

	handleSuccess(c, page, http.StatusOK)
}

func (q paginateQuery) toProductQuery() (model.ProductQuery, error) {
	query := model.ProductQuery{
		Page:     1,
		Sort:     model.ProductSort(q.Sort),
		Category: q.Category,
	}

	if q.Page != "" {
		page, err := strconv.Atoi(q.Page)
		if err != nil {
			return query, apperrors.ErrInvalidPage.WithCause("page '" + q.Page + "' is not a number")
		}
		query.Page = page
	}
	if q.Limit != "" {
		limit, err := strconv.Atoi(q.Limit)
		if err != nil || limit < 1 {
			return query, apperrors.ErrInvalidInput.WithCause("limit '" + q.Limit + "' must be a positive number")
		}
		query.Limit = limit
	}
	if q.Availability != "" {
		available, err := strconv.ParseBool(q.Availability)
		if err != nil {
			return query, apperrors.ErrInvalidInput.WithCause("availability must be true or false")
		}
		query.Availability = &available
	}
	return query, nil
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetByID(c, c.Param("pid"))
	if err != nil {
		handleError(c, err, "GetProduct")
		return
	}

	handleSuccess(c, product, http.StatusOK)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c, model.CreateProductParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Thumbnail:   req.Thumbnail,
		Code:        req.Code,
		Stock:       req.Stock,
		Category:    req.Category,
	}, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "CreateProduct")
		return
	}

	handleSuccess(c, created, http.StatusCreated)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.Update(c, c.Param("pid"), model.UpdateProductParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Thumbnail:   req.Thumbnail,
		Code:        req.Code,
		Stock:       req.Stock,
		Category:    req.Category,
	}, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "UpdateProduct")
		return
	}

	handleSuccess(c, updated, http.StatusOK)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.Delete(c, c.Param("pid"), middleware.CurrentUser(c)); err != nil {
		handleError(c, err, "DeleteProduct")
		return
	}

	handleSuccess(c, nil, http.StatusNoContent)
}
