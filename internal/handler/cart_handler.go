package handler

import (
	"net/http"

	"go-gin-ecommerce/internal/middleware"
	"go-gin-ecommerce/internal/model"
	"go-gin-ecommerce/internal/policy"
	"go-gin-ecommerce/internal/service"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	service service.CartService
	tickets service.TicketService
}

func NewCartHandler(service service.CartService, tickets service.TicketService) *CartHandler {
	return &CartHandler{service: service, tickets: tickets}
}

func (h *CartHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("carts", h.GetCarts)
	r.POST("carts", h.CreateCart)
	r.GET("carts/:cid", h.GetCart)
	r.PUT("carts/:cid", h.ReplaceItems)
	r.DELETE("carts/:cid", h.ClearCart)
	r.POST("carts/:cid/product/:pid", h.AddItem)
	r.PUT("carts/:cid/product/:pid", h.SetItemQuantity)
	r.DELETE("carts/:cid/product/:pid", h.RemoveItem)
	r.POST("carts/:cid/purchase", h.Purchase)
}

// quantity 可以是數字或數字字串，由 model.ParseQuantity 檢查
type cartItemRequest struct {
	Product  string `json:"product"`
	Quantity any    `json:"quantity"`
}

type quantityRequest struct {
	Quantity any `json:"quantity"`
}

func (h *CartHandler) GetCarts(c *gin.Context) {
	carts, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "GetCarts")
		return
	}

	handleSuccess(c, carts, http.StatusOK)
}

func (h *CartHandler) CreateCart(c *gin.Context) {
	cart, err := h.service.CreateCart(c, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "CreateCart")
		return
	}

	handleSuccess(c, cart, http.StatusCreated)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.service.GetCart(c, c.Param("cid"))
	if err != nil {
		handleError(c, err, "GetCart")
		return
	}

	handleSuccess(c, cart, http.StatusOK)
}

func (h *CartHandler) ReplaceItems(c *gin.Context) {
	// 權限不足時不解析 body，回 403 而不是 400
	if err := policy.CanMutateCartContents(middleware.CurrentUser(c)); err != nil {
		handleError(c, err, "ReplaceItems")
		return
	}

	var req []cartItemRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	items := make([]model.CartItemInput, 0, len(req))
	for _, item := range req {
		quantity, err := model.ParseQuantity(item.Quantity)
		if err != nil {
			handleError(c, err, "ReplaceItems")
			return
		}
		items = append(items, model.CartItemInput{ProductID: item.Product, Quantity: quantity})
	}

	cart, err := h.service.ReplaceItems(c, c.Param("cid"), items, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "ReplaceItems")
		return
	}

	handleSuccess(c, cart, http.StatusOK)
}

// ClearCart 回傳清空前的內容
func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, err := h.service.ClearCart(c, c.Param("cid"), middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "ClearCart")
		return
	}

	handleSuccess(c, cart, http.StatusOK)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	cart, err := h.service.AddItem(c, c.Param("cid"), c.Param("pid"), middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "AddItem")
		return
	}

	handleSuccess(c, cart, http.StatusOK)
}

func (h *CartHandler) SetItemQuantity(c *gin.Context) {
	if err := policy.CanMutateCartContents(middleware.CurrentUser(c)); err != nil {
		handleError(c, err, "SetItemQuantity")
		return
	}

	var req quantityRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	quantity, err := model.ParseQuantity(req.Quantity)
	if err != nil {
		handleError(c, err, "SetItemQuantity")
		return
	}

	cart, err := h.service.SetItemQuantity(c, c.Param("cid"), c.Param("pid"), quantity, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "SetItemQuantity")
		return
	}

	handleSuccess(c, cart, http.StatusOK)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.service.RemoveItem(c, c.Param("cid"), c.Param("pid"), middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "RemoveItem")
		return
	}

	handleSuccess(c, cart, http.StatusOK)
}

func (h *CartHandler) Purchase(c *gin.Context) {
	ticket, err := h.tickets.Checkout(c, c.Param("cid"), middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "Purchase")
		return
	}

	handleSuccess(c, ticket, http.StatusCreated)
}
