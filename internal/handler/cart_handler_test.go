package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"go-gin-ecommerce/internal/model"
	apperrors "go-gin-ecommerce/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, s := setupTestRouter(t, admin)
		s.carts.On("CreateCart", mock.Anything, admin).Return(&model.Cart{ID: "c9", Products: []model.LineItem{}}, nil).Once()

		w := serve(router, createJSONHTTPRequest("POST", "/api/v1/carts", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"products":[]`)
	})

	t.Run("Failed - Forbidden", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		s.carts.On("CreateCart", mock.Anything, buyer).Return(nil, apperrors.ErrForbidden.WithCause("role not allowed to create carts")).Once()

		w := serve(router, createJSONHTTPRequest("POST", "/api/v1/carts", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "ACCESS_DENIED", body.Code)
		assert.Equal(t, http.StatusForbidden, body.Status)
	})
}

func TestGetCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, s := setupTestRouter(t, nil)
		s.carts.On("GetCart", mock.Anything, "c1").Return(&model.ResolvedCart{
			ID: "c1",
			Products: []model.ResolvedLineItem{
				{Product: &model.Product{ID: "p1", Price: 100}, Quantity: 2},
			},
		}, nil).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/carts/c1", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"quantity":2`)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		router, s := setupTestRouter(t, nil)
		s.carts.On("GetCart", mock.Anything, "missing").Return(nil, apperrors.ErrCartNotFound).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/carts/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "UNDEFINED_CART", decodeError(t, w).Code)
	})

	t.Run("Failed - unexpected error is hidden", func(t *testing.T) {
		router, s := setupTestRouter(t, nil)
		s.carts.On("GetCart", mock.Anything, "c1").Return(nil, errors.New("mongo: connection refused")).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/carts/c1", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "mongo")
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w).Code)
	})
}

func TestGetCarts(t *testing.T) {
	router, s := setupTestRouter(t, nil)
	s.carts.On("List", mock.Anything).Return([]*model.Cart{{ID: "c1"}, {ID: "c2"}}, nil).Once()

	w := serve(router, createJSONHTTPRequest("GET", "/api/v1/carts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var carts []model.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &carts))
	assert.Len(t, carts, 2)
}

func TestAddItem(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		s.carts.On("AddItem", mock.Anything, "c1", "p1", buyer).Return(&model.Cart{
			ID:       "c1",
			Products: []model.LineItem{{ProductID: "p1", Quantity: 1}},
		}, nil).Once()

		w := serve(router, createJSONHTTPRequest("POST", "/api/v1/carts/c1/product/p1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"product":"p1"`)
	})

	t.Run("Failed - OwnProduct", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		s.carts.On("AddItem", mock.Anything, "c1", "p1", buyer).Return(nil, apperrors.ErrOwnProduct).Once()

		w := serve(router, createJSONHTTPRequest("POST", "/api/v1/carts/c1/product/p1", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "OWN_PRODUCT", decodeError(t, w).Code)
	})
}

func TestReplaceItems(t *testing.T) {
	t.Run("Success - numeric strings accepted", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		want := []model.CartItemInput{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 3},
		}
		s.carts.On("ReplaceItems", mock.Anything, "c1", want, buyer).Return(&model.Cart{ID: "c1"}, nil).Once()

		body := `[{"product":"p1","quantity":2},{"product":"p2","quantity":"3"}]`
		w := serve(router, createJSONHTTPRequest("PUT", "/api/v1/carts/c1", body))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - non numeric quantity", func(t *testing.T) {
		router, _ := setupTestRouter(t, buyer)

		body := `[{"product":"p1","quantity":"abc"}]`
		w := serve(router, createJSONHTTPRequest("PUT", "/api/v1/carts/c1", body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_QUANTITY", decodeError(t, w).Code)
	})

	t.Run("Failed - forbidden before quantity validation", func(t *testing.T) {
		for name, user := range map[string]*model.Identity{"anonymous": nil, "admin": admin} {
			t.Run(name, func(t *testing.T) {
				router, _ := setupTestRouter(t, user)

				body := `[{"product":"p1","quantity":"abc"}]`
				w := serve(router, createJSONHTTPRequest("PUT", "/api/v1/carts/c1", body))
				assert.Equal(t, http.StatusForbidden, w.Code)
				assert.Equal(t, "ACCESS_DENIED", decodeError(t, w).Code)
			})
		}
	})

	t.Run("Failed - invalid JSON", func(t *testing.T) {
		router, _ := setupTestRouter(t, buyer)

		w := serve(router, createJSONHTTPRequest("PUT", "/api/v1/carts/c1", InvalidJSON))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, w).Code)
	})
}

func TestSetItemQuantity(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		s.carts.On("SetItemQuantity", mock.Anything, "c1", "p1", 4, buyer).Return(&model.Cart{ID: "c1"}, nil).Once()

		w := serve(router, createJSONHTTPRequest("PUT", "/api/v1/carts/c1/product/p1", map[string]any{"quantity": 4}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - negative quantity", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		s.carts.On("SetItemQuantity", mock.Anything, "c1", "p1", -1, buyer).Return(nil, apperrors.ErrInvalidQuantity).Once()

		w := serve(router, createJSONHTTPRequest("PUT", "/api/v1/carts/c1/product/p1", map[string]any{"quantity": -1}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - forbidden before quantity validation", func(t *testing.T) {
		for name, user := range map[string]*model.Identity{"anonymous": nil, "admin": admin} {
			t.Run(name, func(t *testing.T) {
				router, _ := setupTestRouter(t, user)

				w := serve(router, createJSONHTTPRequest("PUT", "/api/v1/carts/c1/product/p1", `{"quantity":"abc"}`))
				assert.Equal(t, http.StatusForbidden, w.Code)
				assert.Equal(t, "ACCESS_DENIED", decodeError(t, w).Code)
			})
		}
	})

	for name, body := range map[string]string{
		"out of range": `{"quantity":"9223372036854775807"}`,
		"non numeric":  `{"quantity":"abc"}`,
		"fractional":   `{"quantity":1.5}`,
		"missing":      `{}`,
	} {
		t.Run("Failed - "+name, func(t *testing.T) {
			router, _ := setupTestRouter(t, buyer)

			w := serve(router, createJSONHTTPRequest("PUT", "/api/v1/carts/c1/product/p1", body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_QUANTITY", decodeError(t, w).Code)
		})
	}
}

func TestRemoveItem(t *testing.T) {
	router, s := setupTestRouter(t, buyer)
	s.carts.On("RemoveItem", mock.Anything, "c1", "p1", buyer).Return(&model.Cart{ID: "c1", Products: []model.LineItem{}}, nil).Once()

	w := serve(router, createJSONHTTPRequest("DELETE", "/api/v1/carts/c1/product/p1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClearCart_ReturnsPreImage(t *testing.T) {
	router, s := setupTestRouter(t, buyer)
	s.carts.On("ClearCart", mock.Anything, "c1", buyer).Return(&model.Cart{
		ID: "c1",
		Products: []model.LineItem{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 2},
			{ProductID: "p3", Quantity: 3},
		},
	}, nil).Once()

	w := serve(router, createJSONHTTPRequest("DELETE", "/api/v1/carts/c1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var cart model.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Len(t, cart.Products, 3)
}

func TestPurchase(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		s.tickets.On("Checkout", mock.Anything, "c1", buyer).Return(&model.Ticket{
			Code:      "T-1",
			Amount:    250,
			Purchaser: buyer.Email,
		}, nil).Once()

		w := serve(router, createJSONHTTPRequest("POST", "/api/v1/carts/c1/purchase", nil))
		require.Equal(t, http.StatusCreated, w.Code)
		var ticket model.Ticket
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
		assert.Equal(t, 250.0, ticket.Amount)
		assert.Equal(t, "T-1", ticket.Code)
	})

	t.Run("Failed - anonymous", func(t *testing.T) {
		router, s := setupTestRouter(t, nil)
		s.tickets.On("Checkout", mock.Anything, "c1", (*model.Identity)(nil)).Return(nil, apperrors.ErrForbidden).Once()

		w := serve(router, createJSONHTTPRequest("POST", "/api/v1/carts/c1/purchase", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
