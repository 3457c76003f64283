package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-gin-ecommerce/internal/handler"
	"go-gin-ecommerce/internal/middleware"
	"go-gin-ecommerce/internal/model"
	"go-gin-ecommerce/internal/service/mocks"
	apperrors "go-gin-ecommerce/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	InvalidJSON = `{"invalid": json}`

	buyer = &model.Identity{ID: "u1", Email: "buyer@example.com", Role: model.RoleUser, CartID: "c1"}
	admin = &model.Identity{ID: "u2", Email: "admin@example.com", Role: model.RoleAdmin}
)

type testServices struct {
	products *mocks.MockProductService
	carts    *mocks.MockCartService
	tickets  *mocks.MockTicketService
}

// setupTestRouter user 為 nil 時模擬匿名請求
func setupTestRouter(t *testing.T, user *model.Identity) (*gin.Engine, testServices) {
	gin.SetMode(gin.TestMode)
	s := testServices{
		products: mocks.NewMockProductService(t),
		carts:    mocks.NewMockCartService(t),
		tickets:  mocks.NewMockTicketService(t),
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user != nil {
			middleware.SetCurrentUser(c, user)
		}
		c.Next()
	})
	api := router.Group("/api/v1")
	handler.NewProductHandler(s.products).RegisterRoutes(api)
	handler.NewCartHandler(s.carts, s.tickets).RegisterRoutes(api)
	handler.NewTicketHandler(s.tickets).RegisterRoutes(api)
	return router, s
}

func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	var body *bytes.Buffer
	switch v := data.(type) {
	case nil:
		body = bytes.NewBuffer(nil)
	case string:
		body = bytes.NewBufferString(v)
	default:
		raw, _ := json.Marshal(v)
		body = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.Body {
	t.Helper()
	var resp apperrors.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}
