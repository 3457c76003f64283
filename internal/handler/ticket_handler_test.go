package handler_test

import (
	"net/http"
	"testing"

	"go-gin-ecommerce/internal/model"
	apperrors "go-gin-ecommerce/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetTickets(t *testing.T) {
	router, s := setupTestRouter(t, buyer)
	s.tickets.On("ListByPurchaser", mock.Anything, buyer).Return([]*model.Ticket{{Code: "T-1"}}, nil).Once()

	w := serve(router, createJSONHTTPRequest("GET", "/api/v1/tickets", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "T-1")
}

func TestGetTicket(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		s.tickets.On("GetByCode", mock.Anything, "T-1", buyer).Return(&model.Ticket{Code: "T-1"}, nil).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/tickets/T-1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		router, s := setupTestRouter(t, buyer)
		s.tickets.On("GetByCode", mock.Anything, "T-9", buyer).Return(nil, apperrors.ErrTicketNotFound).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/tickets/T-9", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetReceipt(t *testing.T) {
	router, s := setupTestRouter(t, buyer)
	s.tickets.On("Receipt", mock.Anything, "T-1", buyer).Return([]byte("%PDF-1.3 fake"), nil).Once()

	w := serve(router, createJSONHTTPRequest("GET", "/api/v1/tickets/T-1/receipt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-T-1.pdf")
}
