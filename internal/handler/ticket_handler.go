package handler

import (
	"fmt"
	"net/http"

	"go-gin-ecommerce/internal/middleware"
	"go-gin-ecommerce/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("tickets", h.GetTickets)
	r.GET("tickets/:code", h.GetTicket)
	r.GET("tickets/:code/receipt", h.GetReceipt)
}

// GetTickets 目前使用者的票券
func (h *TicketHandler) GetTickets(c *gin.Context) {
	tickets, err := h.service.ListByPurchaser(c, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "GetTickets")
		return
	}

	handleSuccess(c, tickets, http.StatusOK)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, err := h.service.GetByCode(c, c.Param("code"), middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "GetTicket")
		return
	}

	handleSuccess(c, ticket, http.StatusOK)
}

func (h *TicketHandler) GetReceipt(c *gin.Context) {
	code := c.Param("code")
	pdf, err := h.service.Receipt(c, code, middleware.CurrentUser(c))
	if err != nil {
		handleError(c, err, "GetReceipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", code))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
