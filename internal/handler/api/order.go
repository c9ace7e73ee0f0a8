package api

import (
	"net/http"

	reqdto "lunchrun/internal/handler/dto/request"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders commands.OrderCommands
}

func NewOrderHandler(orders commands.OrderCommands) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// @Summary Set final price
// @Description Record the actual charged price on an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.FinalPriceRequest true "Final price"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/final-price [patch]
func (h *OrderHandler) SetFinalPrice(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.FinalPriceRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	price, err := money.Parse(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid price",
		})
		return
	}

	if err := h.orders.SetFinalPrice(c.Request.Context(), viewer.OrgID, orderID, viewer.UserID, viewer.IsAdmin, price); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// @Summary Delete order
// @Description Withdraw the viewer's own order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	viewer, ok := getViewer(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), viewer.OrgID, orderID, viewer.UserID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
