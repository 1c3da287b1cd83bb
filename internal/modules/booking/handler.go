package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.SaveReceipt)
	rg.GET("/bookings", h.GetMyBookings)
}

// SaveReceipt handles POST /bookings.
func (h *Handler) SaveReceipt(c *gin.Context) {
	var req SaveReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.service.SaveReceipt(c.Request.Context(), c.GetInt64("user_id"), c.GetString("email"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "Missing booking information")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "Order belongs to another user")
		case errors.Is(err, ErrOrderNotVerified):
			response.Error(c, http.StatusBadRequest, "Order has no verified payment")
		case errors.Is(err, ErrAmountMismatch):
			response.Error(c, http.StatusBadRequest, "Amount does not match the paid order")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to save booking")
		}
		return
	}

	view := toView(receipt)
	response.Success(c, http.StatusOK, view)
}

// GetMyBookings handles GET /bookings.
func (h *Handler) GetMyBookings(c *gin.Context) {
	receipts, err := h.service.GetMyBookings(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": receipts})
}
