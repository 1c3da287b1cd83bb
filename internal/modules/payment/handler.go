package payment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/pkg/response"
)

type Handler struct {
	service  *Service
	webhooks *WebhookService
	loggerf  func(format string, args ...interface{})
}

func NewHandler(service *Service, webhooks *WebhookService, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, webhooks: webhooks, loggerf: loggerf}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.CreateOrder)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/verify-payment", h.VerifyPayment)
	rg.POST("/webhook", h.Webhook)
}

// CreateOrder handles POST /orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrAmountRequired) {
			response.Error(c, http.StatusBadRequest, "Amount is required")
			return
		}
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to create order", gwErr.Message)
			return
		}
		h.loggerf("level=error msg=order creation failed err=%v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// VerifyPayment handles POST /verify-payment.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.Error(c, http.StatusBadRequest, "Missing payment verification parameters")
		case errors.Is(err, ErrInvalidSignature):
			response.Error(c, http.StatusBadRequest, "Invalid payment signature")
		case errors.Is(err, ErrOrderNotFound):
			response.Error(c, http.StatusBadRequest, "Unknown order")
		case errors.Is(err, ErrOrderConsumed):
			response.Error(c, http.StatusBadRequest, "Order already verified")
		default:
			h.loggerf("level=error msg=payment verification failed err=%v", err)
			response.Error(c, http.StatusInternalServerError, "Failed to verify payment")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Webhook handles POST /webhook. The body must be hashed exactly as it
// arrived, so it is read before any binding touches it.
func (h *Handler) Webhook(c *gin.Context) {
	signature := c.GetHeader("x-razorpay-signature")
	if signature == "" {
		response.Error(c, http.StatusBadRequest, "Missing webhook signature")
		return
	}

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Unreadable request body")
		return
	}

	if err := h.webhooks.HandleWebhook(c.Request.Context(), signature, rawBody); err != nil {
		if errors.Is(err, ErrInvalidWebhookSignature) {
			response.Error(c, http.StatusBadRequest, "Invalid webhook signature")
			return
		}
		h.loggerf("level=error msg=webhook processing failed err=%v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to process webhook")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
