package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neuronclub/neuron-backend/internal/models"
	"github.com/neuronclub/neuron-backend/internal/payment"
	"github.com/neuronclub/neuron-backend/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: logger}
}

type CreateOrderRequest struct {
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	RegistrationID string `json:"registration_id" binding:"required"`
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
}

// @Summary Create a payment order
// @Description Opens a gateway order for a pending registration; amount is in paise
// @Tags Payments
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order details"
// @Success 200 {object} map[string]interface{} "Order id, amount, currency and key id"
// @Failure 400 {object} map[string]string "Invalid input, completed payment or gateway rejection"
// @Failure 404 {object} map[string]string "Registration not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /payment/create-order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	order, err := h.paymentService.CreateOrder(service.CreateOrderInput{
		Amount:         req.Amount,
		RegistrationID: req.RegistrationID,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Registration not found"})
		case errors.Is(err, models.ErrPaymentCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Payment already completed"})
		case errors.Is(err, payment.ErrOrderRejected):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Payment error: " + err.Error()})
		default:
			h.logger.Error("create order failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order.OrderID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   order.KeyID,
	})
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	RegistrationID    string `json:"registration_id" binding:"required"`
}

// @Summary Verify a payment
// @Description Checks the gateway signature and marks the registration completed
// @Tags Payments
// @Accept json
// @Produce json
// @Param verification body VerifyPaymentRequest true "Signature triple and registration id"
// @Success 200 {object} map[string]string "Verification result"
// @Failure 400 {object} map[string]string "Invalid signature"
// @Failure 500 {object} map[string]string "Server error"
// @Router /payment/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	err := h.paymentService.VerifyPayment(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, req.RegistrationID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid payment signature"})
			return
		}
		h.logger.Error("verify payment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Verification error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Payment verified successfully",
	})
}
