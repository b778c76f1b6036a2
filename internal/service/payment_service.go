package service

import (
	"github.com/neuronclub/neuron-backend/internal/models"
	"github.com/neuronclub/neuron-backend/internal/payment"
	"github.com/neuronclub/neuron-backend/internal/repository"
)

type CreateOrderInput struct {
	Amount         int64
	RegistrationID string
	FullName       string
	Email          string
	Phone          string
}

type OrderResult struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
}

type PaymentService interface {
	CreateOrder(input CreateOrderInput) (*OrderResult, error)
	VerifyPayment(orderID, paymentID, signature, registrationID string) error
}

type paymentService struct {
	registrationRepo repository.RegistrationRepository
	gateway          payment.Gateway
}

func NewPaymentService(registrationRepo repository.RegistrationRepository, gateway payment.Gateway) PaymentService {
	return &paymentService{registrationRepo: registrationRepo, gateway: gateway}
}

func (s *paymentService) CreateOrder(input CreateOrderInput) (*OrderResult, error) {
	reg, err := s.registrationRepo.GetByRegistrationID(input.RegistrationID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, models.ErrRegistrationNotFound
	}
	if reg.PaymentStatus == models.PaymentStatusCompleted {
		return nil, models.ErrPaymentCompleted
	}

	order, err := s.gateway.CreateOrder(input.Amount, map[string]interface{}{
		"registration_id": input.RegistrationID,
		"email":           input.Email,
		"name":            input.FullName,
	})
	if err != nil {
		return nil, err
	}

	if err := s.registrationRepo.AttachOrder(input.RegistrationID, order.ID, input.Amount); err != nil {
		return nil, err
	}

	return &OrderResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPayment trusts the gateway signature alone: the presented order id is
// not cross-checked against the one stored at order creation.
func (s *paymentService) VerifyPayment(orderID, paymentID, signature, registrationID string) error {
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return models.ErrInvalidSignature
	}
	return s.registrationRepo.MarkCompleted(registrationID, orderID, paymentID)
}
