package payment

import "errors"

// ErrOrderRejected wraps gateway-side validation failures on order creation,
// as opposed to transport or server faults.
var ErrOrderRejected = errors.New("payment gateway rejected the order")

type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// Gateway is the payment processor boundary: it creates orders and verifies
// the signatures the processor attaches to completed payments.
type Gateway interface {
	CreateOrder(amount int64, notes map[string]interface{}) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}
