package payment

import (
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"
	"github.com/razorpay/razorpay-go/utils"
)

const orderCurrency = "INR"

type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder opens an auto-capture INR order on Razorpay. The notes travel to
// the gateway dashboard for traceability.
func (g *RazorpayGateway) CreateOrder(amount int64, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":          amount,
		"currency":        orderCurrency,
		"payment_capture": 1,
		"notes":           notes,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		var badRequest *rzperrors.BadRequestError
		if errors.As(err, &badRequest) {
			return nil, fmt.Errorf("%w: %v", ErrOrderRejected, err)
		}
		return nil, err
	}

	orderID, ok := body["id"].(string)
	if !ok {
		return nil, fmt.Errorf("malformed order response: missing id")
	}

	order := &Order{
		ID:       orderID,
		Amount:   amount,
		Currency: orderCurrency,
	}
	if a, ok := body["amount"].(float64); ok {
		order.Amount = int64(a)
	}
	if c, ok := body["currency"].(string); ok {
		order.Currency = c
	}
	return order, nil
}

func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, g.keySecret)
}
