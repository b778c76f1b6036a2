package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// RegistrationIDPrefix starts every human-facing registration code.
const RegistrationIDPrefix = "NEU"

type Registration struct {
	ID             string        `json:"id" bson:"id"`
	RegistrationID string        `json:"registration_id" bson:"registration_id"`
	FullName       string        `json:"full_name" bson:"full_name"`
	Email          string        `json:"email" bson:"email"`
	Phone          string        `json:"phone" bson:"phone"`
	College        string        `json:"college" bson:"college"`
	TeamName       *string       `json:"team_name" bson:"team_name,omitempty"`
	PaymentStatus  PaymentStatus `json:"payment_status" bson:"payment_status"`
	TransactionID  *string       `json:"transaction_id" bson:"transaction_id,omitempty"`
	OrderID        *string       `json:"order_id" bson:"order_id,omitempty"`
	Amount         *int64        `json:"amount" bson:"amount,omitempty"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
}

// NewRegistrationID builds a code of the form NEU<YYYYMMDD><8 uppercase hex chars>.
// The hex part comes from a random UUID, so codes are probabilistically unique per
// day; the unique index on registration_id catches the rare collision.
func NewRegistrationID(now time.Time) string {
	random := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s%s%s", RegistrationIDPrefix, now.Format("20060102"), random)
}

type RegistrationStats struct {
	TotalRegistrations   int64   `json:"total_registrations"`
	PaidRegistrations    int64   `json:"paid_registrations"`
	PendingRegistrations int64   `json:"pending_registrations"`
	TotalRevenueINR      float64 `json:"total_revenue_inr"`
}
