package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the lifecycle state of a payment. A payment starts as pending
// and moves to a terminal state once the checkout outcome is reported back.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccessful, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// Payment is one checkout attempt. tx_ref is the client-generated
// reference correlating this record with the external widget session and
// must be unique across the collection.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	Amount        float64            `bson:"amount" json:"amount"`
	TxRef         string             `bson:"tx_ref" json:"tx_ref"`
	Status        Status             `bson:"status" json:"status"`
	TransactionID string             `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	VerifiedAt    *time.Time         `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
}

// PaymentStats is the dashboard aggregate, computed in a single pass over
// the collection. Cancelled payments count toward the totals but have no
// dedicated counter.
type PaymentStats struct {
	TotalPayments         int64   `bson:"total_payments" json:"total_payments"`
	SuccessfulPayments    int64   `bson:"successful_payments" json:"successful_payments"`
	PendingPayments       int64   `bson:"pending_payments" json:"pending_payments"`
	FailedPayments        int64   `bson:"failed_payments" json:"failed_payments"`
	TotalSuccessfulAmount float64 `bson:"total_successful_amount" json:"total_successful_amount"`
	TotalAmount           float64 `bson:"total_amount" json:"total_amount"`
}
