package models

import "time"

// Статусы платежа.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment представляет платёж участника за тарифный план.
type Payment struct {
	ID            int       `json:"id"`
	MemberUID     string    `json:"member_uid"`
	PlanID        int       `json:"plan_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Receipt       string    `json:"receipt,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
