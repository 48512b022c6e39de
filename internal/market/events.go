package market

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced     = "OrderPlaced"
	EventOrderPaid       = "OrderPaid"
	EventOrderCancelled  = "OrderCancelled"
	EventSubOrderUpdated = "SubOrderStatusChanged"
	EventPointsAccrued   = "PointsAccrued"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // parent order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID     string          `json:"order_id"`
	MemberID    string          `json:"member_id"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	PointsSpent int             `json:"points_spent"`
	StallIDs    []string        `json:"stall_ids"`
}

type OrderPaidPayload struct {
	OrderID      string          `json:"order_id"`
	MemberID     string          `json:"member_id"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	PointsEarned int             `json:"points_earned"`
	StallIDs     []string        `json:"stall_ids"`
}

type SubOrderUpdatedPayload struct {
	SubOrderID    string    `json:"sub_order_id"`
	ParentOrderID string    `json:"parent_order_id"`
	StallID       string    `json:"stall_id"`
	Status        SubStatus `json:"status"`
}
