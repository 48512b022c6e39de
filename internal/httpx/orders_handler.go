package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	kafkax "github.com/hsinyuc/go-night-market/internal/kafka"
	"github.com/hsinyuc/go-night-market/internal/market"
	"github.com/hsinyuc/go-night-market/internal/redisx"
)

type OrdersHandler struct {
	Checkout  *market.CheckoutRepo
	Lifecycle *market.OrderRepo
	Reads     *market.OrderReadRepo

	Placed *kafkax.Producer // market.order.placed
	Paid   *kafkax.Producer // market.order.paid

	Redis   *redis.Client
	Log     *zap.Logger
	Service string
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/api/checkout", h.checkout)
	r.Get("/api/orders", h.listOrders)
	r.Get("/api/orders/{id}", h.getOrder)
	r.Get("/api/orders/{id}/status", h.getOrderStatus)
	r.Patch("/api/orders/{id}/status", h.updateOrderStatus)
}

type CheckoutReq struct {
	UsePoints     int    `json:"use_points"`
	PaymentMethod string `json:"payment_method"`
	DeliveryType  string `json:"delivery_type"`
}

type CheckoutResp struct {
	OrderID     string          `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	PointsSpent int             `json:"points_spent"`
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	var req CheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.UsePoints < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "use_points must not be negative"})
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "CASH"
	}
	if req.DeliveryType == "" {
		req.DeliveryType = "PICKUP"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Checkout.Checkout(ctx, market.CheckoutInput{
		MemberID:      member,
		UsePoints:     req.UsePoints,
		PaymentMethod: req.PaymentMethod,
		DeliveryType:  req.DeliveryType,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, res.OrderID)
	_ = h.Redis.Set(ctx, statusKey, `{"status":"pending"}`, redisx.TTLStatusCache).Err()

	h.publish(h.Placed, res.OrderID, market.EventOrderPlaced, r, market.OrderPlacedPayload{
		OrderID:     res.OrderID,
		MemberID:    member,
		FinalAmount: res.FinalAmount,
		PointsSpent: res.PointsSpent,
		StallIDs:    res.StallIDs,
	})

	writeJSON(w, http.StatusCreated, CheckoutResp{
		OrderID:     res.OrderID,
		TotalAmount: res.TotalAmount,
		FinalAmount: res.FinalAmount,
		PointsSpent: res.PointsSpent,
	})
}

type orderItemView struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	UnitPriceSnapshot decimal.Decimal `json:"unit_price_snapshot"`
	Quantity          int             `json:"quantity"`
}

type subOrderView struct {
	ID           string           `json:"id"`
	StallID      string           `json:"stall_id"`
	StallName    string           `json:"stall_name"`
	DeliveryType string           `json:"delivery_type"`
	Status       market.SubStatus `json:"status"`
	Items        []orderItemView  `json:"items,omitempty"`
}

type parentOrderView struct {
	ID              string              `json:"id"`
	OrderDate       time.Time           `json:"order_date"`
	FinalPaidAmount decimal.Decimal     `json:"final_paid_amount"`
	PaymentMethod   string              `json:"payment_method"`
	Status          market.ParentStatus `json:"status"`
	EarnedPoints    int                 `json:"earned_points"`
	SubOrders       []subOrderView      `json:"sub_orders"`
}

func toParentOrderView(o market.ParentOrder) parentOrderView {
	v := parentOrderView{
		ID:              o.ID,
		OrderDate:       o.OrderDate,
		FinalPaidAmount: o.FinalPaidAmount,
		PaymentMethod:   o.PaymentMethod,
		Status:          o.Status,
		EarnedPoints:    market.EarnedPoints(o.FinalPaidAmount),
		SubOrders:       make([]subOrderView, 0, len(o.SubOrders)),
	}
	for _, so := range o.SubOrders {
		sv := subOrderView{
			ID:           so.ID,
			StallID:      so.StallID,
			StallName:    so.StallName,
			DeliveryType: so.DeliveryType,
			Status:       so.Status,
		}
		for _, it := range so.Items {
			sv.Items = append(sv.Items, orderItemView{
				ID:                it.ID,
				ProductID:         it.ProductID,
				ProductName:       it.ProductName,
				UnitPriceSnapshot: it.UnitPriceSnapshot,
				Quantity:          it.Quantity,
			})
		}
		v.SubOrders = append(v.SubOrders, sv)
	}
	return v
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Reads.ListParentOrders(ctx, member)
	if err != nil {
		h.Log.Error("list orders", zap.Error(err))
		writeError(w, err)
		return
	}
	views := make([]parentOrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toParentOrderView(o))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Reads.GetParentOrder(ctx, chi.URLParam(r, "id"), member)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toParentOrderView(*o))
}

// getOrderStatus serves from the redis cache first, DB on miss.
func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	o, err := h.Reads.GetParentOrder(ctx, orderID, "")
	if err != nil {
		writeError(w, err)
		return
	}
	b, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

// updateOrderStatus is the simulated payment confirmation: the member moves the
// parent order along pending -> paid -> completed (or pending -> cancelled).
// Crossing into paid triggers the point accrual inside the repo transaction.
func (h *OrdersHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	upd, err := h.Lifecycle.UpdateParentStatus(ctx, chi.URLParam(r, "id"), member, market.ParentStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, upd.OrderID)
	b, _ := json.Marshal(map[string]any{"status": upd.Status})
	_ = h.Redis.Set(ctx, statusKey, b, redisx.TTLStatusCache).Err()

	if upd.Status == market.ParentPaid {
		h.publish(h.Paid, upd.OrderID, market.EventOrderPaid, r, market.OrderPaidPayload{
			OrderID:      upd.OrderID,
			MemberID:     upd.MemberID,
			PaidAmount:   upd.PaidAmount,
			PointsEarned: upd.PointsEarned,
			StallIDs:     upd.StallIDs,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order_id":      upd.OrderID,
		"status":        upd.Status,
		"points_earned": upd.PointsEarned,
	})
}

func (h *OrdersHandler) publish(p *kafkax.Producer, orderID, eventType string, r *http.Request, payload any) {
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(market.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
