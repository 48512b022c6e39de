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
	"go.uber.org/zap"

	kafkax "github.com/hsinyuc/go-night-market/internal/kafka"
	"github.com/hsinyuc/go-night-market/internal/market"
	"github.com/hsinyuc/go-night-market/internal/redisx"
)

// VendorHandler is the stall-manager surface: a stall owner manages their own
// products and sub orders, and reads their dashboard.
type VendorHandler struct {
	Catalog   *market.CatalogRepo
	Lifecycle *market.OrderRepo
	Reads     *market.OrderReadRepo
	Stats     *market.StatsRepo

	SubUpdated *kafkax.Producer // market.suborder.updated

	Redis    *redis.Client
	Log      *zap.Logger
	Service  string
	Settable map[market.SubStatus]bool
}

func (h *VendorHandler) Register(r *chi.Mux) {
	r.Get("/api/stall-manager/products", h.listProducts)
	r.Post("/api/stall-manager/products", h.createProduct)
	r.Patch("/api/stall-manager/products/{id}", h.updateProduct)
	r.Get("/api/stall-manager/orders", h.listSubOrders)
	r.Patch("/api/stall-manager/orders/{id}/status", h.updateSubOrderStatus)
	r.Get("/api/stall-manager/stalls/{id}/dashboard", h.dashboard)
}

func (h *VendorHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	operator := requireMember(w, r)
	if operator == "" {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.Catalog.ListOwnProducts(ctx, operator)
	if err != nil {
		h.Log.Error("list own products", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductViews(products))
}

func (h *VendorHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	operator := requireMember(w, r)
	if operator == "" {
		return
	}
	var in market.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if in.StallID == "" || in.Name == "" || in.Price.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stall_id, name and non-negative price required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := h.Catalog.CreateProduct(ctx, operator, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *VendorHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	operator := requireMember(w, r)
	if operator == "" {
		return
	}
	var in market.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Catalog.UpdateProduct(ctx, operator, chi.URLParam(r, "id"), in); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VendorHandler) listSubOrders(w http.ResponseWriter, r *http.Request) {
	operator := requireMember(w, r)
	if operator == "" {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	subs, err := h.Reads.ListStallSubOrders(ctx, operator)
	if err != nil {
		h.Log.Error("list sub orders", zap.Error(err))
		writeError(w, err)
		return
	}
	views := make([]subOrderView, 0, len(subs))
	for _, so := range subs {
		views = append(views, subOrderView{
			ID:           so.ID,
			StallID:      so.StallID,
			StallName:    so.StallName,
			DeliveryType: so.DeliveryType,
			Status:       so.Status,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *VendorHandler) updateSubOrderStatus(w http.ResponseWriter, r *http.Request) {
	operator := requireMember(w, r)
	if operator == "" {
		return
	}
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	upd, err := h.Lifecycle.UpdateSubOrderStatus(ctx, chi.URLParam(r, "id"), operator,
		market.SubStatus(req.Status), h.Settable)
	if err != nil {
		writeError(w, err)
		return
	}

	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     market.EventSubOrderUpdated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: upd.ParentOrderID,
		Payload: kafkax.MustMarshal(market.SubOrderUpdatedPayload{
			SubOrderID:    upd.SubOrderID,
			ParentOrderID: upd.ParentOrderID,
			StallID:       upd.StallID,
			Status:        upd.Status,
		}),
	}
	h.SubUpdated.Publish(market.PartitionKey(upd.ParentOrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(market.EventSubOrderUpdated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusOK, map[string]any{"status": upd.Status})
}

// dashboard serves cached stats when fresh; recomputes and caches on miss. The
// dashboard consumer drops the key whenever one of the stall's orders is paid.
func (h *VendorHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	operator := requireMember(w, r)
	if operator == "" {
		return
	}
	stallID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if owned, err := h.ownsStall(ctx, operator, stallID); err != nil {
		writeError(w, err)
		return
	} else if !owned {
		writeError(w, market.ErrNotOwner)
		return
	}

	key := fmt.Sprintf(redisx.KeyStallStats, stallID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	stats, err := h.Stats.Dashboard(ctx, stallID, time.Now())
	if err != nil {
		h.Log.Error("dashboard stats", zap.Error(err))
		writeError(w, err)
		return
	}
	b, _ := json.Marshal(stats)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStallStats).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *VendorHandler) ownsStall(ctx context.Context, operatorID, stallID string) (bool, error) {
	stalls, err := h.Catalog.ListOwnStallIDs(ctx, operatorID)
	if err != nil {
		return false, err
	}
	for _, id := range stalls {
		if id == stallID {
			return true, nil
		}
	}
	return false, nil
}
