package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hsinyuc/go-night-market/internal/market"
)

type CatalogHandler struct {
	Catalog *market.CatalogRepo
	Members *market.MemberRepo
	Log     *zap.Logger
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/api/products", h.listProducts)
	r.Get("/api/stalls", h.listStalls)
	r.Get("/api/member/me", h.memberMe)
	r.Get("/api/member/points", h.pointHistory)
}

type productView struct {
	ID            string          `json:"id"`
	StallID       string          `json:"stall_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Status        string          `json:"status"`
}

func toProductViews(products []market.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{
			ID:            p.ID,
			StallID:       p.StallID,
			Name:          p.Name,
			Description:   p.Description,
			Unit:          p.Unit,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
			Status:        string(p.Status),
		})
	}
	return out
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.Catalog.ListProducts(ctx, r.URL.Query().Get("stall_id"))
	if err != nil {
		h.Log.Error("list products", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductViews(products))
}

type stallView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ContactPhone string `json:"contact_phone"`
}

func (h *CatalogHandler) listStalls(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	stalls, err := h.Catalog.ListStalls(ctx)
	if err != nil {
		h.Log.Error("list stalls", zap.Error(err))
		writeError(w, err)
		return
	}
	views := make([]stallView, 0, len(stalls))
	for _, s := range stalls {
		views = append(views, stallView{ID: s.ID, Name: s.Name, Description: s.Description, ContactPhone: s.ContactPhone})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *CatalogHandler) memberMe(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	m, err := h.Members.Get(ctx, member)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":             m.ID,
		"username":       m.Username,
		"current_points": m.CurrentPoints,
		"status":         m.Status,
	})
}

type pointTxView struct {
	ID            string    `json:"id"`
	ParentOrderID string    `json:"parent_order_id,omitempty"`
	Kind          string    `json:"kind"`
	Points        int       `json:"points"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *CatalogHandler) pointHistory(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	txs, err := h.Members.PointHistory(ctx, member)
	if err != nil {
		h.Log.Error("point history", zap.Error(err))
		writeError(w, err)
		return
	}
	views := make([]pointTxView, 0, len(txs))
	for _, t := range txs {
		views = append(views, pointTxView{
			ID:            t.ID,
			ParentOrderID: t.ParentOrderID,
			Kind:          t.Kind,
			Points:        t.Points,
			CreatedAt:     t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}
