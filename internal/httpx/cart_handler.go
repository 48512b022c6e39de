package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hsinyuc/go-night-market/internal/market"
)

type CartHandler struct {
	Cart *market.CartRepo
	Log  *zap.Logger
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Post("/api/cart", h.add)
	r.Get("/api/cart", h.list)
	r.Patch("/api/cart/{id}", h.updateQuantity)
	r.Delete("/api/cart/{id}", h.remove)
}

type AddCartReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	var req AddCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id and positive quantity required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.Add(ctx, member, req.ProductID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) list(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lines, err := h.Cart.List(ctx, member)
	if err != nil {
		h.Log.Error("list cart", zap.Error(err))
		writeError(w, err)
		return
	}
	if lines == nil {
		lines = []market.CartLine{}
	}
	writeJSON(w, http.StatusOK, lines)
}

type UpdateCartReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	var req UpdateCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "positive quantity required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.UpdateQuantity(ctx, member, chi.URLParam(r, "id"), req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	member := requireMember(w, r)
	if member == "" {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.Remove(ctx, member, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
