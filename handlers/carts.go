package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/bookstore/service"
	"go.uber.org/zap"
)

type CartsHandler struct {
	Carts *service.Carts
	Log   *zap.Logger
}

type AddToCartRequest struct {
	ISBN     string `json:"isbn"`
	Quantity any    `json:"quantity"`
	ImageURL string `json:"imageUrl"`
}

type UpdateCartRequest struct {
	ISBN     string `json:"isbn"`
	Quantity any    `json:"quantity"`
}

func (h *CartsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	cart, err := h.Carts.Get(r.Context(), userID)
	if err != nil {
		fail(w, r, h.Log, err, "Failed to fetch cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartsHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	qty, err := quantity(req.Quantity, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidQuantity.Msg)
		return
	}
	cart, err := h.Carts.Add(r.Context(), userID, req.ISBN, qty, req.ImageURL)
	if err != nil {
		fail(w, r, h.Log, err, "Failed to add to cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req UpdateCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	qty, err := quantity(req.Quantity, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidQuantity.Msg)
		return
	}
	cart, err := h.Carts.UpdateQuantity(r.Context(), userID, req.ISBN, qty)
	if err != nil {
		fail(w, r, h.Log, err, "Failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	cart, err := h.Carts.Remove(r.Context(), userID, chi.URLParam(r, "isbn"))
	if err != nil {
		fail(w, r, h.Log, err, "Failed to remove from cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	cart, err := h.Carts.Clear(r.Context(), userID)
	if err != nil {
		fail(w, r, h.Log, err, "Failed to clear cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartsHandler) Total(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	t, err := h.Carts.Total(r.Context(), userID)
	if err != nil {
		fail(w, r, h.Log, err, "Failed to calculate total")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subtotal":  t.Subtotal,
		"total":     t.Total,
		"itemCount": t.ItemCount,
	})
}

// quantity reads a JSON quantity sent as a number or numeric string. A
// missing value yields def.
func quantity(v any, def int) (int, error) {
	switch q := v.(type) {
	case nil:
		return def, nil
	case float64:
		if q != math.Trunc(q) || math.Abs(q) > math.MaxInt32 {
			return 0, fmt.Errorf("quantity %v is not a whole number", q)
		}
		return int(q), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(q))
	default:
		return 0, fmt.Errorf("quantity has type %T", v)
	}
}
