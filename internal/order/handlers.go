package order

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/laybackco/backend-garments/internal/common"
)

// Lister is the read surface the HTTP handlers need from the store.
type Lister interface {
	Get(ctx context.Context, orderID, userID int64) (Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]Order, error)
}

// Handler serves the authenticated order read endpoints.
type Handler struct {
	Store Lister
}

// List handles GET /api/v1/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	limit := int32(common.AtoiDefault(r.URL.Query().Get("limit"), 20))
	offset := int32(common.AtoiDefault(r.URL.Query().Get("offset"), 0))
	if offset < 0 {
		offset = 0
	}
	orders, err := h.Store.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "ORDER_LIST_ERROR", "unable to list orders", nil)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orders})
}

// Get handles GET /api/v1/orders/{orderId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUserID(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ORDER_ID", "order id must be an integer", nil)
		return
	}
	o, err := h.Store.Get(r.Context(), orderID, userID)
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found", nil)
		return
	}
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "ORDER_FETCH_ERROR", "unable to load order", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": o})
}

func authedUserID(r *http.Request) (int64, bool) {
	raw, ok := common.UserID(r.Context())
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
