package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/http/respond"
	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/models/dto"
	"github.com/agrisense/agrisense-be/internal/storage"
)

// OrderHandler owns order placement and fulfilment endpoints. All routes
// require authentication; listing every order and marking delivery are
// admin-only. Reads of a single order are limited to its owner or an admin.
type OrderHandler struct {
	orders storage.OrderStore
	users  storage.UserStore
}

// NewOrderHandler constructs the handler.
func NewOrderHandler(orders storage.OrderStore, users storage.UserStore) *OrderHandler {
	return &OrderHandler{orders: orders, users: users}
}

// Register attaches order routes.
func (h *OrderHandler) Register(mux *http.ServeMux, authed, admin Middleware) {
	mux.Handle("POST /api/orders", authed(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /api/orders", admin(http.HandlerFunc(h.handleListAll)))
	mux.Handle("GET /api/orders/myorders", authed(http.HandlerFunc(h.handleMine)))
	mux.Handle("GET /api/orders/{id}", authed(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/orders/{id}/pay", authed(http.HandlerFunc(h.handlePay)))
	mux.Handle("PUT /api/orders/{id}/deliver", admin(http.HandlerFunc(h.handleDeliver)))
}

func (h *OrderHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(req.Items) == 0 {
		respond.Error(w, http.StatusBadRequest, "No order items")
		return
	}

	var total float64
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			respond.Error(w, http.StatusBadRequest, "Item quantity must be positive")
			return
		}
		total += item.Price * float64(item.Quantity)
	}

	created, err := h.orders.CreateOrder(r.Context(), models.Order{
		UserID:        principal.UserID,
		Items:         req.Items,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		TotalPrice:    total,
	})
	if err != nil {
		logrus.WithError(err).Error("create order failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusCreated, "Order created", created)
}

func (h *OrderHandler) handleListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		logrus.WithError(err).Error("list orders failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", orders)
}

func (h *OrderHandler) handleMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	orders, err := h.orders.OrdersByUser(r.Context(), principal.UserID)
	if err != nil {
		logrus.WithError(err).Error("list own orders failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", orders)
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	order, ok := h.fetchAuthorized(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, "ok", order)
}

func (h *OrderHandler) handlePay(w http.ResponseWriter, r *http.Request) {
	order, ok := h.fetchAuthorized(w, r)
	if !ok {
		return
	}
	paid, err := h.orders.MarkOrderPaid(r.Context(), order.ID)
	if err != nil {
		logrus.WithError(err).Error("mark order paid failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "Order paid", paid)
}

func (h *OrderHandler) handleDeliver(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	delivered, err := h.orders.MarkOrderDelivered(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Order not found")
			return
		}
		logrus.WithError(err).Error("mark order delivered failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "Order delivered", delivered)
}

// fetchAuthorized loads the order from the path and ensures the caller owns
// it or is an admin. It writes the error response itself when returning
// ok=false.
func (h *OrderHandler) fetchAuthorized(w http.ResponseWriter, r *http.Request) (models.Order, bool) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authorization token is required")
		return models.Order{}, false
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Order not found")
		return models.Order{}, false
	}
	order, err := h.orders.FindOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Order not found")
			return models.Order{}, false
		}
		logrus.WithError(err).Error("get order failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return models.Order{}, false
	}
	if order.UserID != principal.UserID {
		user, err := h.users.FindByID(r.Context(), principal.UserID)
		if err != nil || !user.IsAdmin {
			respond.Error(w, http.StatusUnauthorized, "Not authorized as an admin")
			return models.Order{}, false
		}
	}
	return order, true
}
