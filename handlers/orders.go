package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zain100000/bookheaven-backend/middleware"
	"github.com/zain100000/bookheaven-backend/models"
	"github.com/zain100000/bookheaven-backend/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrdersHandler struct {
	Orders *service.OrderService
}

type PlaceOrderRequest struct {
	Items           []PlaceOrderItem `json:"items"`
	ShippingAddress string           `json:"shippingAddress"`
	ShippingFee     float64          `json:"shippingFee"`
	PaymentMethod   string           `json:"paymentMethod"`
	TotalAmount     float64          `json:"totalAmount"`
}

type PlaceOrderItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdatePaymentRequest struct {
	Payment string `json:"payment"`
}

// respondOrderError translates the order service's business errors into the
// response envelope.
func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound) || errors.Is(err, service.ErrBookNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyOrder) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrTotalMismatch) ||
		errors.Is(err, service.ErrInvalidStatus) ||
		errors.Is(err, service.ErrInvalidPayment):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidTransition) ||
		errors.Is(err, service.ErrFinalState) ||
		errors.Is(err, service.ErrNotCancellable) ||
		errors.Is(err, service.ErrTransitionConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "order operation failed")
	}
}

// PlaceOrder validates and creates an order for the caller.
// POST /order/place-order
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	in := service.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		ShippingFee:     req.ShippingFee,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     req.TotalAmount,
	}
	for _, item := range req.Items {
		bookID, err := primitive.ObjectIDFromHex(item.BookID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid book id: "+item.BookID)
			return
		}
		in.Items = append(in.Items, service.PlaceOrderItem{BookID: bookID, Quantity: item.Quantity})
	}
	order, err := h.Orders.Place(r.Context(), p.ID, in)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, "order placed", M{"order": order})
}

// GetAllOrders returns every order for admins and the caller's own orders
// for everyone else. GET /order/get-all-orders
func (h *OrdersHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var (
		orders []models.Order
		err    error
	)
	if p.Role == models.RoleSuperAdmin {
		orders, err = h.Orders.GetAll(r.Context())
	} else {
		orders, err = h.Orders.GetByUser(r.Context(), p.ID)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	respondOK(w, http.StatusOK, "orders fetched", M{"orders": orders})
}

// GetMyOrders returns the caller's orders. GET /order/get-my-orders
func (h *OrdersHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	orders, err := h.Orders.GetByUser(r.Context(), p.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	respondOK(w, http.StatusOK, "orders fetched", M{"orders": orders})
}

// GetOrderByID returns one order. GET /order/get-order-by-id/{id}
// (super admin only)
func (h *OrdersHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	order, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "order fetched", M{"order": order})
}

// CancelOrder is the purchaser-side cancellation.
// PUT /order/cancel-order/{id}
func (h *OrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	order, err := h.Orders.Cancel(r.Context(), id, p.ID)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "order cancelled", M{"order": order})
}

// UpdateOrderStatus applies an admin status transition.
// PATCH /order/update-order-status/{id} (super admin only)
func (h *OrdersHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), id, models.OrderStatus(req.Status), p.ID)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "order status updated", M{"order": order})
}

// UpdatePaymentStatus sets the payment status.
// PATCH /order/update-payment-status/{id} (super admin only)
func (h *OrdersHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Orders.UpdatePayment(r.Context(), id, models.PaymentStatus(req.Payment)); err != nil {
		respondOrderError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "payment status updated", nil)
}

// DeleteOrder removes the order and its user mirror entry.
// DELETE /order/delete-order/{id} (super admin only)
func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	if err := h.Orders.Delete(r.Context(), id); err != nil {
		respondOrderError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "order deleted", nil)
}
