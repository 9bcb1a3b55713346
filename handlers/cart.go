package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zain100000/bookheaven-backend/middleware"
	"github.com/zain100000/bookheaven-backend/models"
	"github.com/zain100000/bookheaven-backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartHandler struct {
	DB *store.DB
}

type CartRequest struct {
	BookID string `json:"bookId"`
}

func (h *CartHandler) parseCartRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return primitive.NilObjectID, p, false
	}
	var req CartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return primitive.NilObjectID, p, false
	}
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid book id")
		return primitive.NilObjectID, p, false
	}
	book, err := h.DB.BookByID(r.Context(), bookID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load book")
		return primitive.NilObjectID, p, false
	}
	if book == nil {
		respondError(w, http.StatusNotFound, "book not found")
		return primitive.NilObjectID, p, false
	}
	return bookID, p, true
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, message string) {
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil || user == nil {
		respondError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	cart := user.Cart
	if cart == nil {
		cart = []models.CartItem{}
	}
	respondOK(w, http.StatusOK, message, M{"cart": cart})
}

// AddToCart increments the quantity of an existing entry or appends a new
// one with quantity 1. POST /cart/add-to-cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	bookID, p, ok := h.parseCartRequest(w, r)
	if !ok {
		return
	}
	bumped, err := h.DB.IncrementCartQuantity(r.Context(), p.ID, bookID, 1)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}
	if !bumped {
		if err := h.DB.PushCartItem(r.Context(), p.ID, models.CartItem{BookID: bookID, Quantity: 1}); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to update cart")
			return
		}
	}
	h.respondCart(w, r, p.ID, "book added to cart")
}

// RemoveFromCart decrements the quantity, removing the entry entirely when
// it reaches zero. POST /cart/remove-from-cart
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	bookID, p, ok := h.parseCartRequest(w, r)
	if !ok {
		return
	}
	user, err := h.DB.UserByID(r.Context(), p.ID)
	if err != nil || user == nil {
		respondError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	quantity := 0
	for _, item := range user.Cart {
		if item.BookID == bookID {
			quantity = item.Quantity
			break
		}
	}
	if quantity == 0 {
		respondError(w, http.StatusNotFound, "book not in cart")
		return
	}
	if quantity > 1 {
		if _, err := h.DB.IncrementCartQuantity(r.Context(), p.ID, bookID, -1); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to update cart")
			return
		}
	} else {
		if _, err := h.DB.PullCartItem(r.Context(), p.ID, bookID); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to update cart")
			return
		}
	}
	h.respondCart(w, r, p.ID, "book removed from cart")
}
