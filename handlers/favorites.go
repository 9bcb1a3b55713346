package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zain100000/bookheaven-backend/middleware"
	"github.com/zain100000/bookheaven-backend/models"
	"github.com/zain100000/bookheaven-backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FavoritesHandler struct {
	DB *store.DB
}

type FavoriteRequest struct {
	BookID string `json:"bookId"`
}

func (h *FavoritesHandler) parseFavoriteRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return primitive.NilObjectID, p, false
	}
	var req FavoriteRequest
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

func (h *FavoritesHandler) respondFavorites(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, message string) {
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil || user == nil {
		respondError(w, http.StatusInternalServerError, "failed to load favorites")
		return
	}
	favorites := user.Favorites
	if favorites == nil {
		favorites = []models.FavoriteItem{}
	}
	respondOK(w, http.StatusOK, message, M{"favorites": favorites})
}

// AddToFavorites appends the book; adding an existing favorite is a
// conflict, not a no-op. POST /favorite/add-to-favorite
func (h *FavoritesHandler) AddToFavorites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	bookID, p, ok := h.parseFavoriteRequest(w, r)
	if !ok {
		return
	}
	added, err := h.DB.AddFavorite(r.Context(), p.ID, bookID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update favorites")
		return
	}
	if !added {
		respondError(w, http.StatusConflict, "book already in favorites")
		return
	}
	h.respondFavorites(w, r, p.ID, "book added to favorites")
}

// RemoveFromFavorites pulls the book; removing an absent favorite is a
// not-found error. POST /favorite/remove-from-favorite
func (h *FavoritesHandler) RemoveFromFavorites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	bookID, p, ok := h.parseFavoriteRequest(w, r)
	if !ok {
		return
	}
	removed, err := h.DB.RemoveFavorite(r.Context(), p.ID, bookID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update favorites")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "book not in favorites")
		return
	}
	h.respondFavorites(w, r, p.ID, "book removed from favorites")
}
