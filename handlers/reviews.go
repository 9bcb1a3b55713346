package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zain100000/bookheaven-backend/middleware"
	"github.com/zain100000/bookheaven-backend/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewsHandler struct {
	Reviews *service.ReviewService
}

type ReviewRequest struct {
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}

func respondReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrReviewNotFound) || errors.Is(err, service.ErrBookNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidRating):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateReview):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "review operation failed")
	}
}

// AddReview creates a review by the caller for the book.
// POST /review/add-review/{bookId}
func (h *ReviewsHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	bookID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "bookId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	review, err := h.Reviews.Add(r.Context(), bookID, p.ID, req.Comment, req.Rating)
	if err != nil {
		respondReviewError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, "review added", M{"review": review})
}

// GetAllReviews returns every review expanded with reviewer and book
// display fields. GET /review/get-all-reviews
func (h *ReviewsHandler) GetAllReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	reviews, err := h.Reviews.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	respondOK(w, http.StatusOK, "reviews fetched", M{"reviews": reviews})
}

// GetReviewByID returns one expanded review.
// GET /review/get-review-by-id/{reviewId}
func (h *ReviewsHandler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid review id")
		return
	}
	review, err := h.Reviews.GetByID(r.Context(), id)
	if err != nil {
		respondReviewError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "review fetched", M{"review": review})
}

// UpdateReview rewrites the review's comment and rating.
// PATCH /review/update-review/{reviewId}
func (h *ReviewsHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid review id")
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	review, err := h.Reviews.Update(r.Context(), id, req.Comment, req.Rating)
	if err != nil {
		respondReviewError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "review updated", M{"review": review})
}

// DeleteReview removes the embedded entry, recomputes the book rating and
// deletes the review record. DELETE /review/delete-review/{bookId}/{reviewId}
func (h *ReviewsHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	bookID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "bookId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid review id")
		return
	}
	if err := h.Reviews.Delete(r.Context(), bookID, reviewID); err != nil {
		respondReviewError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "review deleted", nil)
}
