package service

import (
	"context"
	"errors"
	"time"

	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("user has already reviewed this book")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5")
)

// ReviewRepository is implemented by store.DB.
type ReviewRepository interface {
	InsertReview(ctx context.Context, review *models.Review) error
	ReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	AllReviews(ctx context.Context) ([]models.Review, error)
	UpdateReview(ctx context.Context, id primitive.ObjectID, comment string, rating float64) error
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
}

// ReviewBookStore reads books and rewrites their embedded review state.
type ReviewBookStore interface {
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	SetBookReviews(ctx context.Context, bookID primitive.ObjectID, reviews []models.BookReview, rating float64, total int) error
}

// ReviewUserReader resolves reviewer references for display expansion.
type ReviewUserReader interface {
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type ReviewService struct {
	reviews ReviewRepository
	books   ReviewBookStore
	users   ReviewUserReader
}

func NewReviewService(reviews ReviewRepository, books ReviewBookStore, users ReviewUserReader) *ReviewService {
	return &ReviewService{reviews: reviews, books: books, users: users}
}

// recompute derives the book's rating and count from its embedded entries.
// The mean is recalculated from scratch on every mutation rather than
// maintained incrementally.
func recompute(reviews []models.BookReview) (rating float64, total int) {
	total = len(reviews)
	if total == 0 {
		return 0, 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(total), total
}

// Add creates a Review document and its embedded twin on the book, sharing
// one identity. One review per (user, book) pair.
func (s *ReviewService) Add(ctx context.Context, bookID, userID primitive.ObjectID, comment string, rating float64) (*models.Review, error) {
	if rating < 0 || rating > 5 {
		return nil, ErrInvalidRating
	}
	book, err := s.books.BookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	for _, r := range book.Reviews {
		if r.UserID == userID {
			return nil, ErrDuplicateReview
		}
	}

	review := &models.Review{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		BookID:    bookID,
		Comment:   comment,
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviews.InsertReview(ctx, review); err != nil {
		return nil, err
	}

	embedded := append(book.Reviews, models.BookReview{
		ID:      review.ID,
		UserID:  userID,
		Comment: comment,
		Rating:  rating,
	})
	avg, total := recompute(embedded)
	if err := s.books.SetBookReviews(ctx, bookID, embedded, avg, total); err != nil {
		return nil, err
	}
	return review, nil
}

// Update rewrites both the Review document and its embedded twin, then
// recomputes the book's rating.
func (s *ReviewService) Update(ctx context.Context, reviewID primitive.ObjectID, comment string, rating float64) (*models.Review, error) {
	if rating < 0 || rating > 5 {
		return nil, ErrInvalidRating
	}
	review, err := s.reviews.ReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if err := s.reviews.UpdateReview(ctx, reviewID, comment, rating); err != nil {
		return nil, err
	}

	book, err := s.books.BookByID(ctx, review.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	found := false
	for i := range book.Reviews {
		if book.Reviews[i].ID == reviewID {
			book.Reviews[i].Comment = comment
			book.Reviews[i].Rating = rating
			found = true
			break
		}
	}
	if !found {
		return nil, ErrReviewNotFound
	}
	avg, total := recompute(book.Reviews)
	if err := s.books.SetBookReviews(ctx, book.ID, book.Reviews, avg, total); err != nil {
		return nil, err
	}

	review.Comment = comment
	review.Rating = rating
	return review, nil
}

// Delete removes the embedded entry first, recomputes the book's rating,
// then deletes the Review document.
func (s *ReviewService) Delete(ctx context.Context, bookID, reviewID primitive.ObjectID) error {
	book, err := s.books.BookByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrBookNotFound
	}
	idx := -1
	for i := range book.Reviews {
		if book.Reviews[i].ID == reviewID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrReviewNotFound
	}
	remaining := append(book.Reviews[:idx:idx], book.Reviews[idx+1:]...)
	avg, total := recompute(remaining)
	if err := s.books.SetBookReviews(ctx, bookID, remaining, avg, total); err != nil {
		return err
	}
	return s.reviews.DeleteReview(ctx, reviewID)
}

// ReviewDetail is a review expanded with reviewer and book display fields.
type ReviewDetail struct {
	models.Review
	UserName   string `json:"userName,omitempty"`
	UserEmail  string `json:"userEmail,omitempty"`
	BookTitle  string `json:"bookTitle,omitempty"`
	BookAuthor string `json:"bookAuthor,omitempty"`
}

func (s *ReviewService) expand(ctx context.Context, review models.Review) ReviewDetail {
	detail := ReviewDetail{Review: review}
	if u, err := s.users.UserByID(ctx, review.UserID); err == nil && u != nil {
		detail.UserName = u.Name
		detail.UserEmail = u.Email
	}
	if b, err := s.books.BookByID(ctx, review.BookID); err == nil && b != nil {
		detail.BookTitle = b.Title
		detail.BookAuthor = b.Author
	}
	return detail
}

func (s *ReviewService) GetAll(ctx context.Context) ([]ReviewDetail, error) {
	reviews, err := s.reviews.AllReviews(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewDetail, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, s.expand(ctx, r))
	}
	return out, nil
}

func (s *ReviewService) GetByID(ctx context.Context, id primitive.ObjectID) (*ReviewDetail, error) {
	review, err := s.reviews.ReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	detail := s.expand(ctx, *review)
	return &detail, nil
}
