package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeReviewRepo struct {
	reviews map[primitive.ObjectID]*models.Review
}

func (f *fakeReviewRepo) InsertReview(_ context.Context, review *models.Review) error {
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) ReviewByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) AllReviews(_ context.Context) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReviewRepo) UpdateReview(_ context.Context, id primitive.ObjectID, comment string, rating float64) error {
	if r, ok := f.reviews[id]; ok {
		r.Comment = comment
		r.Rating = rating
	}
	return nil
}

func (f *fakeReviewRepo) DeleteReview(_ context.Context, id primitive.ObjectID) error {
	delete(f.reviews, id)
	return nil
}

type fakeBookStore struct {
	books map[primitive.ObjectID]*models.Book
}

func (f *fakeBookStore) BookByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	return f.books[id], nil
}

func (f *fakeBookStore) SetBookReviews(_ context.Context, bookID primitive.ObjectID, reviews []models.BookReview, rating float64, total int) error {
	b := f.books[bookID]
	b.Reviews = reviews
	b.Rating = rating
	b.TotalReviews = total
	return nil
}

type fakeUserReader struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserReader) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.users[id], nil
}

func newReviewFixture() (*ReviewService, *fakeReviewRepo, *fakeBookStore, *fakeUserReader) {
	repo := &fakeReviewRepo{reviews: map[primitive.ObjectID]*models.Review{}}
	books := &fakeBookStore{books: map[primitive.ObjectID]*models.Book{}}
	users := &fakeUserReader{users: map[primitive.ObjectID]*models.User{}}
	return NewReviewService(repo, books, users), repo, books, users
}

func addReviewedBook(books *fakeBookStore) primitive.ObjectID {
	id := primitive.NewObjectID()
	books.books[id] = &models.Book{ID: id, Title: "Dune", Author: "Herbert", Reviews: []models.BookReview{}}
	return id
}

func TestAddReviewAggregates(t *testing.T) {
	ctx := context.Background()
	svc, repo, books, _ := newReviewFixture()
	bookID := addReviewedBook(books)

	first, err := svc.Add(ctx, bookID, primitive.NewObjectID(), "great", 4)
	require.NoError(t, err)
	book := books.books[bookID]
	assert.Equal(t, 4.0, book.Rating)
	assert.Equal(t, 1, book.TotalReviews)

	// The Review document and the embedded entry share one identity.
	require.Len(t, book.Reviews, 1)
	assert.Equal(t, first.ID, book.Reviews[0].ID)
	require.NotNil(t, repo.reviews[first.ID])

	_, err = svc.Add(ctx, bookID, primitive.NewObjectID(), "meh", 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, book.Rating)
	assert.Equal(t, 2, book.TotalReviews)
}

func TestAddReviewOnePerUser(t *testing.T) {
	ctx := context.Background()
	svc, _, books, _ := newReviewFixture()
	bookID := addReviewedBook(books)
	userID := primitive.NewObjectID()

	_, err := svc.Add(ctx, bookID, userID, "great", 4)
	require.NoError(t, err)
	_, err = svc.Add(ctx, bookID, userID, "changed my mind", 1)
	assert.ErrorIs(t, err, ErrDuplicateReview)
	assert.Equal(t, 1, books.books[bookID].TotalReviews)
}

func TestAddReviewValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, books, _ := newReviewFixture()
	bookID := addReviewedBook(books)

	_, err := svc.Add(ctx, bookID, primitive.NewObjectID(), "x", 5.5)
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.Add(ctx, bookID, primitive.NewObjectID(), "x", -1)
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.Add(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "x", 3)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateReviewRecomputes(t *testing.T) {
	ctx := context.Background()
	svc, repo, books, _ := newReviewFixture()
	bookID := addReviewedBook(books)

	first, err := svc.Add(ctx, bookID, primitive.NewObjectID(), "great", 4)
	require.NoError(t, err)
	_, err = svc.Add(ctx, bookID, primitive.NewObjectID(), "meh", 2)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, first.ID, "rereading changed it", 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Rating)

	book := books.books[bookID]
	assert.Equal(t, 3.5, book.Rating)
	assert.Equal(t, 2, book.TotalReviews)
	assert.Equal(t, "rereading changed it", repo.reviews[first.ID].Comment)
	assert.Equal(t, "rereading changed it", book.Reviews[0].Comment)

	_, err = svc.Update(ctx, primitive.NewObjectID(), "x", 3)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestDeleteReviewResetsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	svc, repo, books, _ := newReviewFixture()
	bookID := addReviewedBook(books)

	only, err := svc.Add(ctx, bookID, primitive.NewObjectID(), "great", 4)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, bookID, only.ID))
	book := books.books[bookID]
	assert.Equal(t, 0.0, book.Rating)
	assert.Equal(t, 0, book.TotalReviews)
	assert.Empty(t, book.Reviews)
	assert.Nil(t, repo.reviews[only.ID])

	assert.ErrorIs(t, svc.Delete(ctx, bookID, only.ID), ErrReviewNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, primitive.NewObjectID(), only.ID), ErrBookNotFound)
}

func TestGetReviewExpandsDisplayFields(t *testing.T) {
	ctx := context.Background()
	svc, _, books, users := newReviewFixture()
	bookID := addReviewedBook(books)
	userID := primitive.NewObjectID()
	users.users[userID] = &models.User{ID: userID, Name: "Ada", Email: "ada@example.com"}

	review, err := svc.Add(ctx, bookID, userID, "great", 4)
	require.NoError(t, err)

	detail, err := svc.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", detail.UserName)
	assert.Equal(t, "ada@example.com", detail.UserEmail)
	assert.Equal(t, "Dune", detail.BookTitle)
	assert.Equal(t, "Herbert", detail.BookAuthor)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = svc.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
