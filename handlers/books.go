package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zain100000/bookheaven-backend/middleware"
	"github.com/zain100000/bookheaven-backend/models"
	"github.com/zain100000/bookheaven-backend/service"
	"github.com/zain100000/bookheaven-backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	imagePrefix = "books/images/"
	filePrefix  = "books/files/"

	contentTypePDF = "application/pdf"
)

type BooksHandler struct {
	DB       *store.DB
	Media    *service.MediaService
	MaxBytes int64
}

// uploadPart reads one multipart file and stores it in S3. Returns the
// object key and its public URL.
func (h *BooksHandler) uploadPart(r *http.Request, file multipart.File, header *multipart.FileHeader, prefix, fallbackType string) (key, url string, err error) {
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = fallbackType
	}
	key, err = h.Media.Upload(r.Context(), prefix, header.Filename, file, contentType)
	if err != nil {
		return "", "", err
	}
	return key, h.Media.PublicURL(key), nil
}

// UploadBook creates a catalog entry from a multipart form carrying the
// cover image (bookImage), the book file (bookFile) and the metadata
// fields. Both artifacts are stored before the document is inserted.
// POST /book/upload-book (super admin only)
func (h *BooksHandler) UploadBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.Media == nil {
		respondError(w, http.StatusServiceUnavailable, "upload not configured")
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	author := strings.TrimSpace(r.FormValue("author"))
	if title == "" || author == "" {
		respondError(w, http.StatusBadRequest, "title and author required")
		return
	}
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		respondError(w, http.StatusBadRequest, "price must be a non-negative number")
		return
	}
	stock := 0
	if v := r.FormValue("stock"); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil || stock < 0 {
			respondError(w, http.StatusBadRequest, "stock must be a non-negative integer")
			return
		}
	}

	imageFile, imageHeader, err := r.FormFile("bookImage")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing bookImage")
		return
	}
	bookFile, bookHeader, err := r.FormFile("bookFile")
	if err != nil {
		imageFile.Close()
		respondError(w, http.StatusBadRequest, "missing bookFile")
		return
	}

	imageKey, imageURL, err := h.uploadPart(r, imageFile, imageHeader, imagePrefix, "image/jpeg")
	if err != nil {
		bookFile.Close()
		respondError(w, http.StatusInternalServerError, "failed to upload cover image")
		return
	}
	fileKey, fileURL, err := h.uploadPart(r, bookFile, bookHeader, filePrefix, contentTypePDF)
	if err != nil {
		_ = h.Media.Delete(r.Context(), imageKey)
		respondError(w, http.StatusInternalServerError, "failed to upload book file")
		return
	}

	book := &models.Book{
		UploadedBy:  p.ID,
		Title:       title,
		Author:      author,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Price:       price,
		Stock:       stock,
		Publisher:   r.FormValue("publisher"),
		PublishDate: r.FormValue("publishDate"),
		ImageS3Key:  imageKey,
		ImageURL:    imageURL,
		FileS3Key:   fileKey,
		FileURL:     fileURL,
		Reviews:     []models.BookReview{},
		CreatedAt:   time.Now(),
	}
	id, err := h.DB.InsertBook(r.Context(), book)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save book")
		return
	}
	book.ID = id
	respondOK(w, http.StatusCreated, "book uploaded", M{"book": book})
}

// List returns all books, newest first. GET /book/get-all-books
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	books, err := h.DB.AllBooks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list books")
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	respondOK(w, http.StatusOK, "books fetched", M{"books": books})
}

// Get returns one book. GET /book/get-book-by-id/{id}
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load book")
		return
	}
	if book == nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}
	respondOK(w, http.StatusOK, "book fetched", M{"book": book})
}

// Update rewrites a book's metadata and optionally replaces either stored
// artifact. PATCH /book/update-book/{id} (super admin only)
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPut {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load book")
		return
	}
	if book == nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	if v := r.FormValue("title"); v != "" {
		book.Title = v
	}
	if v := r.FormValue("author"); v != "" {
		book.Author = v
	}
	if v := r.FormValue("description"); v != "" {
		book.Description = v
	}
	if v := r.FormValue("category"); v != "" {
		book.Category = v
	}
	if v := r.FormValue("publisher"); v != "" {
		book.Publisher = v
	}
	if v := r.FormValue("publishDate"); v != "" {
		book.PublishDate = v
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			respondError(w, http.StatusBadRequest, "price must be a non-negative number")
			return
		}
		book.Price = price
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			respondError(w, http.StatusBadRequest, "stock must be a non-negative integer")
			return
		}
		book.Stock = stock
	}

	// Replacement artifacts: upload the new object first, drop the old one
	// only after the upload succeeded.
	if file, header, err := r.FormFile("bookImage"); err == nil {
		if h.Media == nil {
			file.Close()
			respondError(w, http.StatusServiceUnavailable, "upload not configured")
			return
		}
		oldKey := book.ImageS3Key
		key, url, err := h.uploadPart(r, file, header, imagePrefix, "image/jpeg")
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to upload cover image")
			return
		}
		book.ImageS3Key, book.ImageURL = key, url
		if oldKey != "" {
			_ = h.Media.Delete(r.Context(), oldKey)
		}
	}
	if file, header, err := r.FormFile("bookFile"); err == nil {
		if h.Media == nil {
			file.Close()
			respondError(w, http.StatusServiceUnavailable, "upload not configured")
			return
		}
		oldKey := book.FileS3Key
		key, url, err := h.uploadPart(r, file, header, filePrefix, contentTypePDF)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to upload book file")
			return
		}
		book.FileS3Key, book.FileURL = key, url
		if oldKey != "" {
			_ = h.Media.Delete(r.Context(), oldKey)
		}
	}

	if err := h.DB.UpdateBook(r.Context(), id, book); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update book")
		return
	}
	respondOK(w, http.StatusOK, "book updated", M{"book": book})
}

// Delete removes the stored artifacts and then the document.
// DELETE /book/delete-book/{id} (super admin only)
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	imageKey, fileKey, err := h.DB.DeleteBook(r.Context(), id)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete book")
		return
	}
	if h.Media != nil {
		if imageKey != "" {
			_ = h.Media.Delete(r.Context(), imageKey)
		}
		if fileKey != "" {
			_ = h.Media.Delete(r.Context(), fileKey)
		}
	}
	respondOK(w, http.StatusOK, "book deleted", nil)
}
