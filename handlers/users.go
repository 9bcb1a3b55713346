package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zain100000/bookheaven-backend/middleware"
	"github.com/zain100000/bookheaven-backend/models"
	"github.com/zain100000/bookheaven-backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UsersHandler struct {
	DB *store.DB
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// GetUserByID returns a user document. GET /user/get-user-by-id/{id}
func (h *UsersHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondOK(w, http.StatusOK, "user fetched", M{"user": user})
}

// GetSuperAdminByID returns a super admin document.
// GET /super-admin/get-super-admin-by-id/{id}
func (h *UsersHandler) GetSuperAdminByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid super admin id")
		return
	}
	admin, err := h.DB.SuperAdminByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load super admin")
		return
	}
	if admin == nil {
		respondError(w, http.StatusNotFound, "super admin not found")
		return
	}
	respondOK(w, http.StatusOK, "super admin fetched", M{"superAdmin": admin})
}

// ResetPassword sets a new password for the authenticated principal,
// whichever collection it lives in. POST /user/reset-password and
// POST /super-admin/reset-password
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "newPassword required")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}
	switch p.Role {
	case models.RoleSuperAdmin:
		err = h.DB.UpdateSuperAdminPassword(r.Context(), p.ID, string(hash))
	default:
		err = h.DB.UpdateUserPassword(r.Context(), p.ID, string(hash))
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}
	respondOK(w, http.StatusOK, "password reset successful", nil)
}

// Logout is stateless: the server holds no session, so it only hands the
// client a null token marker to overwrite its stored one.
// POST /user/logout and POST /super-admin/logout
func (h *UsersHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondOK(w, http.StatusOK, "logged out", M{"token": nil})
}
