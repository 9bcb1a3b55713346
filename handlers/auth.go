package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zain100000/bookheaven-backend/middleware"
	"github.com/zain100000/bookheaven-backend/models"
	"github.com/zain100000/bookheaven-backend/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	DB        *store.DB
	JWTSecret string
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) createToken(id, role, email string) (string, error) {
	claims := &middleware.Claims{
		UserID: id,
		Role:   role,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour * 7)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}

// UserSignup creates a customer account. POST /user/signup
func (h *AuthHandler) UserSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "name, email and password required")
		return
	}
	existing, err := h.DB.UserByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "email already in use")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Phone:     req.Phone,
		Address:   req.Address,
		Cart:      []models.CartItem{},
		Favorites: []models.FavoriteItem{},
		Orders:    []models.OrderSummary{},
		CreatedAt: time.Now(),
	}
	id, err := h.DB.CreateUser(r.Context(), user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	user.ID = id
	respondOK(w, http.StatusCreated, "user created", M{"user": user})
}

// UserSignin returns a bearer token for a customer. POST /user/signin
func (h *AuthHandler) UserSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password required")
		return
	}
	user, err := h.DB.UserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "signin failed")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	token, err := h.createToken(user.ID.Hex(), models.RoleUser, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not create token")
		return
	}
	respondOK(w, http.StatusOK, "signin successful", M{"token": token, "user": user})
}

// SuperAdminSignup creates an administrative account. POST /super-admin/signup
func (h *AuthHandler) SuperAdminSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "name, email and password required")
		return
	}
	existing, err := h.DB.SuperAdminByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create super admin")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "email already in use")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create super admin")
		return
	}
	admin := &models.SuperAdmin{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}
	id, err := h.DB.CreateSuperAdmin(r.Context(), admin)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create super admin")
		return
	}
	admin.ID = id
	respondOK(w, http.StatusCreated, "super admin created", M{"superAdmin": admin})
}

// SuperAdminSignin returns a bearer token for an administrator.
// POST /super-admin/signin
func (h *AuthHandler) SuperAdminSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password required")
		return
	}
	admin, err := h.DB.SuperAdminByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "signin failed")
		return
	}
	if admin == nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	token, err := h.createToken(admin.ID.Hex(), models.RoleSuperAdmin, admin.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not create token")
		return
	}
	respondOK(w, http.StatusOK, "signin successful", M{"token": token, "superAdmin": admin})
}
