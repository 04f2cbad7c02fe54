package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kevinaaaquil/bookstore/middleware"
	"github.com/kevinaaaquil/bookstore/models"
	"github.com/kevinaaaquil/bookstore/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Accounts  *service.Accounts
	JWTSecret string
	TokenTTL  time.Duration
	Log       *zap.Logger
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Msg)
		return
	}
	user, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, h.Log, err, "Server error")
		return
	}
	token, err := h.createToken(user)
	if err != nil {
		fail(w, r, h.Log, err, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  loginUser{ID: user.UserID, Name: user.Name, Type: user.Type},
		"token": token,
	})
}

func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.Accounts.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(w, r, h.Log, err, "Failed to create account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Account created successfully",
		"userId":  user.UserID,
	})
}

func (h *AuthHandler) createToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &middleware.Claims{
		UserID: user.UserID,
		Type:   user.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.UserID),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}
