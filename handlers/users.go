package handlers

import (
	"net/http"

	"github.com/kevinaaaquil/bookstore/service"
	"go.uber.org/zap"
)

type UsersHandler struct {
	Accounts *service.Accounts
	Log      *zap.Logger
}

type UpdateEmailRequest struct {
	NewEmail string `json:"newEmail"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	user, err := h.Accounts.Get(r.Context(), userID)
	if err != nil {
		fail(w, r, h.Log, err, "Failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UsersHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req UpdateEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Accounts.UpdateEmail(r.Context(), userID, req.NewEmail); err != nil {
		fail(w, r, h.Log, err, "Failed to update email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Email updated successfully"})
}

func (h *UsersHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req UpdatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Accounts.UpdatePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		fail(w, r, h.Log, err, "Failed to update password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Password updated successfully"})
}
