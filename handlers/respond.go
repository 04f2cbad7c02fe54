package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/bookstore/service"
	"go.uber.org/zap"
)

// writeJSON sends {"success": true, ...payload}.
func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// fail translates err into a response. Domain errors carry their own
// message and status; anything else is logged and reported as fallback.
func fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, fallback string) {
	if e, ok := service.AsError(err); ok {
		writeError(w, statusFor(e.Kind), e.Msg)
		return
	}
	log.Error(fallback,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, fallback)
}

func statusFor(k service.Kind) int {
	switch k {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func userIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
