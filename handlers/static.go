package handlers

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/bookstore/service"
	"go.uber.org/zap"
)

// pages maps browser routes to files in the pages directory.
var pages = map[string]string{
	"/":               "login.html",
	"/home":           "home.html",
	"/products":       "products.html",
	"/admin":          "admin.html",
	"/checkout":       "cart.html",
	"/profile":        "profile.html",
	"/create_account": "create_account.html",
}

func servePage(dir, file string) http.HandlerFunc {
	path := filepath.Join(dir, file)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

type ImagesHandler struct {
	Images service.ImageStore
	Log    *zap.Logger
}

// Serve streams a stored cover image.
func (h *ImagesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if n, err := url.PathUnescape(name); err == nil {
		name = n
	}
	body, contentType, err := h.Images.Open(r.Context(), name)
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("open image", zap.String("name", name), zap.Error(err))
		http.Error(w, "failed to read image", http.StatusInternalServerError)
		return
	}
	defer body.Close()
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, body); err != nil {
		h.Log.Warn("stream image", zap.String("name", name), zap.Error(err))
	}
}
