package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kevinaaaquil/bookstore/middleware"
	"github.com/kevinaaaquil/bookstore/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	Books    *service.Books
	Carts    *service.Carts
	Accounts *service.Accounts
	Images   service.ImageStore
	Log      *zap.Logger

	// Ping reports store health for /health. Nil means always healthy.
	Ping func(ctx context.Context) error

	PagesDir       string
	MaxUploadBytes int64
	RequestTimeout time.Duration

	JWTSecret    string
	JWTTTL       time.Duration
	AuthRequired bool
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	authHandler := &AuthHandler{Accounts: d.Accounts, JWTSecret: d.JWTSecret, TokenTTL: d.JWTTTL, Log: log}
	booksHandler := &BooksHandler{Books: d.Books, Images: d.Images, MaxBytes: d.MaxUploadBytes, Log: log}
	cartsHandler := &CartsHandler{Carts: d.Carts, Log: log}
	usersHandler := &UsersHandler{Accounts: d.Accounts, Log: log}
	imagesHandler := &ImagesHandler{Images: d.Images, Log: log}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AllowAll())
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	// protect applies mw only when auth enforcement is switched on.
	protect := func(r chi.Router, mw ...func(http.Handler) http.Handler) {
		if d.AuthRequired {
			r.Use(middleware.Auth(d.JWTSecret))
			r.Use(mw...)
		}
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if d.Ping != nil {
			if err := d.Ping(r.Context()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/login", authHandler.Login)
	r.Post("/create_account", authHandler.CreateAccount)

	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", booksHandler.List)
		r.Get("/{isbn}", booksHandler.Get)
		r.Group(func(r chi.Router) {
			protect(r, middleware.RequireAdmin)
			r.Post("/", booksHandler.Create)
			r.Put("/{isbn}", booksHandler.Update)
			r.Delete("/{isbn}", booksHandler.Delete)
		})
	})

	r.Route("/api/cart/{userId}", func(r chi.Router) {
		protect(r, middleware.RequireSelf)
		r.Get("/", cartsHandler.Get)
		r.Post("/add", cartsHandler.Add)
		r.Put("/update", cartsHandler.Update)
		r.Delete("/remove/{isbn}", cartsHandler.Remove)
		r.Delete("/clear", cartsHandler.Clear)
		r.Get("/total", cartsHandler.Total)
	})

	r.Route("/api/users/{userId}", func(r chi.Router) {
		protect(r, middleware.RequireSelf)
		r.Get("/", usersHandler.Get)
		r.Put("/email", usersHandler.UpdateEmail)
		r.Put("/password", usersHandler.UpdatePassword)
	})

	r.Get(service.ImagePathPrefix+"{name}", imagesHandler.Serve)
	for path, file := range pages {
		r.Get(path, servePage(d.PagesDir, file))
	}
	return r
}
