package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kevinaaaquil/bookstore/cache"
	"github.com/kevinaaaquil/bookstore/config"
	"github.com/kevinaaaquil/bookstore/handlers"
	"github.com/kevinaaaquil/bookstore/logger"
	"github.com/kevinaaaquil/bookstore/service"
	"github.com/kevinaaaquil/bookstore/store"
	"github.com/kevinaaaquil/bookstore/store/memory"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
)

// backend is the storage surface shared by the mongo and in-memory stores.
type backend interface {
	service.BookStore
	service.CartStore
	service.UserStore
	Ping(ctx context.Context) error
}

// app is the wired process: config, logger and the services on top of the
// selected store.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *store.DB // nil with the memory driver
	store    backend
	books    *service.Books
	carts    *service.Carts
	accounts *service.Accounts
	closers  []func()
}

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "bookstore",
		Short:        "Online bookstore backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		seedCmd(),
		setupCmd(),
	)
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var rotate *logger.FileRotate
	if cfg.LogFile != "" {
		rotate = &logger.FileRotate{
			Filename:   cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
		}
	}
	log, flush := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, Rotate: rotate})
	a := &app{cfg: cfg, log: log, closers: []func(){flush}}

	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory store; data is lost on exit")
		a.store = memory.New()
	default:
		connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err := store.NewMongoDB(connCtx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("mongodb: %w", err)
		}
		db.Transactions = cfg.Transactions
		a.db = db
		a.store = db
		a.closers = append([]func(){func() {
			if err := db.Disconnect(context.Background()); err != nil {
				log.Warn("mongodb disconnect", zap.Error(err))
			}
		}}, a.closers...)
		log.Info("connected to mongodb", zap.String("db", cfg.DBName), zap.Bool("transactions", cfg.Transactions))
	}

	a.books = &service.Books{Store: a.store, Log: log.Named("books")}
	a.carts = &service.Carts{Store: a.store, Books: a.books}
	a.accounts = &service.Accounts{Store: a.store, Log: log.Named("accounts")}
	return a, nil
}

// close runs the registered cleanups, newest first.
func (a *app) close() {
	for _, fn := range a.closers {
		fn()
	}
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	if a.db != nil {
		if err := a.db.EnsureIndexes(ctx); err != nil {
			log.Error("ensure indexes", zap.Error(err))
			return err
		}
	}
	if _, err := a.books.EnsureSeed(ctx); err != nil {
		log.Error("seed default books", zap.Error(err))
		return err
	}

	if cfg.RedisAddr != "" {
		c := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err := c.Ping(ctx); err != nil {
			log.Warn("redis unavailable; catalog cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			c.Close()
		} else {
			a.books.Cache = c
			a.closers = append([]func(){func() { c.Close() }}, a.closers...)
			log.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		}
	}
	if cfg.MetadataLookup {
		a.books.Metadata = service.NewGoogleBooks()
	}

	var images service.ImageStore = &service.LocalImages{Dir: cfg.UploadDir}
	if cfg.S3Bucket != "" {
		s3Images, err := service.NewS3Images(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Error("s3", zap.Error(err))
			return err
		}
		images = s3Images
		log.Info("storing images in s3", zap.String("bucket", cfg.S3Bucket))
	}

	router := handlers.NewRouter(handlers.Deps{
		Books:          a.books,
		Carts:          a.carts,
		Accounts:       a.accounts,
		Images:         images,
		Log:            log,
		Ping:           a.store.Ping,
		PagesDir:       cfg.PagesDir,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		RequestTimeout: cfg.RequestTimeout,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTTTL,
		AuthRequired:   cfg.AuthRequired,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr), zap.Bool("authRequired", cfg.AuthRequired))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		log.Error("server", zap.Error(err))
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	return nil
}
