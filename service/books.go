package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/kevinaaaquil/bookstore/models"
	"github.com/kevinaaaquil/bookstore/store"
	"go.uber.org/zap"
)

type BookStore interface {
	AllBooks(ctx context.Context) ([]models.Book, error)
	BookByISBN(ctx context.Context, isbn string) (*models.Book, error)
	InsertBook(ctx context.Context, book *models.Book) error
	InsertBooks(ctx context.Context, books []models.Book) error
	CountBooks(ctx context.Context) (int64, error)
	UpdateBook(ctx context.Context, isbn string, u models.BookUpdate) (bool, error)
	DeleteBook(ctx context.Context, isbn string) (bool, error)
}

// Cache is a byte cache with load-through semantics.
type Cache interface {
	GetOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

// BookInput is a new catalog entry as submitted by a client. Price is raw
// text and is parsed here.
type BookInput struct {
	ISBN     string
	Title    string
	Author   string
	Price    string
	ImageURL string
}

// BookPatch is a partial update; nil fields are not changed. An empty Price
// counts as not supplied.
type BookPatch struct {
	Title    *string
	Author   *string
	Price    *string
	ImageURL *string
}

type Books struct {
	Store    BookStore
	Cache    Cache          // optional
	Metadata MetadataLookup // optional
	Log      *zap.Logger
}

const catalogKey = "books:all"

func bookKey(isbn string) string { return "books:isbn:" + isbn }

func (s *Books) List(ctx context.Context) ([]models.Book, error) {
	if s.Cache == nil {
		return s.Store.AllBooks(ctx)
	}
	b, err := s.Cache.GetOrLoad(ctx, catalogKey, func(ctx context.Context) ([]byte, error) {
		books, err := s.Store.AllBooks(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(books)
	})
	if err != nil {
		return nil, err
	}
	books := []models.Book{}
	if err := json.Unmarshal(b, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *Books) Get(ctx context.Context, isbn string) (*models.Book, error) {
	if s.Cache == nil {
		return s.get(ctx, isbn)
	}
	b, err := s.Cache.GetOrLoad(ctx, bookKey(isbn), func(ctx context.Context) ([]byte, error) {
		book, err := s.get(ctx, isbn)
		if err != nil {
			return nil, err
		}
		return json.Marshal(book)
	})
	if err != nil {
		return nil, err
	}
	var book models.Book
	if err := json.Unmarshal(b, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Lookup is Get without the cache.
func (s *Books) Lookup(ctx context.Context, isbn string) (*models.Book, error) {
	return s.get(ctx, isbn)
}

func (s *Books) get(ctx context.Context, isbn string) (*models.Book, error) {
	book, err := s.Store.BookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

func (s *Books) Create(ctx context.Context, in BookInput) (*models.Book, error) {
	isbn := strings.TrimSpace(in.ISBN)
	if isbn == "" {
		return nil, ErrISBNRequired
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	book := &models.Book{
		ISBN:     isbn,
		Title:    strings.TrimSpace(in.Title),
		Author:   strings.TrimSpace(in.Author),
		Price:    models.Amount(price),
		ImageURL: in.ImageURL,
	}
	existing, err := s.Store.BookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrBookExists
	}
	if (book.Title == "" || book.Author == "") && s.Metadata != nil {
		s.fillFromMetadata(ctx, book)
	}
	if book.Title == "" {
		return nil, ErrTitleRequired
	}
	if err := s.Store.InsertBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrBookExists
		}
		return nil, err
	}
	s.invalidate(ctx, isbn)
	return book, nil
}

func (s *Books) fillFromMetadata(ctx context.Context, book *models.Book) {
	meta, err := s.Metadata.Lookup(ctx, book.ISBN)
	if err != nil {
		s.logger().Debug("metadata lookup failed", zap.String("isbn", book.ISBN), zap.Error(err))
		return
	}
	if book.Title == "" {
		book.Title = meta.Title
	}
	if book.Author == "" {
		book.Author = meta.Author
	}
	if book.ImageURL == "" {
		book.ImageURL = meta.CoverURL
	}
}

func (s *Books) Update(ctx context.Context, isbn string, p BookPatch) (*models.Book, error) {
	u := models.BookUpdate{
		Title:    p.Title,
		Author:   p.Author,
		ImageURL: p.ImageURL,
	}
	if p.Price != nil && strings.TrimSpace(*p.Price) != "" {
		price, err := parsePrice(*p.Price)
		if err != nil {
			return nil, err
		}
		u.Price = &price
	}
	matched, err := s.Store.UpdateBook(ctx, isbn, u)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrBookNotFound
	}
	s.invalidate(ctx, isbn)
	return s.get(ctx, isbn)
}

// Delete removes the book and every cart line item that references it.
func (s *Books) Delete(ctx context.Context, isbn string) error {
	deleted, err := s.Store.DeleteBook(ctx, isbn)
	if err != nil {
		return err
	}
	s.invalidate(ctx, isbn)
	if !deleted {
		return ErrBookNotFound
	}
	return nil
}

// EnsureSeed inserts DefaultCatalog when the catalog is empty. It returns
// the number of books inserted.
func (s *Books) EnsureSeed(ctx context.Context) (int, error) {
	n, err := s.Store.CountBooks(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger().Info("books collection already populated, skipping seed", zap.Int64("count", n))
		return 0, nil
	}
	books := DefaultCatalog()
	if err := s.Store.InsertBooks(ctx, books); err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	s.logger().Info("seeded default books", zap.Int("count", len(books)))
	return len(books), nil
}

func (s *Books) invalidate(ctx context.Context, isbns ...string) {
	if s.Cache == nil {
		return
	}
	keys := []string{catalogKey}
	for _, isbn := range isbns {
		keys = append(keys, bookKey(isbn))
	}
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		s.logger().Warn("catalog cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *Books) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}
	return price, nil
}
