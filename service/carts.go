package service

import (
	"context"
	"fmt"

	"github.com/kevinaaaquil/bookstore/models"
	"github.com/shopspring/decimal"
)

type CartStore interface {
	EnsureCart(ctx context.Context, userID int) (*models.Cart, error)
	CartByUser(ctx context.Context, userID int) (*models.Cart, error)
	IncrementItem(ctx context.Context, userID int, isbn string, delta int) (bool, error)
	PushItem(ctx context.Context, userID int, item models.CartItem) (bool, error)
	SetItemQuantity(ctx context.Context, userID int, isbn string, quantity int) (bool, error)
	PullItem(ctx context.Context, userID int, isbn string) (bool, error)
	ClearCart(ctx context.Context, userID int) error
}

// BookFinder reads a book straight from the store, never from the
// catalog cache, so a deleted book cannot be snapshotted into a cart.
type BookFinder interface {
	Lookup(ctx context.Context, isbn string) (*models.Book, error)
}

// Carts keeps per-user carts in step with the catalog. Every mutation is a
// single targeted update, so concurrent requests never overwrite each
// other's line items.
type Carts struct {
	Store CartStore
	Books BookFinder
}

// Totals is the priced summary of a cart. Subtotal and Total are equal;
// there is no tax or discount.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

const addAttempts = 3

// Get returns the user's cart, creating an empty one on first access.
func (s *Carts) Get(ctx context.Context, userID int) (*models.Cart, error) {
	return s.Store.EnsureCart(ctx, userID)
}

// Add puts quantity copies of isbn in the cart. A repeat add accumulates
// onto the existing line item; a new item snapshots the book's fields.
// imageURL is used only when the book has no image of its own.
func (s *Carts) Add(ctx context.Context, userID int, isbn string, quantity int, imageURL string) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	book, err := s.Books.Lookup(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.EnsureCart(ctx, userID); err != nil {
		return nil, err
	}
	item := models.NewCartItem(book, quantity)
	if item.ImageURL == "" {
		item.ImageURL = imageURL
	}
	for i := 0; i < addAttempts; i++ {
		ok, err := s.Store.IncrementItem(ctx, userID, book.ISBN, quantity)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.Store.EnsureCart(ctx, userID)
		}
		// Push only succeeds while the isbn is absent; if another request
		// pushed it first, go round and increment instead.
		ok, err = s.Store.PushItem(ctx, userID, item)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.Store.EnsureCart(ctx, userID)
		}
	}
	return nil, fmt.Errorf("cart %d: add %s: gave up after %d attempts", userID, isbn, addAttempts)
}

func (s *Carts) UpdateQuantity(ctx context.Context, userID int, isbn string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	ok, err := s.Store.SetItemQuantity(ctx, userID, isbn, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInCart
	}
	return s.Store.EnsureCart(ctx, userID)
}

func (s *Carts) Remove(ctx context.Context, userID int, isbn string) (*models.Cart, error) {
	ok, err := s.Store.PullItem(ctx, userID, isbn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCartNotFound
	}
	return s.Store.EnsureCart(ctx, userID)
}

func (s *Carts) Clear(ctx context.Context, userID int) (*models.Cart, error) {
	if err := s.Store.ClearCart(ctx, userID); err != nil {
		return nil, err
	}
	cart, err := s.Store.CartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Books: []models.CartItem{}}
	}
	return cart, nil
}

func (s *Carts) Total(ctx context.Context, userID int) (Totals, error) {
	cart, err := s.Store.EnsureCart(ctx, userID)
	if err != nil {
		return Totals{}, err
	}
	return CartTotals(cart.Books), nil
}

// CartTotals prices items with decimal arithmetic and rounds the sum to
// cents.
func CartTotals(items []models.CartItem) Totals {
	sum := decimal.Zero
	count := 0
	for _, it := range items {
		price := decimal.NewFromFloat(float64(it.Price))
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += int(it.Quantity)
	}
	total := sum.Round(2).InexactFloat64()
	return Totals{Subtotal: total, Total: total, ItemCount: count}
}
