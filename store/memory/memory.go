// Package memory is a process-local store with the same semantics as the
// MongoDB store. It backs STORE_DRIVER=memory and the HTTP tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kevinaaaquil/bookstore/models"
	"github.com/kevinaaaquil/bookstore/store"
)

type Store struct {
	mu     sync.Mutex
	books  []models.Book
	users  []models.User
	carts  map[int]*models.Cart
	userID int
}

func New() *Store {
	return &Store{carts: map[int]*models.Cart{}}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) AllBooks(context.Context) ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Book{}, s.books...), nil
}

func (s *Store) BookByISBN(_ context.Context, isbn string) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.bookIndex(isbn); i >= 0 {
		b := s.books[i]
		return &b, nil
	}
	return nil, nil
}

func (s *Store) InsertBook(_ context.Context, book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookIndex(book.ISBN) >= 0 {
		return fmt.Errorf("%w: isbn %s", store.ErrDuplicate, book.ISBN)
	}
	s.books = append(s.books, *book)
	return nil
}

func (s *Store) InsertBooks(ctx context.Context, books []models.Book) error {
	for i := range books {
		if err := s.InsertBook(ctx, &books[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) CountBooks(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.books)), nil
}

func (s *Store) UpdateBook(_ context.Context, isbn string, u models.BookUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.bookIndex(isbn)
	if i < 0 {
		return false, nil
	}
	b := &s.books[i]
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.Price != nil {
		b.Price = models.Amount(*u.Price)
	}
	if u.ImageURL != nil {
		b.ImageURL = *u.ImageURL
	}
	return true, nil
}

func (s *Store) DeleteBook(_ context.Context, isbn string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := false
	if i := s.bookIndex(isbn); i >= 0 {
		s.books = append(s.books[:i], s.books[i+1:]...)
		deleted = true
	}
	for _, c := range s.carts {
		if j := itemIndex(c, isbn); j >= 0 {
			c.Books = append(c.Books[:j], c.Books[j+1:]...)
			c.Version++
		}
	}
	return deleted, nil
}

func (s *Store) bookIndex(isbn string) int {
	for i := range s.books {
		if s.books[i].ISBN == isbn {
			return i
		}
	}
	return -1
}
