package memory

import (
	"context"

	"github.com/kevinaaaquil/bookstore/models"
)

func (s *Store) EnsureCart(_ context.Context, userID int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &models.Cart{UserID: userID, Books: []models.CartItem{}}
		s.carts[userID] = c
	}
	return cloneCart(c), nil
}

func (s *Store) CartByUser(_ context.Context, userID int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	return cloneCart(c), nil
}

func (s *Store) IncrementItem(_ context.Context, userID int, isbn string, delta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return false, nil
	}
	i := itemIndex(c, isbn)
	if i < 0 {
		return false, nil
	}
	c.Books[i].Quantity += models.Count(delta)
	c.Version++
	return true, nil
}

func (s *Store) PushItem(_ context.Context, userID int, item models.CartItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok || itemIndex(c, item.ISBN) >= 0 {
		return false, nil
	}
	c.Books = append(c.Books, item)
	c.Version++
	return true, nil
}

func (s *Store) SetItemQuantity(_ context.Context, userID int, isbn string, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return false, nil
	}
	i := itemIndex(c, isbn)
	if i < 0 {
		return false, nil
	}
	c.Books[i].Quantity = models.Count(quantity)
	c.Version++
	return true, nil
}

func (s *Store) PullItem(_ context.Context, userID int, isbn string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return false, nil
	}
	if i := itemIndex(c, isbn); i >= 0 {
		c.Books = append(c.Books[:i], c.Books[i+1:]...)
	}
	c.Version++
	return true, nil
}

func (s *Store) ClearCart(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		c.Books = []models.CartItem{}
		c.Version++
	}
	return nil
}

func itemIndex(c *models.Cart, isbn string) int {
	for i := range c.Books {
		if c.Books[i].ISBN == isbn {
			return i
		}
	}
	return -1
}

func cloneCart(c *models.Cart) *models.Cart {
	out := *c
	out.Books = append([]models.CartItem{}, c.Books...)
	return &out
}
