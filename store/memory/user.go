package memory

import (
	"context"
	"fmt"

	"github.com/kevinaaaquil/bookstore/models"
	"github.com/kevinaaaquil/bookstore/store"
)

func (s *Store) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) UserByID(_ context.Context, userID int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.userIndex(userID); i >= 0 {
		u := s.users[i]
		return &u, nil
	}
	return nil, nil
}

func (s *Store) NextUserID(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserID > s.userID {
			s.userID = u.UserID
		}
	}
	s.userID++
	return s.userID, nil
}

func (s *Store) InsertUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email %s", store.ErrDuplicate, user.Email)
		}
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *Store) UpdateUserEmail(_ context.Context, userID int, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(userID)
	if i < 0 {
		return false, nil
	}
	for _, u := range s.users {
		if u.Email == email && u.UserID != userID {
			return false, fmt.Errorf("%w: email %s", store.ErrDuplicate, email)
		}
	}
	s.users[i].Email = email
	return true, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, userID int, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(userID)
	if i < 0 {
		return false, nil
	}
	s.users[i].Password = hash
	return true, nil
}

func (s *Store) userIndex(userID int) int {
	for i := range s.users {
		if s.users[i].UserID == userID {
			return i
		}
	}
	return -1
}
