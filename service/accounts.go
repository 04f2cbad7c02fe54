package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kevinaaaquil/bookstore/models"
	"github.com/kevinaaaquil/bookstore/store"
	"github.com/kevinaaaquil/bookstore/utils"
	"go.uber.org/zap"
)

type UserStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, userID int) (*models.User, error)
	NextUserID(ctx context.Context) (int, error)
	InsertUser(ctx context.Context, user *models.User) error
	UpdateUserEmail(ctx context.Context, userID int, email string) (bool, error)
	UpdateUserPassword(ctx context.Context, userID int, hash string) (bool, error)
}

type Accounts struct {
	Store UserStore
	Log   *zap.Logger
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the credentials and returns the matching user. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Accounts) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !utils.IsHashed(user.Password) {
		s.upgradePassword(ctx, user, password)
	}
	return user, nil
}

// upgradePassword replaces a legacy plaintext password with its hash.
func (s *Accounts) upgradePassword(ctx context.Context, user *models.User, password string) {
	hash, err := utils.HashPassword(password)
	if err == nil {
		_, err = s.Store.UpdateUserPassword(ctx, user.UserID, hash)
	}
	if err != nil {
		s.logger().Warn("password upgrade failed", zap.Int("userId", user.UserID), zap.Error(err))
		return
	}
	user.Password = hash
}

func (s *Accounts) Exists(ctx context.Context, email string) (bool, error) {
	user, err := s.Store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Create registers a guest account under the next free userId.
func (s *Accounts) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.create(ctx, name, email, password, models.TypeGuest)
}

func (s *Accounts) create(ctx context.Context, name, email, password, typ string) (*models.User, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, invalid("Name, email, and password are required")
	}
	exists, err := s.Exists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	id, err := s.Store.NextUserID(ctx)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		UserID:    id,
		Name:      name,
		Email:     email,
		Password:  hash,
		Type:      typ,
		CreatedAt: time.Now(),
	}
	if err := s.Store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	s.logger().Info("account created", zap.Int("userId", id))
	return user, nil
}

func (s *Accounts) Get(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Accounts) UpdateEmail(ctx context.Context, userID int, newEmail string) error {
	email := normalizeEmail(newEmail)
	if email == "" {
		return invalid("Email is required")
	}
	existing, err := s.Store.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.UserID != userID {
		return ErrEmailInUse
	}
	ok, err := s.Store.UpdateUserEmail(ctx, userID, email)
	if errors.Is(err, store.ErrDuplicate) {
		return ErrEmailInUse
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword sets a new password once the current one is confirmed.
func (s *Accounts) UpdatePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	if newPassword == "" {
		return invalid("New password is required")
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, oldPassword) {
		return ErrIncorrectPassword
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	ok, err := s.Store.UpdateUserPassword(ctx, userID, hash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *Accounts) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
