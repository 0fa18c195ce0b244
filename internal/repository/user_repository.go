package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/docudetect/docu-detect/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserStore keeps registered users keyed by lowercase email.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User)}
}

func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return ErrUserExists
	}
	copied := *user
	s.users[user.Email] = &copied
	return nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}
