package store

import (
	"fmt"
	"strings"

	"bistro-backend/internal/models"
)

// CreateUser stores a staff account. Password must already be hashed.
func (s *Store) CreateUser(u models.User) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return models.User{}, fmt.Errorf("user %s: %w", email, ErrDuplicate)
	}
	now := s.now().Unix()
	u.ID = s.newID()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = &u
	s.usersByEmail[email] = &u
	return u, nil
}

func (s *Store) UserByEmail(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return *u, nil
}

func (s *Store) User(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return *u, nil
}
