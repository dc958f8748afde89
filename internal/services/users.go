package services

import (
	"errors"
	"fmt"
	"strings"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type UserService struct {
	store *store.Store
	cost  int
}

func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st, cost: bcrypt.DefaultCost}
}

func (u *UserService) Create(in CreateUserInput) (models.User, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if email == "" || name == "" || in.Password == "" || role == "" {
		return models.User{}, fmt.Errorf("%w: email, password, name, and role are required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return models.User{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if !models.IsValidRole(role) {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}
	if len(in.Password) < minPasswordLength {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return u.store.CreateUser(models.User{
		Email:    email,
		Password: string(hash),
		Name:     name,
		Role:     role,
	})
}

// Authenticate returns the user when the password matches. Unknown emails and
// wrong passwords give the same error.
func (u *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := u.store.UserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserService) Get(id string) (models.User, error) {
	return u.store.User(id)
}

// EnsureAdmin creates the bootstrap admin unless an account with that email exists
func (u *UserService) EnsureAdmin(email, password string) (models.User, bool, error) {
	if existing, err := u.store.UserByEmail(email); err == nil {
		return existing, false, nil
	}
	user, err := u.Create(CreateUserInput{Email: email, Password: password, Name: "Administrator", Role: models.RoleAdmin})
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}
