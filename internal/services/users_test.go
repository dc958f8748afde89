package services

import (
	"errors"
	"testing"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) *UserService {
	st, _ := newStore(t)
	u := NewUserService(st)
	u.cost = bcrypt.MinCost
	return u
}

func TestUserCreateAndAuthenticate(t *testing.T) {
	users := newUserService(t)

	created, err := users.Create(CreateUserInput{Email: "Chef@Bistro.Local", Password: "s3cret-pass", Name: "Chef", Role: "Kitchen"})
	if err != nil {
		t.Fatal(err)
	}
	if created.Email != "chef@bistro.local" || created.Role != models.RoleKitchen || created.Password == "s3cret-pass" {
		t.Errorf("unexpected user: %+v", created)
	}

	got, err := users.Authenticate("chef@bistro.local", "s3cret-pass")
	if err != nil || got.ID != created.ID {
		t.Errorf("Authenticate = %+v, %v", got, err)
	}
	if _, err := users.Authenticate("chef@bistro.local", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := users.Authenticate("ghost@bistro.local", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := users.Create(CreateUserInput{Email: "chef@bistro.local", Password: "another-pass", Name: "Chef 2", Role: "kitchen"}); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserCreateValidation(t *testing.T) {
	users := newUserService(t)
	tests := []struct {
		name string
		in   CreateUserInput
	}{
		{"missing name", CreateUserInput{Email: "a@b.c", Password: "long-enough", Role: "cashier"}},
		{"bad email", CreateUserInput{Email: "nobody", Password: "long-enough", Name: "A", Role: "cashier"}},
		{"bad role", CreateUserInput{Email: "a@b.c", Password: "long-enough", Name: "A", Role: "owner"}},
		{"short password", CreateUserInput{Email: "a@b.c", Password: "short", Name: "A", Role: "cashier"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := users.Create(tt.in); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	users := newUserService(t)
	first, created, err := users.EnsureAdmin("admin@bistro.local", "change-me-now")
	if err != nil || !created || first.Role != models.RoleAdmin {
		t.Fatalf("first EnsureAdmin = %+v, %v, %v", first, created, err)
	}
	second, created, err := users.EnsureAdmin("admin@bistro.local", "other-password")
	if err != nil || created || second.ID != first.ID {
		t.Errorf("second EnsureAdmin = %+v, %v, %v", second, created, err)
	}
}
