package models

// Staff roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleKitchen = "kitchen"
	RoleDriver  = "driver"
)

// IsValidRole returns true for roles a staff account can have
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleCashier, RoleKitchen, RoleDriver:
		return true
	}
	return false
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"-"` // bcrypt hash, never returned
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
