package models

import "time"

// Role is a coarse permission tier of a user
type Role string

// Role constants
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a user in the system
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never serialize password hash
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	Role           Role      `json:"role"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// MessageResponse is a response with a single human readable message
type MessageResponse struct {
	Message string `json:"message"`
}

// UpdateProfileRequest represents a partial profile update.
// Only keys present in the JSON body are applied.
type UpdateProfileRequest struct {
	Username       Optional[string] `json:"username" swaggertype:"string"`
	Email          Optional[string] `json:"email" swaggertype:"string"`
	ProfilePicture Optional[string] `json:"profile_picture" swaggertype:"string"`
	Password       Optional[string] `json:"password" swaggertype:"string"`
}
