package rpcapi

import "time"

type PingRequest struct{}

type PingResponse struct {
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse answers Register and Login.
type AuthResponse struct {
	Message   string `json:"message"`
	AuthToken string `json:"auth_token"`
}

type StatusRequest struct{}

// User is the public view of an account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Active       bool      `json:"active"`
	Admin        bool      `json:"admin"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type AddUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddUserResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// UpdateUserRequest changes the flags that are set and leaves nil ones alone.
type UpdateUserRequest struct {
	ID     string `json:"id"`
	Active *bool  `json:"active,omitempty"`
	Admin  *bool  `json:"admin,omitempty"`
}
