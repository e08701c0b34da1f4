package dto

import "time"

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MessageResponse is the plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginUser is the identity echoed back on login.
type LoginUser struct {
	Username string `json:"username"`
}

// LoginResponse confirms credentials; no session artifact is issued.
type LoginResponse struct {
	Message string    `json:"message"`
	User    LoginUser `json:"user"`
}

// CreatedResponse confirms creation of a numbered record.
type CreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// UserResponse is the console view of an account. The password hash is never exposed.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
