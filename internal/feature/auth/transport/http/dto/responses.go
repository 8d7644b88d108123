package dto

import "todo_backend/internal/feature/auth/domain/entity"

// UserRes is the public view of a user. The password digest is never exposed.
type UserRes struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthRes is returned by both signup and login.
type AuthRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

// ErrorRes is the common error body.
type ErrorRes struct {
	Error string `json:"error"`
}

// NewAuthRes builds the response body for an authenticated user.
func NewAuthRes(u *entity.User, token string) AuthRes {
	return AuthRes{
		Token: token,
		User:  UserRes{ID: u.ID, Email: u.Email},
	}
}
