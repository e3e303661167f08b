package dto

import (
	"time"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string         `json:"_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      model.Role     `json:"role"`
	Address   *model.Address `json:"address,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AuthResponse is returned after register and login.
type AuthResponse struct {
	UserResponse
	Token string `json:"token"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ForgotPasswordResponse hides whether the email exists. ResetToken is filled outside production only.
type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

// NewUserResponse maps a user.
func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserList maps users.
func NewUserList(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// Model converts the response back into a user, as seen by API clients.
func (r UserResponse) Model() model.User {
	return model.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      r.Role,
		Address:   r.Address,
		CreatedAt: r.CreatedAt,
	}
}
