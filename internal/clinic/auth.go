package clinic

import (
	"context"
	"net/http"

	"github.com/fjod/vetcart/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u userDTO) toDomain() *domain.User {
	return &domain.User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  domain.ParseRole(u.Role),
	}
}

// Login authenticates and keeps the returned session cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var user userDTO
	if err := c.do(ctx, http.MethodPost, "auth/login", loginRequest{Email: email, Password: password}, &user); err != nil {
		return nil, err
	}
	return user.toDomain(), nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "auth/logout", nil, nil)
}

// Me returns the user behind the current session cookie.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user userDTO
	if err := c.do(ctx, http.MethodGet, "auth/me", nil, &user); err != nil {
		return nil, err
	}
	return user.toDomain(), nil
}
