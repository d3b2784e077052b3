package httpapi

import (
	"context"
	"net/http"

	"storefront/internal/domain"
)

// LoginRequest is the credential payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the account creation payload for POST /signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   int    `json:"role_id" validate:"required"`
}

// AuthResponse carries the bearer token and the identity fields cached
// alongside it.
type AuthResponse struct {
	Token  string `json:"token"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
}

// User converts the response's identity fields into a domain record.
func (r *AuthResponse) User() domain.User {
	return domain.User{Name: r.Name, Email: r.Email, RoleID: r.RoleID}
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify checks the currently attached token and returns a fresh identity.
// The backend rotates the token on this call; the rotated value is captured
// through the usual response-header path.
func (c *Client) Verify(ctx context.Context) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodGet, "/verify", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account. The backend sends an activation mail;
// no token is issued until the user logs in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	if err := checkPayload(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/signup", nil, req, nil)
}

// Roles lists the account roles offered on the signup form.
func (c *Client) Roles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	if err := c.do(ctx, http.MethodGet, "/roles", nil, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
