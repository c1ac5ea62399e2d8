package gateway

import (
	"context"
	"net/http"

	"eventbook/internal/models"
)

// Login exchanges credentials for a token and the user record.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.Send(ctx, http.MethodPost, "/api/auth/login", models.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	if err := c.Send(ctx, http.MethodPost, "/api/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
