package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/asteritime/asteritime/internal/domain/user"
)

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req user.CreateRequest) (*user.User, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	u, err := decode[user.User](data)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and stores the returned access token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*user.LoginResponse, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login",
		user.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	resp, err := decode[user.LoginResponse](data)
	if err != nil {
		return nil, err
	}
	c.token = resp.AccessToken
	return &resp, nil
}

// Logout revokes a refresh token on the server.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refreshToken": refreshToken}
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", body); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh token for a new token pair and stores the new
// access token on the client.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*user.LoginResponse, error) {
	body := map[string]string{"refreshToken": refreshToken}
	data, err := c.doRequest(ctx, http.MethodPost, "/api/auth/refresh", body)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	resp, err := decode[user.LoginResponse](data)
	if err != nil {
		return nil, err
	}
	c.token = resp.AccessToken
	return &resp, nil
}
