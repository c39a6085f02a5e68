package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const refreshPath = "/auth/refresh"

// Login authenticates against the backend and stores the returned token
// pair on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*types.UserProfile, error) {
	var out types.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", types.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	c.tokens.set(out.Tokens.AccessToken, out.Tokens.RefreshToken)
	return &out.User, nil
}

// Register creates an account and, like login, leaves the client holding
// the session tokens.
func (c *Client) Register(ctx context.Context, username, email, password string) (*types.UserProfile, error) {
	var out types.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", types.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	c.tokens.set(out.Tokens.AccessToken, out.Tokens.RefreshToken)
	return &out.User, nil
}

// Logout invalidates the session server-side and drops the local tokens
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.tokens.clear()
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*types.UserProfile, error) {
	var out types.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return &out, nil
}

// callRefresh performs the raw refresh exchange. It goes through do as
// well, but do never recurses into a refresh for the refresh path itself.
func (c *Client) callRefresh(ctx context.Context, refreshToken string) (*types.TokenPair, error) {
	var out types.TokenPair
	err := c.do(ctx, http.MethodPost, refreshPath, types.RefreshRequest{RefreshToken: refreshToken}, &out)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return &out, nil
}
