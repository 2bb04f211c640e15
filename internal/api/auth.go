package api

import (
	"context"
	"net/http"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// Login exchanges credentials for tokens and persists them through the token
// manager.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	if err := c.tokens.SaveTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account. New accounts start in the pending state
// until an HR role approves them.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword asks the backend to send a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, models.ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword completes a password reset using the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password/"+token, nil, models.ResetPasswordRequest{Password: newPassword}, nil)
}

// RefreshSession exchanges the stored refresh token for a new token pair.
// Called manually after an unauthorized response; the client never refreshes
// behind the caller's back.
func (c *Client) RefreshSession(ctx context.Context) error {
	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		return &APIError{Status: http.StatusUnauthorized, Message: "no refresh token stored"}
	}

	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, models.RefreshRequest{RefreshToken: refresh}, &resp); err != nil {
		return err
	}
	return c.tokens.SaveTokens(resp.AccessToken, resp.RefreshToken)
}
