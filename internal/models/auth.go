package models

import "encoding/json"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password/:token.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// User is the authenticated account blob returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse is the canonical shape of a successful auth exchange.
type AuthResponse struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// rawAuthResponse accepts the token spellings used across API revisions.
type rawAuthResponse struct {
	AccessToken  string `json:"accessToken"`
	AccessToken2 string `json:"access_token"`
	Token        string `json:"token"`

	RefreshToken  string `json:"refreshToken"`
	RefreshToken2 string `json:"refresh_token"`

	User *User `json:"user"`
}

// UnmarshalJSON normalizes the auth payload at the API boundary.
func (a *AuthResponse) UnmarshalJSON(data []byte) error {
	var raw rawAuthResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.AccessToken = firstNonEmpty(raw.AccessToken, raw.AccessToken2, raw.Token)
	a.RefreshToken = firstNonEmpty(raw.RefreshToken, raw.RefreshToken2)
	a.User = raw.User
	return nil
}
