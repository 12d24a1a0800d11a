package api

import (
	"context"
	"net/http"

	"taskdeck/internal/model"
)

// Signup POST /auth/signup；错误文案原样返回给表单展示
// Signup calls POST /auth/signup. Backend error messages are surfaced
// verbatim for the form to display.
func (c *Client) Signup(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	body := model.AuthRequest{Email: email, Password: password}
	return call[model.AuthResponse](ctx, c, http.MethodPost, "/auth/signup", body)
}

// Signin POST /auth/signin
// Signin calls POST /auth/signin.
func (c *Client) Signin(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	body := model.AuthRequest{Email: email, Password: password}
	return call[model.AuthResponse](ctx, c, http.MethodPost, "/auth/signin", body)
}
