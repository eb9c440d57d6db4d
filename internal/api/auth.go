package api

import (
	"context"
	"net/http"
)

func (c *Client) Register(ctx context.Context, req RegisterRequest) (Result[Status], error) {
	return send[Status](ctx, c, http.MethodPost, "/api/auth/register", "", req)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (Result[LoginResponse], error) {
	return send[LoginResponse](ctx, c, http.MethodPost, "/api/auth/login", "", req)
}
