package api

import (
	"context"
	"net/http"
)

func (c *Client) Categories(ctx context.Context, token string) (Result[[]Category], error) {
	return send[[]Category](ctx, c, http.MethodGet, "/api/category", token, nil)
}
