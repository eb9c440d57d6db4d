package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// CartItems returns one page of username's cart. page is zero based.
func (c *Client) CartItems(ctx context.Context, token, username string, page, size int) (Result[Paginated[CartItem]], error) {
	q := url.Values{}
	q.Set("username", username)
	pageQuery(q, page, size)
	return send[Paginated[CartItem]](ctx, c, http.MethodGet, "/api/cartItem?"+q.Encode(), token, nil)
}

func (c *Client) AddCartItem(ctx context.Context, token string, req AddCartItemRequest) (Result[CartItem], error) {
	return send[CartItem](ctx, c, http.MethodPost, "/api/cartItem", token, req)
}

func (c *Client) DeleteCartItem(ctx context.Context, token, id string) (Result[Status], error) {
	return send[Status](ctx, c, http.MethodDelete, "/api/cartItem/"+escape(id), token, nil)
}

func (c *Client) UpdateCartItemQuantity(ctx context.Context, token, id string, quantity int) (Result[CartItem], error) {
	path := "/api/cartItem/" + escape(id) + "/quantity?quantity=" + strconv.Itoa(quantity)
	return send[CartItem](ctx, c, http.MethodPost, path, token, nil)
}
