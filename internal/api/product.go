package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Products(ctx context.Context, token string) (Result[[]Product], error) {
	return send[[]Product](ctx, c, http.MethodGet, "/api/product", token, nil)
}

func (c *Client) Product(ctx context.Context, token, id string) (Result[Product], error) {
	return send[Product](ctx, c, http.MethodGet, "/api/product/"+escape(id), token, nil)
}

// SellerProducts lists the products owned by username.
func (c *Client) SellerProducts(ctx context.Context, token, username string) (Result[[]Product], error) {
	return send[[]Product](ctx, c, http.MethodGet, "/api/product/seller/"+escape(username), token, nil)
}

// SearchProducts runs a full-text query. page is zero based.
func (c *Client) SearchProducts(ctx context.Context, token, query string, page, size int) (Result[Paginated[Product]], error) {
	q := url.Values{}
	q.Set("query", query)
	pageQuery(q, page, size)
	return send[Paginated[Product]](ctx, c, http.MethodGet, "/api/product/search?"+q.Encode(), token, nil)
}

func (c *Client) CreateProduct(ctx context.Context, token string, req ProductRequest) (Result[Product], error) {
	return send[Product](ctx, c, http.MethodPost, "/api/product", token, req)
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, req ProductRequest) (Result[Product], error) {
	return send[Product](ctx, c, http.MethodPut, "/api/product/"+escape(id), token, req)
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) (Result[Status], error) {
	return send[Status](ctx, c, http.MethodDelete, "/api/product/"+escape(id), token, nil)
}

func (c *Client) ProductPhoto(ctx context.Context, token, id string) ([]byte, string, error) {
	return c.download(ctx, "/api/product/"+escape(id)+"/photo", token)
}

func (c *Client) UploadProductPhoto(ctx context.Context, token, id, filename string, data []byte) (Result[Status], error) {
	return c.upload(ctx, "/api/product/"+escape(id)+"/photo", token, filename, data)
}
