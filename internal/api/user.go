package api

import (
	"context"
	"net/http"
)

func (c *Client) User(ctx context.Context, token, username string) (Result[User], error) {
	return send[User](ctx, c, http.MethodGet, "/api/user/"+escape(username), token, nil)
}

func (c *Client) UpdateUser(ctx context.Context, token, username string, req UserUpdateRequest) (Result[User], error) {
	return send[User](ctx, c, http.MethodPut, "/api/user/"+escape(username), token, req)
}

func (c *Client) UserPhoto(ctx context.Context, token, username string) ([]byte, string, error) {
	return c.download(ctx, "/api/user/"+escape(username)+"/photo", token)
}

func (c *Client) UploadUserPhoto(ctx context.Context, token, username, filename string, data []byte) (Result[Status], error) {
	return c.upload(ctx, "/api/user/"+escape(username)+"/photo", token, filename, data)
}
